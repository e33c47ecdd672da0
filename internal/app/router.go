// Package app assembles services, handlers and routes into the HTTP API.
package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"foodtracker/internal/config"
	_ "foodtracker/internal/docs" // swagger docs
	"foodtracker/internal/handlers"
	"foodtracker/internal/metrics"
	"foodtracker/internal/middleware"
	"foodtracker/internal/notifications"
	"foodtracker/internal/openfoodfacts"
	"foodtracker/internal/services"
	"foodtracker/internal/storage"
)

// Dependencies are the collaborators the router is built from. Avatars may
// be nil when object storage is not configured.
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Location *time.Location
	Metrics  *metrics.Collector
	Avatars  storage.Uploader
	Resolver services.CategoryResolver
	OFF      *openfoodfacts.Client
	Trigger  services.NotificationTrigger
	Runner   notifications.Runner
}

// NewRouter wires every service and handler and registers the routes.
func NewRouter(deps Dependencies) *gin.Engine {
	db := deps.DB
	cfg := deps.Config

	// Services
	userService := services.NewUserService(db, deps.Avatars)
	auditService := services.NewAuditService(db)
	pantryService := services.NewPantryService(db, cfg.FrontendURL)
	categoryService := services.NewCategoryService(db)
	financialService := services.NewFinancialService(db)
	progressService := services.NewProgressService(db, deps.Location)
	actionService := services.NewActionService(db, financialService, progressService, deps.Metrics)
	productService := services.NewProductService(db, categoryService, deps.Resolver, deps.Location)
	statisticsService := services.NewStatisticsService(db, deps.Location)
	searcher := services.NewProductSearcher(deps.OFF)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	profileHandler := handlers.NewProfileHandler(userService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	searchHandler := handlers.NewSearchHandler(searcher)
	pantryHandler := handlers.NewPantryHandler(pantryService, auditService)
	productHandler := handlers.NewProductHandler(productService, auditService)
	actionHandler := handlers.NewActionHandler(actionService, auditService)
	achievementHandler := handlers.NewAchievementHandler(progressService)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService, financialService)
	notificationHandler := handlers.NewNotificationHandler(deps.Trigger, deps.Runner, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(deps.Metrics))
	router.Use(middleware.ErrorHandler())
	router.Use(corsMiddleware(cfg.FrontendURL))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Machine-to-machine routes
	internal := v1.Group("/internal")
	internal.Use(middleware.APIKeyMiddleware(cfg.PipelineAPIKey))
	internal.POST("/notifications/run", notificationHandler.RunNow)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", profileHandler.GetProfile)
	protected.PUT("/profile/settings", profileHandler.UpdateSettings)
	protected.POST("/profile/password", profileHandler.ChangePassword)
	protected.DELETE("/profile", profileHandler.DeleteAccount)
	protected.POST("/profile/avatar", profileHandler.UploadAvatar)

	protected.GET("/categories", categoryHandler.GetCategories)
	protected.GET("/external-products/search", searchHandler.SearchProducts)
	protected.POST("/notifications/run-check", notificationHandler.RunCheck)
	protected.POST("/invitations/accept/:token", pantryHandler.AcceptInvitation)

	pantries := protected.Group("/pantries")
	pantries.POST("", pantryHandler.CreatePantry)
	pantries.GET("", pantryHandler.GetPantries)
	pantries.GET("/:id", pantryHandler.GetPantry)
	pantries.PUT("/:id", pantryHandler.RenamePantry)
	pantries.DELETE("/:id", pantryHandler.DeletePantry)
	pantries.POST("/:id/leave", pantryHandler.LeavePantry)
	pantries.DELETE("/:id/members/:memberId", pantryHandler.RemoveMember)
	pantries.POST("/:id/invitations", pantryHandler.CreateInvitation)
	pantries.GET("/:id/achievements", achievementHandler.GetAchievements)

	stats := pantries.Group("/:id/stats")
	stats.GET("", statisticsHandler.GetProductCounts)
	stats.GET("/financial", statisticsHandler.GetFinancial)
	stats.GET("/trends", statisticsHandler.GetTrends)
	stats.GET("/categories", statisticsHandler.GetCategories)
	stats.GET("/most-wasted", statisticsHandler.GetMostWasted)

	products := pantries.Group("/:id/products")
	products.POST("", productHandler.CreateProduct)
	products.GET("", productHandler.GetProducts)
	products.GET("/expiring-soon", productHandler.GetExpiringSoon)
	products.GET("/calendar", productHandler.GetCalendar)
	products.GET("/:productId", productHandler.GetProduct)
	products.PUT("/:productId", productHandler.UpdateProduct)
	products.DELETE("/:productId", productHandler.DeleteProduct)
	products.POST("/:productId/use", actionHandler.Use)
	products.POST("/:productId/waste", actionHandler.Waste)

	return router
}

// corsMiddleware allows the frontend origin to call the API.
func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.APIKeyHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
