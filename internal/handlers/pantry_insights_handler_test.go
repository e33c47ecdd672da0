package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"foodtracker/internal/achievements"
	"foodtracker/internal/catalog"
	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/models"
	"foodtracker/internal/notifications"
	"foodtracker/internal/openfoodfacts"
	"foodtracker/internal/services"
	"foodtracker/internal/statistics"
)

// --- mocks ---

type mockCategoryService struct {
	getCategoriesFn func() ([]models.Category, error)
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func (m *mockCategoryService) SeedCategories([]catalog.Entry) error { return nil }

func (m *mockCategoryService) GetCategories() ([]models.Category, error) {
	if m.getCategoriesFn != nil {
		return m.getCategoriesFn()
	}
	return []models.Category{}, nil
}

func (m *mockCategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return &models.Category{Base: models.Base{ID: id}}, nil
}

func (m *mockCategoryService) GetCategoryByName(name string) (*models.Category, error) {
	return &models.Category{Name: name}, nil
}

type mockProgressService struct {
	achievementsFn func(userID, pantryID string) ([]achievements.Status, error)
}

var _ services.ProgressServicer = (*mockProgressService)(nil)

func (m *mockProgressService) Progress(_, _ string) (achievements.Progress, error) {
	return achievements.Progress{}, nil
}

func (m *mockProgressService) Achievements(userID, pantryID string) ([]achievements.Status, error) {
	if m.achievementsFn != nil {
		return m.achievementsFn(userID, pantryID)
	}
	return []achievements.Status{}, nil
}

func (m *mockProgressService) AchievementsWithin(_ *gorm.DB, userID, pantryID string) ([]achievements.Status, error) {
	return m.Achievements(userID, pantryID)
}

type mockStatisticsService struct {
	countsFn     func(userID, pantryID string) (*statistics.ProductCounts, error)
	breakdownFn  func(userID, pantryID string) ([]statistics.CategoryWaste, error)
	mostWastedFn func(userID, pantryID string, limit int) ([]statistics.WastedProduct, error)
	trendFn      func(userID, pantryID string, days int) ([]statistics.TrendPoint, error)
}

var _ services.StatisticsServicer = (*mockStatisticsService)(nil)

func (m *mockStatisticsService) GetProductCounts(userID, pantryID string) (*statistics.ProductCounts, error) {
	if m.countsFn != nil {
		return m.countsFn(userID, pantryID)
	}
	return &statistics.ProductCounts{}, nil
}

func (m *mockStatisticsService) GetCategoryBreakdown(userID, pantryID string) ([]statistics.CategoryWaste, error) {
	if m.breakdownFn != nil {
		return m.breakdownFn(userID, pantryID)
	}
	return []statistics.CategoryWaste{}, nil
}

func (m *mockStatisticsService) GetMostWasted(userID, pantryID string, limit int) ([]statistics.WastedProduct, error) {
	if m.mostWastedFn != nil {
		return m.mostWastedFn(userID, pantryID, limit)
	}
	return []statistics.WastedProduct{}, nil
}

func (m *mockStatisticsService) GetAdditionTrend(userID, pantryID string, days int) ([]statistics.TrendPoint, error) {
	if m.trendFn != nil {
		return m.trendFn(userID, pantryID, days)
	}
	return []statistics.TrendPoint{}, nil
}

type mockFinancialService struct {
	getSummaryFn func(userID, pantryID string) (*services.FinancialSummary, error)
}

var _ services.FinancialServicer = (*mockFinancialService)(nil)

func (m *mockFinancialService) GetOrCreate(*gorm.DB, string) (*models.FinancialLedger, error) {
	return &models.FinancialLedger{}, nil
}

func (m *mockFinancialService) Record(*gorm.DB, string, services.ActionKind, decimal.Decimal) (*models.FinancialLedger, error) {
	return &models.FinancialLedger{}, nil
}

func (m *mockFinancialService) GetSummary(userID, pantryID string) (*services.FinancialSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID, pantryID)
	}
	return &services.FinancialSummary{}, nil
}

type mockSearcher struct {
	searchFn func(ctx context.Context, query string) ([]openfoodfacts.SearchResult, error)
}

func (m *mockSearcher) SearchProducts(ctx context.Context, query string) ([]openfoodfacts.SearchResult, error) {
	return m.searchFn(ctx, query)
}

type mockTrigger struct{ calls int }

func (m *mockTrigger) Trigger() { m.calls++ }

type mockRunner struct {
	result notifications.RunResult
	err    error
}

func (m *mockRunner) Run(context.Context) (notifications.RunResult, error) { return m.result, m.err }

func setupInsightsRouter(stats *StatisticsHandler, achievementsH *AchievementHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/pantries/:id", injectUserID(testUserID))
	g.GET("/achievements", achievementsH.GetAchievements)
	g.GET("/stats", stats.GetProductCounts)
	g.GET("/stats/financial", stats.GetFinancial)
	g.GET("/stats/trends", stats.GetTrends)
	g.GET("/stats/categories", stats.GetCategories)
	g.GET("/stats/most-wasted", stats.GetMostWasted)
	return r
}

func pantryPath(suffix string) string {
	return "/pantries/" + testPantryID + suffix
}

// --- tests ---

func TestCategoryHandler_GetCategories(t *testing.T) {
	t.Run("returns 200 with categories", func(t *testing.T) {
		svc := &mockCategoryService{
			getCategoriesFn: func() ([]models.Category, error) {
				return []models.Category{{Name: "Nabiał", IconName: "milk"}, {Name: "Owoce", IconName: "apple"}}, nil
			},
		}
		r := gin.New()
		r.GET("/categories", NewCategoryHandler(svc).GetCategories)

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if cats := parseJSON(t, rec)["categories"].([]interface{}); len(cats) != 2 {
			t.Errorf("expected 2 categories, got %d", len(cats))
		}
	})

	t.Run("returns 500 on unexpected error", func(t *testing.T) {
		svc := &mockCategoryService{
			getCategoriesFn: func() ([]models.Category, error) { return nil, fmt.Errorf("boom") },
		}
		r := gin.New()
		r.GET("/categories", NewCategoryHandler(svc).GetCategories)

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}

func TestAchievementHandler_GetAchievements(t *testing.T) {
	progress := &mockProgressService{
		achievementsFn: func(_, pantryID string) ([]achievements.Status, error) {
			if pantryID != testPantryID {
				return nil, apperrors.ErrPantryNotFound
			}
			return []achievements.Status{
				{ID: "saved_1", Achieved: true, CurrentProgress: 2, TotalProgress: 1},
				{ID: "saved_10", Achieved: false, CurrentProgress: 2, TotalProgress: 10},
			}, nil
		},
	}
	r := setupInsightsRouter(NewStatisticsHandler(&mockStatisticsService{}, &mockFinancialService{}), NewAchievementHandler(progress))

	rec := doRequest(r, "GET", pantryPath("/achievements"), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	list := parseJSON(t, rec)["achievements"].([]interface{})
	if len(list) != 2 {
		t.Fatalf("expected 2 achievements, got %d", len(list))
	}
	first := list[0].(map[string]interface{})
	if first["achieved"] != true || first["total_progress"] != float64(1) {
		t.Errorf("unexpected first achievement %v", first)
	}
}

func TestStatisticsHandler(t *testing.T) {
	t.Run("counts", func(t *testing.T) {
		stats := &mockStatisticsService{
			countsFn: func(_, _ string) (*statistics.ProductCounts, error) {
				return &statistics.ProductCounts{Total: 9, Used: 1, Wasted: 1, Active: 2}, nil
			},
		}
		r := setupInsightsRouter(NewStatisticsHandler(stats, &mockFinancialService{}), NewAchievementHandler(&mockProgressService{}))

		rec := doRequest(r, "GET", pantryPath("/stats"), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if total := parseJSON(t, rec)["total"]; total != float64(9) {
			t.Errorf("expected total 9, got %v", total)
		}
	})

	t.Run("financial", func(t *testing.T) {
		fin := &mockFinancialService{
			getSummaryFn: func(_, _ string) (*services.FinancialSummary, error) {
				return &services.FinancialSummary{Saved: decimal.RequireFromString("4.00"), Wasted: decimal.RequireFromString("6.00")}, nil
			},
		}
		r := setupInsightsRouter(NewStatisticsHandler(&mockStatisticsService{}, fin), NewAchievementHandler(&mockProgressService{}))

		rec := doRequest(r, "GET", pantryPath("/stats/financial"), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["saved"] != "4" || result["wasted"] != "6" {
			t.Errorf("unexpected summary %v", result)
		}
	})

	t.Run("trends passes range_days", func(t *testing.T) {
		var gotDays int
		stats := &mockStatisticsService{
			trendFn: func(_, _ string, days int) ([]statistics.TrendPoint, error) {
				gotDays = days
				return []statistics.TrendPoint{}, nil
			},
		}
		r := setupInsightsRouter(NewStatisticsHandler(stats, &mockFinancialService{}), NewAchievementHandler(&mockProgressService{}))

		rec := doRequest(r, "GET", pantryPath("/stats/trends?range_days=7"), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotDays != 7 {
			t.Errorf("expected 7 days, got %d", gotDays)
		}
	})

	t.Run("most-wasted defaults limit to zero", func(t *testing.T) {
		gotLimit := -1
		stats := &mockStatisticsService{
			mostWastedFn: func(_, _ string, limit int) ([]statistics.WastedProduct, error) {
				gotLimit = limit
				return []statistics.WastedProduct{}, nil
			},
		}
		r := setupInsightsRouter(NewStatisticsHandler(stats, &mockFinancialService{}), NewAchievementHandler(&mockProgressService{}))

		rec := doRequest(r, "GET", pantryPath("/stats/most-wasted"), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotLimit != 0 {
			t.Errorf("expected limit 0 so the service applies its default, got %d", gotLimit)
		}
	})

	t.Run("most-wasted rejects non-numeric limit", func(t *testing.T) {
		r := setupInsightsRouter(NewStatisticsHandler(&mockStatisticsService{}, &mockFinancialService{}), NewAchievementHandler(&mockProgressService{}))

		rec := doRequest(r, "GET", pantryPath("/stats/most-wasted?limit=many"), "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("categories returns 404 for non-members", func(t *testing.T) {
		stats := &mockStatisticsService{
			breakdownFn: func(_, _ string) ([]statistics.CategoryWaste, error) { return nil, apperrors.ErrPantryNotFound },
		}
		r := setupInsightsRouter(NewStatisticsHandler(stats, &mockFinancialService{}), NewAchievementHandler(&mockProgressService{}))

		rec := doRequest(r, "GET", pantryPath("/stats/categories"), "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSearchHandler_SearchProducts(t *testing.T) {
	t.Run("returns results", func(t *testing.T) {
		searcher := &mockSearcher{
			searchFn: func(_ context.Context, q string) ([]openfoodfacts.SearchResult, error) {
				return []openfoodfacts.SearchResult{{ID: "590", Name: q, Description: "Łaciate"}}, nil
			},
		}
		r := gin.New()
		r.GET("/external-products/search", NewSearchHandler(searcher).SearchProducts)

		rec := doRequest(r, "GET", "/external-products/search?q=mleko", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		products := parseJSON(t, rec)["products"].([]interface{})
		if len(products) != 1 || products[0].(map[string]interface{})["name"] != "mleko" {
			t.Errorf("unexpected products %v", products)
		}
	})

	t.Run("maps upstream errors", func(t *testing.T) {
		searcher := &mockSearcher{
			searchFn: func(context.Context, string) ([]openfoodfacts.SearchResult, error) {
				return nil, apperrors.ErrExternalUnavailable
			},
		}
		r := gin.New()
		r.GET("/external-products/search", NewSearchHandler(searcher).SearchProducts)

		rec := doRequest(r, "GET", "/external-products/search?q=mleko", "")

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}

func TestNotificationHandler(t *testing.T) {
	t.Run("run-check triggers asynchronously", func(t *testing.T) {
		trigger := &mockTrigger{}
		audit := &mockAuditService{}
		h := NewNotificationHandler(trigger, &mockRunner{}, audit)
		r := gin.New()
		r.POST("/notifications/run-check", injectUserID(testUserID), h.RunCheck)

		rec := doRequest(r, "POST", "/notifications/run-check", "")

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", rec.Code)
		}
		if trigger.calls != 1 {
			t.Errorf("expected 1 trigger, got %d", trigger.calls)
		}
		if msg := parseJSON(t, rec)["message"]; msg != "Expiration check task triggered." {
			t.Errorf("unexpected message %v", msg)
		}
	})

	t.Run("internal run returns counts", func(t *testing.T) {
		runner := &mockRunner{result: notifications.RunResult{Recipients: 3, Sent: 2, Failed: 1}}
		h := NewNotificationHandler(&mockTrigger{}, runner, &mockAuditService{})
		r := gin.New()
		r.POST("/internal/notifications/run", h.RunNow)

		rec := doRequest(r, "POST", "/internal/notifications/run", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["sent"] != float64(2) || result["failed"] != float64(1) {
			t.Errorf("unexpected result %v", result)
		}
	})

	t.Run("internal run returns 500 on failure", func(t *testing.T) {
		h := NewNotificationHandler(&mockTrigger{}, &mockRunner{err: fmt.Errorf("db down")}, &mockAuditService{})
		r := gin.New()
		r.POST("/internal/notifications/run", h.RunNow)

		rec := doRequest(r, "POST", "/internal/notifications/run", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
