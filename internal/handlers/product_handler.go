package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/pagination"
	"foodtracker/internal/services"
)

// ProductHandler handles product bookkeeping within a pantry.
type ProductHandler struct {
	productService services.ProductServicer
	auditService   services.AuditServicer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService services.ProductServicer, auditService services.AuditServicer) *ProductHandler {
	return &ProductHandler{productService: productService, auditService: auditService}
}

// CreateProductRequest represents the payload for adding a product
type CreateProductRequest struct {
	Name           string          `json:"name" binding:"required,max=255"`
	ExternalID     string          `json:"external_id" binding:"max=64"`
	CategoryID     *string         `json:"category_id" binding:"omitempty,uuid"`
	ExpirationDate *string         `json:"expiration_date" binding:"omitempty,date_only"`
	IsFreshProduct bool            `json:"is_fresh_product"`
	PurchaseDate   *string         `json:"purchase_date" binding:"omitempty,date_only"`
	ShelfLifeDays  *int            `json:"shelf_life_days" binding:"omitempty,min=1,max=365"`
	Price          decimal.Decimal `json:"price"`
	Unit           string          `json:"unit" binding:"required,product_unit"`
	InitialAmount  decimal.Decimal `json:"initial_amount"`
}

// UpdateProductRequest represents the payload for editing a product
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,max=255"`
	ExpirationDate *string          `json:"expiration_date" binding:"omitempty,date_only"`
	Price          *decimal.Decimal `json:"price"`
	Unit           *string          `json:"unit" binding:"omitempty,product_unit"`
	CategoryID     *string          `json:"category_id" binding:"omitempty,uuid"`
	InitialAmount  *decimal.Decimal `json:"initial_amount"`
	CurrentAmount  *decimal.Decimal `json:"current_amount"`
}

// pantryAndProduct reads the pantry and product path IDs.
func pantryAndProduct(c *gin.Context) (string, string, error) {
	pantryID, err := parsePathID(c, "id")
	if err != nil {
		return "", "", err
	}
	productID, err := parsePathID(c, "productId")
	if err != nil {
		return "", "", err
	}
	return pantryID, productID, nil
}

// CreateProduct adds a product to a pantry
// @Summary     Add a product
// @Description Add a product. Fresh products get their expiration date from purchase date and shelf life.
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Pantry ID"
// @Param       request body CreateProductRequest true "Product details"
// @Success     201 {object} models.Product "Product created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Pantry or category not found"
// @Failure     422 {object} ErrorResponse "Missing or past expiration date"
// @Router      /pantries/{id}/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	pantryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expiration, err := parseOptionalDate("expiration_date", req.ExpirationDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	purchase, err := parseOptionalDate("purchase_date", req.PurchaseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), userID, pantryID, services.ProductInput{
		Name:           req.Name,
		ExternalID:     req.ExternalID,
		CategoryID:     req.CategoryID,
		ExpirationDate: expiration,
		IsFreshProduct: req.IsFreshProduct,
		PurchaseDate:   purchase,
		ShelfLifeDays:  req.ShelfLifeDays,
		Price:          req.Price,
		Unit:           req.Unit,
		InitialAmount:  req.InitialAmount,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PRODUCT", "product", product.ID, c.ClientIP(),
		map[string]interface{}{"pantry_id": pantryID, "name": product.Name, "initial_amount": product.InitialAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// GetProducts lists a pantry's products
// @Summary     List products
// @Description Get a paginated list of a pantry's products ordered by expiration date
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  string true  "Pantry ID"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       active      query bool   false "Only products with something left"
// @Param       category_id query string false "Filter by category ID"
// @Success     200 {object} pagination.PageResponse[models.Product] "Paginated products"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/products [get]
func (h *ProductHandler) GetProducts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	pantryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.ProductFilter{ActiveOnly: c.Query("active") == "true"}
	if v := c.Query("category_id"); v != "" {
		filter.CategoryID = &v
	}

	result, err := h.productService.GetPantryProducts(userID, pantryID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct returns one product
// @Summary     Get product
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Pantry ID"
// @Param       productId path string true "Product ID"
// @Success     200 {object} models.Product "Product"
// @Failure     404 {object} ErrorResponse "Pantry or product not found"
// @Router      /pantries/{id}/products/{productId} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	pantryID, productID, err := pantryAndProduct(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.GetProduct(userID, pantryID, productID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// UpdateProduct edits a product
// @Summary     Update product
// @Description Edit a product. The current amount can only grow together with the initial amount.
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string               true "Pantry ID"
// @Param       productId path string               true "Product ID"
// @Param       request   body UpdateProductRequest true "Changed fields"
// @Success     200 {object} models.Product "Updated product"
// @Failure     400 {object} ErrorResponse "Invalid input or amount adjustment"
// @Failure     404 {object} ErrorResponse "Pantry or product not found"
// @Router      /pantries/{id}/products/{productId} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	pantryID, productID, err := pantryAndProduct(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expiration, err := parseOptionalDate("expiration_date", req.ExpirationDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(userID, pantryID, productID, services.ProductUpdate{
		Name:           req.Name,
		ExpirationDate: expiration,
		Price:          req.Price,
		Unit:           req.Unit,
		CategoryID:     req.CategoryID,
		InitialAmount:  req.InitialAmount,
		CurrentAmount:  req.CurrentAmount,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PRODUCT", "product", productID, c.ClientIP(),
		map[string]interface{}{"pantry_id": pantryID})

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product
// @Summary     Delete product
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Pantry ID"
// @Param       productId path string true "Product ID"
// @Success     200 {object} MessageResponse "Product deleted"
// @Failure     404 {object} ErrorResponse "Pantry or product not found"
// @Router      /pantries/{id}/products/{productId} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	pantryID, productID, err := pantryAndProduct(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.productService.DeleteProduct(userID, pantryID, productID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PRODUCT", "product", productID, c.ClientIP(),
		map[string]interface{}{"pantry_id": pantryID})

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GetExpiringSoon lists products close to their expiration date
// @Summary     Expiring products
// @Description Products with something left that expire within the given number of days
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Pantry ID"
// @Param       days query int    false "Look-ahead in days (default 7)"
// @Success     200 {array} services.ExpiringProduct "Expiring products"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/products/expiring-soon [get]
func (h *ProductHandler) GetExpiringSoon(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	pantryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	days, err := queryInt(c, "days")
	if err != nil {
		respondWithError(c, err)
		return
	}

	products, err := h.productService.GetExpiringSoon(userID, pantryID, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetCalendar lists products by expiration date
// @Summary     Expiration calendar
// @Description Products expiring on the given date, or all products ordered by expiration date
// @Tags        products
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Pantry ID"
// @Param       date query string false "Date (YYYY-MM-DD)"
// @Success     200 {array} models.Product "Products"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/products/calendar [get]
func (h *ProductHandler) GetCalendar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	pantryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	raw := c.Query("date")
	date, err := parseOptionalDate("date", &raw)
	if err != nil {
		respondWithError(c, err)
		return
	}

	products, err := h.productService.GetByExpirationDate(userID, pantryID, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}
