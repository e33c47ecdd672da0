package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"foodtracker/internal/achievements"
	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/models"
	"foodtracker/internal/pagination"
	"foodtracker/internal/services"
)

// --- mock product and action services ---

type mockProductService struct {
	createProductFn       func(ctx context.Context, userID, pantryID string, in services.ProductInput) (*models.Product, error)
	getPantryProductsFn   func(userID, pantryID string, filter services.ProductFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Product], error)
	getProductFn          func(userID, pantryID, productID string) (*models.Product, error)
	updateProductFn       func(userID, pantryID, productID string, in services.ProductUpdate) (*models.Product, error)
	deleteProductFn       func(userID, pantryID, productID string) error
	getExpiringSoonFn     func(userID, pantryID string, days int) ([]services.ExpiringProduct, error)
	getByExpirationDateFn func(userID, pantryID string, date *time.Time) ([]models.Product, error)
}

var _ services.ProductServicer = (*mockProductService)(nil)

func (m *mockProductService) CreateProduct(ctx context.Context, userID, pantryID string, in services.ProductInput) (*models.Product, error) {
	if m.createProductFn != nil {
		return m.createProductFn(ctx, userID, pantryID, in)
	}
	return &models.Product{Base: models.Base{ID: testProductID}, PantryID: pantryID, Name: in.Name}, nil
}

func (m *mockProductService) GetPantryProducts(userID, pantryID string, filter services.ProductFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Product], error) {
	if m.getPantryProductsFn != nil {
		return m.getPantryProductsFn(userID, pantryID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Product{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockProductService) GetProduct(userID, pantryID, productID string) (*models.Product, error) {
	if m.getProductFn != nil {
		return m.getProductFn(userID, pantryID, productID)
	}
	return &models.Product{Base: models.Base{ID: productID}}, nil
}

func (m *mockProductService) UpdateProduct(userID, pantryID, productID string, in services.ProductUpdate) (*models.Product, error) {
	if m.updateProductFn != nil {
		return m.updateProductFn(userID, pantryID, productID, in)
	}
	return &models.Product{Base: models.Base{ID: productID}}, nil
}

func (m *mockProductService) DeleteProduct(userID, pantryID, productID string) error {
	if m.deleteProductFn != nil {
		return m.deleteProductFn(userID, pantryID, productID)
	}
	return nil
}

func (m *mockProductService) GetExpiringSoon(userID, pantryID string, days int) ([]services.ExpiringProduct, error) {
	if m.getExpiringSoonFn != nil {
		return m.getExpiringSoonFn(userID, pantryID, days)
	}
	return []services.ExpiringProduct{}, nil
}

func (m *mockProductService) GetByExpirationDate(userID, pantryID string, date *time.Time) ([]models.Product, error) {
	if m.getByExpirationDateFn != nil {
		return m.getByExpirationDateFn(userID, pantryID, date)
	}
	return []models.Product{}, nil
}

type mockActionService struct {
	useFn   func(userID, pantryID, productID string, amount decimal.Decimal) (*services.ActionResult, error)
	wasteFn func(userID, pantryID, productID string, amount decimal.Decimal) (*services.ActionResult, error)
}

var _ services.ActionServicer = (*mockActionService)(nil)

func (m *mockActionService) Use(userID, pantryID, productID string, amount decimal.Decimal) (*services.ActionResult, error) {
	if m.useFn != nil {
		return m.useFn(userID, pantryID, productID, amount)
	}
	return &services.ActionResult{Product: &models.Product{}, UnlockedAchievements: []achievements.Status{}}, nil
}

func (m *mockActionService) Waste(userID, pantryID, productID string, amount decimal.Decimal) (*services.ActionResult, error) {
	if m.wasteFn != nil {
		return m.wasteFn(userID, pantryID, productID, amount)
	}
	return &services.ActionResult{Product: &models.Product{}, UnlockedAchievements: []achievements.Status{}}, nil
}

func setupProductRouter(products *ProductHandler, actions *ActionHandler) *gin.Engine {
	r := gin.New()
	g := r.Group("/pantries/:id/products", injectUserID(testUserID))
	g.POST("", products.CreateProduct)
	g.GET("", products.GetProducts)
	g.GET("/expiring-soon", products.GetExpiringSoon)
	g.GET("/calendar", products.GetCalendar)
	g.GET("/:productId", products.GetProduct)
	g.PUT("/:productId", products.UpdateProduct)
	g.DELETE("/:productId", products.DeleteProduct)
	g.POST("/:productId/use", actions.Use)
	g.POST("/:productId/waste", actions.Waste)
	return r
}

func productsPath(suffix string) string {
	return "/pantries/" + testPantryID + "/products" + suffix
}

// --- tests ---

func TestProductHandler_CreateProduct(t *testing.T) {
	t.Run("returns 201 and maps the payload", func(t *testing.T) {
		var got services.ProductInput
		svc := &mockProductService{
			createProductFn: func(_ context.Context, _, pantryID string, in services.ProductInput) (*models.Product, error) {
				got = in
				return &models.Product{Base: models.Base{ID: testProductID}, PantryID: pantryID, Name: in.Name}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupProductRouter(NewProductHandler(svc, audit), NewActionHandler(&mockActionService{}, audit))

		rec := doRequest(r, "POST", productsPath(""),
			`{"name":"Mleko","expiration_date":"2026-06-01","price":"4.99","unit":"l","initial_amount":"2"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.ExpirationDate == nil || got.ExpirationDate.Format(time.DateOnly) != "2026-06-01" {
			t.Errorf("unexpected expiration date %v", got.ExpirationDate)
		}
		if !got.Price.Equal(decimal.RequireFromString("4.99")) || !got.InitialAmount.Equal(decimal.NewFromInt(2)) {
			t.Errorf("unexpected price/amount %s/%s", got.Price, got.InitialAmount)
		}
		if got.Unit != "l" || got.IsFreshProduct {
			t.Errorf("unexpected unit/fresh %q/%v", got.Unit, got.IsFreshProduct)
		}
		if a := audit.actions(); len(a) != 1 || a[0] != "CREATE_PRODUCT" {
			t.Errorf("expected CREATE_PRODUCT audit entry, got %v", a)
		}
	})

	t.Run("passes fresh product fields", func(t *testing.T) {
		var got services.ProductInput
		svc := &mockProductService{
			createProductFn: func(_ context.Context, _, _ string, in services.ProductInput) (*models.Product, error) {
				got = in
				return &models.Product{}, nil
			},
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", productsPath(""),
			`{"name":"Chleb","is_fresh_product":true,"purchase_date":"2026-05-20","shelf_life_days":3,"price":6,"unit":"szt.","initial_amount":1}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.IsFreshProduct || got.PurchaseDate == nil || got.ShelfLifeDays == nil || *got.ShelfLifeDays != 3 {
			t.Errorf("unexpected fresh product input %+v", got)
		}
		if got.ExpirationDate != nil {
			t.Error("expected no explicit expiration date")
		}
	})

	t.Run("returns 400 on unknown unit", func(t *testing.T) {
		r := setupProductRouter(NewProductHandler(&mockProductService{}, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", productsPath(""),
			`{"name":"Mleko","expiration_date":"2026-06-01","price":"4.99","unit":"oz","initial_amount":"2"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		r := setupProductRouter(NewProductHandler(&mockProductService{}, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", productsPath(""),
			`{"name":"Mleko","expiration_date":"01.06.2026","price":"4.99","unit":"l","initial_amount":"2"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 422 on past expiration date", func(t *testing.T) {
		svc := &mockProductService{
			createProductFn: func(context.Context, string, string, services.ProductInput) (*models.Product, error) {
				return nil, apperrors.ErrInvalidExpiration
			},
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", productsPath(""),
			`{"name":"Mleko","expiration_date":"2020-01-01","price":"4.99","unit":"l","initial_amount":"2"}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_EXPIRATION")
	})
}

func TestProductHandler_GetProducts(t *testing.T) {
	t.Run("passes filters and page", func(t *testing.T) {
		var gotFilter services.ProductFilter
		var gotPage pagination.PageRequest
		svc := &mockProductService{
			getPantryProductsFn: func(_, _ string, filter services.ProductFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Product], error) {
				gotFilter, gotPage = filter, page
				resp := pagination.NewPageResponse([]models.Product{{Name: "Mleko"}}, page.Page, page.PageSize, 1)
				return &resp, nil
			},
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", productsPath("?page=2&page_size=5&active=true&category_id=abc"), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotFilter.ActiveOnly || gotFilter.CategoryID == nil || *gotFilter.CategoryID != "abc" {
			t.Errorf("unexpected filter %+v", gotFilter)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		if data := parseJSON(t, rec)["data"].([]interface{}); len(data) != 1 {
			t.Errorf("expected 1 product, got %d", len(data))
		}
	})

	t.Run("returns 400 on invalid page size", func(t *testing.T) {
		r := setupProductRouter(NewProductHandler(&mockProductService{}, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", productsPath("?page_size=1000"), "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProductHandler_GetUpdateDelete(t *testing.T) {
	t.Run("get returns 404 for unknown product", func(t *testing.T) {
		svc := &mockProductService{
			getProductFn: func(_, _, _ string) (*models.Product, error) { return nil, apperrors.ErrProductNotFound },
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", productsPath("/"+testProductID), "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PRODUCT_NOT_FOUND")
	})

	t.Run("update passes only provided fields", func(t *testing.T) {
		var got services.ProductUpdate
		svc := &mockProductService{
			updateProductFn: func(_, _, _ string, in services.ProductUpdate) (*models.Product, error) {
				got = in
				return &models.Product{}, nil
			},
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", productsPath("/"+testProductID), `{"name":"Kefir","initial_amount":"3"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name == nil || *got.Name != "Kefir" {
			t.Errorf("unexpected name %v", got.Name)
		}
		if got.InitialAmount == nil || !got.InitialAmount.Equal(decimal.NewFromInt(3)) {
			t.Errorf("unexpected initial amount %v", got.InitialAmount)
		}
		if got.Price != nil || got.CurrentAmount != nil || got.ExpirationDate != nil {
			t.Error("expected untouched fields to stay nil")
		}
	})

	t.Run("update maps the adjustment error", func(t *testing.T) {
		svc := &mockProductService{
			updateProductFn: func(_, _, _ string, _ services.ProductUpdate) (*models.Product, error) {
				return nil, apperrors.ErrInvalidAmountAdjustment
			},
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", productsPath("/"+testProductID), `{"initial_amount":"1"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_AMOUNT_ADJUSTMENT")
	})

	t.Run("delete returns 200", func(t *testing.T) {
		var deleted string
		svc := &mockProductService{
			deleteProductFn: func(_, _, productID string) error {
				deleted = productID
				return nil
			},
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", productsPath("/"+testProductID), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != testProductID {
			t.Errorf("expected %s deleted, got %q", testProductID, deleted)
		}
	})
}

func TestProductHandler_ExpiringAndCalendar(t *testing.T) {
	t.Run("expiring-soon passes days", func(t *testing.T) {
		var gotDays int
		svc := &mockProductService{
			getExpiringSoonFn: func(_, _ string, days int) ([]services.ExpiringProduct, error) {
				gotDays = days
				return []services.ExpiringProduct{{Name: "Jogurt", DaysLeft: 1}}, nil
			},
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", productsPath("/expiring-soon?days=14"), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDays != 14 {
			t.Errorf("expected 14 days, got %d", gotDays)
		}
		if products := parseJSON(t, rec)["products"].([]interface{}); len(products) != 1 {
			t.Errorf("expected 1 product, got %d", len(products))
		}
	})

	t.Run("expiring-soon rejects negative days", func(t *testing.T) {
		r := setupProductRouter(NewProductHandler(&mockProductService{}, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", productsPath("/expiring-soon?days=-1"), "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("calendar parses the date", func(t *testing.T) {
		var gotDate *time.Time
		svc := &mockProductService{
			getByExpirationDateFn: func(_, _ string, date *time.Time) ([]models.Product, error) {
				gotDate = date
				return []models.Product{}, nil
			},
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", productsPath("/calendar?date=2026-05-21"), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotDate == nil || gotDate.Format(time.DateOnly) != "2026-05-21" {
			t.Errorf("unexpected date %v", gotDate)
		}
	})

	t.Run("calendar without date lists everything", func(t *testing.T) {
		called := false
		svc := &mockProductService{
			getByExpirationDateFn: func(_, _ string, date *time.Time) ([]models.Product, error) {
				called = date == nil
				return []models.Product{}, nil
			},
		}
		r := setupProductRouter(NewProductHandler(svc, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", productsPath("/calendar"), "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !called {
			t.Error("expected a nil date")
		}
	})
}

func TestActionHandler(t *testing.T) {
	t.Run("use returns product and unlocked achievements", func(t *testing.T) {
		var gotAmount decimal.Decimal
		actions := &mockActionService{
			useFn: func(_, _, productID string, amount decimal.Decimal) (*services.ActionResult, error) {
				gotAmount = amount
				return &services.ActionResult{
					Product:              &models.Product{Base: models.Base{ID: productID}, CurrentAmount: decimal.NewFromInt(3)},
					UnlockedAchievements: []achievements.Status{{ID: "saved_1", Achieved: true}},
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupProductRouter(NewProductHandler(&mockProductService{}, audit), NewActionHandler(actions, audit))

		rec := doRequest(r, "POST", productsPath("/"+testProductID+"/use"), `{"amount":"2"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotAmount.Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected amount 2, got %s", gotAmount)
		}
		result := parseJSON(t, rec)
		unlocked := result["unlocked_achievements"].([]interface{})
		if len(unlocked) != 1 || unlocked[0].(map[string]interface{})["id"] != "saved_1" {
			t.Errorf("unexpected unlocked achievements %v", unlocked)
		}
		if a := audit.actions(); len(a) != 1 || a[0] != "USE_PRODUCT" {
			t.Errorf("expected USE_PRODUCT audit entry, got %v", a)
		}
	})

	t.Run("waste calls the waste action", func(t *testing.T) {
		wasted := false
		actions := &mockActionService{
			wasteFn: func(_, _, _ string, _ decimal.Decimal) (*services.ActionResult, error) {
				wasted = true
				return &services.ActionResult{Product: &models.Product{}, UnlockedAchievements: []achievements.Status{}}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupProductRouter(NewProductHandler(&mockProductService{}, audit), NewActionHandler(actions, audit))

		rec := doRequest(r, "POST", productsPath("/"+testProductID+"/waste"), `{"amount":1.5}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !wasted {
			t.Error("expected Waste to be called")
		}
		if a := audit.actions(); len(a) != 1 || a[0] != "WASTE_PRODUCT" {
			t.Errorf("expected WASTE_PRODUCT audit entry, got %v", a)
		}
	})

	t.Run("returns 400 on insufficient quantity", func(t *testing.T) {
		actions := &mockActionService{
			useFn: func(_, _, _ string, _ decimal.Decimal) (*services.ActionResult, error) {
				return nil, apperrors.ErrInsufficientQuantity
			},
		}
		r := setupProductRouter(NewProductHandler(&mockProductService{}, &mockAuditService{}), NewActionHandler(actions, &mockAuditService{}))

		rec := doRequest(r, "POST", productsPath("/"+testProductID+"/use"), `{"amount":"10"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_QUANTITY")
	})

	t.Run("returns 400 on malformed amount", func(t *testing.T) {
		r := setupProductRouter(NewProductHandler(&mockProductService{}, &mockAuditService{}), NewActionHandler(&mockActionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", productsPath("/"+testProductID+"/use"), `{"amount":"abc"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
