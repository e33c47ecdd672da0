package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/services"
)

// ActionHandler applies use and waste actions to products.
type ActionHandler struct {
	actionService services.ActionServicer
	auditService  services.AuditServicer
}

// NewActionHandler creates a new ActionHandler.
func NewActionHandler(actionService services.ActionServicer, auditService services.AuditServicer) *ActionHandler {
	return &ActionHandler{actionService: actionService, auditService: auditService}
}

// ActionRequest represents the payload of a use or waste action
type ActionRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Use records consumption of part of a product
// @Summary     Use product
// @Description Mark an amount of the product as consumed. The saved value grows by its worth.
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string        true "Pantry ID"
// @Param       productId path string        true "Product ID"
// @Param       request   body ActionRequest true "Amount"
// @Success     200 {object} services.ActionResult "Updated product and newly unlocked achievements"
// @Failure     400 {object} ErrorResponse "Invalid or insufficient amount"
// @Failure     404 {object} ErrorResponse "Pantry or product not found"
// @Router      /pantries/{id}/products/{productId}/use [post]
func (h *ActionHandler) Use(c *gin.Context) {
	h.apply(c, services.ActionUse)
}

// Waste records that part of a product was thrown away
// @Summary     Waste product
// @Description Mark an amount of the product as wasted. The wasted value grows by its worth.
// @Tags        products
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string        true "Pantry ID"
// @Param       productId path string        true "Product ID"
// @Param       request   body ActionRequest true "Amount"
// @Success     200 {object} services.ActionResult "Updated product and newly unlocked achievements"
// @Failure     400 {object} ErrorResponse "Invalid or insufficient amount"
// @Failure     404 {object} ErrorResponse "Pantry or product not found"
// @Router      /pantries/{id}/products/{productId}/waste [post]
func (h *ActionHandler) Waste(c *gin.Context) {
	h.apply(c, services.ActionWaste)
}

func (h *ActionHandler) apply(c *gin.Context, kind services.ActionKind) {
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

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var result *services.ActionResult
	if kind == services.ActionWaste {
		result, err = h.actionService.Waste(userID, pantryID, productID, req.Amount)
	} else {
		result, err = h.actionService.Use(userID, pantryID, productID, req.Amount)
	}
	if err != nil {
		respondWithError(c, err)
		return
	}

	action := "USE_PRODUCT"
	if kind == services.ActionWaste {
		action = "WASTE_PRODUCT"
	}
	h.auditService.Log(userID, action, "product", productID, c.ClientIP(),
		map[string]interface{}{"pantry_id": pantryID, "amount": req.Amount.String()})

	c.JSON(http.StatusOK, result)
}
