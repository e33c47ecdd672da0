package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/services"
)

// PantryHandler handles pantries, their members and invitations.
type PantryHandler struct {
	pantryService services.PantryServicer
	auditService  services.AuditServicer
}

// NewPantryHandler creates a new PantryHandler.
func NewPantryHandler(pantryService services.PantryServicer, auditService services.AuditServicer) *PantryHandler {
	return &PantryHandler{pantryService: pantryService, auditService: auditService}
}

// PantryRequest represents the payload for creating or renaming a pantry
type PantryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreatePantry creates a pantry owned by the caller
// @Summary     Create a pantry
// @Description Create a new pantry. The caller becomes its owner.
// @Tags        pantries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PantryRequest true "Pantry details"
// @Success     201 {object} models.Pantry "Pantry created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /pantries [post]
func (h *PantryHandler) CreatePantry(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PantryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	pantry, err := h.pantryService.CreatePantry(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PANTRY", "pantry", pantry.ID, c.ClientIP(),
		map[string]interface{}{"name": pantry.Name})

	c.JSON(http.StatusCreated, gin.H{"pantry": pantry})
}

// GetPantries lists the caller's pantries
// @Summary     List pantries
// @Description Get every pantry the caller belongs to
// @Tags        pantries
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Pantry "Pantries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /pantries [get]
func (h *PantryHandler) GetPantries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pantries, err := h.pantryService.GetUserPantries(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pantries": pantries})
}

// GetPantry returns one pantry with its members
// @Summary     Get pantry
// @Description Get a pantry the caller belongs to
// @Tags        pantries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pantry ID"
// @Success     200 {object} models.Pantry "Pantry"
// @Failure     400 {object} ErrorResponse "Invalid pantry ID"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id} [get]
func (h *PantryHandler) GetPantry(c *gin.Context) {
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

	pantry, err := h.pantryService.GetPantry(userID, pantryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pantry": pantry})
}

// RenamePantry changes the name of a pantry
// @Summary     Rename pantry
// @Description Rename a pantry. Owner only.
// @Tags        pantries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pantry ID"
// @Param       request body PantryRequest true "New name"
// @Success     200 {object} models.Pantry "Renamed pantry"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id} [put]
func (h *PantryHandler) RenamePantry(c *gin.Context) {
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

	var req PantryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	pantry, err := h.pantryService.RenamePantry(userID, pantryID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RENAME_PANTRY", "pantry", pantryID, c.ClientIP(),
		map[string]interface{}{"name": pantry.Name})

	c.JSON(http.StatusOK, gin.H{"pantry": pantry})
}

// DeletePantry removes a pantry with everything in it
// @Summary     Delete pantry
// @Description Delete a pantry with its products, members and invitations. Owner only.
// @Tags        pantries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pantry ID"
// @Success     200 {object} MessageResponse "Pantry deleted"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id} [delete]
func (h *PantryHandler) DeletePantry(c *gin.Context) {
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

	if err := h.pantryService.DeletePantry(userID, pantryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PANTRY", "pantry", pantryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Pantry deleted successfully"})
}

// LeavePantry removes the caller from a pantry
// @Summary     Leave pantry
// @Description Leave a pantry. The owner cannot leave.
// @Tags        pantries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pantry ID"
// @Success     200 {object} MessageResponse "Left pantry"
// @Failure     400 {object} ErrorResponse "Owner cannot leave"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/leave [post]
func (h *PantryHandler) LeavePantry(c *gin.Context) {
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

	if err := h.pantryService.LeavePantry(userID, pantryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "LEAVE_PANTRY", "pantry", pantryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "You left the pantry"})
}

// RemoveMember removes another member from a pantry
// @Summary     Remove member
// @Description Remove a member from a pantry. Owner only; the owner cannot be removed.
// @Tags        pantries
// @Produce     json
// @Security    BearerAuth
// @Param       id       path string true "Pantry ID"
// @Param       memberId path string true "Member user ID"
// @Success     200 {object} MessageResponse "Member removed"
// @Failure     400 {object} ErrorResponse "Owner cannot be removed"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Pantry or member not found"
// @Router      /pantries/{id}/members/{memberId} [delete]
func (h *PantryHandler) RemoveMember(c *gin.Context) {
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
	memberID, err := parsePathID(c, "memberId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.pantryService.RemoveMember(userID, pantryID, memberID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REMOVE_MEMBER", "pantry", pantryID, c.ClientIP(),
		map[string]interface{}{"member_id": memberID})

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// CreateInvitation issues an invitation link
// @Summary     Create invitation
// @Description Create a link that lets other users join the pantry for 15 minutes. Owner only.
// @Tags        pantries
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Pantry ID"
// @Success     201 {object} services.Invitation "Invitation"
// @Failure     403 {object} ErrorResponse "Not the owner"
// @Failure     404 {object} ErrorResponse "Pantry not found"
// @Router      /pantries/{id}/invitations [post]
func (h *PantryHandler) CreateInvitation(c *gin.Context) {
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

	invitation, err := h.pantryService.CreateInvitation(userID, pantryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INVITATION", "pantry", pantryID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, invitation)
}

// AcceptInvitation joins the pantry behind an invitation token
// @Summary     Accept invitation
// @Description Join a pantry using an invitation token
// @Tags        pantries
// @Produce     json
// @Security    BearerAuth
// @Param       token path string true "Invitation token"
// @Success     200 {object} models.Pantry "Joined pantry"
// @Failure     400 {object} ErrorResponse "Already a member"
// @Failure     404 {object} ErrorResponse "Invitation invalid or expired"
// @Router      /invitations/accept/{token} [post]
func (h *PantryHandler) AcceptInvitation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	pantry, err := h.pantryService.AcceptInvitation(userID, c.Param("token"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "JOIN_PANTRY", "pantry", pantry.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "You joined the pantry", "pantry": pantry})
}
