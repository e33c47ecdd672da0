package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "foodtracker/internal/errors"
	"foodtracker/internal/services"
	"foodtracker/internal/storage"
)

// ProfileHandler handles the authenticated user's own account.
type ProfileHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(userService services.UserServicer, auditService services.AuditServicer) *ProfileHandler {
	return &ProfileHandler{userService: userService, auditService: auditService}
}

// UpdateSettingsRequest represents the profile settings payload
type UpdateSettingsRequest struct {
	FirstName                   *string `json:"first_name" binding:"omitempty,max=100"`
	LastName                    *string `json:"last_name" binding:"omitempty,max=100"`
	SendExpirationNotifications *bool   `json:"send_expiration_notifications"`
}

// ChangePasswordRequest represents the password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// GetProfile returns the user's profile
// @Summary     Get user profile
// @Description Get the authenticated user's profile information
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// UpdateSettings changes profile fields and notification preferences
// @Summary     Update profile settings
// @Description Update name fields and whether expiration reminders are sent
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Settings"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile/settings [put]
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.UpdateSettings(userID, services.UserSettings{
		FirstName:                   req.FirstName,
		LastName:                    req.LastName,
		SendExpirationNotifications: req.SendExpirationNotifications,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.SendExpirationNotifications != nil {
		changes["send_expiration_notifications"] = *req.SendExpirationNotifications
	}
	h.auditService.Log(userID, "UPDATE_SETTINGS", "user", userID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

// ChangePassword replaces the user's password
// @Summary     Change password
// @Description Change the password. Existing refresh tokens are revoked.
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "Passwords"
// @Success     200 {object} MessageResponse "Password changed"
// @Failure     400 {object} ErrorResponse "Invalid input or wrong current password"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile/password [post]
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CHANGE_PASSWORD", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// DeleteAccount removes the user, the pantries they own and their memberships
// @Summary     Delete account
// @Description Permanently delete the authenticated user's account
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Account deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /profile [delete]
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

// UploadAvatar stores a new profile picture
// @Summary     Upload avatar
// @Description Upload a profile picture (multipart field "avatar", image, max 5 MB)
// @Tags        profile
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       avatar formData file true "Image file"
// @Success     200 {object} UserResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid file"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Storage not configured"
// @Router      /profile/avatar [post]
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "avatar file is required"))
		return
	}
	if header.Size > storage.MaxAvatarSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "avatar file is too large"))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "avatar file cannot be read"))
		return
	}
	defer file.Close()

	user, err := h.userService.UploadAvatar(c.Request.Context(), userID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPLOAD_AVATAR", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}
