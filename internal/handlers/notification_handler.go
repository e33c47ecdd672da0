package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodtracker/internal/notifications"
	"foodtracker/internal/services"
)

// NotificationHandler triggers expiration reminder runs.
type NotificationHandler struct {
	trigger      services.NotificationTrigger
	runner       notifications.Runner
	auditService services.AuditServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(trigger services.NotificationTrigger, runner notifications.Runner, auditService services.AuditServicer) *NotificationHandler {
	return &NotificationHandler{trigger: trigger, runner: runner, auditService: auditService}
}

// RunCheck starts an expiration check in the background
// @Summary     Trigger expiration check
// @Description Start an expiration reminder run without waiting for it
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     202 {object} MessageResponse "Task triggered"
// @Router      /notifications/run-check [post]
func (h *NotificationHandler) RunCheck(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.trigger.Trigger()
	h.auditService.Log(userID, "TRIGGER_EXPIRATION_CHECK", "notification", "", c.ClientIP(), nil)

	c.JSON(http.StatusAccepted, gin.H{"message": "Expiration check task triggered."})
}

// RunNow runs an expiration check and waits for the result
// @Summary     Run expiration check
// @Description Run the reminder job synchronously. Intended for external schedulers.
// @Tags        internal
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} notifications.RunResult "Run result"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     500 {object} ErrorResponse "Run failed"
// @Router      /internal/notifications/run [post]
func (h *NotificationHandler) RunNow(c *gin.Context) {
	result, err := h.runner.Run(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
