package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/service"
)

// NotifyHandler handles push subscription and broadcast endpoints
type NotifyHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewNotifyHandler creates a new NotifyHandler
func NewNotifyHandler(services *service.Services, log zerolog.Logger) *NotifyHandler {
	return &NotifyHandler{
		services: services,
		log:      log.With().Str("handler", "notify").Logger(),
	}
}

// Subscribe handles GET /notify/subscribe?token=
func (h *NotifyHandler) Subscribe(c *gin.Context) {
	if err := h.services.Notification.Subscribe(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Subscribed")
}

// Unsubscribe handles GET /notify/unsubscribe?token=
func (h *NotifyHandler) Unsubscribe(c *gin.Context) {
	if err := h.services.Notification.Unsubscribe(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Unsubscribed")
}

// Send handles POST /notify/send
func (h *NotifyHandler) Send(c *gin.Context) {
	var req models.Notification
	if err := c.ShouldBindJSON(&req); err != nil {
		// Authorization is reported before body problems.
		if authErr := h.services.Admin.Authorize(c.GetHeader(HeaderSecretKey)); authErr != nil {
			respondError(c, authErr)
			return
		}
		respondBadRequest(c, "title and body are required")
		return
	}

	summary, err := h.services.Notification.Broadcast(c.Request.Context(), c.GetHeader(HeaderSecretKey), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": fmt.Sprintf("Sent to %d of %d subscribers (%d failed)",
			summary.SuccessCount, summary.Total, summary.FailureCount),
		"summary": summary,
	})
}
