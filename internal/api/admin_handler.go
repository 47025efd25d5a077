package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/service"
)

// AdminHandler handles ban administration and comment export.
// All routes sit behind adminAuthMiddleware.
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// CreateBan handles POST /admin/bans
func (h *AdminHandler) CreateBan(c *gin.Context) {
	var req models.BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "client_id is required")
		return
	}

	ban, err := h.services.Admin.Ban(c.Request.Context(), req.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, ban)
}

// GetBan handles GET /admin/bans/:client_id
func (h *AdminHandler) GetBan(c *gin.Context) {
	ban, err := h.services.Admin.GetBan(c.Request.Context(), c.Param("client_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, ban)
}

// DeleteBan handles DELETE /admin/bans/:client_id
func (h *AdminHandler) DeleteBan(c *gin.Context) {
	if err := h.services.Admin.Unban(c.Request.Context(), c.Param("client_id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Unbanned")
}

// ExportComments handles GET /admin/comments/export?format=
// Streams the export directly to the response
func (h *AdminHandler) ExportComments(c *gin.Context) {
	format := c.Query("format")
	if format == "" {
		format = "ndjson" // Default to NDJSON for streaming
	}
	if format != "ndjson" && format != "json" && format != "csv" {
		respondBadRequest(c, "format must be one of: ndjson, json, csv")
		return
	}

	h.log.Info().Str("format", format).Msg("Starting streaming export")

	if err := h.services.Export.StreamComments(c.Request.Context(), c.Writer, format); err != nil {
		h.log.Error().Err(err).Msg("Export failed")
		// Can't return error JSON after streaming has started
		return
	}
}
