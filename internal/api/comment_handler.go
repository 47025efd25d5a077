package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/models"
	"github.com/slunch-api/internal/service"
)

// CommentHandler handles comment board endpoints
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// List handles GET /comments?page=&page_size=
// Returns today's comments, newest first
func (h *CommentHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		respondBadRequest(c, "page must be an integer")
		return
	}
	pageSize, err := queryInt(c, "page_size", models.DefaultPageSize)
	if err != nil {
		respondBadRequest(c, "page_size must be an integer")
		return
	}

	comments, err := h.services.Comment.ListToday(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, comments)
}

// Create handles POST /comments
func (h *CommentHandler) Create(c *gin.Context) {
	var body models.CreateCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	auth := signedRequest(c)
	if auth.ClientID == "" {
		auth.ClientID = body.UUID
	}

	comment, err := h.services.Comment.Submit(c.Request.Context(), models.SubmitCommentRequest{
		Username: body.Username,
		Text:     body.Comment,
		SourceIP: c.ClientIP(),
		Auth:     auth,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, models.CommentCreatedResponse{
		ID:       comment.ID,
		Username: comment.Username,
		Comment:  comment.Text,
		Date:     comment.CreatedAt,
		IP:       comment.SourceIP,
	})
}

// Update handles PUT /comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var body models.EditCommentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	comment, err := h.services.Comment.Edit(c.Request.Context(), models.EditCommentRequest{
		ID:   c.Param("id"),
		Text: body.Comment,
		Auth: signedRequest(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"id":       comment.ID,
		"username": comment.Username,
		"comment":  comment.Text,
		"date":     comment.CreatedAt,
	})
}

func signedRequest(c *gin.Context) models.SignedRequest {
	return models.SignedRequest{
		ClientID:  c.GetHeader(HeaderClientID),
		Timestamp: c.GetHeader(HeaderTimestamp),
		Signature: c.GetHeader(HeaderSignature),
	}
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
