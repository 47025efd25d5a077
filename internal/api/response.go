package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slunch-api/internal/service"
)

// successResponse is the success variant of every JSON reply
type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// errorResponse is the failure variant of every JSON reply
type errorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Detail  string      `json:"detail"`
	Details interface{} `json:"details,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, successResponse{Success: true, Data: data})
}

// respondError writes err with the status of its kind
func respondError(c *gin.Context, err error) {
	resp := errorResponse{
		Success: false,
		Error:   string(service.KindOf(err)),
		Detail:  "Internal server error",
	}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		if svcErr.Kind != service.KindStorage && svcErr.Kind != service.KindInternal {
			resp.Detail = svcErr.Message
			resp.Details = svcErr.Details
		}
	}

	c.AbortWithStatusJSON(statusForKind(service.KindOf(err)), resp)
}

func respondBadRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Success: false,
		Error:   string(service.KindInvalidArgument),
		Detail:  detail,
	})
}

// statusForKind maps a service error kind to its HTTP status
func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindAuth,
		service.KindSignatureMismatch,
		service.KindStaleTimestamp,
		service.KindBanned,
		service.KindInvalidContent:
		return http.StatusForbidden
	case service.KindRateLimited:
		return http.StatusTooManyRequests
	case service.KindInvalidArgument:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
