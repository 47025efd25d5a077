package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/slunch-api/internal/config"
	"github.com/slunch-api/internal/service"
)

// Signature and admin header names
const (
	HeaderClientID  = "X-UUID"
	HeaderTimestamp = "X-Timestamp"
	HeaderSignature = "X-Signature"
	HeaderSecretKey = "X-Secret-Key"
)

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router. checks maps a
// dependency name ("database", "redis") to its health check and may be nil.
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger, checks map[string]HealthChecker) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	commentHandler := NewCommentHandler(services, log)
	notifyHandler := NewNotifyHandler(services, log)
	adminHandler := NewAdminHandler(services, log)

	router.GET("/", rootHandler)
	router.GET("/health", healthCheck(checks))
	router.GET("/metrics", metricsHandler(services))

	timeout := timeoutMiddleware(cfg.Server.RequestTimeout)

	comments := router.Group("/comments", timeout)
	{
		comments.GET("", commentHandler.List)
		comments.POST("", commentHandler.Create)
		comments.PUT("/:id", commentHandler.Update)
	}

	notify := router.Group("/notify", timeout)
	{
		notify.GET("/subscribe", notifyHandler.Subscribe)
		notify.GET("/unsubscribe", notifyHandler.Unsubscribe)
		notify.POST("/send", notifyHandler.Send)
	}

	admin := router.Group("/admin", adminAuthMiddleware(services.Admin))
	{
		admin.POST("/bans", timeout, adminHandler.CreateBan)
		admin.GET("/bans/:client_id", timeout, adminHandler.GetBan)
		admin.DELETE("/bans/:client_id", timeout, adminHandler.DeleteBan)
		admin.GET("/comments/export", adminHandler.ExportComments)
	}

	return router
}

func rootHandler(c *gin.Context) {
	c.String(http.StatusOK, "Slunch API\nComments: /comments\nNotifications: /notify\n")
}

// healthCheck returns the health status of the service and each dependency
func healthCheck(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := contextWithTimeout(c, 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		deps := make(gin.H, len(checks))
		for name, check := range checks {
			if err := check.HealthCheck(ctx); err != nil {
				deps[name] = "down"
				status, code = "unhealthy", http.StatusServiceUnavailable
				continue
			}
			deps[name] = "up"
		}

		c.JSON(code, gin.H{
			"status":       status,
			"dependencies": deps,
			"timestamp":    time.Now().Format(time.RFC3339),
			"service":      "slunch-api",
		})
	}
}

// metricsHandler returns record counts
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		commentsCount, _ := services.Export.GetCount(ctx, "comments")
		bansCount, _ := services.Export.GetCount(ctx, "bans")
		subscribersCount, _ := services.Export.GetCount(ctx, "subscribers")

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"comments":    commentsCount,
				"bans":        bansCount,
				"subscribers": subscribersCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
					Success: false,
					Error:   string(service.KindInternal),
					Detail:  "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, "+HeaderClientID+", "+HeaderTimestamp+", "+HeaderSignature+", "+HeaderSecretKey)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// timeoutMiddleware bounds the request context; storage calls observe it
func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := contextWithTimeout(c, timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// adminAuthMiddleware rejects requests without the admin secret key
func adminAuthMiddleware(admin service.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := admin.Authorize(c.GetHeader(HeaderSecretKey)); err != nil {
			respondError(c, err)
			return
		}
		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), timeout)
}
