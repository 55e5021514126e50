package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/arnavshah/roster-api-go/pkg/auth"
	"github.com/arnavshah/roster-api-go/pkg/cache"
	"github.com/arnavshah/roster-api-go/pkg/database"
	"github.com/arnavshah/roster-api-go/pkg/export"
	"github.com/arnavshah/roster-api-go/pkg/metrics"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDMaxLen = 64
	defaultLimit    = 10000
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB      *gorm.DB
	Auth    *auth.Authenticator
	Logger  *zap.Logger
	Cache   *cache.Results
	Metrics metrics.Recorder
	Export  export.Settings

	now func() time.Time
}

// New wires a Handler. Nil logger and metrics fall back to no-ops.
func New(db *gorm.DB, a *auth.Authenticator, results *cache.Results, exportSettings export.Settings,
	logger *zap.Logger, recorder metrics.Recorder) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.NewNop()
	}
	return &Handler{
		DB:      db,
		Auth:    a,
		Logger:  logger,
		Cache:   results,
		Metrics: recorder,
		Export:  exportSettings,
		now:     time.Now,
	}
}

func bearer(c *gin.Context) string {
	return strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
}

// RequestID tags every request with an id, reusing a sane incoming X-Request-ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}
		c.Set("requestID", rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// RequestLogger logs one structured line per request
func (h *Handler) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("requestID")),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			h.Logger.Error("request failed", fields...)
		case status >= 400:
			h.Logger.Warn("client error", fields...)
		default:
			h.Logger.Info("request completed", fields...)
		}
	}
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := h.Auth.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for timetable routes using HMAC and enforces
// the key's daily request limit
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := bearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			return
		}

		userID, err := h.Auth.VerifyHMACKey(key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			return
		}

		apiKey, err := auth.TrackAPIKey(h.DB, key, userID)
		if errors.Is(err, auth.ErrKeyRevoked) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API Key revoked"})
			return
		}
		if err != nil {
			h.Logger.Error("track api key", zap.String("user", userID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load API key"})
			return
		}

		used, err := database.RequestsOn(h.DB, apiKey.ID, h.now())
		if err != nil {
			h.Logger.Error("read usage", zap.Uint("key_id", apiKey.ID), zap.Error(err))
		} else if apiKey.RateLimit > 0 && used >= apiKey.RateLimit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Daily request limit reached"})
			return
		}

		c.Set("apiKey", apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

func currentKey(c *gin.Context) (*database.APIKey, bool) {
	raw, ok := c.Get("apiKey")
	if !ok {
		return nil, false
	}
	key, ok := raw.(*database.APIKey)
	return key, ok
}

// Banner describes the service
func (h *Handler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Duty Roster Timetable API",
		"version": "1.0.0",
	})
}

// Healthz reports whether the database answers
func (h *Handler) Healthz(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
