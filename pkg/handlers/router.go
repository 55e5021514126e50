package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with every route. metricsHandler is mounted on /metrics when set.
func (h *Handler) Router(metricsHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), h.RequestLogger(), gin.Recovery())

	r.GET("/", h.Banner)
	r.GET("/healthz", h.Healthz)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
		admin.GET("/runs", h.ListRuns)
	}

	// Timetable Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/timetable", h.ScheduleTimetable)
		api.POST("/timetable/:format", h.ExportTimetable)
		api.POST("/validate", h.ValidateInput)
		api.GET("/runs/:id", h.GetRun)
		api.GET("/usage", h.GetMyUsage)
	}

	return r
}
