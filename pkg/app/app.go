package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/auth"
	"github.com/arnavshah/roster-api-go/pkg/cache"
	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/database"
	"github.com/arnavshah/roster-api-go/pkg/export"
	"github.com/arnavshah/roster-api-go/pkg/handlers"
	"github.com/arnavshah/roster-api-go/pkg/metrics"
)

// NewEngine opens the database, seeds the admin user and wires every route.
// Shared by the standalone server and the serverless entry point.
func NewEngine(settings *config.Settings, logger *zap.Logger) (*gin.Engine, error) {
	if err := settings.Auth.RequireSecrets(); err != nil {
		return nil, err
	}
	if settings.Server.GinMode != "" {
		gin.SetMode(settings.Server.GinMode)
	}

	db, err := database.InitDB(settings.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := auth.EnsureAdminExists(db, settings.Auth, logger); err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder, err := metrics.NewPrometheus(reg, "roster")
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	h := handlers.New(
		db,
		auth.New(settings.Auth),
		cache.New(settings.Solver.CacheEntries),
		export.FromConfig(settings.Export),
		logger,
		recorder,
	)
	return h.Router(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})), nil
}
