package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/app"
	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/logger"
)

var (
	r       *gin.Engine
	initErr error
)

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	settings, err := config.LoadSettings("")
	if err != nil {
		initErr = err
		return
	}

	log, err := logger.New(settings.Log)
	if err != nil {
		log = zap.NewNop()
	}

	r, initErr = app.NewEngine(settings, log)
	if initErr != nil {
		log.Error("could not initialise", zap.Error(initErr))
	}
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	if initErr != nil {
		http.Error(w, "service unavailable: "+initErr.Error(), http.StatusServiceUnavailable)
		return
	}
	r.ServeHTTP(w, req)
}
