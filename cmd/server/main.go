package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/app"
	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/logger"
)

func main() {
	settingsPath := flag.String("settings", "", "path to a settings YAML file")
	flag.Parse()

	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(settings.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	r, err := app.NewEngine(settings, log)
	if err != nil {
		log.Fatal("could not start", zap.Error(err))
	}

	log.Info("server starting", zap.String("port", settings.Server.Port))
	if err := r.Run(":" + settings.Server.Port); err != nil {
		log.Fatal("could not run server", zap.Error(err))
	}
}
