package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/export"
	"github.com/arnavshah/roster-api-go/pkg/logger"
	"github.com/arnavshah/roster-api-go/pkg/scheduler"
)

func main() {
	_ = godotenv.Load(".env")

	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, scheduler.ErrInfeasible) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("timetable", flag.ContinueOnError)
	rosterPath := fs.String("config", "configuration.json", "roster configuration file (JSON or YAML)")
	settingsPath := fs.String("settings", "", "settings YAML file")
	seed := fs.Int64("seed", 0, "random seed, 0 picks one from the clock")
	formats := fs.String("format", "xlsx", "comma separated outputs: xlsx, csv, ics, table")
	outDir := fs.String("out", ".", "directory for written files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		return err
	}
	log, err := logger.New(settings.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	var targets []export.Format
	for _, name := range strings.Split(*formats, ",") {
		f, err := export.ParseFormat(name)
		if err != nil {
			return err
		}
		targets = append(targets, f)
	}

	log.Info("reading configuration file", zap.String("path", *rosterPath))
	cfg, err := config.LoadRoster(*rosterPath)
	if err != nil {
		return err
	}

	log.Info("making timetable", zap.Int("cycles", cfg.Cycles), zap.Int("workers", len(cfg.Workers)))
	res, err := scheduler.NewScheduler(cfg, scheduler.Options{Seed: *seed, Logger: log}).MakeTimetable()
	if err != nil {
		return err
	}
	for _, sf := range res.Shortfalls {
		log.Warn("helper not placed", zap.Int("cycle", sf.Cycle), zap.String("position", sf.Position),
			zap.String("helper", sf.Helper))
	}

	exportSettings := export.FromConfig(settings.Export)
	for _, f := range targets {
		if f == export.FormatTable {
			if err := export.Write(stdout, f, res.Timetable, exportSettings); err != nil {
				return err
			}
			continue
		}

		path := filepath.Join(*outDir, f.FileName(exportSettings))
		log.Info("writing timetable to file", zap.String("path", path))
		if err := writeFile(path, f, res, exportSettings); err != nil {
			return err
		}
	}

	log.Info("done", zap.Int64("seed", res.Seed), zap.Int("slots", res.Timetable.Len()))
	return nil
}

func writeFile(path string, f export.Format, res *scheduler.Result, s export.Settings) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Write(file, f, res.Timetable, s); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
