package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arnavshah/roster-api-go/pkg/models"
)

// ErrInvalidRoster is returned for malformed or incomplete roster configurations
var ErrInvalidRoster = errors.New("invalid roster configuration")

// Format is a roster file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the encoding from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadRoster reads and validates a roster configuration file
func LoadRoster(path string) (*models.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}
	return ParseRoster(bytes.NewReader(data), FormatFromPath(path))
}

// ParseRoster decodes a roster configuration and builds the domain configuration
func ParseRoster(r io.Reader, format Format) (*models.Configuration, error) {
	var input models.RosterInput
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&input); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
		}
	default:
		if err := json.NewDecoder(r).Decode(&input); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
		}
	}
	return BuildConfiguration(input)
}

// BuildConfiguration validates input and converts it to a models.Configuration
func BuildConfiguration(input models.RosterInput) (*models.Configuration, error) {
	if input.Interval <= 0 {
		return nil, invalid("interval must be a positive number of days")
	}
	start, err := parseDate("starting_date", input.StartingDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("ending_date", input.EndingDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, invalid("ending_date %s is before starting_date %s", input.EndingDate, input.StartingDate)
	}

	if len(input.Positions) == 0 {
		return nil, invalid("at least one position is required")
	}
	known := make(map[string]bool, len(input.Positions))
	for _, p := range input.Positions {
		if strings.TrimSpace(p) == "" {
			return nil, invalid("position names must not be empty")
		}
		if known[p] {
			return nil, invalid("duplicate position %q", p)
		}
		known[p] = true
	}

	if len(input.Workers) == 0 {
		return nil, invalid("at least one worker is required")
	}
	workers := make(map[string]*models.Worker, len(input.Workers))
	for name, w := range input.Workers {
		if strings.TrimSpace(name) == "" {
			return nil, invalid("worker names must not be empty")
		}
		for _, p := range append(append([]string(nil), w.Positions...), w.PositionsWithHelp...) {
			if !known[p] {
				return nil, invalid("worker %q references unknown position %q", name, p)
			}
		}
		if w.AppearanceSkips < 0 {
			return nil, invalid("worker %q: appearance_skips must not be negative", name)
		}

		exceptions := make([]time.Time, 0, len(w.DateExceptions))
		for _, s := range w.DateExceptions {
			d, err := parseDate(fmt.Sprintf("workers.%s.date_exceptions", name), s)
			if err != nil {
				return nil, err
			}
			exceptions = append(exceptions, d)
		}

		skips := int(math.Floor(w.AppearanceSkips))
		workers[name] = models.NewWorker(name, w.IsInAllPositions, w.Positions, w.PositionsWithHelp, skips, exceptions)
	}

	return models.NewConfiguration(input.Positions, workers, start, end, input.Interval), nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, invalid("%s is required", field)
	}
	d, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, invalid("%s: %q is not an ISO-8601 date", field, value)
	}
	return d, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRoster, fmt.Sprintf(format, args...))
}
