package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings is the application configuration
type Settings struct {
	Server   ServerSettings   `mapstructure:"server"`
	Database DatabaseSettings `mapstructure:"database"`
	Auth     AuthSettings     `mapstructure:"auth"`
	Log      LogSettings      `mapstructure:"log"`
	Export   ExportSettings   `mapstructure:"export"`
	Solver   SolverSettings   `mapstructure:"solver"`
}

// ServerSettings configures the HTTP server
type ServerSettings struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

// DatabaseSettings selects postgres when URL is set, sqlite at Path otherwise
type DatabaseSettings struct {
	URL  string `mapstructure:"url"`
	Path string `mapstructure:"path"`
}

// AuthSettings holds admin and API key secrets
type AuthSettings struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	APIMasterSecret string        `mapstructure:"api_master_secret"`
	AdminUsername   string        `mapstructure:"admin_username"`
	AdminPassword   string        `mapstructure:"admin_password"`
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
}

// LogSettings configures zap
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExportSettings configures the timetable exporters
type ExportSettings struct {
	FileName          string `mapstructure:"file_name"`
	HelperSeparator   string `mapstructure:"helper_separator"`
	TogetherSeparator string `mapstructure:"together_separator"`
	ReminderDays      int    `mapstructure:"reminder_days"`
	CalendarName      string `mapstructure:"calendar_name"`
	SheetName         string `mapstructure:"sheet_name"`
}

// SolverSettings configures result caching
type SolverSettings struct {
	CacheEntries int `mapstructure:"cache_entries"`
}

// legacyEnv maps settings keys to the environment variables older deployments use
var legacyEnv = map[string]string{
	"server.port":            "PORT",
	"server.gin_mode":        "GIN_MODE",
	"database.url":           "DATABASE_URL",
	"database.path":          "DATA_PATH",
	"auth.jwt_secret":        "JWT_SECRET",
	"auth.api_master_secret": "API_MASTER_SECRET",
	"auth.admin_username":    "ADMIN_USERNAME",
	"auth.admin_password":    "ADMIN_PASSWORD",
}

// LoadSettings reads settings from defaults, an optional YAML file and the environment.
// Precedence: ROSTER_* variables > legacy variables > file > defaults.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("server.port", "8000")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("database.url", "")
	v.SetDefault("database.path", "api_keys.db")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.api_master_secret", "")
	v.SetDefault("auth.admin_username", "admin")
	v.SetDefault("auth.admin_password", "admin123")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("export.file_name", "timetable")
	v.SetDefault("export.helper_separator", " + ")
	v.SetDefault("export.together_separator", " & ")
	v.SetDefault("export.reminder_days", 1)
	v.SetDefault("export.calendar_name", "Timetable")
	v.SetDefault("export.sheet_name", "Timetable")
	v.SetDefault("solver.cache_entries", 256)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settings")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		envKey := "ROSTER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks settings that would otherwise fail late
func (s *Settings) Validate() error {
	if s.Export.ReminderDays < 0 {
		return fmt.Errorf("settings: export.reminder_days must not be negative")
	}
	if s.Export.HelperSeparator == "" {
		return fmt.Errorf("settings: export.helper_separator must not be empty")
	}
	if s.Auth.TokenTTL <= 0 {
		return fmt.Errorf("settings: auth.token_ttl must be positive")
	}
	return nil
}

// RequireSecrets fails when a signing secret is empty; admin tokens and API keys signed
// with an empty key can be forged by anyone
func (a AuthSettings) RequireSecrets() error {
	if a.JWTSecret == "" {
		return fmt.Errorf("settings: auth.jwt_secret (JWT_SECRET) must be set")
	}
	if a.APIMasterSecret == "" {
		return fmt.Errorf("settings: auth.api_master_secret (API_MASTER_SECRET) must be set")
	}
	return nil
}
