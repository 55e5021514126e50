package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := LoadSettings("")

	require.NoError(t, err)
	require.Equal(t, "8000", s.Server.Port)
	require.Equal(t, "api_keys.db", s.Database.Path)
	require.Equal(t, "admin", s.Auth.AdminUsername)
	require.Equal(t, 24*time.Hour, s.Auth.TokenTTL)
	require.Equal(t, " & ", s.Export.TogetherSeparator)
	require.Equal(t, 1, s.Export.ReminderDays)
	require.Equal(t, "info", s.Log.Level)
}

func TestLoadSettingsFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
log:
  level: debug
  format: console
export:
  reminder_days: 3
  calendar_name: Volunteers
`), 0o644))

	t.Setenv("DATABASE_URL", "postgres://localhost/roster")
	t.Setenv("ROSTER_EXPORT_SHEET_NAME", "Rota")
	t.Setenv("ROSTER_AUTH_JWT_SECRET", "from-prefixed")
	t.Setenv("JWT_SECRET", "from-legacy")

	s, err := LoadSettings(path)

	require.NoError(t, err)
	require.Equal(t, "9090", s.Server.Port)
	require.Equal(t, "debug", s.Log.Level)
	require.Equal(t, 3, s.Export.ReminderDays)
	require.Equal(t, "Volunteers", s.Export.CalendarName)
	require.Equal(t, "Rota", s.Export.SheetName)
	require.Equal(t, "postgres://localhost/roster", s.Database.URL)
	require.Equal(t, "from-prefixed", s.Auth.JWTSecret)
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export:\n  reminder_days: -2\n"), 0o644))

	_, err := LoadSettings(path)

	require.Error(t, err)
	require.Contains(t, err.Error(), "reminder_days")
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestRequireSecrets(t *testing.T) {
	require.Error(t, AuthSettings{}.RequireSecrets())
	require.ErrorContains(t, AuthSettings{JWTSecret: "jwt"}.RequireSecrets(), "api_master_secret")
	require.ErrorContains(t, AuthSettings{APIMasterSecret: "master"}.RequireSecrets(), "jwt_secret")
	require.NoError(t, AuthSettings{JWTSecret: "jwt", APIMasterSecret: "master"}.RequireSecrets())
}
