package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/config"
)

func TestNewEngineServesMetrics(t *testing.T) {
	settings := &config.Settings{
		Server:   config.ServerSettings{GinMode: "test"},
		Database: config.DatabaseSettings{Path: ":memory:"},
		Auth: config.AuthSettings{
			JWTSecret:       "jwt",
			APIMasterSecret: "master",
			AdminUsername:   "admin",
			AdminPassword:   "admin123",
			TokenTTL:        time.Hour,
		},
		Solver: config.SolverSettings{CacheEntries: 4},
	}

	r, err := NewEngine(settings, zap.NewNop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "go_goroutines")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestNewEngineRequiresSecrets(t *testing.T) {
	for name, auth := range map[string]config.AuthSettings{
		"jwt":    {APIMasterSecret: "master", TokenTTL: time.Hour},
		"master": {JWTSecret: "jwt", TokenTTL: time.Hour},
	} {
		settings := &config.Settings{
			Database: config.DatabaseSettings{Path: ":memory:"},
			Auth:     auth,
		}
		_, err := NewEngine(settings, zap.NewNop())
		require.Error(t, err, name)
	}
}
