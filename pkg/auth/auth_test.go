package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arnavshah/roster-api-go/pkg/config"
	"github.com/arnavshah/roster-api-go/pkg/database"
)

func testSettings() config.AuthSettings {
	return config.AuthSettings{
		JWTSecret:       "jwt-secret-for-tests",
		APIMasterSecret: "master-secret-for-tests",
		AdminUsername:   "admin",
		AdminPassword:   "s3cret",
		TokenTTL:        time.Hour,
	}
}

func TestTokens(t *testing.T) {
	a := New(testSettings())

	token, err := a.CreateToken("admin")
	require.NoError(t, err)

	claims, err := a.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Username)

	other := New(config.AuthSettings{JWTSecret: "another-secret"})
	_, err = other.VerifyToken(token)
	require.Error(t, err)
}

func TestHMACKeys(t *testing.T) {
	a := New(testSettings())

	key := a.GenerateHMACKey("ops-team")
	userID, err := a.VerifyHMACKey(key)
	require.NoError(t, err)
	require.Equal(t, "ops-team", userID)

	for _, bad := range []string{"", "ops-team", "ops-team.deadbeef", ".abc", key + ".x"} {
		_, err := a.VerifyHMACKey(bad)
		require.ErrorIs(t, err, ErrInvalidKey, "key %q", bad)
	}
}

func TestPreview(t *testing.T) {
	require.Equal(t, "****", Preview("short"))
	require.Equal(t, "ops...cdef", Preview("ops-team.0123456789abcdef"))
}

func TestAdminAndKeyTracking(t *testing.T) {
	db, err := database.InitDB(config.DatabaseSettings{Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, EnsureAdminExists(db, testSettings(), zap.NewNop()))
	require.NoError(t, EnsureAdminExists(db, testSettings(), zap.NewNop()))

	var users []database.MasterUser
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	require.True(t, CheckPasswordHash("s3cret", users[0].PasswordHash))
	require.False(t, CheckPasswordHash("wrong", users[0].PasswordHash))

	first, err := TrackAPIKey(db, "ops-team.abcdef123456", "ops-team")
	require.NoError(t, err)
	second, err := TrackAPIKey(db, "ops-team.abcdef123456", "ops-team")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.LastUsed)

	require.NoError(t, db.Delete(&database.APIKey{}, first.ID).Error)
	_, err = TrackAPIKey(db, "ops-team.abcdef123456", "ops-team")
	require.ErrorIs(t, err, ErrKeyRevoked)

	var total int64
	require.NoError(t, db.Unscoped().Model(&database.APIKey{}).Count(&total).Error)
	require.Equal(t, int64(1), total)
}
