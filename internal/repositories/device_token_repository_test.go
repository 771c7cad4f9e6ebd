package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhasan512/openwave/backend/internal/models"
)

func TestDeviceTokenRepository_SaveAndList(t *testing.T) {
	repo := NewPostgresDeviceTokenRepository(newTestDB(t))

	require.NoError(t, repo.SaveToken(&models.DeviceToken{UserID: 1, Token: "tok-a", Platform: "android"}))
	require.NoError(t, repo.SaveToken(&models.DeviceToken{UserID: 1, Token: "tok-b", Platform: "web"}))
	require.NoError(t, repo.SaveToken(&models.DeviceToken{UserID: 2, Token: "tok-c", Platform: "ios"}))

	tokens, err := repo.ListTokensByUser(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tok-a", "tok-b"}, tokens)
}

func TestDeviceTokenRepository_SaveTokenReassignsDevice(t *testing.T) {
	repo := NewPostgresDeviceTokenRepository(newTestDB(t))

	require.NoError(t, repo.SaveToken(&models.DeviceToken{UserID: 1, Token: "shared-device", Platform: "android"}))
	// Same device logs into another account.
	require.NoError(t, repo.SaveToken(&models.DeviceToken{UserID: 2, Token: "shared-device", Platform: "android"}))

	old, err := repo.ListTokensByUser(1)
	require.NoError(t, err)
	assert.Empty(t, old)

	current, err := repo.ListTokensByUser(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared-device"}, current)
}

func TestDeviceTokenRepository_DeleteToken(t *testing.T) {
	repo := NewPostgresDeviceTokenRepository(newTestDB(t))

	require.NoError(t, repo.SaveToken(&models.DeviceToken{UserID: 1, Token: "tok-a", Platform: "web"}))

	// Another user cannot delete it.
	require.NoError(t, repo.DeleteToken(2, "tok-a"))
	tokens, err := repo.ListTokensByUser(1)
	require.NoError(t, err)
	assert.Len(t, tokens, 1)

	require.NoError(t, repo.DeleteToken(1, "tok-a"))
	tokens, err = repo.ListTokensByUser(1)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
