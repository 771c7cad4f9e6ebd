package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhasan512/openwave/backend/internal/models"
)

func TestPreferenceRepository_GetPreferencesNoRow(t *testing.T) {
	repo := NewPostgresPreferenceRepository(newTestDB(t))

	pref, err := repo.GetPreferences(42)
	require.NoError(t, err)
	assert.Nil(t, pref, "a user without a row is a valid state, not an error")
}

func TestPreferenceRepository_UpsertCreatesAndUpdates(t *testing.T) {
	repo := NewPostgresPreferenceRepository(newTestDB(t))

	pref := models.DefaultNotificationPreference(42)
	pref.Reactions = false
	require.NoError(t, repo.UpsertPreferences(&pref))

	got, err := repo.GetPreferences(42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Reactions)
	assert.True(t, got.Comments)

	// A second upsert for the same user updates in place.
	updated := models.DefaultNotificationPreference(42)
	updated.Reactions = true
	updated.Follows = false
	require.NoError(t, repo.UpsertPreferences(&updated))

	got, err = repo.GetPreferences(42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Reactions)
	assert.False(t, got.Follows)

	var count int64
	// Only one row should exist for the user.
	require.NoError(t, repo.(*postgresPreferenceRepository).db.
		Model(&models.NotificationPreference{}).Where("user_id = ?", 42).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPreferenceRepository_RowsAreScopedPerUser(t *testing.T) {
	repo := NewPostgresPreferenceRepository(newTestDB(t))

	muted := models.DefaultNotificationPreference(1)
	muted.Mentions = false
	require.NoError(t, repo.UpsertPreferences(&muted))

	other, err := repo.GetPreferences(2)
	require.NoError(t, err)
	assert.Nil(t, other)

	got, err := repo.GetPreferences(1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Mentions)
}
