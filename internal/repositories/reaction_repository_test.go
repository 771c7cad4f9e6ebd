package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhasan512/openwave/backend/internal/models"
)

func TestReactionRepository_GetByPostAndUserNoRow(t *testing.T) {
	repo := NewPostgresReactionRepository(newTestDB(t))

	reaction, err := repo.GetByPostAndUser("abc123", 1)
	require.NoError(t, err)
	assert.Nil(t, reaction)
}

func TestReactionRepository_SwitchKindUpdatesInPlace(t *testing.T) {
	repo := NewPostgresReactionRepository(newTestDB(t))

	reaction := &models.Reaction{PostID: "abc123", UserID: 1, Kind: models.ReactionUp}
	require.NoError(t, repo.CreateReaction(reaction))

	require.NoError(t, repo.UpdateReactionKind(reaction.ID, models.ReactionDown))

	got, err := repo.GetByPostAndUser("abc123", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, reaction.ID, got.ID, "switching kind must not create a second row")
	assert.Equal(t, models.ReactionDown, got.Kind)
}

func TestReactionRepository_DeleteReaction(t *testing.T) {
	repo := NewPostgresReactionRepository(newTestDB(t))

	require.NoError(t, repo.CreateReaction(&models.Reaction{PostID: "abc123", UserID: 1, Kind: models.ReactionUp}))

	require.NoError(t, repo.DeleteReaction("abc123", 1))
	got, err := repo.GetByPostAndUser("abc123", 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.DeleteReaction("abc123", 1)
	require.Error(t, err)
	assert.Equal(t, "reaction not found", err.Error())
}
