package repositories

import (
	"errors"
	"fmt"

	"github.com/mhasan512/openwave/backend/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for post reaction data operations
type ReactionRepository interface {
	GetByPostAndUser(postID string, userID uint) (*models.Reaction, error)
	CreateReaction(reaction *models.Reaction) error
	UpdateReactionKind(id uint, kind string) error
	DeleteReaction(postID string, userID uint) error
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

// GetByPostAndUser returns (nil, nil) when the user has not reacted to the post.
func (r *PostgresReactionRepository) GetByPostAndUser(postID string, userID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	if err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

func (r *PostgresReactionRepository) CreateReaction(reaction *models.Reaction) error {
	return r.db.Create(reaction).Error
}

func (r *PostgresReactionRepository) UpdateReactionKind(id uint, kind string) error {
	return r.db.Model(&models.Reaction{}).Where("id = ?", id).Update("kind", kind).Error
}

func (r *PostgresReactionRepository) DeleteReaction(postID string, userID uint) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Reaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reaction not found")
	}
	return nil
}
