package repositories

import (
	"errors"
	"fmt"

	"github.com/mhasan512/openwave/backend/internal/models"
	"gorm.io/gorm"
)

// CommentReactionRepository defines the interface for comment reaction data operations
type CommentReactionRepository interface {
	GetByCommentAndUser(commentID, userID uint) (*models.CommentReaction, error)
	CreateReaction(reaction *models.CommentReaction) error
	UpdateReactionKind(id uint, kind string) error
	DeleteReaction(commentID, userID uint) error
}

// PostgresCommentReactionRepository implements CommentReactionRepository for PostgreSQL
type PostgresCommentReactionRepository struct {
	db *gorm.DB
}

// NewPostgresCommentReactionRepository creates a new PostgresCommentReactionRepository
func NewPostgresCommentReactionRepository(db *gorm.DB) *PostgresCommentReactionRepository {
	return &PostgresCommentReactionRepository{db: db}
}

// GetByCommentAndUser returns (nil, nil) when the user has not reacted to the comment.
func (r *PostgresCommentReactionRepository) GetByCommentAndUser(commentID, userID uint) (*models.CommentReaction, error) {
	var reaction models.CommentReaction
	if err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

func (r *PostgresCommentReactionRepository) CreateReaction(reaction *models.CommentReaction) error {
	return r.db.Create(reaction).Error
}

func (r *PostgresCommentReactionRepository) UpdateReactionKind(id uint, kind string) error {
	return r.db.Model(&models.CommentReaction{}).Where("id = ?", id).Update("kind", kind).Error
}

func (r *PostgresCommentReactionRepository) DeleteReaction(commentID, userID uint) error {
	res := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentReaction{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reaction not found")
	}
	return nil
}
