package models

import "gorm.io/gorm"

const (
	ReactionUp   = "up"
	ReactionDown = "down"
)

// Reaction represents a thumbs up/down on a post. A user holds at most one
// reaction per post; switching kind updates the row in place.
type Reaction struct {
	gorm.Model
	PostID string `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_reaction"` // MongoDB ObjectID as string
	UserID uint   `json:"user_id" gorm:"index;uniqueIndex:idx_post_user_reaction"`
	Kind   string `json:"kind" gorm:"size:10"`
}

// CommentReaction represents a thumbs up/down on a comment.
type CommentReaction struct {
	gorm.Model
	CommentID uint   `json:"comment_id" gorm:"index;uniqueIndex:idx_comment_user_reaction"`
	UserID    uint   `json:"user_id" gorm:"index;uniqueIndex:idx_comment_user_reaction"`
	Kind      string `json:"kind" gorm:"size:10"`
}

// CreateReactionRequest defines the request body for reacting to a post or comment
type CreateReactionRequest struct {
	Kind string `json:"kind" validate:"required,oneof=up down"`
}
