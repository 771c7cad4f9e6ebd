package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mhasan512/openwave/backend/internal/models"
	"github.com/mhasan512/openwave/backend/internal/notify"
	"github.com/mhasan512/openwave/backend/internal/repositories"
)

// ReactionHandler handles thumbs up/down reactions on posts and comments
type ReactionHandler struct {
	reactionRepository        repositories.ReactionRepository
	commentReactionRepository repositories.CommentReactionRepository
	postRepository            repositories.PostRepository
	commentRepository         repositories.CommentRepository
	events                    *notify.Bus
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(
	reactionRepo repositories.ReactionRepository,
	commentReactionRepo repositories.CommentReactionRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	events *notify.Bus,
) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository:        reactionRepo,
		commentReactionRepository: commentReactionRepo,
		postRepository:            postRepo,
		commentRepository:         commentRepo,
		events:                    events,
	}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/reactions", h.ReactToPost)
	g.DELETE("/posts/:post_id/reactions", h.RemovePostReaction)
	g.POST("/comments/:id/reactions", h.ReactToComment)
	g.DELETE("/comments/:id/reactions", h.RemoveCommentReaction)
}

func postReactionEventType(kind string) notify.EventType {
	if kind == models.ReactionDown {
		return notify.EventPostReactionDown
	}
	return notify.EventPostReactionUp
}

func commentReactionEventType(kind string) notify.EventType {
	if kind == models.ReactionDown {
		return notify.EventCommentReactionDown
	}
	return notify.EventCommentReactionUp
}

// ReactToPost creates or switches a reaction on a post. Switching kind
// updates the existing row; only the new reaction produces a notification.
func (h *ReactionHandler) ReactToPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.CreateReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	existing, err := h.reactionRepository.GetByPostAndUser(postID, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if existing != nil {
		if existing.Kind == req.Kind {
			return echo.NewHTTPError(http.StatusConflict, "Post already has this reaction from the user")
		}
		if err := h.reactionRepository.UpdateReactionKind(existing.ID, req.Kind); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		reaction := &models.Reaction{PostID: postID, UserID: currentUserID, Kind: req.Kind}
		if err := h.reactionRepository.CreateReaction(reaction); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		go h.postRepository.IncrementLikesCount(context.Background(), postID, 1)
	}

	h.events.Emit(notify.Event{
		RecipientID: post.AuthorID,
		ActorID:     currentUserID,
		Type:        postReactionEventType(req.Kind),
		TargetID:    postID,
		TargetType:  "post",
		ActionURL:   fmt.Sprintf("/posts/%s", postID),
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"kind": req.Kind}})
}

// RemovePostReaction removes the user's reaction from a post
func (h *ReactionHandler) RemovePostReaction(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	if err := h.reactionRepository.DeleteReaction(postID, currentUserID); err != nil {
		if err.Error() == "reaction not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Reaction not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.postRepository.IncrementLikesCount(context.Background(), postID, -1)

	return c.NoContent(http.StatusNoContent)
}

// ReactToComment creates or switches a reaction on a comment
func (h *ReactionHandler) ReactToComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	var req models.CreateReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	existing, err := h.commentReactionRepository.GetByCommentAndUser(uint(commentID), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if existing != nil {
		if existing.Kind == req.Kind {
			return echo.NewHTTPError(http.StatusConflict, "Comment already has this reaction from the user")
		}
		if err := h.commentReactionRepository.UpdateReactionKind(existing.ID, req.Kind); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	} else {
		reaction := &models.CommentReaction{CommentID: uint(commentID), UserID: currentUserID, Kind: req.Kind}
		if err := h.commentReactionRepository.CreateReaction(reaction); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	h.events.Emit(notify.Event{
		RecipientID: comment.UserID,
		ActorID:     currentUserID,
		Type:        commentReactionEventType(req.Kind),
		TargetID:    strconv.FormatUint(commentID, 10),
		TargetType:  "comment",
		ActionURL:   fmt.Sprintf("/posts/%s", comment.PostID),
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"kind": req.Kind}})
}

// RemoveCommentReaction removes the user's reaction from a comment
func (h *ReactionHandler) RemoveCommentReaction(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.commentReactionRepository.DeleteReaction(uint(commentID), currentUserID); err != nil {
		if err.Error() == "reaction not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Reaction not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
