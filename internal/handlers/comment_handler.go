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

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	mentions          *notify.MentionResolver
	events            *notify.Bus
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	mentions *notify.MentionResolver,
	events *notify.Bus,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		mentions:          mentions,
		events:            events,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a post, optionally as a reply to
// another comment. Raises comment/reply events for the post author and
// parent comment author, and one mention event per resolved @handle.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
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

	var parent *models.Comment
	if req.ParentID != nil {
		parent, err = h.commentRepository.GetCommentByID(*req.ParentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found")
		}
		if parent.PostID != postID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   currentUserID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.postRepository.IncrementCommentsCount(context.Background(), postID, 1)

	actionURL := fmt.Sprintf("/posts/%s", postID)
	commentID := strconv.FormatUint(uint64(comment.ID), 10)

	if parent != nil {
		h.events.Emit(notify.Event{
			RecipientID: parent.UserID,
			ActorID:     currentUserID,
			Type:        notify.EventReplyToComment,
			TargetID:    commentID,
			TargetType:  "comment",
			Content:     req.Content,
			ActionURL:   actionURL,
		})
	} else {
		h.events.Emit(notify.Event{
			RecipientID: post.AuthorID,
			ActorID:     currentUserID,
			Type:        notify.EventCommentOnPost,
			TargetID:    commentID,
			TargetType:  "comment",
			Content:     req.Content,
			ActionURL:   actionURL,
		})
	}

	// Mention fan-out: one independent event per resolved user. Each goes
	// through the full pipeline on its own, preference check included.
	for _, mentioned := range h.mentions.Resolve(req.Content, currentUserID) {
		h.events.Emit(notify.Event{
			RecipientID: mentioned.ID,
			ActorID:     currentUserID,
			Type:        notify.EventMentionInComment,
			TargetID:    commentID,
			TargetType:  "comment",
			Content:     req.Content,
			ActionURL:   actionURL,
		})
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID retrieves all comments for a specific post
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID := c.Param("post_id")

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, comments)
}

// DeleteComment deletes the authenticated user's own comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	if err := h.commentRepository.DeleteComment(uint(commentID), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.postRepository.IncrementCommentsCount(context.Background(), comment.PostID, -1)

	return c.NoContent(http.StatusNoContent)
}
