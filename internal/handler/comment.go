package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/topic-feed-service/internal/repository"
	"github.com/iliyamo/topic-feed-service/internal/service"
)

// CommentHandler serves the comments of a post.
type CommentHandler struct {
	Feed *service.FeedAssembler
}

func NewCommentHandler(feed *service.FeedAssembler) *CommentHandler {
	return &CommentHandler{Feed: feed}
}

type createCommentReq struct {
	Content string `json:"content"`
}

// ListByPost handles GET /api/posts/:id/comments, oldest first.
func (h *CommentHandler) ListByPost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	comments, err := h.Feed.CommentsByPost(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, commentResponses(comments))
}

// Create handles POST /api/posts/:id/comments.
func (h *CommentHandler) Create(c echo.Context) error {
	id, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req createCommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	cm, err := h.Feed.CreateComment(ctx, id.UserID, postID, req.Content)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, commentResponse(cm))
}

// Delete handles DELETE /api/comments/:id. Only the author may delete.
func (h *CommentHandler) Delete(c echo.Context) error {
	id, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	commentID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Feed.DeleteComment(ctx, commentID, id.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrCommentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the author"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete comment failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
