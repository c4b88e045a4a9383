package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/topic-feed-service/internal/queue"
	"github.com/iliyamo/topic-feed-service/internal/repository"
	"github.com/iliyamo/topic-feed-service/internal/service"
	publisher "github.com/iliyamo/topic-feed-service/internal/service/queue_publisher"
)

// PostHandler serves the personalized feed and the post lifecycle.
type PostHandler struct {
	Feed   *service.FeedAssembler
	Topics *repository.TopicRepo
}

func NewPostHandler(feed *service.FeedAssembler, topics *repository.TopicRepo) *PostHandler {
	return &PostHandler{Feed: feed, Topics: topics}
}

type createPostReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	TopicID uint64 `json:"topic_id"`
}
type updatePostReq struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	TopicID uint64 `json:"topic_id"`
}

// GetFeed handles GET /api/posts?sort=asc|desc. The feed contains every
// post from the topics the requesting user subscribes to, newest first
// unless sort=asc is given.
func (h *PostHandler) GetFeed(c echo.Context) error {
	id, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	posts, err := h.Feed.GetFeed(ctx, id.UserID, c.QueryParam("sort"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, postResponses(posts))
}

// GetPost handles GET /api/posts/:id.
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	p, err := h.Feed.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, postResponse(p))
}

// GetPostsByTopic handles GET /api/posts/topic/:topicId.
func (h *PostHandler) GetPostsByTopic(c echo.Context) error {
	topicID, err := pathID(c, "topicId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	posts, err := h.Feed.GetPostsByTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, repository.ErrTopicNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "topic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, postResponses(posts))
}

// CreatePost handles POST /api/posts. On success a post.published event
// is emitted for downstream consumers; publish failures are ignored so
// the write itself never depends on the broker.
func (h *PostHandler) CreatePost(c echo.Context) error {
	id, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	var req createPostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" || req.TopicID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/content/topic_id required"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	p, err := h.Feed.CreatePost(ctx, id.UserID, req.TopicID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, repository.ErrTopicNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "topic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}

	topicTitle := ""
	if t, err := h.Topics.GetByID(ctx, p.TopicID); err == nil {
		topicTitle = t.Title
	}
	_ = publisher.PublishPostPublished(ctx, queue.PostPublishedEvent{
		PostID:      p.ID,
		TopicID:     p.TopicID,
		TopicTitle:  topicTitle,
		AuthorID:    id.UserID,
		AuthorName:  id.Username,
		Title:       p.Title,
		PublishedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, postResponse(p))
}

// UpdatePost handles PUT /api/posts/:id. Only the author may update;
// empty fields keep their current value.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updatePostReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	p, err := h.Feed.UpdatePost(ctx, postID, id.UserID,
		strings.TrimSpace(req.Title), strings.TrimSpace(req.Content), req.TopicID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound), errors.Is(err, repository.ErrTopicNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the author"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update post failed"})
		}
	}
	return c.JSON(http.StatusOK, postResponse(p))
}

// DeletePost handles DELETE /api/posts/:id. Only the author may delete.
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	postID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Feed.DeletePost(ctx, postID, id.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not the author"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
