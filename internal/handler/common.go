package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/topic-feed-service/internal/middleware"
	"github.com/iliyamo/topic-feed-service/internal/model"
)

// requestCtx bounds every storage call to five seconds of the incoming
// request's lifetime.
func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// pathID parses the named numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// requireIdentity fetches the identity bound by the gate. Handlers on
// protected routes call it defensively even though RequireAuth already
// ran.
func requireIdentity(c echo.Context) (middleware.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	return id, ok
}

// ----- shared response shapes -----

type topicResp struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type postResp struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  uint64    `json:"author_id"`
	TopicID   uint64    `json:"topic_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type commentResp struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  uint64    `json:"author_id"`
	PostID    uint64    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func topicResponse(t model.Topic) topicResp {
	return topicResp{ID: t.ID, Title: t.Title, Description: t.Description, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}

func topicResponses(topics []model.Topic) []topicResp {
	out := make([]topicResp, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicResponse(t))
	}
	return out
}

func postResponse(p model.Post) postResp {
	return postResp{ID: p.ID, Title: p.Title, Content: p.Content, AuthorID: p.AuthorID, TopicID: p.TopicID, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

func postResponses(posts []model.Post) []postResp {
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResponse(p))
	}
	return out
}

func commentResponse(cm model.Comment) commentResp {
	return commentResp{ID: cm.ID, Content: cm.Content, AuthorID: cm.AuthorID, PostID: cm.PostID, CreatedAt: cm.CreatedAt, UpdatedAt: cm.UpdatedAt}
}

func commentResponses(comments []model.Comment) []commentResp {
	out := make([]commentResp, 0, len(comments))
	for _, cm := range comments {
		out = append(out, commentResponse(cm))
	}
	return out
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
