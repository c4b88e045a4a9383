package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/topic-feed-service/internal/repository"
	"github.com/iliyamo/topic-feed-service/internal/service"
)

// TopicHandler serves topic browsing and subscription management.
type TopicHandler struct {
	Topics *repository.TopicRepo
	Subs   *service.SubscriptionRegistry
}

func NewTopicHandler(topics *repository.TopicRepo, subs *service.SubscriptionRegistry) *TopicHandler {
	return &TopicHandler{Topics: topics, Subs: subs}
}

// ListTopics handles GET /api/topics and returns every available topic.
func (h *TopicHandler) ListTopics(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	topics, err := h.Topics.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, topicResponses(topics))
}

// GetTopic handles GET /api/topics/:id.
func (h *TopicHandler) GetTopic(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	t, err := h.Topics.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTopicNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "topic not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, topicResponse(t))
}

// Subscribe handles POST /api/topics/:id/subscribe and returns the
// updated subscription list.
func (h *TopicHandler) Subscribe(c echo.Context) error {
	return h.changeSubscription(c, h.Subs.Subscribe)
}

// Unsubscribe handles DELETE /api/topics/:id/subscribe and returns the
// updated subscription list.
func (h *TopicHandler) Unsubscribe(c echo.Context) error {
	return h.changeSubscription(c, h.Subs.Unsubscribe)
}

// ListSubscriptions handles GET /api/topics/subscriptions.
func (h *TopicHandler) ListSubscriptions(c echo.Context) error {
	id, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	topics, err := h.Subs.ListSubscriptions(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, topicResponses(topics))
}

// changeSubscription factors the shared shape of subscribe and
// unsubscribe: parse the topic id, run the registry operation, answer
// with the refreshed subscription list.
func (h *TopicHandler) changeSubscription(c echo.Context, op func(ctx context.Context, userID, topicID uint64) error) error {
	id, ok := requireIdentity(c)
	if !ok {
		return unauthorized(c)
	}
	topicID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := op(ctx, id.UserID, topicID); err != nil {
		switch {
		case errors.Is(err, repository.ErrTopicNotFound), errors.Is(err, repository.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrAlreadySubscribed), errors.Is(err, repository.ErrNotSubscribed):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscription change failed"})
		}
	}

	topics, err := h.Subs.ListSubscriptions(ctx, id.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, topicResponses(topics))
}
