package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/topic-feed-service/internal/auth"
	"github.com/iliyamo/topic-feed-service/internal/config"
	"github.com/iliyamo/topic-feed-service/internal/handler"
	"github.com/iliyamo/topic-feed-service/internal/middleware"
)

// Handlers groups everything RegisterRoutes needs to wire the API.
type Handlers struct {
	Auth     *handler.AuthHandler
	Topics   *handler.TopicHandler
	Posts    *handler.PostHandler
	Comments *handler.CommentHandler
}

// RegisterRoutes wires all endpoints onto the Echo instance. The
// authentication gate runs on every /api route; only register and login
// are reachable anonymously, everything else stacks RequireAuth on top.
func RegisterRoutes(e *echo.Echo, h Handlers, tokens *auth.TokenService, users middleware.SubjectResolver, rdb *redis.Client) {
	// Liveness probe, outside the gate entirely.
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	api.Use(middleware.Authenticate(tokens, users))

	// Auth endpoints. Register and login permit anonymous access and
	// carry the brute-force rate limiter; the profile endpoints sit
	// behind RequireAuth like every other route. A stale token in the
	// Authorization header never blocks these (see the gate's
	// carve-out), so clients can always log in again.
	authGroup := api.Group("/auth")
	limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
	authGroup.POST("/register", h.Auth.Register, limiter)
	authGroup.POST("/login", h.Auth.Login, limiter)
	authGroup.GET("/me", h.Auth.Me, middleware.RequireAuth)
	authGroup.PUT("/me", h.Auth.UpdateProfile, middleware.RequireAuth)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth)

	// Topics and subscriptions. The full topic listing is cacheable:
	// topics are seeded out of band and change rarely.
	cache := middleware.CacheResponses(config.LoadCacheConfig(), rdb)
	protected.GET("/topics", h.Topics.ListTopics, cache)
	protected.GET("/topics/subscriptions", h.Topics.ListSubscriptions)
	protected.GET("/topics/:id", h.Topics.GetTopic)
	protected.POST("/topics/:id/subscribe", h.Topics.Subscribe)
	protected.DELETE("/topics/:id/subscribe", h.Topics.Unsubscribe)

	// Posts and the personalized feed.
	protected.GET("/posts", h.Posts.GetFeed)
	protected.POST("/posts", h.Posts.CreatePost)
	protected.GET("/posts/topic/:topicId", h.Posts.GetPostsByTopic)
	protected.GET("/posts/:id", h.Posts.GetPost)
	protected.PUT("/posts/:id", h.Posts.UpdatePost)
	protected.DELETE("/posts/:id", h.Posts.DeletePost)

	// Comments.
	protected.GET("/posts/:id/comments", h.Comments.ListByPost)
	protected.POST("/posts/:id/comments", h.Comments.Create)
	protected.DELETE("/comments/:id", h.Comments.Delete)
}
