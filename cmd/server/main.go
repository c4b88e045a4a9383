package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/topic-feed-service/internal/auth"
	"github.com/iliyamo/topic-feed-service/internal/config"
	"github.com/iliyamo/topic-feed-service/internal/database"
	"github.com/iliyamo/topic-feed-service/internal/handler"
	"github.com/iliyamo/topic-feed-service/internal/queue"
	"github.com/iliyamo/topic-feed-service/internal/repository"
	"github.com/iliyamo/topic-feed-service/internal/router"
	"github.com/iliyamo/topic-feed-service/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables rate limiting and caching

	users := repository.NewUserRepo(db)
	topics := repository.NewTopicRepo(db)
	subs := repository.NewSubscriptionRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	registry := service.NewSubscriptionRegistry(users, topics, subs)
	feed := service.NewFeedAssembler(topics, posts, comments)

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens, registry),
		Topics:   handler.NewTopicHandler(topics, registry),
		Posts:    handler.NewPostHandler(feed, topics),
		Comments: handler.NewCommentHandler(feed),
	}

	e := echo.New()
	router.RegisterRoutes(e, h, tokens, users, rdb)

	// Background consumer; reconnects on its own and never stops the server.
	go func() {
		if err := queue.StartPostConsumer(); err != nil {
			log.Printf("post consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, token ttl=%s)", addr, cfg.Env, cfg.TokenTTL)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
