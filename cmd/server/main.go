package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/metawall/metawall/internal/config"
	"github.com/metawall/metawall/internal/database"
	"github.com/metawall/metawall/internal/handler"
	"github.com/metawall/metawall/internal/queue"
	"github.com/metawall/metawall/internal/repository"
	"github.com/metawall/metawall/internal/router"
	"github.com/metawall/metawall/internal/service"
	"github.com/metawall/metawall/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment
	cfg := config.Load()

	client, db, err := database.Open(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := repository.NewUserRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)
	images := repository.NewImageRepo(db)

	ctx := context.Background()
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	blobs, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	rdb := config.NewRedisClient() // nil disables rate limiting and caching
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}

	publisher := service.NewFollowPublisher(cfg.RabbitURL)
	go queue.StartFollowConsumer(cfg.RabbitURL, users) // follow.sync repair loop

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users),
		Profile: handler.NewProfileHandler(users, posts, comments, publisher),
		Post:    handler.NewPostHandler(posts, comments),
		Comment: handler.NewCommentHandler(comments),
		Upload:  handler.NewUploadHandler(blobs, images),
	}, users, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
