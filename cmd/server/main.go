package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/example/nearbuy/internal/config"
	"github.com/example/nearbuy/internal/database"
	"github.com/example/nearbuy/internal/realtime"
	"github.com/example/nearbuy/internal/routes"
	"github.com/example/nearbuy/internal/services"
	"github.com/example/nearbuy/internal/storage"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName:      "Nearbuy Backend",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	hub := realtime.NewHub()

	cache := connectRedis(cfg.RedisURL)

	images, err := storage.NewImageStore(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBaseURL)
	if err != nil {
		log.Printf("image storage unavailable: %v", err)
		images = nil
	}

	routes.Register(app, db, cfg, hub, cache, images)

	sweeper := services.NewSweeper(db, hub)
	if err := sweeper.Start(cfg.SweepSpec); err != nil {
		log.Fatalf("failed to start expiry sweeper: %v", err)
	}
	defer sweeper.Stop()

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

// errorHandler converts every error into the uniform {success, message}
// response shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func connectRedis(url string) *redis.Client {
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("analytics cache disabled: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("analytics cache unreachable, continuing without it: %v", err)
		return nil
	}

	return client
}
