package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/example/nearbuy/internal/config"
	"github.com/example/nearbuy/internal/handlers"
	"github.com/example/nearbuy/internal/middleware"
	"github.com/example/nearbuy/internal/models"
	"github.com/example/nearbuy/internal/realtime"
	"github.com/example/nearbuy/internal/services"
	"github.com/example/nearbuy/internal/storage"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, hub *realtime.Hub, cache *redis.Client, images *storage.ImageStore) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	analyticsService := services.NewAnalyticsService(db, cache)

	authHandler := handlers.NewAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db)
	dealHandler := handlers.NewDealHandler(db, hub)
	nearbyHandler := handlers.NewNearbyHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, hub, telegramService)
	favoriteHandler := handlers.NewFavoriteHandler(db)
	templateHandler := handlers.NewTemplateHandler(db, hub)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	uploadHandler := handlers.NewUploadHandler(images)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/otp/request", authHandler.RequestOTP)
	auth.Post("/otp/verify", authHandler.VerifyOTP)

	// Public discovery
	api.Get("/deals/nearby", nearbyHandler.NearbyDeals)
	api.Get("/vendors/nearby", nearbyHandler.NearbyVendors)
	api.Get("/deals/:id", dealHandler.GetDeal)

	// Realtime change feed
	api.Use("/ws", realtime.Upgrade)
	api.Get("/ws", realtime.ServeWS(hub))

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Post("/uploads/image", uploadHandler.UploadImage)

	vendor := protected.Group("", middleware.RequireRole(models.RoleVendor))
	vendor.Post("/deals", dealHandler.CreateDeal)
	vendor.Put("/deals/:id", dealHandler.UpdateDeal)
	vendor.Patch("/deals/:id/quantity", dealHandler.UpdateQuantity)
	vendor.Post("/deals/:id/sold", dealHandler.MarkSold)
	vendor.Get("/vendor/deals", dealHandler.ListVendorDeals)

	vendor.Post("/templates", templateHandler.CreateTemplate)
	vendor.Get("/templates", templateHandler.ListTemplates)
	vendor.Put("/templates/:id", templateHandler.UpdateTemplate)
	vendor.Delete("/templates/:id", templateHandler.DeleteTemplate)
	vendor.Post("/templates/:id/publish", templateHandler.PublishTemplate)

	vendor.Get("/vendor/analytics/revenue", analyticsHandler.RevenueSummary)
	vendor.Get("/vendor/analytics/daily", analyticsHandler.DailyRevenue)
	vendor.Get("/vendor/analytics/repeat-buyers", analyticsHandler.RepeatBuyers)

	vendor.Patch("/orders/:id/status", orderHandler.ResolveOrder)
	vendor.Post("/orders/:id/tracking", orderHandler.AddTracking)

	buyer := protected.Group("", middleware.RequireRole(models.RoleBuyer))
	buyer.Post("/orders", orderHandler.Reserve)
	buyer.Get("/orders", orderHandler.ListOrders)
	buyer.Get("/orders/:id", orderHandler.GetOrder)
	buyer.Get("/orders/:id/tracking", orderHandler.ListTracking)

	buyer.Post("/favorites/:vendorID", favoriteHandler.AddFavorite)
	buyer.Delete("/favorites/:vendorID", favoriteHandler.RemoveFavorite)
	buyer.Get("/favorites", favoriteHandler.ListFavorites)
}
