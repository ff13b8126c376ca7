package main

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/cache"
	"storefront/controllers"
	"storefront/database"
	"storefront/kafka"
	"storefront/logger"
	"storefront/models"
	"storefront/repository"
	"storefront/routes"
	"storefront/services"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		panic(err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	db, err := database.Connect(cfg.DSN(), logger.Log,
		&models.User{},
		&models.Category{},
		&models.Software{},
		&models.Cart{},
		&models.CartItem{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Review{},
		&models.SupportTicket{},
	)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	store := repository.NewGormStore(db)
	tokens := services.NewTokenService(cfg.JWTSecret, 24*time.Hour)

	// Redis and Kafka are optional; the store runs without them.
	var catalogCache services.CatalogCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		catalogCache = cache.New(client, logger.Log)
		logger.Log.Info("Catalog cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	var events services.EventPublisher
	if cfg.KafkaBrokers != "" {
		producer := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, logger.Log)
		defer producer.Close()
		events = producer
		logger.Log.Info("Purchase events enabled", zap.String("topic", cfg.KafkaTopic))
	}

	userService := services.NewUserService(store, tokens, logger.Log)
	catalogService := services.NewCatalogService(store, catalogCache, logger.Log)
	cartService := services.NewCartService(store, logger.Log)
	checkoutService := services.NewCheckoutService(store, events, logger.Log)
	reviewService := services.NewReviewService(store, logger.Log)
	ticketService := services.NewTicketService(store, logger.Log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.RequestLogger(), gin.Recovery())

	routes.Register(
		router,
		tokens,
		controllers.NewAuthController(userService),
		controllers.NewCatalogController(catalogService),
		controllers.NewCartController(cartService),
		controllers.NewCheckoutController(checkoutService),
		controllers.NewReviewController(reviewService),
		controllers.NewTicketController(ticketService),
		controllers.NewAdminController(catalogService, userService, ticketService, reviewService, checkoutService),
	)

	logger.Log.Info("Storefront listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server stopped", zap.Error(err))
	}
}
