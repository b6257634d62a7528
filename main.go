// main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-storefront/controllers"
	"go-storefront/routes"
	"go-storefront/services"
	"go-storefront/stores/mongostore"
	"go-storefront/stores/rediscache"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, proceeding with environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	client, err := utils.ConnectDB(ctx)
	if err != nil {
		slog.Error("mongo connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("mongo disconnect failed", "error", err)
		}
	}()

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "ecommerce"
	}
	db := client.Database(dbName)

	if err := utils.EnsureIndexes(ctx, db); err != nil {
		slog.Error("index bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Connect to redis
	rdb, err := utils.ConnectCache(ctx)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Stores
	catalog := mongostore.NewCatalog(db)
	carts := mongostore.NewCartRepo(db)
	orders := mongostore.NewOrderRepo(db)
	coupons := mongostore.NewCouponRepo(db)
	users := mongostore.NewUserRepo(db)
	cache := rediscache.New(rdb)

	// Services
	cacheTTL := services.DefaultProductTTL
	if raw := os.Getenv("PRODUCT_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			cacheTTL = parsed
		} else {
			slog.Warn("invalid PRODUCT_CACHE_TTL, using default", "value", raw)
		}
	}
	productCache := services.NewProductCacheService(catalog, cache, cacheTTL)
	catalogService := services.NewCatalogService(catalog, productCache)
	cartService := services.NewCartService(carts, catalog)
	couponService := services.NewCouponService(coupons)
	orderService := services.NewOrderService(carts, catalog, orders, couponService)

	// Controllers
	userController := controllers.NewUserController(users, emailService)
	productController := controllers.NewProductController(catalogService, productCache)
	cartController := controllers.NewCartController(cartService, users)
	orderController := controllers.NewOrderController(orderService, users, emailService)
	couponController := controllers.NewCouponController(coupons)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, orderController, couponController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("server listening", "port", port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
