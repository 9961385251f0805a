package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/api"
	"github.com/jafarshop/productcreator/internal/catalog"
	"github.com/jafarshop/productcreator/internal/config"
	"github.com/jafarshop/productcreator/internal/logging"
	"github.com/jafarshop/productcreator/internal/pricebandit"
	"github.com/jafarshop/productcreator/internal/service"
	"github.com/jafarshop/productcreator/internal/shopify"
)

func main() {
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)
	defer logger.Sync()

	logger.Info("Starting Product Creator server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("shop", cfg.Shopify.ShopDomain),
	)

	if err := catalog.Validate(); err != nil {
		logger.Fatal("Category tables are inconsistent", zap.Error(err))
	}

	client := shopify.NewClient(cfg.Shopify, logger)

	var variants service.VariantGenerator
	if cfg.PriceBandit.BaseURL != "" {
		variants = pricebandit.NewClient(cfg.PriceBandit, logger)
	} else {
		logger.Warn("PRICE_BANDIT_URL not set; variant generation will be skipped")
	}

	products := service.NewProductService(client, variants, cfg.Timing, logger)

	router := api.NewRouter(cfg, products, logger)

	// Product runs sleep between steps and upload media, so the write timeout is generous
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
