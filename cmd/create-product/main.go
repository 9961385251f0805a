package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
	"github.com/jafarshop/productcreator/internal/domain"
	"github.com/jafarshop/productcreator/internal/logging"
	"github.com/jafarshop/productcreator/internal/pricebandit"
	"github.com/jafarshop/productcreator/internal/service"
	"github.com/jafarshop/productcreator/internal/shopify"
)

func main() {
	productIDFlag := flag.Int64("product-id", 0, "Update this product instead of creating one (overrides product_id in the file)")
	skipVariantsFlag := flag.Bool("skip-variants", false, "Do not call Price Bandit even if PRICE_BANDIT_URL is set")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/create-product/main.go [--product-id 123] [--skip-variants] request.json")
		fmt.Println("Use - to read the request from stdin.")
		os.Exit(1)
	}

	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg)
	defer logger.Sync()

	req, err := readRequest(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read request: %v\n", err)
		os.Exit(1)
	}
	if *productIDFlag > 0 {
		req.ProductID = productIDFlag
	}

	var variants service.VariantGenerator
	if cfg.PriceBandit.BaseURL != "" && !*skipVariantsFlag {
		variants = pricebandit.NewClient(cfg.PriceBandit, logger)
	}

	products := service.NewProductService(shopify.NewClient(cfg.Shopify, logger), variants, cfg.Timing, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := products.SaveProduct(ctx, req)
	if result != nil {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
	}
	if err != nil {
		logger.Error("Product run failed", zap.Error(err))
		os.Exit(1)
	}
}

func readRequest(path string) (*domain.ProductRequest, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	var req domain.ProductRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &req, nil
}
