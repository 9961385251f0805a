package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
	"github.com/jafarshop/productcreator/internal/shopify"
)

func main() {
	limitFlag := flag.Int("limit", 10, "Number of most recently created products to show")
	titleFlag := flag.String("title", "", "Only products with this exact title")
	metafieldsFlag := flag.Bool("metafields", false, "Also print each product's metafields")
	flag.Parse()

	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := shopify.NewClient(cfg.Shopify, logger)
	ctx := context.Background()

	var products []shopify.Product
	if *titleFlag != "" {
		fmt.Printf("🔍 Searching products titled %q...\n", *titleFlag)
		products, err = client.SearchProductsByTitle(ctx, *titleFlag)
	} else {
		fmt.Printf("🔍 Fetching the %d most recent products...\n", *limitFlag)
		products, err = client.ListRecentProducts(ctx, *limitFlag)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to query Shopify: %v\n", err)
		os.Exit(1)
	}

	for _, p := range products {
		fmt.Printf("\n%d  %s  [%s]  created %s\n", p.ID, p.Title, p.Status, p.CreatedAt)
		for _, v := range p.Variants {
			fmt.Printf("   variant %d  sku=%s  price=%s  taxable=%t\n", v.ID, v.SKU, v.Price, v.Taxable)
		}
		if len(p.Images) > 0 {
			ids := make([]string, 0, len(p.Images))
			for _, img := range p.Images {
				ids = append(ids, fmt.Sprintf("%d@%d", img.ID, img.Position))
			}
			fmt.Printf("   images: %s\n", strings.Join(ids, ", "))
		}
		if *metafieldsFlag {
			fields, err := client.ListProductMetafields(ctx, p.ID)
			if err != nil {
				fmt.Printf("   metafields: error: %v\n", err)
				continue
			}
			for _, mf := range fields {
				fmt.Printf("   %s.%s (%s) = %s\n", mf.Namespace, mf.Key, mf.Type, mf.Value)
			}
		}
	}
	fmt.Printf("\nTotal: %d products\n", len(products))
}
