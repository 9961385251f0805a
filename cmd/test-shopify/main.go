package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
	"github.com/jafarshop/productcreator/internal/shopify"
)

func main() {
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Testing Shopify connection...\n\n")
	fmt.Printf("Shop Domain: %s\n", cfg.Shopify.ShopDomain)
	fmt.Printf("API Version: %s\n", cfg.Shopify.APIVersion)
	fmt.Printf("Access Token: %s...%s\n",
		cfg.Shopify.AccessToken[:min(10, len(cfg.Shopify.AccessToken))],
		cfg.Shopify.AccessToken[max(0, len(cfg.Shopify.AccessToken)-4):])
	fmt.Println()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := shopify.NewClient(cfg.Shopify, logger)

	resp, err := client.Execute(context.Background(), shopify.ShopQuery, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Connection failed: %v\n\n", err)
		fmt.Println("Please check:")
		fmt.Println("  1. SHOPIFY_SHOP_DOMAIN format: should be 'store-name.myshopify.com' (no https://)")
		fmt.Println("  2. SHOPIFY_ACCESS_TOKEN: should start with 'shpat_' and be the full token")
		fmt.Println("  3. Token permissions: needs 'write_products' and 'write_files' scopes")
		os.Exit(1)
	}

	var data struct {
		Shop struct {
			Name            string `json:"name"`
			MyshopifyDomain string `json:"myshopifyDomain"`
			PrimaryDomain   struct {
				Host string `json:"host"`
			} `json:"primaryDomain"`
		} `json:"shop"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Connection successful!")
	fmt.Printf("Shop: %s\n", data.Shop.Name)
	fmt.Printf("myshopify domain: %s\n", data.Shop.MyshopifyDomain)
	fmt.Printf("Primary domain: %s\n", data.Shop.PrimaryDomain.Host)
	if data.Shop.MyshopifyDomain != "" && shopify.NormalizeDomain(data.Shop.MyshopifyDomain) != client.Domain() {
		fmt.Printf("\n⚠️  Writes to %s will be redirected; set SHOPIFY_SHOP_DOMAIN=%s to skip the redirect\n",
			client.Domain(), data.Shop.MyshopifyDomain)
	}
}
