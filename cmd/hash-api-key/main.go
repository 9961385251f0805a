package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jafarshop/productcreator/internal/api/middleware"
)

func main() {
	apiKeyFlag := flag.String("api-key", "", "API key the product editor will send as a Bearer token")
	flag.Parse()

	apiKey := *apiKeyFlag
	if apiKey == "" && flag.NArg() >= 1 {
		apiKey = flag.Arg(0)
	}
	// Trim so the hash matches what the server receives (AuthMiddleware trims the Bearer token)
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/hash-api-key/main.go --api-key \"your-api-key\"")
		os.Exit(1)
	}

	hash, err := middleware.HashAPIKey(apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash API key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add this to .env (save the key itself; it cannot be recovered from the hash):")
	// single quotes stop .env loaders expanding the $ segments of the hash
	fmt.Printf("API_KEY_HASH='%s'\n", hash)
}
