package pricebandit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
	"github.com/jafarshop/productcreator/internal/service"
)

// Client calls the Price Bandit service, which builds size/colour variants and prices
// for a product from its pricing metafields.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Price Bandit HTTP client
func NewClient(cfg config.PriceBanditConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

// Configured reports whether a base URL is set
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type processRequest struct {
	ID           int64                  `json:"id"`
	Title        string                 `json:"title"`
	ShopDomain   string                 `json:"shop_domain,omitempty"`
	ColourImages map[string]interface{} `json:"_colour_images,omitempty"`
}

type processResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// GenerateVariants asks Price Bandit to process the product.
// It returns false with a nil error when Price Bandit ran but reported failure.
func (c *Client) GenerateVariants(ctx context.Context, target service.VariantTarget) (bool, error) {
	if !c.Configured() {
		return false, fmt.Errorf("price bandit client not configured: base URL required")
	}
	body, err := json.Marshal(processRequest{
		ID:           target.ID,
		Title:        target.Title,
		ShopDomain:   target.ShopDomain,
		ColourImages: target.ColourImages,
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/products/process", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.serviceKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Price Bandit request failed", zap.Error(err), zap.Int64("product_id", target.ID))
		return false, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("price bandit returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out processResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return false, fmt.Errorf("failed to decode price bandit response: %w", err)
	}
	if !out.Success {
		c.logger.Warn("Price Bandit reported failure", zap.Int64("product_id", target.ID), zap.String("error", out.Error))
	}
	return out.Success, nil
}
