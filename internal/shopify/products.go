package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Product is the subset of the REST product resource the assembler reads
type Product struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Handle    string    `json:"handle"`
	Status    string    `json:"status"`
	BodyHTML  string    `json:"body_html"`
	Tags      string    `json:"tags"`
	CreatedAt string    `json:"created_at"`
	Images    []Image   `json:"images"`
	Variants  []Variant `json:"variants"`
}

// CreatedTime parses created_at; the zero time is returned when it is missing or malformed
func (p Product) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

type Variant struct {
	ID       int64  `json:"id"`
	SKU      string `json:"sku"`
	Price    string `json:"price"`
	Taxable  bool   `json:"taxable"`
	Position int    `json:"position"`
}

// ProductInput is the body of a product create or update
type ProductInput struct {
	ID       int64          `json:"id,omitempty"`
	Title    string         `json:"title"`
	BodyHTML string         `json:"body_html"`
	Status   string         `json:"status"`
	Tags     string         `json:"tags"`
	Variants []VariantInput `json:"variants,omitempty"`
}

type VariantInput struct {
	Price             string  `json:"price"`
	SKU               string  `json:"sku,omitempty"`
	Weight            float64 `json:"weight,omitempty"`
	WeightUnit        string  `json:"weight_unit,omitempty"`
	InventoryQuantity *int    `json:"inventory_quantity,omitempty"`
	RequiresShipping  bool    `json:"requires_shipping"`
}

// ProductPayload is a decoded product response. Shopify sometimes answers a
// single-product write with a "products" list, so exactly one of the fields is set.
type ProductPayload struct {
	Product  *Product
	Products []Product
}

// DecodeProductPayload decodes a product response body.
// A body carrying an "errors" key is an error even on a 2xx status.
func DecodeProductPayload(body []byte) (*ProductPayload, error) {
	var envelope struct {
		Product  *Product        `json:"product"`
		Products []Product       `json:"products"`
		Errors   json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	if len(envelope.Errors) > 0 && string(envelope.Errors) != "null" {
		return nil, fmt.Errorf("shopify returned errors: %s", string(envelope.Errors))
	}
	switch {
	case envelope.Product != nil:
		return &ProductPayload{Product: envelope.Product}, nil
	case envelope.Products != nil:
		return &ProductPayload{Products: envelope.Products}, nil
	}
	return nil, fmt.Errorf("product response has neither product nor products: %s", truncate(string(body), 300))
}

// ProductWrite is the outcome of a create or update
type ProductWrite struct {
	Payload *ProductPayload
	// RedirectedHost is set when Shopify moved the request to another shop host
	RedirectedHost string
}

// CreateProduct posts a new product
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*ProductWrite, error) {
	resp, err := c.REST(ctx, http.MethodPost, "products.json", map[string]interface{}{"product": input})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	payload, err := DecodeProductPayload(resp.Body)
	if err != nil {
		return nil, err
	}
	return &ProductWrite{Payload: payload, RedirectedHost: resp.RedirectedHost}, nil
}

// UpdateProduct updates an existing product's core fields
func (c *Client) UpdateProduct(ctx context.Context, productID int64, input ProductInput) (*ProductWrite, error) {
	input.ID = productID
	path := fmt.Sprintf("products/%d.json", productID)
	resp, err := c.REST(ctx, http.MethodPut, path, map[string]interface{}{"product": input})
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", productID, err)
	}
	payload, err := DecodeProductPayload(resp.Body)
	if err != nil {
		return nil, err
	}
	return &ProductWrite{Payload: payload, RedirectedHost: resp.RedirectedHost}, nil
}

// GetProduct fetches one product with its images and variants
func (c *Client) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	resp, err := c.REST(ctx, http.MethodGet, fmt.Sprintf("products/%d.json", productID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	payload, err := DecodeProductPayload(resp.Body)
	if err != nil {
		return nil, err
	}
	if payload.Product != nil {
		return payload.Product, nil
	}
	for i := range payload.Products {
		if payload.Products[i].ID == productID {
			return &payload.Products[i], nil
		}
	}
	return nil, fmt.Errorf("product %d not found in response", productID)
}

// SearchProductsByTitle lists products whose title matches exactly
func (c *Client) SearchProductsByTitle(ctx context.Context, title string) ([]Product, error) {
	q := url.Values{}
	q.Set("title", title)
	return c.listProducts(ctx, q)
}

// ListRecentProducts lists the newest products first
func (c *Client) ListRecentProducts(ctx context.Context, limit int) ([]Product, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order", "created_at desc")
	return c.listProducts(ctx, q)
}

func (c *Client) listProducts(ctx context.Context, q url.Values) ([]Product, error) {
	resp, err := c.REST(ctx, http.MethodGet, "products.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	payload, err := DecodeProductPayload(resp.Body)
	if err != nil {
		return nil, err
	}
	if payload.Product != nil {
		return []Product{*payload.Product}, nil
	}
	return payload.Products, nil
}

// SetCoverImage makes imageID the product's main image
func (c *Client) SetCoverImage(ctx context.Context, productID, imageID int64) error {
	body := map[string]interface{}{
		"product": map[string]interface{}{
			"id":    productID,
			"image": map[string]interface{}{"id": imageID},
		},
	}
	if _, err := c.REST(ctx, http.MethodPut, fmt.Sprintf("products/%d.json", productID), body); err != nil {
		return fmt.Errorf("failed to set cover image %d on product %d: %w", imageID, productID, err)
	}
	return nil
}

// VariantUpdate is a partial variant sent back inside a product update
type VariantUpdate struct {
	ID      int64 `json:"id"`
	Taxable bool  `json:"taxable"`
}

// UpdateVariants sends the given variants back through the product endpoint.
// Every existing variant must be listed or Shopify drops the missing ones.
func (c *Client) UpdateVariants(ctx context.Context, productID int64, variants []VariantUpdate) error {
	body := map[string]interface{}{
		"product": map[string]interface{}{
			"id":       productID,
			"variants": variants,
		},
	}
	if _, err := c.REST(ctx, http.MethodPut, fmt.Sprintf("products/%d.json", productID), body); err != nil {
		return fmt.Errorf("failed to update variants of product %d: %w", productID, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
