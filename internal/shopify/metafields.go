package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Metafield is a product metafield as returned by the REST API
type Metafield struct {
	ID        int64  `json:"id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// UnmarshalJSON keeps non-string values (integers, booleans, JSON objects) as their literal text
func (m *Metafield) UnmarshalJSON(data []byte) error {
	type alias Metafield
	var raw struct {
		alias
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Metafield(raw.alias)
	if len(raw.Value) > 0 && raw.Value[0] == '"' {
		return json.Unmarshal(raw.Value, &m.Value)
	}
	if string(raw.Value) != "null" {
		m.Value = string(raw.Value)
	}
	return nil
}

// MetafieldInput is the body for creating a metafield
type MetafieldInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// ListProductMetafields returns every metafield on the product (up to 250)
func (c *Client) ListProductMetafields(ctx context.Context, productID int64) ([]Metafield, error) {
	resp, err := c.REST(ctx, http.MethodGet, fmt.Sprintf("products/%d/metafields.json?limit=250", productID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list metafields: %w", err)
	}
	var out struct {
		Metafields []Metafield `json:"metafields"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode metafields: %w", err)
	}
	return out.Metafields, nil
}

// CreateProductMetafield creates a metafield on the product
func (c *Client) CreateProductMetafield(ctx context.Context, productID int64, input MetafieldInput) (*Metafield, error) {
	resp, err := c.REST(ctx, http.MethodPost, fmt.Sprintf("products/%d/metafields.json", productID),
		map[string]interface{}{"metafield": input})
	if err != nil {
		return nil, fmt.Errorf("failed to create metafield %s.%s: %w", input.Namespace, input.Key, err)
	}
	return decodeMetafield(resp.Body)
}

// UpdateProductMetafield replaces the value of an existing metafield.
// The type cannot change after creation so only the value is sent.
func (c *Client) UpdateProductMetafield(ctx context.Context, productID, metafieldID int64, value string) (*Metafield, error) {
	resp, err := c.REST(ctx, http.MethodPut, fmt.Sprintf("products/%d/metafields/%d.json", productID, metafieldID),
		map[string]interface{}{"metafield": map[string]interface{}{"value": value}})
	if err != nil {
		return nil, fmt.Errorf("failed to update metafield %d: %w", metafieldID, err)
	}
	return decodeMetafield(resp.Body)
}

func decodeMetafield(body []byte) (*Metafield, error) {
	var out struct {
		Metafield *Metafield `json:"metafield"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode metafield: %w", err)
	}
	if out.Metafield == nil {
		return &Metafield{}, nil
	}
	return out.Metafield, nil
}
