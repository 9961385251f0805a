package pricebandit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
	"github.com/jafarshop/productcreator/internal/service"
)

var _ service.VariantGenerator = (*Client)(nil)

func TestGenerateVariants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/products/process", r.URL.Path)
		assert.Equal(t, "Bearer svc-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(42), body["id"])
		assert.Equal(t, "Pens", body["title"])
		assert.Equal(t, "shop.myshopify.com", body["shop_domain"])
		assert.Equal(t, map[string]interface{}{"Red": "img-1"}, body["_colour_images"])

		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(config.PriceBanditConfig{BaseURL: srv.URL + "/", ServiceKey: "svc-key"}, zap.NewNop())
	ok, err := c.GenerateVariants(context.Background(), service.VariantTarget{
		ID:           42,
		Title:        "Pens",
		ShopDomain:   "shop.myshopify.com",
		ColourImages: map[string]interface{}{"Red": "img-1"},
	})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateVariants_ReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, hasColours := body["_colour_images"]
		assert.False(t, hasColours)
		_, _ = w.Write([]byte(`{"success":false,"error":"no pricing bands"}`))
	}))
	defer srv.Close()

	c := NewClient(config.PriceBanditConfig{BaseURL: srv.URL}, nil)
	ok, err := c.GenerateVariants(context.Background(), service.VariantTarget{ID: 1, Title: "Tea"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateVariants_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(config.PriceBanditConfig{BaseURL: srv.URL}, nil)
	_, err := c.GenerateVariants(context.Background(), service.VariantTarget{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGenerateVariants_NotConfigured(t *testing.T) {
	c := NewClient(config.PriceBanditConfig{}, nil)
	assert.False(t, c.Configured())
	_, err := c.GenerateVariants(context.Background(), service.VariantTarget{ID: 1})
	assert.Error(t, err)
}
