package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.ShopifyConfig{
		ShopDomain:  "https://" + srv.Listener.Addr().String() + "/",
		AccessToken: "shpat_test",
		APIVersion:  "2024-10",
	}
	return NewClientWithHTTP(cfg, srv.Client(), zap.NewNop()), srv
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "shop.myshopify.com", NormalizeDomain(" https://shop.myshopify.com/ "))
	assert.Equal(t, "shop.myshopify.com", NormalizeDomain("http://shop.myshopify.com"))
	assert.Equal(t, "shop.myshopify.com", NormalizeDomain("shop.myshopify.com"))
}

func TestREST_SendsTokenAndJSON(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "/admin/api/2024-10/products.json", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"product":{"id":7,"title":"Tea"}}`))
	}))

	write, err := client.CreateProduct(context.Background(), ProductInput{Title: "Tea", Status: "active"})
	require.NoError(t, err)
	require.NotNil(t, write.Payload.Product)
	assert.Equal(t, int64(7), write.Payload.Product.ID)
	assert.Empty(t, write.RedirectedHost)
}

func TestREST_FollowsRedirectPreservingMethod(t *testing.T) {
	var canonicalHits int
	canonical := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		canonicalHits++
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"title":"Tea"`)
		_, _ = w.Write([]byte(`{"product":{"id":9,"title":"Tea"}}`))
	}))
	defer canonical.Close()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, canonical.URL+r.URL.Path, http.StatusMovedPermanently)
	}))

	write, err := client.CreateProduct(context.Background(), ProductInput{Title: "Tea"})
	require.NoError(t, err)
	assert.Equal(t, 1, canonicalHits)
	assert.Equal(t, int64(9), write.Payload.Product.ID)
	assert.Equal(t, canonical.Listener.Addr().String(), write.RedirectedHost)

	moved := client.WithDomain(write.RedirectedHost)
	assert.Equal(t, write.RedirectedHost, moved.Domain())
	assert.NotEqual(t, moved.Domain(), client.Domain())
}

func TestREST_RelativeRedirect(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/admin/api/2024-10/products/1.json" {
			w.Header().Set("Location", "/admin/api/2024-10/products/2.json")
			w.WriteHeader(http.StatusTemporaryRedirect)
			return
		}
		assert.Equal(t, http.MethodPut, r.Method)
		_, _ = w.Write([]byte(`{"product":{"id":2,"title":"Moved"}}`))
	}))

	write, err := client.UpdateProduct(context.Background(), 1, ProductInput{Title: "Moved"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), write.Payload.Product.ID)
	assert.Empty(t, write.RedirectedHost)
}

func TestREST_RedirectLoopFails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))

	_, err := client.GetProduct(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than")
}

func TestREST_StatusError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":"Not Found"}`))
	}))

	_, err := client.GetProduct(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusUnprocessableEntity))
}

func TestDecodeProductPayload(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantID    int64
		wantList  int
		wantError bool
	}{
		{name: "singular", body: `{"product":{"id":1}}`, wantID: 1},
		{name: "plural", body: `{"products":[{"id":1},{"id":2}]}`, wantList: 2},
		{name: "empty plural", body: `{"products":[]}`, wantList: 0},
		{name: "errors key", body: `{"errors":{"title":["can't be blank"]}}`, wantError: true},
		{name: "neither", body: `{"shop":{}}`, wantError: true},
		{name: "not json", body: `<html>`, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := DecodeProductPayload([]byte(tt.body))
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantID != 0 {
				require.NotNil(t, payload.Product)
				assert.Equal(t, tt.wantID, payload.Product.ID)
				return
			}
			assert.Nil(t, payload.Product)
			assert.Len(t, payload.Products, tt.wantList)
		})
	}
}

func TestParseAllowedChoices(t *testing.T) {
	body := `{"errors":{"value":["Value does not exist in provided choices: [\"Bars\",\"Truffles\",\"Gift\\/Boxes\"]."]}}`
	choices, ok := ParseAllowedChoices(body)
	require.True(t, ok)
	assert.Equal(t, []string{"Bars", "Truffles", "Gift/Boxes"}, choices)

	_, ok = ParseAllowedChoices(`{"errors":{"value":["is invalid"]}}`)
	assert.False(t, ok)

	_, ok = ParseAllowedChoices(`does not exist in provided choices but no list`)
	assert.False(t, ok)
}

func TestChoiceConflict_OnlyFor422(t *testing.T) {
	body := `{"errors":{"value":["Value does not exist in provided choices: [\"Bars\"]"]}}`

	choices, ok := ChoiceConflict(&HTTPStatusError{StatusCode: http.StatusUnprocessableEntity, Body: body})
	require.True(t, ok)
	assert.Equal(t, []string{"Bars"}, choices)

	_, ok = ChoiceConflict(&HTTPStatusError{StatusCode: http.StatusBadRequest, Body: body})
	assert.False(t, ok)
}

func TestAttachFiles_BuildsGlobalIDs(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-10/graphql.json", r.URL.Path)
		var req GraphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		inputs := req.Variables["input"].([]interface{})
		require.Len(t, inputs, 2)
		first := inputs[0].(map[string]interface{})
		assert.Equal(t, "gid://shopify/MediaImage/11", first["id"])
		assert.Equal(t, []interface{}{"gid://shopify/Product/5"}, first["referencesToAdd"])
		second := inputs[1].(map[string]interface{})
		assert.Equal(t, "gid://shopify/Video/12", second["id"])

		_, _ = w.Write([]byte(`{"data":{"fileUpdate":{"files":[{"id":"a"},{"id":"b"}],"userErrors":[]}}}`))
	}))

	attached, userErrors, err := client.AttachFiles(context.Background(), 5, []string{"11", "gid://shopify/Video/12"})
	require.NoError(t, err)
	assert.Equal(t, 2, attached)
	assert.Empty(t, userErrors)
}

func TestExtractIDFromGID(t *testing.T) {
	id, err := ExtractIDFromGID("gid://shopify/Product/123")
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	id, err = ExtractIDFromGID(" 456 ")
	require.NoError(t, err)
	assert.Equal(t, int64(456), id)

	_, err = ExtractIDFromGID("gid://shopify/Product/")
	assert.Error(t, err)

	_, err = ExtractIDFromGID("gid://shopify/MediaImage/abc")
	assert.Error(t, err)
}

func TestMetafield_UnmarshalNonStringValues(t *testing.T) {
	body := `{"metafields":[
		{"id":1,"namespace":"custom","key":"sku","value":"SKU-1","type":"single_line_text_field"},
		{"id":2,"namespace":"custom","key":"pack","value":12,"type":"number_integer"},
		{"id":3,"namespace":"custom","key":"gift","value":true,"type":"boolean"},
		{"id":4,"namespace":"custom","key":"empty","value":null,"type":"single_line_text_field"}
	]}`
	var out struct {
		Metafields []Metafield `json:"metafields"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Metafields, 4)
	assert.Equal(t, "SKU-1", out.Metafields[0].Value)
	assert.Equal(t, "12", out.Metafields[1].Value)
	assert.Equal(t, int64(2), out.Metafields[1].ID)
	assert.Equal(t, "pack", out.Metafields[1].Key)
	assert.Equal(t, "true", out.Metafields[2].Value)
	assert.Equal(t, "", out.Metafields[3].Value)
}
