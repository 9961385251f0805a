package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/productcreator/internal/domain"
)

func byKey(fields []domain.Metafield) map[string]domain.Metafield {
	out := map[string]domain.Metafield{}
	for _, f := range fields {
		out[f.Key] = f
	}
	return out
}

func TestBuildMetafields_RoutesSubcategoriesIntoBuckets(t *testing.T) {
	req := &domain.ProductRequest{
		Title:         "Mixed",
		Categories:    domain.StringList{"Chocolate", "Chocolate"},
		Subcategories: domain.StringList{"Bars", "Treats"},
		Metafields: []domain.Metafield{
			{Namespace: "custom", Key: "subcategory_2", Type: domain.MetafieldTypeListSingleLine, Value: domain.List{"Jar"}},
			{Namespace: "custom", Key: "custom_category", Type: domain.MetafieldTypeListSingleLine, Value: domain.List{"Ignored"}},
			{Namespace: "custom", Key: "flavour", Value: domain.Scalar("Mint")},
		},
	}

	fields := BuildMetafields(req)
	got := byKey(fields)

	assert.Len(t, fields, 4)
	assert.Equal(t, domain.List{"Chocolate"}, got["custom_category"].Value)
	assert.Equal(t, domain.List{"Bars"}, got["subcategory"].Value)
	assert.Equal(t, domain.List{"Treats", "Jar"}, got["subcategory_2"].Value)
	assert.Equal(t, domain.MetafieldTypeListSingleLine, got["subcategory_2"].Type)
	assert.Equal(t, domain.Scalar("Mint"), got["flavour"].Value)
}

func TestBuildMetafields_CategoriesFromMetafields(t *testing.T) {
	req := &domain.ProductRequest{
		Title: "Tea",
		Metafields: []domain.Metafield{
			{Namespace: "custom", Key: "custom_category", Value: domain.Scalar(`["Chocolate","Gifts"]`)},
			{Namespace: "custom", Key: "subcategory", Value: domain.Scalar("Bars")},
		},
	}

	got := byKey(BuildMetafields(req))
	assert.Equal(t, domain.List{"Chocolate", "Gifts"}, got["custom_category"].Value)
	assert.Equal(t, domain.List{"Bars"}, got["subcategory"].Value)
}

func TestBuildMetafields_SingleCategoryField(t *testing.T) {
	req := &domain.ProductRequest{Title: "Tea", Category: " Chocolate ", Subcategory: "Bars"}

	got := byKey(BuildMetafields(req))
	assert.Equal(t, domain.List{"Chocolate"}, got["custom_category"].Value)
	assert.Equal(t, domain.List{"Bars"}, got["subcategory"].Value)
}

func TestBuildMetafields_ColourDefaults(t *testing.T) {
	req := &domain.ProductRequest{
		Title:          "Pens",
		ProductColours: " Red, Blue ",
		Metafields: []domain.Metafield{
			{Namespace: "custom", Key: "pricejsontr", Value: domain.Scalar(`[{"min":0,"max":10,"price":1.5}]`)},
		},
	}

	fields := BuildMetafields(req)
	got := byKey(fields)
	require.Len(t, fields, 3)
	assert.Equal(t, domain.Scalar("Red, Blue"), got["product_colours"].Value)
	assert.Equal(t, domain.Scalar(`[{"min":0,"max":10,"price":1.5}]`), got["pricejsontr"].Value)
	assert.Equal(t, domain.Scalar(domain.DefaultPriceBands), got["pricejsoner"].Value)
}

func TestBuildMetafields_NothingSelected(t *testing.T) {
	assert.Empty(t, BuildMetafields(&domain.ProductRequest{Title: "Plain"}))
}

func TestRequestCustomSKU(t *testing.T) {
	req := &domain.ProductRequest{Metafields: []domain.Metafield{
		{Namespace: "custom", Key: "sku", Value: domain.Scalar(`["ABC-1"]`)},
	}}
	assert.Equal(t, "ABC-1", RequestCustomSKU(req))
	assert.Empty(t, RequestCustomSKU(&domain.ProductRequest{}))
}
