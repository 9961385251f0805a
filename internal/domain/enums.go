package domain

import "strings"

// ProductStatus is the Shopify product status
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// IsValid checks if the product status is one Shopify accepts
func (s ProductStatus) IsValid() bool {
	switch s.normalize() {
	case ProductStatusDraft, ProductStatusActive, ProductStatusArchived:
		return true
	default:
		return false
	}
}

// OrDefault returns the normalized status, or active when none was supplied
func (s ProductStatus) OrDefault() ProductStatus {
	if s.normalize() == "" {
		return ProductStatusActive
	}
	return s.normalize()
}

func (s ProductStatus) normalize() ProductStatus {
	return ProductStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

// Action is what the run did to the product
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// Metafield types used by the product creator
const (
	MetafieldTypeSingleLine     = "single_line_text_field"
	MetafieldTypeListSingleLine = "list.single_line_text_field"
)

// Metafield namespace and keys with special handling
const (
	NamespaceCustom          = "custom"
	KeyCategory              = "custom_category"
	KeySubcategory           = "subcategory"
	KeySKU                   = "sku"
	KeyProductColours        = "product_colours"
	KeyTradePriceBands       = "pricejsontr"
	KeyEndCustomerPriceBands = "pricejsoner"
)

// DefaultPriceBands is written for colour products that arrive without pricing bands
const DefaultPriceBands = `[{"min": 0, "max": 100, "price": 0.00}]`

// IsListType reports whether a metafield type stores a JSON array
func IsListType(metafieldType string) bool {
	return strings.HasPrefix(metafieldType, "list.")
}

// IsSubcategoryKey reports whether namespace/key belongs to the subcategory family (subcategory, subcategory_2, ...)
func IsSubcategoryKey(namespace, key string) bool {
	return namespace == NamespaceCustom && (key == KeySubcategory || strings.HasPrefix(key, KeySubcategory+"_"))
}
