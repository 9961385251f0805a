package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jafarshop/productcreator/pkg/errors"
)

var validate = validator.New()

// ProductRequest is the desired state of a product as sent by the product editor
type ProductRequest struct {
	ProductID         *int64                 `json:"product_id,omitempty" validate:"omitempty,gt=0"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	Status            ProductStatus          `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	Tags              string                 `json:"tags"`
	Price             FlexString             `json:"price"`
	SKU               string                 `json:"sku"`
	Weight            float64                `json:"weight" validate:"gte=0"`
	InventoryQuantity *int                   `json:"inventory_quantity,omitempty"`
	ChargeVAT         *FlexBool              `json:"charge_vat,omitempty"`
	Categories        StringList             `json:"categories,omitempty"`
	Category          string                 `json:"category,omitempty"`
	Subcategories     StringList             `json:"subcategories,omitempty"`
	Subcategory       string                 `json:"subcategory,omitempty"`
	ProductColours    string                 `json:"product_colours,omitempty"`
	ColourImages      map[string]interface{} `json:"colour_images,omitempty"`
	Metafields        []Metafield            `json:"metafields,omitempty"`
	MediaFiles        []MediaFile            `json:"media_files,omitempty" validate:"dive"`
	ShopifyMediaIDs   []string               `json:"shopify_media_ids,omitempty"`
	MediaOrder        MediaOrder             `json:"media_order,omitempty"`
}

// MediaFile is a new local file to upload. Content is base64 in JSON.
type MediaFile struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content" validate:"required"`
}

// IsVideo reports whether the declared content type is a video
func (f MediaFile) IsVideo() bool {
	return strings.HasPrefix(strings.ToLower(f.ContentType), "video/")
}

// IsUpdate reports whether the request targets an existing product
func (r *ProductRequest) IsUpdate() bool {
	return r.ProductID != nil && *r.ProductID > 0
}

// Taxable is the VAT flag; charge_vat defaults to true when not supplied
func (r *ProductRequest) Taxable() bool {
	if r.ChargeVAT == nil {
		return true
	}
	return bool(*r.ChargeVAT)
}

// TrimmedTitle returns the title the product is created or matched with
func (r *ProductRequest) TrimmedTitle() string {
	return strings.TrimSpace(r.Title)
}

// Validate checks the request before any remote call is made.
// The status is normalized to lower case first, so "Active" and "ARCHIVED" are accepted.
func (r *ProductRequest) Validate() error {
	r.Status = r.Status.normalize()
	if r.TrimmedTitle() == "" {
		return &errors.ErrValidation{
			Message: "Product title is required and cannot be empty",
			Fields:  map[string]string{"title": "required"},
		}
	}
	if err := validate.Struct(r); err != nil {
		fields := map[string]string{}
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Namespace()] = fe.Tag()
			}
		}
		return &errors.ErrValidation{Message: "invalid product request: " + err.Error(), Fields: fields}
	}
	return nil
}
