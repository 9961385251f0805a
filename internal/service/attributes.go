package service

import (
	"strings"

	"github.com/jafarshop/productcreator/internal/catalog"
	"github.com/jafarshop/productcreator/internal/domain"
)

// BuildMetafields merges the request's category, subcategory and colour selections into its metafield list.
// custom_category is rewritten from the merged categories; when any subcategory is selected, every
// subcategory* metafield is replaced by the routed per-bucket lists.
func BuildMetafields(req *domain.ProductRequest) []domain.Metafield {
	categories := req.Categories.Items()
	if len(categories) == 0 && strings.TrimSpace(req.Category) != "" {
		categories = []string{strings.TrimSpace(req.Category)}
	}
	subcategories := req.Subcategories.Items()
	if len(subcategories) == 0 && strings.TrimSpace(req.Subcategory) != "" {
		subcategories = []string{strings.TrimSpace(req.Subcategory)}
	}

	var catsFromFields, subcatsFromFields []string
	for _, mf := range req.Metafields {
		if mf.NamespaceOrDefault() != domain.NamespaceCustom || mf.Value == nil {
			continue
		}
		switch {
		case mf.Key == domain.KeyCategory:
			catsFromFields = append(catsFromFields, mf.Value.Items()...)
		case strings.HasPrefix(mf.Key, domain.KeySubcategory):
			subcatsFromFields = append(subcatsFromFields, mf.Value.Items()...)
		}
	}
	if len(categories) == 0 {
		categories = catsFromFields
	}
	categories = dedupe(categories)
	subcategories = dedupe(append(subcategories, subcatsFromFields...))

	out := make([]domain.Metafield, 0, len(req.Metafields)+4)
	for _, mf := range req.Metafields {
		if isCustomKey(mf, domain.KeyCategory) {
			continue
		}
		if len(subcategories) > 0 && mf.NamespaceOrDefault() == domain.NamespaceCustom && strings.HasPrefix(mf.Key, domain.KeySubcategory) {
			continue
		}
		out = append(out, mf)
	}

	if len(categories) > 0 {
		out = append(out, listMetafield(domain.KeyCategory, categories))
	}
	if len(subcategories) > 0 {
		keys, byKey := catalog.RouteSubcategories(subcategories)
		for _, key := range keys {
			out = append(out, listMetafield(key, byKey[key]))
		}
	}

	if colours := strings.TrimSpace(req.ProductColours); colours != "" {
		out = append(out, domain.Metafield{
			Namespace: domain.NamespaceCustom,
			Key:       domain.KeyProductColours,
			Type:      domain.MetafieldTypeSingleLine,
			Value:     domain.Scalar(colours),
		})
		for _, key := range []string{domain.KeyTradePriceBands, domain.KeyEndCustomerPriceBands} {
			if !hasKey(out, key) {
				out = append(out, domain.Metafield{
					Namespace: domain.NamespaceCustom,
					Key:       key,
					Type:      domain.MetafieldTypeSingleLine,
					Value:     domain.Scalar(domain.DefaultPriceBands),
				})
			}
		}
	}
	return out
}

// RequestCustomSKU returns the first value of a custom.sku metafield in the request
func RequestCustomSKU(req *domain.ProductRequest) string {
	for _, mf := range req.Metafields {
		if isCustomKey(mf, domain.KeySKU) && mf.Value != nil {
			if items := mf.Value.Items(); len(items) > 0 {
				return items[0]
			}
		}
	}
	return ""
}

func listMetafield(key string, values []string) domain.Metafield {
	return domain.Metafield{
		Namespace: domain.NamespaceCustom,
		Key:       key,
		Type:      domain.MetafieldTypeListSingleLine,
		Value:     domain.List(values),
	}
}

func isCustomKey(mf domain.Metafield, key string) bool {
	return mf.NamespaceOrDefault() == domain.NamespaceCustom && mf.Key == key
}

func hasKey(fields []domain.Metafield, key string) bool {
	for _, mf := range fields {
		if mf.Key == key {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
