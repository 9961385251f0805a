package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/productcreator/internal/catalog"
	"github.com/jafarshop/productcreator/internal/domain"
	"github.com/jafarshop/productcreator/internal/shopify"
)

type metafieldIdentity struct {
	namespace string
	key       string
}

type metafieldUpserter struct {
	logger *zap.Logger
}

func newMetafieldUpserter(logger *zap.Logger) *metafieldUpserter {
	return &metafieldUpserter{logger: logger}
}

// Upsert writes every metafield, updating the ones that already exist on the product.
// Each metafield is attempted even if earlier ones failed.
func (u *metafieldUpserter) Upsert(ctx context.Context, client *shopify.Client, productID int64, fields []domain.Metafield) domain.StepReport {
	var report domain.StepReport

	existing := map[metafieldIdentity]int64{}
	remote, err := client.ListProductMetafields(ctx, productID)
	if err != nil {
		// Without the list every write is a create; duplicates fail individually
		u.logger.Warn("Could not fetch existing metafields for upsert", zap.Error(err))
	}
	for _, mf := range remote {
		if mf.Namespace != "" && mf.Key != "" {
			existing[metafieldIdentity{mf.Namespace, mf.Key}] = mf.ID
		}
	}

	for _, field := range fields {
		namespace := field.NamespaceOrDefault()
		mfType := field.TypeOrDefault()
		id := metafieldIdentity{namespace, field.Key}

		value := FormatMetafieldValue(field.Value, mfType)
		if domain.IsListType(mfType) && domain.IsSubcategoryKey(namespace, field.Key) {
			filtered, ok := filterToVocabulary(field.Key, value)
			if !ok {
				u.logger.Warn("Skipping subcategory metafield with no valid choices",
					zap.String("key", field.Key), zap.String("value", value))
				continue
			}
			value = filtered
		}

		metafieldID, err := u.write(ctx, client, productID, existing[id], namespace, field.Key, mfType, value)
		if err != nil && domain.IsListType(mfType) && domain.IsSubcategoryKey(namespace, field.Key) {
			if retryValue, ok := recoverChoiceConflict(err, value); ok {
				u.logger.Info("Retrying metafield with Shopify's choices",
					zap.String("key", field.Key), zap.String("value", retryValue))
				metafieldID, err = u.write(ctx, client, productID, existing[id], namespace, field.Key, mfType, retryValue)
			}
		}
		if err != nil {
			u.logger.Warn("Failed to write metafield", zap.String("namespace", namespace), zap.String("key", field.Key), zap.Error(err))
			report.Fail(fmt.Sprintf("Failed to write metafield %s.%s: %v", namespace, field.Key, err))
			continue
		}
		if metafieldID != 0 {
			existing[id] = metafieldID
		}
		report.Count++
	}
	return report.Finish()
}

// write updates when existingID is known, otherwise creates
func (u *metafieldUpserter) write(
	ctx context.Context,
	client *shopify.Client,
	productID, existingID int64,
	namespace, key, mfType, value string,
) (int64, error) {
	if existingID != 0 {
		if _, err := client.UpdateProductMetafield(ctx, productID, existingID, value); err != nil {
			return 0, err
		}
		u.logger.Debug("Updated metafield", zap.String("namespace", namespace), zap.String("key", key))
		return existingID, nil
	}
	created, err := client.CreateProductMetafield(ctx, productID, shopify.MetafieldInput{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		Type:      mfType,
	})
	if err != nil {
		return 0, err
	}
	u.logger.Debug("Created metafield", zap.String("namespace", namespace), zap.String("key", key))
	return created.ID, nil
}

// FormatMetafieldValue renders a value the way Shopify expects for mfType.
// List types always become a JSON array; blanks become the "-" placeholder.
func FormatMetafieldValue(value domain.AttributeValue, mfType string) string {
	if domain.IsListType(mfType) {
		var items []string
		switch v := value.(type) {
		case domain.List:
			items = v.Items()
		case domain.Scalar:
			// A JSON array literal is re-encoded; anything else, brackets included, is one item
			items = v.Items()
		}
		if len(items) == 0 {
			items = []string{"-"}
		}
		return mustJSON(items)
	}

	switch v := value.(type) {
	case domain.List:
		if items := v.Items(); len(items) > 0 {
			return mustJSON(items)
		}
	case domain.Scalar:
		if strings.TrimSpace(string(v)) != "" {
			return string(v)
		}
	}
	return "-"
}

// filterToVocabulary keeps only values allowed for key. ok is false when nothing survives.
// Keys without a known vocabulary pass through untouched.
func filterToVocabulary(key, value string) (string, bool) {
	allowed := catalog.AllowedSet(key)
	if allowed == nil {
		return value, true
	}
	var items []string
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return value, true
	}
	var kept []string
	for _, v := range items {
		if s := strings.TrimSpace(v); allowed[s] {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return mustJSON(kept), true
}

// recoverChoiceConflict re-filters value against the choices embedded in a 422
// and substitutes Shopify's exact spelling
func recoverChoiceConflict(err error, value string) (string, bool) {
	if !shopify.IsStatus(err, http.StatusUnprocessableEntity) {
		return "", false
	}
	choices, ok := shopify.ChoiceConflict(err)
	if !ok || len(choices) == 0 {
		return "", false
	}
	var items []string
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		return "", false
	}
	var kept []string
	for _, v := range items {
		if c, ok := MatchChoice(v, choices); ok {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return "", false
	}
	return mustJSON(kept), true
}

// MatchChoice finds v among choices ignoring surrounding space and case, returning the choice as spelled by Shopify
func MatchChoice(v string, choices []string) (string, bool) {
	s := strings.TrimSpace(v)
	for _, c := range choices {
		if c == s {
			return c, true
		}
	}
	for _, c := range choices {
		t := strings.TrimSpace(c)
		if t == s || strings.EqualFold(t, s) {
			return c, true
		}
	}
	return "", false
}

func mustJSON(items []string) string {
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}
