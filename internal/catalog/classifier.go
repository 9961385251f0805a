package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jafarshop/productcreator/internal/domain"
)

// Bucket is the subcategory metafield a label is stored in
type Bucket string

const (
	BucketPrimary   Bucket = "primary"
	BucketSecondary Bucket = "secondary"
)

// ChoiceWindow is the most choices Shopify allows on one choice-list metafield
const ChoiceWindow = 128

// MetafieldKey returns the metafield key that stores the bucket
func (b Bucket) MetafieldKey() string {
	if b == BucketSecondary {
		return domain.KeySubcategory + "_2"
	}
	return domain.KeySubcategory
}

// secondaryStart is the index in Subcategories where subcategory_2 starts.
// Without the sentinel everything is primary.
func secondaryStart() int {
	for i, s := range Subcategories {
		if s == Subcategory2FirstItem {
			return i
		}
	}
	return len(Subcategories)
}

// normalizeLabel collapses whitespace runs and drops non-breaking spaces
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}

// indexOf finds a label: exact, then whitespace-normalized, then case-insensitive normalized
func indexOf(label string) (int, bool) {
	for i, s := range Subcategories {
		if s == label {
			return i, true
		}
	}
	norm := normalizeLabel(label)
	for i, s := range Subcategories {
		if s == norm {
			return i, true
		}
	}
	lower := strings.ToLower(norm)
	for i, s := range Subcategories {
		c := normalizeLabel(s)
		if c == norm || strings.ToLower(c) == lower {
			return i, true
		}
	}
	return 0, false
}

// BucketFor decides which subcategory metafield stores the label.
// Labels before the sentinel are primary, the sentinel and after are secondary, unknown labels are primary.
func BucketFor(label string) Bucket {
	s := strings.TrimSpace(label)
	if s == "" {
		return BucketPrimary
	}
	idx, ok := indexOf(s)
	if !ok || idx < secondaryStart() {
		return BucketPrimary
	}
	return BucketSecondary
}

// SubcategoryKeyFor is BucketFor expressed as a metafield key
func SubcategoryKeyFor(label string) string {
	return BucketFor(label).MetafieldKey()
}

// ChoicesFor returns the allowed choices of a bucket
func ChoicesFor(b Bucket) []string {
	return ChoicesForKey(b.MetafieldKey())
}

// ChoicesForKey returns the allowed choices of a metafield key in the custom namespace:
// custom_category, subcategory, subcategory_2, and subcategory_N (N >= 3) as fixed 128-wide windows.
// Unknown keys have no choices.
func ChoicesForKey(key string) []string {
	boundary := secondaryStart()
	switch {
	case key == domain.KeyCategory:
		return copyOf(Categories)
	case key == domain.KeySubcategory:
		return copyOf(Subcategories[:boundary])
	case key == domain.KeySubcategory+"_2":
		return copyOf(Subcategories[boundary:])
	case strings.HasPrefix(key, domain.KeySubcategory+"_"):
		n, err := strconv.Atoi(strings.TrimPrefix(key, domain.KeySubcategory+"_"))
		if err != nil || n < 1 {
			return nil
		}
		start := (n - 1) * ChoiceWindow
		if start >= len(Subcategories) {
			return []string{}
		}
		end := start + ChoiceWindow
		if end > len(Subcategories) {
			end = len(Subcategories)
		}
		return copyOf(Subcategories[start:end])
	default:
		return nil
	}
}

// AllowedSet is ChoicesForKey as a lookup set; nil when the key has no choices
func AllowedSet(key string) map[string]bool {
	choices := ChoicesForKey(key)
	if len(choices) == 0 {
		return nil
	}
	set := make(map[string]bool, len(choices))
	for _, c := range choices {
		set[c] = true
	}
	return set
}

// RouteSubcategories groups labels by the metafield key that stores them, keeping first-seen order of keys and labels
func RouteSubcategories(labels []string) (keys []string, byKey map[string][]string) {
	byKey = map[string][]string{}
	for _, l := range labels {
		s := strings.TrimSpace(l)
		if s == "" {
			continue
		}
		key := SubcategoryKeyFor(s)
		if _, seen := byKey[key]; !seen {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], s)
	}
	return keys, byKey
}

// Validate checks the table invariants the routing relies on
func Validate() error {
	boundary := secondaryStart()
	if boundary > ChoiceWindow {
		return fmt.Errorf("subcategory has %d choices, limit is %d", boundary, ChoiceWindow)
	}
	if rest := len(Subcategories) - boundary; rest > ChoiceWindow {
		return fmt.Errorf("subcategory_2 has %d choices, limit is %d", rest, ChoiceWindow)
	}
	return nil
}

func copyOf(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
