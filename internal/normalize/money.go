package normalize

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a price with exactly two fractional digits, rounding half up ("1.005" -> "1.01", "2" -> "2.00").
// Input that is not a decimal number is returned unchanged.
func FormatPrice(value interface{}) string {
	raw := strings.TrimSpace(fmt.Sprint(value))
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Sprint(value)
	}
	return d.StringFixed(2)
}
