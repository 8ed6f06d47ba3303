// Package money normalizes monetary values emitted by the extraction
// model. The model is not guaranteed to produce clean numeric JSON: it
// may emit currency-formatted strings ("₹1,234.50"), omit fields, or
// emit textual placeholders ("at actual"). Every monetary field must
// pass through this package before any later stage touches it.
package money

import (
	"math"
	"strconv"
	"strings"
)

// Coerce turns an arbitrary decoded JSON value into a non-negative
// amount. It is total: no input panics or errors, everything
// unparseable resolves to 0.
func Coerce(v any) float64 {
	switch t := v.(type) {
	case float64:
		return clamp(t)
	case float32:
		return clamp(float64(t))
	case int:
		return clamp(float64(t))
	case int64:
		return clamp(float64(t))
	case string:
		f, ok := parseAmount(t)
		if !ok {
			return 0
		}
		return clamp(f)
	default:
		// missing, null, bool, object, array
		return 0
	}
}

// CoerceOptional distinguishes "no figure" from "zero". It returns nil
// for missing, null, and unparseable values, otherwise a non-negative
// amount. Rate ceilings depend on this distinction: nil skips the
// comparison, 0 would claim the service was quoted free.
func CoerceOptional(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		f := clamp(t)
		return &f
	case string:
		f, ok := parseAmount(t)
		if !ok {
			return nil
		}
		f = clamp(f)
		return &f
	default:
		return nil
	}
}

// parseAmount strips everything that is not a digit, a decimal point,
// or a leading minus sign, then parses the remainder.
func parseAmount(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// clamp maps NaN, infinities, and negatives to 0. Charge amounts are
// tax-inclusive totals and never legitimately negative.
func clamp(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
