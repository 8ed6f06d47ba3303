package constants

import (
	"strings"
)

// ChargeCategory is the bucket a freight invoice line item settles into.
type ChargeCategory string

const (
	Service        ChargeCategory = "Service"
	Loading        ChargeCategory = "Loading"
	Transportation ChargeCategory = "Transportation"
	Reimbursement  ChargeCategory = "Reimbursement"
)

// OwnedCategories are the charge types the forwarder performs itself.
// Everything else on an invoice is a pass-through cost.
var OwnedCategories = []ChargeCategory{Service, Loading, Transportation}

// taxonomy maps normalized line-item descriptions to owned-charge buckets.
// Matching is exact-phrase on the normalized label: keyword or substring
// matching would let hybrids like "Transportation & Handling" leak into
// owned charges, and ambiguity must always resolve to reimbursement.
var taxonomy = map[string]ChargeCategory{
	"service charge":             Service,
	"agency service charge":      Service,
	"loading & unloading charge": Loading,
	"transportation":             Transportation,
	"cartage charge":             Transportation,
}

// Canonicalize resolves a line-item description to a charge category.
// The second return is false when the label fell into the reimbursement
// catch-all rather than matching the taxonomy.
func Canonicalize(label string) (ChargeCategory, bool) {
	n := NormalizeLabel(label)
	if n == "" {
		return Reimbursement, false
	}
	if cat, ok := taxonomy[n]; ok {
		return cat, true
	}
	return Reimbursement, false
}

// NormalizeLabel lowercases, collapses whitespace, folds "and" to "&",
// strips trailing punctuation, and singularizes a trailing "charges" so
// the taxonomy lookup tolerates casing and pluralization noise.
func NormalizeLabel(label string) string {
	n := strings.ToLower(strings.TrimSpace(label))
	n = strings.Join(strings.Fields(n), " ")
	n = strings.ReplaceAll(n, " and ", " & ")
	n = strings.TrimRight(n, ".,;:")
	n = strings.TrimSuffix(n, "s")
	return n
}
