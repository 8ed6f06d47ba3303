package entity

import (
	"github.com/freightops/invoice-audit/constants"
)

// ComparisonStatus is the verdict of checking an invoice against the
// active rate schedule.
type ComparisonStatus string

const (
	ComparisonMatched       ComparisonStatus = "MATCHED"
	ComparisonMismatched    ComparisonStatus = "MISMATCHED"
	ComparisonNoQuotation   ComparisonStatus = "NO_QUOTATION_DATA"
	ComparisonModeUnknown   ComparisonStatus = "INVOICE_TYPE_UNKNOWN"
	ComparisonNotComparable ComparisonStatus = "NOT_COMPARABLE_CHARGES"
)

// IdentificationFields are the header fields read off an invoice.
type IdentificationFields struct {
	InvoiceNumber     string
	InvoiceDate       string
	ShipmentReference string // house waybill/BL preferred over master, else empty
	TermsOfInvoice    string
	JobNumber         string
	Mode              constants.ShipmentMode
}

// ChargeBreakdown carries the classified, coerced charge totals of one
// invoice. Amounts are tax-inclusive and non-negative.
type ChargeBreakdown struct {
	ServiceActual        float64
	LoadingActual        float64
	TransportationActual float64
	OwnCharges           float64
	ReimbursementCharges float64
}

// ExtractedRecord is one invoice's finished extraction result. Records
// are immutable once produced; comparison verdicts are attached by value
// via WithComparison.
type ExtractedRecord struct {
	IdentificationFields
	ChargeBreakdown

	SourceFilename string
	Comparison     ComparisonStatus // empty until compared
}

// TotalCharges is derived at read time, never stored.
func (r ExtractedRecord) TotalCharges() float64 {
	return r.OwnCharges + r.ReimbursementCharges
}

// WithComparison returns a copy of the record carrying the verdict.
func (r ExtractedRecord) WithComparison(s ComparisonStatus) ExtractedRecord {
	r.Comparison = s
	return r
}

// DedupKey identifies a record for result-store deduplication.
func (r ExtractedRecord) DedupKey() string {
	return r.InvoiceNumber + "|" + r.SourceFilename
}
