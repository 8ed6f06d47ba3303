package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/freightops/invoice-audit/internal/llm"
)

// RawBreakdown carries the model's charge figures before numeric
// coercion. Fields are untyped because the model may emit numbers,
// currency-formatted strings, or nothing at all.
//
// LineItems is the charge table as printed. When present it is the
// authority: the descriptions are re-categorized locally against the
// taxonomy, so the exact-match and catch-all rules hold no matter how
// the model bucketed its aggregate fields.
type RawBreakdown struct {
	LineItems            []RawLineItem `json:"line_items"`
	ServiceActual        any           `json:"service_charges_actual"`
	LoadingActual        any           `json:"loading_unloading_charges_actual"`
	TransportationActual any           `json:"transportation_charges_actual"`
	OwnCharges           any           `json:"own_charges"`
	ReimbursementCharges any           `json:"reimbursement_charges"`
}

// RawLineItem is one row of the invoice's charge table.
type RawLineItem struct {
	Description string `json:"description"`
	Amount      any    `json:"amount"`
}

// ChargeClassifier runs the charge-categorization call against the
// first page of an invoice.
type ChargeClassifier struct {
	model  llm.Extractor
	logger *slog.Logger
}

func NewChargeClassifier(model llm.Extractor, logger *slog.Logger) *ChargeClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChargeClassifier{model: model, logger: logger}
}

// Classify returns the itemized charge totals of the invoice. A model
// response with no structured output degrades to an all-zero breakdown
// instead of failing the document: a degenerate result beats blocking
// the rest of the batch over one unreadable charge table.
func (c *ChargeClassifier) Classify(ctx context.Context, doc llm.Document) (RawBreakdown, error) {
	req := llm.Request{
		Instruction: chargeInstruction(),
		Schema:      llm.ChargeBreakdownSchema(),
		MaxPages:    1,
	}

	raw, err := c.model.Extract(ctx, doc, req)
	if err != nil {
		if errors.Is(err, llm.ErrNoStructuredOutput) {
			c.logger.Warn("classify.degraded_to_zero", "file", doc.Filename, "error", err)
			return RawBreakdown{}, nil
		}
		return RawBreakdown{}, fmt.Errorf("classify charges: %w", err)
	}

	var out RawBreakdown
	if err := json.Unmarshal(raw, &out); err != nil {
		// Validated JSON that still fails to decode is malformed output.
		c.logger.Warn("classify.degraded_to_zero", "file", doc.Filename, "error", err)
		return RawBreakdown{}, nil
	}
	return out, nil
}

func chargeInstruction() string {
	parts := []string{
		"Read the charge table on the FIRST PAGE of this freight-forwarding invoice and total its line items into categories.",
		"List every row of the charge table under line_items, with 'description' exactly as printed and 'amount' from the row's tax-inclusive total.",
		"Take every amount from the tax-inclusive 'total' column of the charge table. Never use pre-tax or tax-only columns, and never use invoice-level subtotal or grand-total rows.",
		"Categories are an exact-match set, case-insensitive, tolerant of singular/plural:",
		"- 'service charges' or 'agency service charges' -> service_charges_actual",
		"- 'loading & unloading charges' -> loading_unloading_charges_actual",
		"- 'transportation' or 'cartage charges' -> transportation_charges_actual",
		"Every line item whose description does not EXACTLY match one of those phrases belongs in reimbursement_charges, no matter how similar it looks. 'Airline Terminal Handling Charges', 'Transportation & Handling', customs duty, and any other third-party cost are reimbursements.",
		"own_charges is the sum of the three matched categories. reimbursement_charges is the sum of everything else.",
		"Omit a category's field when the invoice has no such line item.",
	}
	return strings.Join(parts, "\n")
}
