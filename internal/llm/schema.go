package llm

import (
	"github.com/freightops/invoice-audit/constants"
)

// The schemas below are JSON-Schema (draft 2020-12 subset) generic maps.
// Each is sent to the model as an output constraint and reused locally
// to validate whatever comes back.

// ChargeBreakdownSchema shapes the charge-classification reply. Amounts
// accept number or string: models routinely emit currency-formatted
// strings, and numeric coercion happens downstream anyway.
//
// line_items carries the charge table verbatim so categorization can be
// redone locally; the aggregate fields are the fallback for replies
// that omit it.
func ChargeBreakdownSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"line_items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"description": map[string]any{"type": "string", "minLength": 1},
						"amount":      amountProp(),
					},
					"required": []string{"description", "amount"},
				},
			},
			"service_charges_actual":           amountProp(),
			"loading_unloading_charges_actual": amountProp(),
			"transportation_charges_actual":    amountProp(),
			"own_charges":                      amountProp(),
			"reimbursement_charges":            amountProp(),
		},
		"required": []string{"own_charges", "reimbursement_charges"},
	}
}

// IdentificationSchema shapes the invoice-header reply. Only the
// invoice number is required; everything else may legitimately be
// absent from a document.
func IdentificationSchema() map[string]any {
	modes := make([]string, len(constants.ShipmentModes))
	for i, m := range constants.ShipmentModes {
		modes[i] = string(m)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"invoice_number":     map[string]any{"type": "string", "minLength": 1},
			"invoice_date":       map[string]any{"type": "string"},
			"shipment_reference": map[string]any{"type": "string"},
			"terms_of_invoice":   map[string]any{"type": "string"},
			"job_number":         map[string]any{"type": "string"},
			"shipment_mode":      map[string]any{"type": "string", "enum": modes},
		},
		"required": []string{"invoice_number"},
	}
}

// RateScheduleSchema shapes the quotation reply: per shipment mode, per
// charge type, an optional numeric ceiling plus mandatory description.
// The rate key must be OMITTED (not zeroed) when the quotation gives no
// single representative figure.
func RateScheduleSchema() map[string]any {
	rate := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"rate":        amountProp(),
			"description": map[string]any{"type": "string"},
		},
		"required": []string{"description"},
	}
	modeRates := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"service_charges":           rate,
			"loading_unloading_charges": rate,
			"transportation_charges":    rate,
		},
		"required": []string{"service_charges", "loading_unloading_charges", "transportation_charges"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"air":   modeRates,
			"ocean": modeRates,
		},
		"required": []string{"air", "ocean"},
	}
}

func amountProp() map[string]any {
	return map[string]any{"type": []string{"number", "string"}}
}
