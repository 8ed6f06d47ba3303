package extract

import (
	"log/slog"

	"github.com/freightops/invoice-audit/constants"
	"github.com/freightops/invoice-audit/internal/entity"
	"github.com/freightops/invoice-audit/internal/money"
)

// reconcile turns the model's raw figures into a coerced breakdown.
//
// When the reply carries the charge table, every row is re-categorized
// locally through the taxonomy, so exact-phrase matching and the
// reimbursement catch-all are enforced in code rather than trusted to
// the model's own bucketing. Replies without line items fall back to
// the model's aggregate fields, cross-checked against the itemized sum.
// The sum of the three actual-by-type components is ground truth
// whenever it is positive; the model's self-reported own_charges is
// only a fallback for invoices where no component could be itemized.
// A disagreement is resolved silently: it is model noise, not an error.
func reconcile(raw RawBreakdown, filename string, logger *slog.Logger) entity.ChargeBreakdown {
	if len(raw.LineItems) > 0 {
		return bucketLineItems(raw, filename, logger)
	}

	b := entity.ChargeBreakdown{
		ServiceActual:        money.Coerce(raw.ServiceActual),
		LoadingActual:        money.Coerce(raw.LoadingActual),
		TransportationActual: money.Coerce(raw.TransportationActual),
		OwnCharges:           money.Coerce(raw.OwnCharges),
		ReimbursementCharges: money.Coerce(raw.ReimbursementCharges),
	}

	itemized := b.ServiceActual + b.LoadingActual + b.TransportationActual
	if itemized > 0 && itemized != b.OwnCharges {
		logger.Info("reconcile.own_charges_overridden",
			"file", filename,
			"model_reported", b.OwnCharges,
			"itemized_sum", itemized,
		)
		b.OwnCharges = itemized
	}
	return b
}

// bucketLineItems rebuilds the breakdown from the charge table rows.
// A description that does not exactly match the taxonomy falls to
// reimbursement regardless of how the model classified it.
func bucketLineItems(raw RawBreakdown, filename string, logger *slog.Logger) entity.ChargeBreakdown {
	var b entity.ChargeBreakdown
	for _, item := range raw.LineItems {
		amount := money.Coerce(item.Amount)
		cat, _ := constants.Canonicalize(item.Description)
		switch cat {
		case constants.Service:
			b.ServiceActual += amount
		case constants.Loading:
			b.LoadingActual += amount
		case constants.Transportation:
			b.TransportationActual += amount
		default:
			b.ReimbursementCharges += amount
		}
	}
	b.OwnCharges = b.ServiceActual + b.LoadingActual + b.TransportationActual

	if reported := money.Coerce(raw.OwnCharges); reported != b.OwnCharges {
		logger.Info("reconcile.own_charges_overridden",
			"file", filename,
			"model_reported", reported,
			"itemized_sum", b.OwnCharges,
		)
	}
	return b
}
