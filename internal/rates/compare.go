// Package rates compares extracted invoices against quoted rate
// ceilings and owns the process-wide active-schedule context.
package rates

import (
	"github.com/freightops/invoice-audit/constants"
	"github.com/freightops/invoice-audit/internal/entity"
)

// Compare evaluates one record against a rate schedule. The checks run
// in order and the first hit wins:
//
//  1. no schedule                      -> NO_QUOTATION_DATA
//  2. unknown shipment mode            -> INVOICE_TYPE_UNKNOWN
//  3. no service AND no loading ceiling -> NOT_COMPARABLE_CHARGES
//  4. actuals within ceilings           -> MATCHED, else MISMATCHED
//
// A nil ceiling passes its check vacuously. Transportation actuals are
// recorded and displayed but never part of the verdict: quoted
// transportation rates are multi-tier and do not reduce to one ceiling.
func Compare(rec *entity.ExtractedRecord, schedule *entity.RateSchedule) entity.ComparisonStatus {
	if schedule == nil {
		return entity.ComparisonNoQuotation
	}

	modeRates, ok := schedule.ForMode(rec.Mode)
	if !ok || rec.Mode == constants.ModeUnknown {
		return entity.ComparisonModeUnknown
	}

	if modeRates.Service.Ceiling == nil && modeRates.Loading.Ceiling == nil {
		return entity.ComparisonNotComparable
	}

	serviceOK := modeRates.Service.Ceiling == nil || rec.ServiceActual <= *modeRates.Service.Ceiling
	loadingOK := modeRates.Loading.Ceiling == nil || rec.LoadingActual <= *modeRates.Loading.Ceiling
	if serviceOK && loadingOK {
		return entity.ComparisonMatched
	}
	return entity.ComparisonMismatched
}
