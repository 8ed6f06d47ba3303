package entity

import (
	"github.com/freightops/invoice-audit/constants"
)

// ChargeRate is one quoted rate from a quotation document. Ceiling is
// set only when the quotation states a single fixed or minimum monetary
// figure; it stays nil for percentage-of-value, "at actual", and
// multi-tier rates. nil means "not comparable"; a zero ceiling would
// wrongly read as "quoted free".
type ChargeRate struct {
	Ceiling     *float64
	Description string // quotation wording, kept verbatim
}

// ModeRates groups the quoted rates of one shipment mode.
type ModeRates struct {
	Service        ChargeRate
	Loading        ChargeRate
	Transportation ChargeRate
}

// RateSchedule is one quotation's extracted rate table.
type RateSchedule struct {
	Air   ModeRates
	Ocean ModeRates
}

// ForMode selects the rate pair for a shipment mode. The second return
// is false for ModeUnknown, which has no rates by definition.
func (s *RateSchedule) ForMode(m constants.ShipmentMode) (ModeRates, bool) {
	switch m {
	case constants.ModeAir:
		return s.Air, true
	case constants.ModeOcean:
		return s.Ocean, true
	default:
		return ModeRates{}, false
	}
}
