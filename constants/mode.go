package constants

import "strings"

// ShipmentMode is the inferred freight classification of an invoice.
// It is advisory: the model and the job-number heuristics both guess,
// and UNKNOWN is the honest default when they cannot agree on one.
type ShipmentMode string

const (
	ModeAir     ShipmentMode = "AIR"
	ModeOcean   ShipmentMode = "OCEAN"
	ModeUnknown ShipmentMode = "UNKNOWN"
)

// ShipmentModes lists the values the extraction schema allows.
var ShipmentModes = []ShipmentMode{ModeAir, ModeOcean, ModeUnknown}

// ParseMode normalizes a model-emitted mode string.
func ParseMode(s string) ShipmentMode {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AIR":
		return ModeAir
	case "OCEAN", "SEA":
		return ModeOcean
	default:
		return ModeUnknown
	}
}

// InferMode guesses the shipment mode from the job number and the
// shipment reference. Job numbers carry markers like "IMP AIR 1204" or
// "EXP SEA 0031"; house/master waybill wording in the reference is the
// fallback signal.
func InferMode(jobNumber, shipmentReference string) ShipmentMode {
	job := strings.ToUpper(jobNumber)
	switch {
	case strings.Contains(job, "AIR"):
		return ModeAir
	case strings.Contains(job, "SEA"):
		return ModeOcean
	}

	ref := strings.ToUpper(shipmentReference)
	switch {
	case strings.Contains(ref, "HAWB"), strings.Contains(ref, "MAWB"),
		strings.Contains(ref, "AIR WAYBILL"):
		return ModeAir
	case strings.Contains(ref, "HBL"), strings.Contains(ref, "MBL"),
		strings.Contains(ref, "BILL OF LADING"):
		return ModeOcean
	}
	return ModeUnknown
}
