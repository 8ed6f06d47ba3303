package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/freightops/invoice-audit/internal/entity"
	"github.com/freightops/invoice-audit/internal/llm"
	"github.com/freightops/invoice-audit/internal/money"
)

// QuotationRateExtractor recovers a rate schedule from a quotation
// document. Quotation rate tables can spill past page one, so the page
// scope is wider than for invoices.
type QuotationRateExtractor struct {
	model    llm.Extractor
	logger   *slog.Logger
	maxPages int
}

func NewQuotationRateExtractor(model llm.Extractor, maxPages int, logger *slog.Logger) *QuotationRateExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPages <= 0 {
		maxPages = 3
	}
	return &QuotationRateExtractor{model: model, logger: logger, maxPages: maxPages}
}

type ratePayload struct {
	Rate        any    `json:"rate"`
	Description string `json:"description"`
}

type modeRatesPayload struct {
	Service        ratePayload `json:"service_charges"`
	Loading        ratePayload `json:"loading_unloading_charges"`
	Transportation ratePayload `json:"transportation_charges"`
}

type schedulePayload struct {
	Air   modeRatesPayload `json:"air"`
	Ocean modeRatesPayload `json:"ocean"`
}

// ExtractRates reads the quotation into a rate schedule. There is no
// partial schedule: absence of structured output fails the request.
func (q *QuotationRateExtractor) ExtractRates(ctx context.Context, doc llm.Document) (*entity.RateSchedule, error) {
	req := llm.Request{
		Instruction: quotationInstruction(),
		Schema:      llm.RateScheduleSchema(),
		MaxPages:    q.maxPages,
	}

	raw, err := q.model.Extract(ctx, doc, req)
	if err != nil {
		return nil, fmt.Errorf("extract quotation rates: %w", err)
	}

	var p schedulePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode quotation rates: %w", err)
	}

	schedule := &entity.RateSchedule{
		Air:   toModeRates(p.Air),
		Ocean: toModeRates(p.Ocean),
	}
	q.logger.Info("quotation.ok",
		"file", doc.Filename,
		"air_service_ceiling", formatCeiling(schedule.Air.Service.Ceiling),
		"air_loading_ceiling", formatCeiling(schedule.Air.Loading.Ceiling),
		"ocean_service_ceiling", formatCeiling(schedule.Ocean.Service.Ceiling),
		"ocean_loading_ceiling", formatCeiling(schedule.Ocean.Loading.Ceiling),
	)
	return schedule, nil
}

func toModeRates(p modeRatesPayload) entity.ModeRates {
	return entity.ModeRates{
		Service:        toChargeRate(p.Service),
		Loading:        toChargeRate(p.Loading),
		Transportation: toChargeRate(p.Transportation),
	}
}

// toChargeRate keeps the nil-vs-zero distinction intact: a rate the
// model omitted, or one that does not parse to a single figure, stays
// nil and therefore incomparable.
func toChargeRate(p ratePayload) entity.ChargeRate {
	return entity.ChargeRate{
		Ceiling:     money.CoerceOptional(p.Rate),
		Description: strings.TrimSpace(p.Description),
	}
}

func formatCeiling(c *float64) any {
	if c == nil {
		return "none"
	}
	return *c
}

func quotationInstruction() string {
	parts := []string{
		"Read this freight rate quotation and extract the quoted rates per shipment mode (air, ocean) and charge type (service charges, loading & unloading charges, transportation/cartage charges).",
		"For each charge type, fill 'description' with the quotation's wording, verbatim.",
		"Emit the numeric 'rate' ONLY when the quotation states a single fixed or minimum monetary figure for that charge type.",
		"When the rate is a percentage of value, 'at actual', or multiple tiers with no single representative figure, OMIT the 'rate' field entirely. Do not write 0: an omitted rate means 'cannot be compared', 0 would mean 'free'.",
	}
	return strings.Join(parts, "\n")
}
