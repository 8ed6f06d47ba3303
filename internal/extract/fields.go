package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/freightops/invoice-audit/constants"
	"github.com/freightops/invoice-audit/internal/entity"
	"github.com/freightops/invoice-audit/internal/llm"
)

// FieldExtractor runs the identification call against the first page of
// an invoice.
type FieldExtractor struct {
	model  llm.Extractor
	logger *slog.Logger
}

func NewFieldExtractor(model llm.Extractor, logger *slog.Logger) *FieldExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FieldExtractor{model: model, logger: logger}
}

type identificationPayload struct {
	InvoiceNumber     string `json:"invoice_number"`
	InvoiceDate       string `json:"invoice_date"`
	ShipmentReference string `json:"shipment_reference"`
	TermsOfInvoice    string `json:"terms_of_invoice"`
	JobNumber         string `json:"job_number"`
	ShipmentMode      string `json:"shipment_mode"`
}

// ExtractFields reads the invoice header fields. Unlike charge
// classification there is no safe default identification, so a model
// response with no structured output fails the document.
func (f *FieldExtractor) ExtractFields(ctx context.Context, doc llm.Document) (entity.IdentificationFields, error) {
	req := llm.Request{
		Instruction: identificationInstruction(),
		Schema:      llm.IdentificationSchema(),
		MaxPages:    1,
	}

	raw, err := f.model.Extract(ctx, doc, req)
	if err != nil {
		return entity.IdentificationFields{}, fmt.Errorf("extract identification fields: %w", err)
	}

	var p identificationPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return entity.IdentificationFields{}, fmt.Errorf("decode identification fields: %w", err)
	}

	fields := entity.IdentificationFields{
		InvoiceNumber:     strings.TrimSpace(p.InvoiceNumber),
		InvoiceDate:       strings.TrimSpace(p.InvoiceDate),
		ShipmentReference: strings.TrimSpace(p.ShipmentReference),
		TermsOfInvoice:    strings.TrimSpace(p.TermsOfInvoice),
		JobNumber:         strings.TrimSpace(p.JobNumber),
		Mode:              constants.ParseMode(p.ShipmentMode),
	}

	// The model's mode answer is advisory. When it punts, the job
	// number and waybill wording are the remaining signal.
	if fields.Mode == constants.ModeUnknown {
		fields.Mode = constants.InferMode(fields.JobNumber, fields.ShipmentReference)
	}

	f.logger.Info("identify.ok",
		"file", doc.Filename,
		"invoice_number", fields.InvoiceNumber,
		"job_number", fields.JobNumber,
		"mode", string(fields.Mode),
	)
	return fields, nil
}

func identificationInstruction() string {
	parts := []string{
		"Read the FIRST PAGE of this freight-forwarding invoice and extract its identification fields.",
		"invoice_number: the invoice's own number. invoice_date: as printed. terms_of_invoice: the payment/delivery terms line. job_number: the forwarder's job or file number.",
		"shipment_reference: exactly ONE reference, chosen in this order: House Air Waybill (HAWB) or House Bill of Lading (HBL) if present; otherwise Master Air Waybill (MAWB) or Master Bill of Lading (MBL); otherwise omit the field. Never return more than one reference.",
		"shipment_mode: AIR or OCEAN when the document makes it clear (air waybill wording, 'AIR'/'SEA' markers in the job number), otherwise UNKNOWN.",
	}
	return strings.Join(parts, "\n")
}
