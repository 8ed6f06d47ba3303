// extract-one runs the extraction pipeline on a single invoice and
// prints the record as JSON. Debugging aid for prompt and schema work.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/freightops/invoice-audit/internal/common"
	"github.com/freightops/invoice-audit/internal/document"
	"github.com/freightops/invoice-audit/internal/extract"
	"github.com/freightops/invoice-audit/internal/llm/openai"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: extract-one <invoice file>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config", "error", err)
		os.Exit(2)
	}

	doc, err := document.Load(os.Args[1])
	if err != nil {
		logger.Error("load document", "error", err)
		os.Exit(1)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	rec, err := extract.NewOrchestrator(client, logger).Process(context.Background(), doc)
	if err != nil {
		logger.Error("process", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(struct {
		InvoiceNumber        string  `json:"invoice_number"`
		InvoiceDate          string  `json:"invoice_date"`
		ShipmentReference    string  `json:"shipment_reference"`
		TermsOfInvoice       string  `json:"terms_of_invoice"`
		JobNumber            string  `json:"job_number"`
		ShipmentMode         string  `json:"shipment_mode"`
		ServiceActual        float64 `json:"service_charges_actual"`
		LoadingActual        float64 `json:"loading_unloading_charges_actual"`
		TransportationActual float64 `json:"transportation_charges_actual"`
		OwnCharges           float64 `json:"own_charges"`
		ReimbursementCharges float64 `json:"reimbursement_charges"`
		TotalCharges         float64 `json:"total_charges"`
		SourceFilename       string  `json:"source_filename"`
	}{
		InvoiceNumber:        rec.InvoiceNumber,
		InvoiceDate:          rec.InvoiceDate,
		ShipmentReference:    rec.ShipmentReference,
		TermsOfInvoice:       rec.TermsOfInvoice,
		JobNumber:            rec.JobNumber,
		ShipmentMode:         string(rec.Mode),
		ServiceActual:        rec.ServiceActual,
		LoadingActual:        rec.LoadingActual,
		TransportationActual: rec.TransportationActual,
		OwnCharges:           rec.OwnCharges,
		ReimbursementCharges: rec.ReimbursementCharges,
		TotalCharges:         rec.TotalCharges(),
		SourceFilename:       rec.SourceFilename,
	}, "", "  ")
	if err != nil {
		logger.Error("encode record", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
