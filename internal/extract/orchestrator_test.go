package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightops/invoice-audit/constants"
	"github.com/freightops/invoice-audit/internal/llm"
)

// extractorFunc adapts a closure to llm.Extractor so each test can
// script the model's behavior inline.
type extractorFunc func(ctx context.Context, doc llm.Document, req llm.Request) (json.RawMessage, error)

func (f extractorFunc) Extract(ctx context.Context, doc llm.Document, req llm.Request) (json.RawMessage, error) {
	return f(ctx, doc, req)
}

// schemaKind tells the three extraction calls apart by their schemas.
func schemaKind(req llm.Request) string {
	props, _ := req.Schema["properties"].(map[string]any)
	switch {
	case props["invoice_number"] != nil:
		return "identify"
	case props["own_charges"] != nil:
		return "charges"
	case props["air"] != nil:
		return "rates"
	default:
		return "unknown"
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scriptedModel(t *testing.T, identifyJSON string, identifyErr error, chargesJSON string, chargesErr error) llm.Extractor {
	t.Helper()
	return extractorFunc(func(_ context.Context, _ llm.Document, req llm.Request) (json.RawMessage, error) {
		switch schemaKind(req) {
		case "identify":
			assert.Equal(t, 1, req.MaxPages)
			return json.RawMessage(identifyJSON), identifyErr
		case "charges":
			assert.Equal(t, 1, req.MaxPages)
			return json.RawMessage(chargesJSON), chargesErr
		default:
			return nil, fmt.Errorf("unexpected extraction call")
		}
	})
}

const identifyOK = `{
	"invoice_number": " INV-2024-001 ",
	"invoice_date": "01/04/2024",
	"shipment_reference": "HAWB 176-44210035",
	"terms_of_invoice": "NET 30",
	"job_number": "IMP AIR 1204",
	"shipment_mode": "UNKNOWN"
}`

func TestProcessReconcilesOwnCharges(t *testing.T) {
	// Model reports own_charges as 0 but itemizes 100 + 50 + 200.
	charges := `{
		"service_charges_actual": "₹100.00",
		"loading_unloading_charges_actual": 50,
		"transportation_charges_actual": 200,
		"own_charges": 0,
		"reimbursement_charges": "1,000"
	}`
	o := NewOrchestrator(scriptedModel(t, identifyOK, nil, charges, nil), testLogger())

	rec, err := o.Process(context.Background(), llm.Document{Filename: "a.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "INV-2024-001", rec.InvoiceNumber)
	assert.Equal(t, "HAWB 176-44210035", rec.ShipmentReference)
	assert.Equal(t, constants.ModeAir, rec.Mode) // inferred from job number
	assert.Equal(t, "a.pdf", rec.SourceFilename)

	assert.Equal(t, 100.0, rec.ServiceActual)
	assert.Equal(t, 50.0, rec.LoadingActual)
	assert.Equal(t, 200.0, rec.TransportationActual)
	assert.Equal(t, 350.0, rec.OwnCharges) // itemized sum wins
	assert.Equal(t, 1000.0, rec.ReimbursementCharges)
	assert.Equal(t, 1350.0, rec.TotalCharges())
}

func TestProcessRebucketsLineItemsThroughTaxonomy(t *testing.T) {
	// The model misfiles two near-miss descriptions into its owned
	// aggregates. The verbatim line items are the authority: anything
	// short of an exact taxonomy match is a reimbursement.
	charges := `{
		"line_items": [
			{"description": "Service Charges", "amount": "₹100.00"},
			{"description": "Loading and Unloading Charges", "amount": 50},
			{"description": "Cartage Charges", "amount": 200},
			{"description": "Airline Terminal Handling Charges", "amount": 500},
			{"description": "Transportation & Handling", "amount": 300}
		],
		"service_charges_actual": 100,
		"loading_unloading_charges_actual": 50,
		"transportation_charges_actual": 1000,
		"own_charges": 1150,
		"reimbursement_charges": 0
	}`
	o := NewOrchestrator(scriptedModel(t, identifyOK, nil, charges, nil), testLogger())

	rec, err := o.Process(context.Background(), llm.Document{Filename: "a.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 100.0, rec.ServiceActual)
	assert.Equal(t, 50.0, rec.LoadingActual)
	assert.Equal(t, 200.0, rec.TransportationActual)
	assert.Equal(t, 350.0, rec.OwnCharges)
	assert.Equal(t, 800.0, rec.ReimbursementCharges)
}

func TestProcessKeepsModelOwnChargesWhenNothingItemized(t *testing.T) {
	charges := `{
		"own_charges": 750,
		"reimbursement_charges": 0
	}`
	o := NewOrchestrator(scriptedModel(t, identifyOK, nil, charges, nil), testLogger())

	rec, err := o.Process(context.Background(), llm.Document{Filename: "a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 750.0, rec.OwnCharges)
}

func TestProcessIdentifyFailureFailsDocument(t *testing.T) {
	identifyErr := fmt.Errorf("sanitize: %w", llm.ErrNoStructuredOutput)
	charges := `{"own_charges": 100, "reimbursement_charges": 0}`
	o := NewOrchestrator(scriptedModel(t, "", identifyErr, charges, nil), testLogger())

	rec, err := o.Process(context.Background(), llm.Document{Filename: "a.pdf"})
	require.Error(t, err)
	assert.Nil(t, rec)

	var df *DocumentFailure
	require.ErrorAs(t, err, &df)
	assert.Equal(t, "identify", df.Stage)
	assert.Equal(t, "a.pdf", df.Filename)
	assert.ErrorIs(t, err, llm.ErrNoStructuredOutput)
}

func TestProcessClassifierDegradesToZero(t *testing.T) {
	chargesErr := fmt.Errorf("validate: %w", llm.ErrNoStructuredOutput)
	o := NewOrchestrator(scriptedModel(t, identifyOK, nil, "", chargesErr), testLogger())

	rec, err := o.Process(context.Background(), llm.Document{Filename: "a.pdf"})
	require.NoError(t, err)

	assert.Equal(t, "INV-2024-001", rec.InvoiceNumber)
	assert.Zero(t, rec.OwnCharges)
	assert.Zero(t, rec.ReimbursementCharges)
	assert.Zero(t, rec.TotalCharges())
}

func TestProcessClassifierTransportErrorFailsDocument(t *testing.T) {
	chargesErr := errors.New("connection reset")
	o := NewOrchestrator(scriptedModel(t, identifyOK, nil, "", chargesErr), testLogger())

	_, err := o.Process(context.Background(), llm.Document{Filename: "a.pdf"})
	require.Error(t, err)

	var df *DocumentFailure
	require.ErrorAs(t, err, &df)
	assert.Equal(t, "classify", df.Stage)
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	charges := `{"own_charges": 100, "reimbursement_charges": 0}`
	model := extractorFunc(func(_ context.Context, doc llm.Document, req llm.Request) (json.RawMessage, error) {
		if doc.Filename == "bad.pdf" && schemaKind(req) == "identify" {
			return nil, fmt.Errorf("empty response: %w", llm.ErrNoStructuredOutput)
		}
		if schemaKind(req) == "identify" {
			return json.RawMessage(identifyOK), nil
		}
		return json.RawMessage(charges), nil
	})

	var progress []string
	o := NewOrchestrator(model, testLogger())
	o.OnProgress = func(done, total int, filename string, err error) {
		progress = append(progress, fmt.Sprintf("%d/%d %s %v", done, total, filename, err != nil))
	}

	res := o.ProcessBatch(context.Background(), []llm.Document{
		{Filename: "a.pdf"},
		{Filename: "bad.pdf"},
		{Filename: "c.pdf"},
	})

	require.Len(t, res.Records, 2)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "bad.pdf", res.Failures[0].Filename)
	assert.Equal(t, "identify", res.Failures[0].Stage)
	assert.Equal(t, []string{
		"1/3 a.pdf false",
		"2/3 bad.pdf true",
		"3/3 c.pdf false",
	}, progress)
}

func TestProcessFilesFoldsReadFailures(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	c := filepath.Join(dir, "c.pdf")
	require.NoError(t, os.WriteFile(a, []byte("%PDF-1.4 test"), 0o644))
	require.NoError(t, os.WriteFile(c, []byte("%PDF-1.4 test"), 0o644))
	missing := filepath.Join(dir, "b.pdf")

	charges := `{"own_charges": 100, "reimbursement_charges": 0}`
	o := NewOrchestrator(scriptedModel(t, identifyOK, nil, charges, nil), testLogger())

	res := o.ProcessFiles(context.Background(), []string{a, missing, c})

	require.Len(t, res.Records, 2)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, missing, res.Failures[0].Filename)
	assert.Equal(t, "read", res.Failures[0].Stage)
	assert.Equal(t, "a.pdf", res.Records[0].SourceFilename)
	assert.Equal(t, "c.pdf", res.Records[1].SourceFilename)
}
