package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightops/invoice-audit/internal/llm"
)

func TestExtractRatesKeepsNilCeilings(t *testing.T) {
	// Air loading and both ocean entries carry no single figure: their
	// rate fields are omitted and must come out as nil ceilings, not 0.
	rates := `{
		"air": {
			"service_charges": {"rate": "INR 4,000 minimum", "description": "INR 4,000 minimum per shipment"},
			"loading_unloading_charges": {"description": "at actual"},
			"transportation_charges": {"description": "as per slab"}
		},
		"ocean": {
			"service_charges": {"description": "0.5% of invoice value"},
			"loading_unloading_charges": {"rate": 1500, "description": "INR 1,500 flat"},
			"transportation_charges": {"description": "as per slab"}
		}
	}`

	var gotMaxPages int
	model := extractorFunc(func(_ context.Context, _ llm.Document, req llm.Request) (json.RawMessage, error) {
		require.Equal(t, "rates", schemaKind(req))
		gotMaxPages = req.MaxPages
		return json.RawMessage(rates), nil
	})

	q := NewQuotationRateExtractor(model, 0, testLogger())
	schedule, err := q.ExtractRates(context.Background(), llm.Document{Filename: "quotation.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 3, gotMaxPages) // default page scope

	require.NotNil(t, schedule.Air.Service.Ceiling)
	assert.Equal(t, 4000.0, *schedule.Air.Service.Ceiling)
	assert.Equal(t, "INR 4,000 minimum per shipment", schedule.Air.Service.Description)

	assert.Nil(t, schedule.Air.Loading.Ceiling)
	assert.Equal(t, "at actual", schedule.Air.Loading.Description)

	assert.Nil(t, schedule.Ocean.Service.Ceiling)
	require.NotNil(t, schedule.Ocean.Loading.Ceiling)
	assert.Equal(t, 1500.0, *schedule.Ocean.Loading.Ceiling)
}

func TestExtractRatesExplicitZeroStaysZero(t *testing.T) {
	rates := `{
		"air": {
			"service_charges": {"rate": 0, "description": "waived"},
			"loading_unloading_charges": {"description": "at actual"},
			"transportation_charges": {"description": "as per slab"}
		},
		"ocean": {
			"service_charges": {"description": "at actual"},
			"loading_unloading_charges": {"description": "at actual"},
			"transportation_charges": {"description": "as per slab"}
		}
	}`
	model := extractorFunc(func(_ context.Context, _ llm.Document, _ llm.Request) (json.RawMessage, error) {
		return json.RawMessage(rates), nil
	})

	q := NewQuotationRateExtractor(model, 5, testLogger())
	schedule, err := q.ExtractRates(context.Background(), llm.Document{Filename: "quotation.pdf"})
	require.NoError(t, err)

	require.NotNil(t, schedule.Air.Service.Ceiling)
	assert.Equal(t, 0.0, *schedule.Air.Service.Ceiling)
}

func TestExtractRatesFailsWithoutStructuredOutput(t *testing.T) {
	model := extractorFunc(func(_ context.Context, _ llm.Document, _ llm.Request) (json.RawMessage, error) {
		return nil, fmt.Errorf("empty response: %w", llm.ErrNoStructuredOutput)
	})

	q := NewQuotationRateExtractor(model, 3, testLogger())
	schedule, err := q.ExtractRates(context.Background(), llm.Document{Filename: "quotation.pdf"})
	require.Error(t, err)
	assert.Nil(t, schedule)
	assert.ErrorIs(t, err, llm.ErrNoStructuredOutput)
}

func TestQuotationPageScopeOverride(t *testing.T) {
	var gotMaxPages int
	model := extractorFunc(func(_ context.Context, _ llm.Document, req llm.Request) (json.RawMessage, error) {
		gotMaxPages = req.MaxPages
		return json.RawMessage(`{"air": {}, "ocean": {}}`), nil
	})

	q := NewQuotationRateExtractor(model, 7, testLogger())
	_, err := q.ExtractRates(context.Background(), llm.Document{Filename: "quotation.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 7, gotMaxPages)
}
