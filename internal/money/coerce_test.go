package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"plain number", 42.5, 42.5},
		{"integer", 7, 7},
		{"nan", math.NaN(), 0},
		{"negative number", -12.0, 0},
		{"currency string", "₹1,234.50", 1234.50},
		{"currency prefix", "USD 99.90", 99.90},
		{"plain numeric string", "350", 350},
		{"negative string", "-5.00", 0},
		{"empty string", "", 0},
		{"narrative string", "at actual", 0},
		{"multiple dots", "1.234.50", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"object", map[string]any{"amount": 5}, 0},
		{"array", []any{1, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Coerce(tt.in))
		})
	}
}

// Every JSON-decodable value must coerce without panicking and land at
// or above zero.
func TestCoerceIsTotalOverDecodedJSON(t *testing.T) {
	payload := `{"a": 1.5, "b": "2,000", "c": null, "d": [1], "e": {"x": 1}, "f": true, "g": "-9"}`
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &m))

	for k, v := range m {
		got := Coerce(v)
		assert.GreaterOrEqual(t, got, 0.0, "key %s", k)
	}
}

func TestCoerceOptional(t *testing.T) {
	assert.Nil(t, CoerceOptional(nil))
	assert.Nil(t, CoerceOptional("at actual"))
	assert.Nil(t, CoerceOptional(math.NaN()))
	assert.Nil(t, CoerceOptional(true))

	if got := CoerceOptional(4000.0); assert.NotNil(t, got) {
		assert.Equal(t, 4000.0, *got)
	}
	if got := CoerceOptional("₹4,000 minimum"); assert.NotNil(t, got) {
		assert.Equal(t, 4000.0, *got)
	}
	// An explicit zero survives as zero, distinct from nil.
	if got := CoerceOptional(0.0); assert.NotNil(t, got) {
		assert.Equal(t, 0.0, *got)
	}
}
