package result

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `{
  "estimated_property_value_eur": 512000,
  "value_range_min_eur": 490000,
  "value_range_max_eur": 540000,
  "price_per_sqm_avg_eur": 3900.5,
  "valuation_confidence": "hoch",
  "positive_value_drivers": ["Ruhige Lage", "Neue Heizung"],
  "negative_value_drivers": [],
  "local_market_trend_info": "Steigende Nachfrage.",
  "comparable_properties_nearby": [
    {
      "id": "c1",
      "address_snippet": "Hauptstr., Bonn",
      "property_type_display": "Einfamilienhaus",
      "living_area_sqm": 140,
      "year_built_display": "1990-2009",
      "estimated_value_eur": 498000,
      "price_per_sqm_eur": 3557
    }
  ]
}`

func TestParseResponseReport(t *testing.T) {
	resp := ParseResponse([]byte(sampleReport), DefaultAckTokens)

	require.Equal(t, Parsed, resp.Outcome, "err: %v", resp.Err)
	rec := resp.Record
	require.NotNil(t, rec.EstimatedValue)
	assert.Equal(t, 512000.0, *rec.EstimatedValue)
	assert.Equal(t, ConfidenceHigh, *rec.Confidence)
	assert.Equal(t, []string{"Ruhige Lage", "Neue Heizung"}, rec.PositiveDrivers)
	assert.Empty(t, rec.NegativeDrivers)
	require.Len(t, rec.ComparableProperties, 1)
	assert.Equal(t, "c1", rec.ComparableProperties[0].ID)
	assert.Nil(t, rec.ComparableProperties[0].PlotAreaSqm)
}

func TestParseResponseUnwrapsSingleElementArray(t *testing.T) {
	resp := ParseResponse([]byte("["+sampleReport+"]"), DefaultAckTokens)
	require.Equal(t, Parsed, resp.Outcome, "err: %v", resp.Err)
	assert.Equal(t, 512000.0, *resp.Record.EstimatedValue)
}

func TestParseResponseAcknowledgement(t *testing.T) {
	for _, body := range []string{"Accepted", "  Accepted\n"} {
		resp := ParseResponse([]byte(body), DefaultAckTokens)
		require.Equal(t, Acknowledged, resp.Outcome)
		if diff := cmp.Diff(Fallback(), resp.Record); diff != "" {
			t.Errorf("acknowledged record mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestParseResponseUnrecognized(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"other text", "Workflow was started"},
		{"case differs", "accepted"},
		{"json without estimate", `{"status":"ok"}`},
		{"legacy driver names only", `{"key_positive_value_drivers":["x"]}`},
		{"legacy report", `{"estimated_property_value_eur":485000,"valuation_confidence":"hoch",` +
			`"key_positive_value_drivers":["Gute Lage"],"key_negative_value_drivers":["Heizung"]}`},
		{"legacy negative drivers", `{"estimated_property_value_eur":485000,"key_negative_value_drivers":[]}`},
		{"legacy report in array", `[{"estimated_property_value_eur":485000,"key_positive_value_drivers":["Gute Lage"]}]`},
		{"bad confidence", `{"estimated_property_value_eur":1,"valuation_confidence":"sehr hoch"}`},
		{"estimate as string", `{"estimated_property_value_eur":"450000"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ParseResponse([]byte(tt.body), DefaultAckTokens)
			assert.Equal(t, Unrecognized, resp.Outcome)
			assert.Error(t, resp.Err)
		})
	}
}

func TestParseResponseCustomTokens(t *testing.T) {
	resp := ParseResponse([]byte("OK"), []string{"OK"})
	assert.Equal(t, Acknowledged, resp.Outcome)

	resp = ParseResponse([]byte("Accepted"), nil)
	assert.Equal(t, Unrecognized, resp.Outcome)
}

func TestFallback(t *testing.T) {
	fb := Fallback()

	assert.Equal(t, 450000.0, *fb.EstimatedValue)
	assert.Equal(t, 420000.0, *fb.RangeMin)
	assert.Equal(t, 480000.0, *fb.RangeMax)
	assert.Equal(t, ConfidenceMedium, *fb.Confidence)
	require.Len(t, fb.PriceDevelopment, 5)
	for i, p := range fb.PriceDevelopment {
		assert.Equal(t, 2020+i, p.Year)
	}
	assert.Empty(t, fb.ComparableProperties)

	// Each call returns an independent copy.
	fb.PositiveDrivers[0] = "changed"
	assert.NotEqual(t, "changed", Fallback().PositiveDrivers[0])
}
