// Package result holds the valuation report returned by the webhook and
// the parser that normalizes raw webhook responses into it.
package result

// Confidence is the webhook's confidence tier for an estimate.
type Confidence string

const (
	ConfidenceHigh   Confidence = "hoch"
	ConfidenceMedium Confidence = "mittel"
	ConfidenceLow    Confidence = "gering"
)

// Label returns the display text for c.
func (c Confidence) Label() string {
	switch c {
	case ConfidenceHigh:
		return "Hohe Zuverlässigkeit"
	case ConfidenceMedium:
		return "Mittlere Zuverlässigkeit"
	case ConfidenceLow:
		return "Geringe Zuverlässigkeit"
	}
	return "Unbekannt"
}

// PricePoint is one year of the price development series.
type PricePoint struct {
	Year       int      `json:"year"`
	AvgPrice   *float64 `json:"avg_price_per_sqm_eur"`
	LocalPrice *float64 `json:"local_price_per_sqm_eur"`
}

// Comparable is a nearby property used as a reference value.
type Comparable struct {
	ID                  string   `json:"id"`
	ImageURL            *string  `json:"image_url,omitempty"`
	AddressSnippet      string   `json:"address_snippet"`
	PropertyTypeDisplay string   `json:"property_type_display"`
	LivingAreaSqm       *float64 `json:"living_area_sqm"`
	PlotAreaSqm         *float64 `json:"plot_area_sqm,omitempty"`
	YearBuiltDisplay    string   `json:"year_built_display"`
	EstimatedValueEUR   *float64 `json:"estimated_value_eur"`
	PricePerSqmEUR      *float64 `json:"price_per_sqm_eur"`
}

// Record is the normalized valuation report. Every field is optional since
// the webhook may omit any of them.
type Record struct {
	EstimatedValue       *float64     `json:"estimated_property_value_eur"`
	RangeMin             *float64     `json:"value_range_min_eur"`
	RangeMax             *float64     `json:"value_range_max_eur"`
	PricePerSqm          *float64     `json:"price_per_sqm_avg_eur"`
	Confidence           *Confidence  `json:"valuation_confidence"`
	PositiveDrivers      []string     `json:"positive_value_drivers"`
	NegativeDrivers      []string     `json:"negative_value_drivers"`
	MarketTrend          *string      `json:"local_market_trend_info"`
	PriceDevelopment     []PricePoint `json:"price_development,omitempty"`
	ComparableProperties []Comparable `json:"comparable_properties_nearby,omitempty"`
}

// Fallback returns the placeholder report used when the webhook only
// acknowledges the submission.
func Fallback() Record {
	conf := ConfidenceMedium
	trend := "Der lokale Immobilienmarkt zeigt eine stabile Nachfrage mit leicht steigenden Preisen. " +
		"Ihre detaillierte Bewertung wird in Kürze per E-Mail nachgereicht."
	return Record{
		EstimatedValue: f(450000),
		RangeMin:       f(420000),
		RangeMax:       f(480000),
		PricePerSqm:    f(3750),
		Confidence:     &conf,
		PositiveDrivers: []string{
			"Gute Lage",
			"Gepflegter Gesamtzustand",
			"Gefragte Wohnungsgröße",
		},
		NegativeDrivers: []string{
			"Baujahr-bedingter Modernisierungsbedarf",
		},
		MarketTrend: &trend,
		PriceDevelopment: []PricePoint{
			{Year: 2020, AvgPrice: f(3200), LocalPrice: f(3350)},
			{Year: 2021, AvgPrice: f(3450), LocalPrice: f(3600)},
			{Year: 2022, AvgPrice: f(3700), LocalPrice: f(3850)},
			{Year: 2023, AvgPrice: f(3600), LocalPrice: f(3700)},
			{Year: 2024, AvgPrice: f(3650), LocalPrice: f(3750)},
		},
	}
}

func f(v float64) *float64 { return &v }
