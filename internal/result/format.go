package result

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Missing is shown in place of an absent figure.
const Missing = "N/A"

// germanInt formats a whole number with "." as thousands separator.
func germanInt(v float64) string {
	return humanize.FormatFloat("#.###,", math.Round(v))
}

// EUR formats an amount the German way, rounded to whole euros.
func EUR(v *float64) string {
	if v == nil {
		return Missing
	}
	return germanInt(*v) + " €"
}

// EURPerSqm formats a price per square metre.
func EURPerSqm(v *float64) string {
	if v == nil {
		return Missing
	}
	return germanInt(*v) + " €/m²"
}

// Sqm formats an area in square metres.
func Sqm(v *float64) string {
	if v == nil {
		return Missing
	}
	return germanInt(*v) + " m²"
}

// Range formats the value range, or Missing when either bound is absent.
func (r Record) Range() string {
	if r.RangeMin == nil || r.RangeMax == nil {
		return Missing
	}
	return EUR(r.RangeMin) + " – " + EUR(r.RangeMax)
}

// ConfidenceLabel returns the display text of the confidence tier.
func (r Record) ConfidenceLabel() string {
	if r.Confidence == nil {
		return Missing
	}
	return r.Confidence.Label()
}
