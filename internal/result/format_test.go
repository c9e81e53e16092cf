package result

import "testing"

func TestGermanFormatting(t *testing.T) {
	tests := []struct {
		name string
		fn   func(*float64) string
		in   *float64
		want string
	}{
		{"eur thousands", EUR, f(450000), "450.000 €"},
		{"eur millions", EUR, f(1250000), "1.250.000 €"},
		{"eur rounds", EUR, f(999.6), "1.000 €"},
		{"eur small", EUR, f(75), "75 €"},
		{"eur missing", EUR, nil, Missing},
		{"per sqm", EURPerSqm, f(3750), "3.750 €/m²"},
		{"per sqm missing", EURPerSqm, nil, Missing},
		{"area", Sqm, f(140), "140 m²"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordRangeAndConfidence(t *testing.T) {
	rec := Fallback()
	if got := rec.Range(); got != "420.000 € – 480.000 €" {
		t.Errorf("Range() = %q", got)
	}
	if got := rec.ConfidenceLabel(); got != "Mittlere Zuverlässigkeit" {
		t.Errorf("ConfidenceLabel() = %q", got)
	}

	var empty Record
	if got := empty.Range(); got != Missing {
		t.Errorf("empty Range() = %q, want %q", got, Missing)
	}
	if got := empty.ConfidenceLabel(); got != Missing {
		t.Errorf("empty ConfidenceLabel() = %q, want %q", got, Missing)
	}
}
