package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderHeaderShowsBrand(t *testing.T) {
	out := RenderHeader(Brand{Name: "Wind Immobilien", Contact: "+49 2223 1234"}, "Wohnfläche", 100)
	for _, want := range []string{"Wind Immobilien", "Wohnfläche", "+49 2223 1234"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFrameHeight(t *testing.T) {
	header := RenderHeader(Brand{Name: "X"}, "", 80)
	footer := RenderFooter([]KeyHint{{Key: "Enter", Description: "Weiter"}}, 80)
	frame := RenderFrame(header, "inhalt", footer, 80, 24)
	if h := lipgloss.Height(frame); h != 24 {
		t.Errorf("frame height = %d, want 24", h)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) {
		t.Error("expected too small")
	}
	if IsTooSmall(80, 24) {
		t.Error("80x24 is the minimum and should fit")
	}
}

func TestRuleClamps(t *testing.T) {
	if got := lipgloss.Width(Rule(200, 60)); got != 200 {
		t.Errorf("rule width = %d, want 200", got)
	}
	if !strings.Contains(Rule(200, 60), strings.Repeat("─", 60)) {
		t.Error("rule should be 60 cells long")
	}
	if strings.Contains(Rule(200, 60), strings.Repeat("─", 61)) {
		t.Error("rule longer than max")
	}
}
