// Package wizard sequences the questionnaire: which steps apply to the
// current answers, whether the user may advance, and the submission
// lifecycle that follows the last step.
package wizard

import (
	"strings"

	"github.com/abhisek/immowert/internal/answers"
)

// MaklerPlaceholder in a step title or subtitle is replaced with the
// tenant's agent name.
const MaklerPlaceholder = "{makler}"

// Kind selects the renderer used for a step.
type Kind string

const (
	KindChoice      Kind = "choice"
	KindMultiChoice Kind = "multi_choice"
	KindNumbers     Kind = "numbers"
	KindYesNo       Kind = "yes_no"
	KindBasement    Kind = "basement"
	KindLocation    Kind = "location"
	KindRenovation  Kind = "renovation"
	KindKitchen     Kind = "kitchen"
	KindEnergy      Kind = "energy"
	KindRental      Kind = "rental"
)

// Range bounds a numeric input on one step. It narrows the field's
// registry bounds for that step only.
type Range struct {
	Min, Max, Step int
}

// Step describes one page of the questionnaire.
type Step struct {
	ID       string
	Title    string
	Subtitle string
	Kind     Kind

	// Fields lists the answers this step writes, in input order.
	Fields []answers.Field

	// Ranges narrows numeric fields for this step.
	Ranges map[answers.Field]Range

	// DependsOn lists the fields Applies reads.
	DependsOn []answers.Field

	// Applies reports whether the step is shown for the given answers.
	// A nil Applies means always.
	Applies func(answers.AnswerSet) bool
}

// IsApplicable evaluates the step's predicate against a.
func (s Step) IsApplicable(a answers.AnswerSet) bool {
	if s.Applies == nil {
		return true
	}
	return s.Applies(a)
}

// TitleFor returns the title with the agent name filled in.
func (s Step) TitleFor(makler string) string {
	return strings.ReplaceAll(s.Title, MaklerPlaceholder, makler)
}

// SubtitleFor returns the subtitle with the agent name filled in.
func (s Step) SubtitleFor(makler string) string {
	return strings.ReplaceAll(s.Subtitle, MaklerPlaceholder, makler)
}

// Applicable filters catalog down to the steps that apply to a,
// preserving catalog order.
func Applicable(catalog []Step, a answers.AnswerSet) []Step {
	out := make([]Step, 0, len(catalog))
	for _, s := range catalog {
		if s.IsApplicable(a) {
			out = append(out, s)
		}
	}
	return out
}

func isHouse(a answers.AnswerSet) bool     { return a.Is(answers.House) }
func isApartment(a answers.AnswerSet) bool { return a.Is(answers.Apartment) }

// DefaultCatalog returns the valuation questionnaire in display order.
func DefaultCatalog() []Step {
	return []Step{
		{
			ID:       "property_type",
			Title:    "Welche Immobilie möchten Sie bewerten?",
			Subtitle: "Kostenlose Bewertung durch {makler}",
			Kind:     KindChoice,
			Fields:   []answers.Field{answers.FieldPropertyType},
		},
		{
			ID:        "house_type",
			Title:     "Um welchen Haustyp handelt es sich?",
			Kind:      KindChoice,
			Fields:    []answers.Field{answers.FieldHouseType},
			DependsOn: []answers.Field{answers.FieldPropertyType},
			Applies:   isHouse,
		},
		{
			ID:       "house_size",
			Title:    "Wie groß ist Ihr Haus?",
			Subtitle: "Wohnfläche und Grundstücksfläche in Quadratmetern",
			Kind:     KindNumbers,
			Fields:   []answers.Field{answers.FieldLivingArea, answers.FieldPlotArea},
			Ranges: map[answers.Field]Range{
				answers.FieldLivingArea: {Min: 40, Max: 500, Step: 5},
				answers.FieldPlotArea:   {Min: 100, Max: 2000, Step: 10},
			},
			DependsOn: []answers.Field{answers.FieldPropertyType},
			Applies:   isHouse,
		},
		{
			ID:       "apartment_size",
			Title:    "Wie groß ist Ihre Wohnung?",
			Subtitle: "Wohnfläche und Lage im Gebäude",
			Kind:     KindNumbers,
			Fields:   []answers.Field{answers.FieldLivingArea, answers.FieldFloorLevel},
			Ranges: map[answers.Field]Range{
				answers.FieldLivingArea: {Min: 25, Max: 200, Step: 1},
			},
			DependsOn: []answers.Field{answers.FieldPropertyType},
			Applies:   isApartment,
		},
		{
			ID:     "room_count",
			Title:  "Wie viele Zimmer hat die Immobilie?",
			Kind:   KindChoice,
			Fields: []answers.Field{answers.FieldRoomCount},
		},
		{
			ID:     "year_built",
			Title:  "Wann wurde die Immobilie gebaut?",
			Kind:   KindChoice,
			Fields: []answers.Field{answers.FieldYearBuilt},
		},
		{
			ID:        "basement",
			Title:     "Ist das Haus unterkellert?",
			Kind:      KindBasement,
			Fields:    []answers.Field{answers.FieldHasBasement, answers.FieldBasementType},
			DependsOn: []answers.Field{answers.FieldPropertyType},
			Applies:   isHouse,
		},
		{
			ID:        "elevator",
			Title:     "Gibt es einen Aufzug im Gebäude?",
			Kind:      KindYesNo,
			Fields:    []answers.Field{answers.FieldHasElevator},
			DependsOn: []answers.Field{answers.FieldPropertyType, answers.FieldFloorLevel},
			Applies: func(a answers.AnswerSet) bool {
				return isApartment(a) && (a.FloorLevel == nil || *a.FloorLevel != "erdgeschoss")
			},
		},
		{
			ID:       "monthly_fee",
			Title:    "Wie hoch ist das monatliche Hausgeld?",
			Subtitle: "Betrag in Euro pro Monat",
			Kind:     KindNumbers,
			Fields:   []answers.Field{answers.FieldMonthlyFee},
			Ranges: map[answers.Field]Range{
				answers.FieldMonthlyFee: {Min: 0, Max: 1500, Step: 10},
			},
			DependsOn: []answers.Field{answers.FieldPropertyType},
			Applies:   isApartment,
		},
		{
			ID:       "location",
			Title:    "Wo befindet sich die Immobilie?",
			Subtitle: "Die Lage ist der wichtigste Faktor für den Wert",
			Kind:     KindLocation,
			Fields:   []answers.Field{answers.FieldZipCode, answers.FieldCity, answers.FieldStreet},
		},
		{
			ID:     "condition",
			Title:  "In welchem Zustand ist die Immobilie?",
			Kind:   KindChoice,
			Fields: []answers.Field{answers.FieldConditionGeneral},
		},
		{
			ID:       "renovation",
			Title:    "Wurden in den letzten 20 Jahren Modernisierungen durchgeführt?",
			Subtitle: "Optional, hilft aber bei einer genaueren Bewertung",
			Kind:     KindRenovation,
			Fields:   []answers.Field{answers.FieldRenovations},
		},
		{
			ID:     "equipment_quality",
			Title:  "Wie ist die Ausstattung?",
			Kind:   KindChoice,
			Fields: []answers.Field{answers.FieldEquipmentQuality},
		},
		{
			ID:     "heating_type",
			Title:  "Welche Heizungsart ist verbaut?",
			Kind:   KindChoice,
			Fields: []answers.Field{answers.FieldHeatingType},
		},
		{
			ID:     "window_type",
			Title:  "Welche Fenster hat die Immobilie?",
			Kind:   KindChoice,
			Fields: []answers.Field{answers.FieldWindowType},
		},
		{
			ID:       "flooring_type",
			Title:    "Welche Bodenbeläge gibt es?",
			Subtitle: "Mehrfachauswahl möglich",
			Kind:     KindMultiChoice,
			Fields:   []answers.Field{answers.FieldFlooringType},
		},
		{
			ID:     "kitchen",
			Title:  "Wird eine Einbauküche mitverkauft?",
			Kind:   KindKitchen,
			Fields: []answers.Field{answers.FieldKitchenDetails},
		},
		{
			ID:       "outdoor_features",
			Title:    "Welche Außenbereiche gehören dazu?",
			Subtitle: "Mehrfachauswahl möglich",
			Kind:     KindMultiChoice,
			Fields:   []answers.Field{answers.FieldOutdoorFeatures},
		},
		{
			ID:     "parking",
			Title:  "Welche Parkmöglichkeit gibt es?",
			Kind:   KindChoice,
			Fields: []answers.Field{answers.FieldParkingType},
		},
		{
			ID:     "energy_certificate",
			Title:  "Liegt ein Energieausweis vor?",
			Kind:   KindEnergy,
			Fields: []answers.Field{answers.FieldEnergyCertificate},
		},
		{
			ID:     "rental_status",
			Title:  "Ist die Immobilie aktuell vermietet?",
			Kind:   KindRental,
			Fields: []answers.Field{answers.FieldCurrentlyRented, answers.FieldAnnualRent},
		},
		{
			ID:       "user_intent",
			Title:    "Was ist Ihr Anliegen?",
			Subtitle: "{makler} meldet sich anschließend persönlich bei Ihnen",
			Kind:     KindChoice,
			Fields:   []answers.Field{answers.FieldUserIntent},
		},
	}
}

// OutdoorOptions returns the outdoor features offered for a property type.
func OutdoorOptions(a answers.AnswerSet) []string {
	if isApartment(a) {
		return []string{"balcony", "terrace", "roof_terrace", "shared_garden"}
	}
	return []string{"garden", "terrace", "balcony", "roof_terrace"}
}
