// Package answers defines the Answer Set collected by the valuation
// questionnaire and the registry of every answerable field.
package answers

import (
	"encoding/json"
)

// PropertyType is the top-level branch of the questionnaire.
type PropertyType string

const (
	House     PropertyType = "house"
	Apartment PropertyType = "apartment"
)

// Renovation describes work done on one building area.
type Renovation struct {
	Done   bool    `json:"done"`
	Period *string `json:"period"`
	Extent *string `json:"extent"`
}

// Kitchen records whether a fitted kitchen is sold with the property.
type Kitchen struct {
	Included  bool    `json:"included"`
	Condition *string `json:"condition"`
}

// EnergyCertificate records the presence and class of an energy certificate.
type EnergyCertificate struct {
	Available bool    `json:"available"`
	Class     *string `json:"class"`
}

// AnswerSet holds every answer collected so far. A nil pointer, slice or
// map means the question is unanswered; a populated false or empty slice
// is a real answer.
type AnswerSet struct {
	PropertyType      *PropertyType         `json:"propertyType"`
	HouseType         *string               `json:"houseType"`
	LivingArea        *int                  `json:"livingArea"`
	PlotArea          *int                  `json:"plotArea"`
	FloorLevel        *string               `json:"floorLevel"`
	RoomCount         *int                  `json:"roomCount"`
	YearBuilt         *string               `json:"yearBuilt"`
	HasBasement       *bool                 `json:"hasBasement"`
	BasementType      *string               `json:"basementType"`
	HasElevator       *bool                 `json:"hasElevator"`
	MonthlyFee        *int                  `json:"monthlyFee"`
	ZipCode           *string               `json:"zipCode"`
	City              *string               `json:"city"`
	Street            *string               `json:"street"`
	ConditionGeneral  *string               `json:"conditionGeneral"`
	Renovations       map[string]Renovation `json:"renovations"`
	EquipmentQuality  *string               `json:"equipmentQuality"`
	HeatingType       *string               `json:"heatingType"`
	WindowType        *string               `json:"windowType"`
	FlooringType      []string              `json:"flooringType"`
	KitchenDetails    *Kitchen              `json:"kitchenDetails"`
	OutdoorFeatures   []string              `json:"outdoorFeatures"`
	ParkingType       *string               `json:"parkingType"`
	EnergyCertificate *EnergyCertificate    `json:"energyCertificate"`
	CurrentlyRented   *bool                 `json:"currentlyRented"`
	AnnualRent        *int                  `json:"annualRent"`
	UserIntent        *string               `json:"userIntent"`
}

// Is reports whether the property type has been answered with t.
func (a AnswerSet) Is(t PropertyType) bool {
	return a.PropertyType != nil && *a.PropertyType == t
}

// Clone returns a deep copy of a.
func (a AnswerSet) Clone() AnswerSet {
	fields, err := a.fields()
	if err != nil {
		return a
	}
	var out AnswerSet
	if err := decodeFields(fields, &out); err != nil {
		return a
	}
	return out
}

// Answered reports whether field f holds a value. Multi-select fields
// count as answered only when non-empty.
func (a AnswerSet) Answered(f Field) bool {
	fields, err := a.fields()
	if err != nil {
		return false
	}
	raw, ok := fields[string(f)]
	if !ok {
		return false
	}
	switch string(raw) {
	case "null", "[]":
		return false
	}
	return true
}

// fields returns the JSON encoding of a keyed by field name.
func (a AnswerSet) fields() (map[string]json.RawMessage, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeFields(m map[string]json.RawMessage, out *AnswerSet) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// Ptr returns a pointer to v. Handy when building answers by hand.
func Ptr[T any](v T) *T {
	return &v
}
