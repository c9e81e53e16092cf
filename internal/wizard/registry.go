package wizard

import "github.com/abhisek/immowert/internal/answers"

// requirement reports whether a step's required answers are present.
type requirement func(answers.AnswerSet) bool

func always(answers.AnswerSet) bool { return true }

var requirements = map[string]requirement{
	"property_type":      func(a answers.AnswerSet) bool { return a.PropertyType != nil },
	"house_type":         func(a answers.AnswerSet) bool { return a.HouseType != nil },
	"house_size":         func(a answers.AnswerSet) bool { return a.LivingArea != nil && a.PlotArea != nil },
	"apartment_size":     func(a answers.AnswerSet) bool { return a.LivingArea != nil && a.FloorLevel != nil },
	"room_count":         func(a answers.AnswerSet) bool { return a.RoomCount != nil },
	"year_built":         func(a answers.AnswerSet) bool { return a.YearBuilt != nil },
	"basement":           func(a answers.AnswerSet) bool { return a.HasBasement != nil },
	"elevator":           func(a answers.AnswerSet) bool { return a.HasElevator != nil },
	"monthly_fee":        func(a answers.AnswerSet) bool { return a.MonthlyFee != nil },
	"location":           func(a answers.AnswerSet) bool { return a.ZipCode != nil && a.City != nil },
	"condition":          func(a answers.AnswerSet) bool { return a.ConditionGeneral != nil },
	"renovation":         always,
	"equipment_quality":  func(a answers.AnswerSet) bool { return a.EquipmentQuality != nil },
	"heating_type":       func(a answers.AnswerSet) bool { return a.HeatingType != nil },
	"window_type":        func(a answers.AnswerSet) bool { return a.WindowType != nil },
	"flooring_type":      func(a answers.AnswerSet) bool { return len(a.FlooringType) > 0 },
	"kitchen":            func(a answers.AnswerSet) bool { return a.KitchenDetails != nil },
	"outdoor_features":   always,
	"parking":            func(a answers.AnswerSet) bool { return a.ParkingType != nil },
	"energy_certificate": func(a answers.AnswerSet) bool { return a.EnergyCertificate != nil },
	"rental_status":      func(a answers.AnswerSet) bool { return a.CurrentlyRented != nil },
	"user_intent":        func(a answers.AnswerSet) bool { return a.UserIntent != nil },
}

var requiredFields = map[string][]answers.Field{
	"property_type":      {answers.FieldPropertyType},
	"house_type":         {answers.FieldHouseType},
	"house_size":         {answers.FieldLivingArea, answers.FieldPlotArea},
	"apartment_size":     {answers.FieldLivingArea, answers.FieldFloorLevel},
	"room_count":         {answers.FieldRoomCount},
	"year_built":         {answers.FieldYearBuilt},
	"basement":           {answers.FieldHasBasement},
	"elevator":           {answers.FieldHasElevator},
	"monthly_fee":        {answers.FieldMonthlyFee},
	"location":           {answers.FieldZipCode, answers.FieldCity},
	"condition":          {answers.FieldConditionGeneral},
	"equipment_quality":  {answers.FieldEquipmentQuality},
	"heating_type":       {answers.FieldHeatingType},
	"window_type":        {answers.FieldWindowType},
	"flooring_type":      {answers.FieldFlooringType},
	"kitchen":            {answers.FieldKitchenDetails},
	"parking":            {answers.FieldParkingType},
	"energy_certificate": {answers.FieldEnergyCertificate},
	"rental_status":      {answers.FieldCurrentlyRented},
	"user_intent":        {answers.FieldUserIntent},
}

// CanProceed reports whether the step's required answers are populated.
// Soft steps and unknown ids always allow advancing.
func CanProceed(stepID string, a answers.AnswerSet) bool {
	req, ok := requirements[stepID]
	if !ok {
		return true
	}
	return req(a)
}

// RequiredFields returns the answers a step needs before advancing.
// Soft steps return nil.
func RequiredFields(stepID string) []answers.Field {
	return append([]answers.Field(nil), requiredFields[stepID]...)
}

// Missing returns the required fields of stepID that a leaves empty.
func Missing(stepID string, a answers.AnswerSet) []answers.Field {
	var out []answers.Field
	for _, f := range requiredFields[stepID] {
		if !a.Answered(f) {
			out = append(out, f)
		}
	}
	return out
}
