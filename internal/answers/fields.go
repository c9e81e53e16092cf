package answers

// Field is the JSON key of one answerable question.
type Field string

const (
	FieldPropertyType      Field = "propertyType"
	FieldHouseType         Field = "houseType"
	FieldLivingArea        Field = "livingArea"
	FieldPlotArea          Field = "plotArea"
	FieldFloorLevel        Field = "floorLevel"
	FieldRoomCount         Field = "roomCount"
	FieldYearBuilt         Field = "yearBuilt"
	FieldHasBasement       Field = "hasBasement"
	FieldBasementType      Field = "basementType"
	FieldHasElevator       Field = "hasElevator"
	FieldMonthlyFee        Field = "monthlyFee"
	FieldZipCode           Field = "zipCode"
	FieldCity              Field = "city"
	FieldStreet            Field = "street"
	FieldConditionGeneral  Field = "conditionGeneral"
	FieldRenovations       Field = "renovations"
	FieldEquipmentQuality  Field = "equipmentQuality"
	FieldHeatingType       Field = "heatingType"
	FieldWindowType        Field = "windowType"
	FieldFlooringType      Field = "flooringType"
	FieldKitchenDetails    Field = "kitchenDetails"
	FieldOutdoorFeatures   Field = "outdoorFeatures"
	FieldParkingType       Field = "parkingType"
	FieldEnergyCertificate Field = "energyCertificate"
	FieldCurrentlyRented   Field = "currentlyRented"
	FieldAnnualRent        Field = "annualRent"
	FieldUserIntent        Field = "userIntent"
)

// Kind classifies the value a field holds.
type Kind int

const (
	KindChoice Kind = iota
	KindInt
	KindBool
	KindText
	KindZip
	KindMulti
	KindRenovations
	KindKitchen
	KindEnergy
)

// Option is one allowed value of a choice or multi-select field.
type Option struct {
	Value string
	Label string
}

// Definition describes one answerable field.
type Definition struct {
	Field   Field
	Label   string
	Kind    Kind
	Options []Option
	Min     int
	Max     int // 0 means unbounded
}

// LabelFor returns the display label for value, or value itself when it
// is not one of the field's options.
func (d Definition) LabelFor(value string) string {
	for _, o := range d.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Values returns the allowed option values in order.
func (d Definition) Values() []string {
	out := make([]string, len(d.Options))
	for i, o := range d.Options {
		out[i] = o.Value
	}
	return out
}

// Sub-record option sets.
var (
	RenovationAreas = []Option{
		{"roof", "Dach"},
		{"windows", "Fenster"},
		{"heating", "Heizung"},
		{"bathroom", "Bad"},
		{"electrical", "Elektrik"},
		{"facade", "Fassade"},
		{"plumbing", "Leitungen"},
	}
	RenovationPeriods = []Option{
		{"last_5_years", "In den letzten 5 Jahren"},
		{"6_10_years", "Vor 6-10 Jahren"},
		{"11_15_years", "Vor 11-15 Jahren"},
		{"16_20_years", "Vor 16-20 Jahren"},
	}
	RenovationExtents = []Option{
		{"teilweise", "Teilweise"},
		{"umfänglich", "Umfänglich"},
	}
	KitchenConditions = []Option{
		{"new", "Neuwertig"},
		{"good", "Gut erhalten"},
		{"older", "Älter"},
	}
	EnergyClasses = []Option{
		{"A+", "A+"}, {"A", "A"}, {"B", "B"}, {"C", "C"}, {"D", "D"},
		{"E", "E"}, {"F", "F"}, {"G", "G"}, {"H", "H"},
		{"unknown", "Unbekannt"},
	}
)

// Registry lists every answerable field in questionnaire order.
var Registry = []Definition{
	{Field: FieldPropertyType, Label: "Immobilienart", Kind: KindChoice, Options: []Option{
		{string(House), "Haus"},
		{string(Apartment), "Wohnung"},
	}},
	{Field: FieldHouseType, Label: "Haustyp", Kind: KindChoice, Options: []Option{
		{"detached_house", "Einfamilienhaus"},
		{"semi_detached", "Doppelhaushälfte"},
		{"terraced_middle", "Reihenmittelhaus"},
		{"terraced_end", "Reihenendhaus"},
		{"bungalow", "Bungalow"},
		{"villa", "Villa"},
	}},
	{Field: FieldLivingArea, Label: "Wohnfläche (m²)", Kind: KindInt, Min: 25, Max: 500},
	{Field: FieldPlotArea, Label: "Grundstücksfläche (m²)", Kind: KindInt, Min: 100, Max: 2000},
	{Field: FieldFloorLevel, Label: "Etage", Kind: KindChoice, Options: []Option{
		{"erdgeschoss", "Erdgeschoss"},
		{"1", "1. Etage"},
		{"2", "2. Etage"},
		{"3", "3. Etage"},
		{"4", "4. Etage"},
		{"5plus", "5. Etage oder höher"},
		{"dachgeschoss", "Dachgeschoss"},
	}},
	{Field: FieldRoomCount, Label: "Zimmer", Kind: KindInt, Min: 1, Max: 6},
	{Field: FieldYearBuilt, Label: "Baujahr", Kind: KindChoice, Options: []Option{
		{"vor_1949", "Vor 1949"},
		{"1950_1969", "1950 - 1969"},
		{"1970_1989", "1970 - 1989"},
		{"1990_2009", "1990 - 2009"},
		{"2010_heute", "2010 - heute"},
	}},
	{Field: FieldHasBasement, Label: "Keller", Kind: KindBool},
	{Field: FieldBasementType, Label: "Kellerart", Kind: KindChoice, Options: []Option{
		{"partial", "Teilunterkellert"},
		{"full", "Vollunterkellert"},
	}},
	{Field: FieldHasElevator, Label: "Aufzug", Kind: KindBool},
	{Field: FieldMonthlyFee, Label: "Hausgeld (€/Monat)", Kind: KindInt, Min: 0, Max: 5000},
	{Field: FieldZipCode, Label: "Postleitzahl", Kind: KindZip},
	{Field: FieldCity, Label: "Ort", Kind: KindText},
	{Field: FieldStreet, Label: "Straße", Kind: KindText},
	{Field: FieldConditionGeneral, Label: "Zustand", Kind: KindChoice, Options: []Option{
		{"neuwertig", "Neuwertig"},
		{"gepflegt", "Gepflegt"},
		{"renovierungsbedarf", "Renovierungsbedarf"},
		{"sanierungsbedarf", "Sanierungsbedarf"},
	}},
	{Field: FieldRenovations, Label: "Modernisierungen", Kind: KindRenovations, Options: RenovationAreas},
	{Field: FieldEquipmentQuality, Label: "Ausstattung", Kind: KindChoice, Options: []Option{
		{"einfach", "Einfach"},
		{"standard", "Standard"},
		{"gehoben", "Gehoben"},
		{"luxus", "Luxus"},
	}},
	{Field: FieldHeatingType, Label: "Heizungsart", Kind: KindChoice, Options: []Option{
		{"gas_central", "Gas-Zentralheizung"},
		{"oil_central", "Öl-Zentralheizung"},
		{"heat_pump_air", "Luftwärmepumpe"},
		{"heat_pump_ground", "Erdwärmepumpe"},
		{"district_heating", "Fernwärme"},
		{"wood_pellet", "Holz/Pellets"},
		{"electric", "Elektroheizung"},
		{"floor_heating", "Fußbodenheizung"},
	}},
	{Field: FieldWindowType, Label: "Fenster", Kind: KindChoice, Options: []Option{
		{"single_glazed", "Einfachverglasung"},
		{"double_glazed", "Zweifachverglasung"},
		{"triple_glazed", "Dreifachverglasung"},
		{"mixed", "Gemischt"},
	}},
	{Field: FieldFlooringType, Label: "Bodenbeläge", Kind: KindMulti, Options: []Option{
		{"parquet", "Parkett"},
		{"laminate", "Laminat"},
		{"tiles", "Fliesen"},
		{"carpet", "Teppich"},
		{"vinyl", "Vinyl"},
		{"concrete", "Estrich/Beton"},
	}},
	{Field: FieldKitchenDetails, Label: "Einbauküche", Kind: KindKitchen, Options: KitchenConditions},
	{Field: FieldOutdoorFeatures, Label: "Außenbereich", Kind: KindMulti, Options: []Option{
		{"garden", "Garten"},
		{"terrace", "Terrasse"},
		{"balcony", "Balkon"},
		{"roof_terrace", "Dachterrasse"},
		{"shared_garden", "Gemeinschaftsgarten"},
	}},
	{Field: FieldParkingType, Label: "Stellplatz", Kind: KindChoice, Options: []Option{
		{"single_garage", "Einzelgarage"},
		{"double_garage", "Doppelgarage"},
		{"underground_parking", "Tiefgaragenstellplatz"},
		{"carport", "Carport"},
		{"outdoor_parking", "Außenstellplatz"},
		{"none", "Kein Stellplatz"},
	}},
	{Field: FieldEnergyCertificate, Label: "Energieausweis", Kind: KindEnergy, Options: EnergyClasses},
	{Field: FieldCurrentlyRented, Label: "Vermietet", Kind: KindBool},
	{Field: FieldAnnualRent, Label: "Jahresnettokaltmiete (€)", Kind: KindInt, Min: 0},
	{Field: FieldUserIntent, Label: "Anliegen", Kind: KindChoice, Options: []Option{
		{"sell_soon", "Ich möchte zeitnah verkaufen"},
		{"sell_future", "Ich plane einen Verkauf in der Zukunft"},
		{"curiosity", "Ich bin einfach neugierig"},
		{"buying_interest", "Ich möchte eine Immobilie kaufen"},
	}},
}

var registryIndex = func() map[Field]Definition {
	m := make(map[Field]Definition, len(Registry))
	for _, d := range Registry {
		m[d.Field] = d
	}
	return m
}()

// Lookup returns the definition of field f.
func Lookup(f Field) (Definition, bool) {
	d, ok := registryIndex[f]
	return d, ok
}

// MustLookup is like Lookup but panics on an unknown field.
func MustLookup(f Field) Definition {
	d, ok := registryIndex[f]
	if !ok {
		panic("answers: unknown field " + string(f))
	}
	return d
}
