// README: Rate-book configuration records and computed fare breakdown types.
package pricing

// VehicleClass is one row of the vehicle rate card. A class prices either by
// distance or by hour depending on the service type paired with it at quote
// time; both sets of fields are carried on the same record.
type VehicleClass struct {
	ID      int
	Name    string
	PerKm   float64
	PerHour float64
	// MinKm is the distance threshold below which MinRateKm applies flat.
	MinKm     float64
	MinRateKm float64
	// MinHours is the booking-hours threshold; MinRateHourly is the hourly-mode floor.
	MinHours      float64
	MinRateHourly float64
	Active        bool
}

// ServiceType selects the base-fare branch: hourly charters bill on duration,
// everything else (transfers, airport runs) bills on distance.
type ServiceType struct {
	ID     int
	Name   string
	Hourly bool
	Active bool
}

// SurchargeRule is a configured line item applied on top of the base fare.
// Amount is a percentage of the base fare (0-100) when Percentage is set,
// otherwise a flat currency value. AppliesTo restricts the rule to trips
// touching a specific location (nil = every trip).
type SurchargeRule struct {
	ID         int
	Label      string
	Amount     float64
	Percentage bool
	Taxable    bool
	Active     bool
	AppliesTo  *string
}

// TaxRate is a regional sales-tax row. Percent is expressed 0-100 (13 = 13%).
// At most one row should be active; the engine takes the first active one.
type TaxRate struct {
	ID      int
	Region  string
	Percent float64
	Active  bool
}

// RateBook is the full pricing configuration fetched from storage. The engine
// treats it as read-only input; every quote run takes its own snapshot.
type RateBook struct {
	VehicleClasses []VehicleClass
	ServiceTypes   []ServiceType
	Surcharges     []SurchargeRule
	TaxRates       []TaxRate
}

// TripParams are the per-request inputs supplied by the caller: the measured
// route and the location scope used for surcharge filtering.
type TripParams struct {
	DistanceKm    float64
	DurationHours float64
	RoundTrip     bool
	// LocationID is the place identifier the trip touches (e.g. an airport),
	// matched against SurchargeRule.AppliesTo. Empty means no scoped location.
	LocationID string
}

// LineItem is one computed breakdown row. Tax and Total are rounded to two
// decimals at the point the row is produced.
type LineItem struct {
	Label string  `json:"label"`
	Tax   float64 `json:"tax"`
	Total float64 `json:"total"`
}

// Totals are the aggregated sums over a line-item sequence.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	TaxTotal   float64 `json:"tax_total"`
	GrandTotal float64 `json:"grand_total"`
}

// TripQuote is the full result of one pricing run.
//
// Items holds the reconciliation rows: Base Rate first, then surcharges in
// configured order. Display extends Items with the trailing tax row and Total
// row for receipts. Priceable is false when the vehicle class or service type
// could not be resolved; the amounts are then zero and the quote must not be
// finalized.
type TripQuote struct {
	Items     []LineItem `json:"items"`
	Display   []LineItem `json:"display"`
	Totals    Totals     `json:"totals"`
	BaseFare  float64    `json:"base_fare"`
	TaxName   string     `json:"tax_name"`
	TaxRate   float64    `json:"tax_rate"`
	Priceable bool       `json:"priceable"`
}
