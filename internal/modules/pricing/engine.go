// README: Pure fare computation: rate resolution, base fare, line items, totals.
package pricing

import "math"

// BaseRateLabel is the synthetic first row of every breakdown. The label is
// user-visible on receipts and must stay stable for reconciliation.
const BaseRateLabel = "Base Rate"

// TotalLabel is the final row of the display sequence.
const TotalLabel = "Total"

// round2 rounds to two decimals, half away from zero. math.Round implements
// exactly that tie-breaking rule.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ResolveVehicleClass returns the active rate-card row with the given id.
// A miss is not an error: the caller gets the zero value and false, and a
// base fare of zero downstream.
func ResolveVehicleClass(classes []VehicleClass, id int) (VehicleClass, bool) {
	for _, c := range classes {
		if c.ID == id && c.Active {
			return c, true
		}
	}
	return VehicleClass{}, false
}

// ResolveServiceType returns the active service type with the given id.
func ResolveServiceType(serviceTypes []ServiceType, id int) (ServiceType, bool) {
	for _, s := range serviceTypes {
		if s.ID == id && s.Active {
			return s, true
		}
	}
	return ServiceType{}, false
}

// ActiveTaxRate returns the first active tax row in configured order.
// Uniqueness is not validated; with no active row the effective rate is 0.
func ActiveTaxRate(rates []TaxRate) (TaxRate, bool) {
	for _, r := range rates {
		if r.Active {
			return r, true
		}
	}
	return TaxRate{}, false
}

// BaseFare computes the pre-surcharge fare for a trip.
//
// Hourly services bill duration * per-hour with a floor of the class's hourly
// minimum rate; the floor is max-combined, never additive. Distance services
// bill the distance minimum rate plus per-km for kilometres beyond the
// threshold, so the result never drops below the minimum.
//
// Round trips double the effective distance or duration before the floor is
// applied, so the minimum is evaluated once against the full round trip.
//
// An unresolved vehicle or service (zero value) yields 0: "not computable",
// not "free" — callers gate finalization on resolution success.
func BaseFare(vehicle VehicleClass, service ServiceType, trip TripParams) float64 {
	if vehicle.ID == 0 || service.ID == 0 {
		return 0
	}
	if service.Hourly {
		hours := trip.DurationHours
		if trip.RoundTrip {
			hours *= 2
		}
		return math.Max(vehicle.MinRateHourly, hours*vehicle.PerHour)
	}
	distance := trip.DistanceKm
	if trip.RoundTrip {
		distance *= 2
	}
	overMin := math.Max(0, distance-vehicle.MinKm)
	return vehicle.MinRateKm + overMin*vehicle.PerKm
}

// LineItems evaluates the surcharge rules against a base fare and returns the
// ordered breakdown: the synthetic Base Rate row first (always taxable), then
// every active rule whose scope matches the trip location, in configured
// order. taxPercent is expressed 0-100. Inputs are never mutated.
func LineItems(baseFare float64, rules []SurchargeRule, taxPercent float64, locationID string) []LineItem {
	items := make([]LineItem, 0, len(rules)+1)
	items = append(items, LineItem{
		Label: BaseRateLabel,
		Tax:   round2(baseFare * taxPercent / 100),
		Total: round2(baseFare),
	})
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		if rule.AppliesTo != nil && *rule.AppliesTo != "" && *rule.AppliesTo != locationID {
			continue
		}
		var total float64
		if rule.Percentage {
			total = round2(baseFare * rule.Amount / 100)
		} else {
			total = round2(rule.Amount)
		}
		var tax float64
		if rule.Taxable {
			tax = round2(total * taxPercent / 100)
		}
		items = append(items, LineItem{Label: rule.Label, Tax: tax, Total: total})
	}
	return items
}

// Aggregate sums a line-item sequence into totals and produces the extended
// display sequence: all rows, then a row named after the tax carrying the tax
// total, then the Total row carrying the grand total. taxLabel is typically
// the active tax's region name ("HST (13%)").
func Aggregate(items []LineItem, taxLabel string) (Totals, []LineItem) {
	if taxLabel == "" {
		taxLabel = "Tax"
	}
	var t Totals
	for _, item := range items {
		t.Subtotal += item.Total
		t.TaxTotal += item.Tax
	}
	t.Subtotal = round2(t.Subtotal)
	t.TaxTotal = round2(t.TaxTotal)
	t.GrandTotal = round2(t.Subtotal + t.TaxTotal)

	display := make([]LineItem, 0, len(items)+2)
	display = append(display, items...)
	display = append(display, LineItem{Label: taxLabel, Tax: t.TaxTotal, Total: t.TaxTotal})
	display = append(display, LineItem{Label: TotalLabel, Tax: t.TaxTotal, Total: t.GrandTotal})
	return t, display
}

// CombineTrips merges the line items of several trips (e.g. the outbound and
// return legs of a round trip quoted separately) into one consolidated list.
// Rows are keyed by label: first-seen order is preserved and later matches
// are summed in place, so the combined receipt carries one row per label and
// exactly one trailing tax/Total pair is appended by Aggregate afterwards.
func CombineTrips(trips ...[]LineItem) []LineItem {
	var combined []LineItem
	index := make(map[string]int)
	for _, items := range trips {
		for _, item := range items {
			if i, ok := index[item.Label]; ok {
				combined[i].Tax = round2(combined[i].Tax + item.Tax)
				combined[i].Total = round2(combined[i].Total + item.Total)
				continue
			}
			index[item.Label] = len(combined)
			combined = append(combined, item)
		}
	}
	return combined
}

// QuoteTrip runs the whole pipeline against one rate book: resolve the
// vehicle class and service type, compute the base fare, evaluate line items,
// and aggregate totals. It is a pure function of its inputs; concurrent calls
// are independent.
func QuoteTrip(book RateBook, vehicleClassID, serviceTypeID int, trip TripParams) TripQuote {
	vehicle, vehicleOK := ResolveVehicleClass(book.VehicleClasses, vehicleClassID)
	service, serviceOK := ResolveServiceType(book.ServiceTypes, serviceTypeID)

	tax, _ := ActiveTaxRate(book.TaxRates)

	base := BaseFare(vehicle, service, trip)
	items := LineItems(base, book.Surcharges, tax.Percent, trip.LocationID)
	totals, display := Aggregate(items, tax.Region)

	return TripQuote{
		Items:     items,
		Display:   display,
		Totals:    totals,
		BaseFare:  round2(base),
		TaxName:   tax.Region,
		TaxRate:   tax.Percent,
		Priceable: vehicleOK && serviceOK,
	}
}
