// README: Fare engine tests (floors, surcharges, scoping, round trips, totals).
package pricing

import (
	"reflect"
	"testing"
)

func testVehicle() VehicleClass {
	return VehicleClass{
		ID:            1,
		Name:          "Luxury Sedan",
		PerKm:         1.7,
		PerHour:       80,
		MinKm:         25,
		MinRateKm:     80,
		MinHours:      3,
		MinRateHourly: 240,
		Active:        true,
	}
}

func testBook() RateBook {
	pearson := "pearson"
	return RateBook{
		VehicleClasses: []VehicleClass{testVehicle()},
		ServiceTypes: []ServiceType{
			{ID: 1, Name: "Point to Point", Hourly: false, Active: true},
			{ID: 2, Name: "Hourly Charter", Hourly: true, Active: true},
		},
		Surcharges: []SurchargeRule{
			{ID: 1, Label: "Gratuity", Amount: 20, Percentage: true, Taxable: false, Active: true},
			{ID: 2, Label: "Fuel Surcharge", Amount: 8, Percentage: true, Taxable: true, Active: true},
			{ID: 3, Label: "Pearson Toll", Amount: 13.27, Percentage: false, Taxable: true, Active: true, AppliesTo: &pearson},
		},
		TaxRates: []TaxRate{
			{ID: 1, Region: "HST (13%)", Percent: 13, Active: true},
		},
	}
}

func TestBaseFareDistanceMode(t *testing.T) {
	vehicle := testVehicle()
	service := ServiceType{ID: 1, Hourly: false, Active: true}

	cases := []struct {
		name string
		trip TripParams
		want float64
	}{
		{"at minimum distance", TripParams{DistanceKm: 25}, 80},
		{"below minimum distance", TripParams{DistanceKm: 10}, 80},
		{"zero distance", TripParams{DistanceKm: 0}, 80},
		{"above minimum scales linearly", TripParams{DistanceKm: 30}, 80 + 5*1.7},
		{"round trip doubles before the floor", TripParams{DistanceKm: 20, RoundTrip: true}, 80 + 15*1.7},
		{"short round trip still floored once", TripParams{DistanceKm: 10, RoundTrip: true}, 80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BaseFare(vehicle, service, tc.trip)
			if got != tc.want {
				t.Errorf("BaseFare() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBaseFareHourlyMode(t *testing.T) {
	vehicle := testVehicle()
	service := ServiceType{ID: 2, Hourly: true, Active: true}

	cases := []struct {
		name string
		trip TripParams
		want float64
	}{
		// floor is max(minRateHourly, hours*perHour), never additive
		{"below minimum hours", TripParams{DurationHours: 2}, 240},
		{"at minimum hours", TripParams{DurationHours: 3}, 240},
		{"above minimum hours", TripParams{DurationHours: 4}, 320},
		{"round trip doubles duration before the floor", TripParams{DurationHours: 2, RoundTrip: true}, 320},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BaseFare(vehicle, service, tc.trip)
			if got != tc.want {
				t.Errorf("BaseFare() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBaseFareHourlyNoFloorBelowComputed(t *testing.T) {
	// A cheap floor must not drag a long booking down.
	vehicle := testVehicle()
	vehicle.MinRateHourly = 100
	service := ServiceType{ID: 2, Hourly: true, Active: true}
	got := BaseFare(vehicle, service, TripParams{DurationHours: 4})
	if got != 320 {
		t.Errorf("BaseFare() = %v, want 320", got)
	}
}

func TestBaseFareUnresolvedInputs(t *testing.T) {
	service := ServiceType{ID: 1, Active: true}
	if got := BaseFare(VehicleClass{}, service, TripParams{DistanceKm: 40}); got != 0 {
		t.Errorf("BaseFare with zero vehicle = %v, want 0", got)
	}
	if got := BaseFare(testVehicle(), ServiceType{}, TripParams{DistanceKm: 40}); got != 0 {
		t.Errorf("BaseFare with zero service = %v, want 0", got)
	}
}

func TestResolveVehicleClass(t *testing.T) {
	classes := []VehicleClass{
		{ID: 1, Name: "Sedan", Active: true},
		{ID: 2, Name: "Retired SUV", Active: false},
		{ID: 3, Name: "Stretch", Active: true},
	}
	if v, ok := ResolveVehicleClass(classes, 3); !ok || v.Name != "Stretch" {
		t.Errorf("ResolveVehicleClass(3) = %+v, %v", v, ok)
	}
	if _, ok := ResolveVehicleClass(classes, 2); ok {
		t.Error("ResolveVehicleClass(2) matched an inactive class")
	}
	if _, ok := ResolveVehicleClass(classes, 99); ok {
		t.Error("ResolveVehicleClass(99) matched a missing id")
	}
}

func TestResolveServiceType(t *testing.T) {
	serviceTypes := []ServiceType{
		{ID: 1, Name: "Point to Point", Active: true},
		{ID: 2, Name: "Hourly", Active: false},
	}
	if s, ok := ResolveServiceType(serviceTypes, 1); !ok || s.Name != "Point to Point" {
		t.Errorf("ResolveServiceType(1) = %+v, %v", s, ok)
	}
	if _, ok := ResolveServiceType(serviceTypes, 2); ok {
		t.Error("ResolveServiceType(2) matched an inactive type")
	}
}

func TestActiveTaxRate(t *testing.T) {
	if _, ok := ActiveTaxRate(nil); ok {
		t.Error("ActiveTaxRate(nil) reported an active rate")
	}
	// multiple active rows: first in configured order wins
	rates := []TaxRate{
		{ID: 1, Region: "GST (5%)", Percent: 5, Active: false},
		{ID: 2, Region: "HST (13%)", Percent: 13, Active: true},
		{ID: 3, Region: "QST (9.975%)", Percent: 9.975, Active: true},
	}
	tax, ok := ActiveTaxRate(rates)
	if !ok || tax.Region != "HST (13%)" {
		t.Errorf("ActiveTaxRate() = %+v, %v, want first active row", tax, ok)
	}
}

func TestLineItemsPercentageAndFlat(t *testing.T) {
	book := testBook()
	items := LineItems(80, book.Surcharges, 13, "")

	want := []LineItem{
		{Label: "Base Rate", Tax: 10.4, Total: 80},
		{Label: "Gratuity", Tax: 0, Total: 16},
		{Label: "Fuel Surcharge", Tax: 0.83, Total: 6.4},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("LineItems() = %+v, want %+v", items, want)
	}
}

func TestLineItemsScopedSurcharge(t *testing.T) {
	book := testBook()

	offAirport := LineItems(80, book.Surcharges, 13, "union-station")
	for _, item := range offAirport {
		if item.Label == "Pearson Toll" {
			t.Fatal("Pearson Toll applied to a non-airport trip")
		}
	}

	airport := LineItems(80, book.Surcharges, 13, "pearson")
	found := false
	for _, item := range airport {
		if item.Label == "Pearson Toll" {
			found = true
			if item.Total != 13.27 || item.Tax != 1.73 {
				t.Errorf("Pearson Toll = %+v, want total 13.27 tax 1.73", item)
			}
		}
	}
	if !found {
		t.Fatal("Pearson Toll missing from an airport trip")
	}
}

func TestLineItemsSkipInactiveRules(t *testing.T) {
	rules := []SurchargeRule{
		{ID: 1, Label: "Gratuity", Amount: 20, Percentage: true, Active: false},
	}
	items := LineItems(100, rules, 13, "")
	if len(items) != 1 || items[0].Label != "Base Rate" {
		t.Errorf("LineItems() = %+v, want only the Base Rate row", items)
	}
}

func TestLineItemsOrderPreserved(t *testing.T) {
	rules := []SurchargeRule{
		{ID: 4, Label: "Meet and Greet", Amount: 15, Active: true},
		{ID: 2, Label: "Gratuity", Amount: 20, Percentage: true, Active: true},
		{ID: 9, Label: "Fuel Surcharge", Amount: 8, Percentage: true, Active: true},
	}
	items := LineItems(100, rules, 0, "")
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	want := []string{"Base Rate", "Meet and Greet", "Gratuity", "Fuel Surcharge"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("row order = %v, want %v", labels, want)
	}
}

func TestLineItemsZeroTaxRate(t *testing.T) {
	book := testBook()
	items := LineItems(80, book.Surcharges, 0, "")
	for _, item := range items {
		if item.Tax != 0 {
			t.Errorf("row %q carries tax %v with no active tax rate", item.Label, item.Tax)
		}
	}
}

func TestAggregateDisplaySequence(t *testing.T) {
	items := []LineItem{
		{Label: "Base Rate", Tax: 10.4, Total: 80},
		{Label: "Gratuity", Tax: 0, Total: 16},
		{Label: "Fuel Surcharge", Tax: 0.83, Total: 6.4},
	}
	totals, display := Aggregate(items, "HST (13%)")

	if totals.Subtotal != 102.4 {
		t.Errorf("Subtotal = %v, want 102.4", totals.Subtotal)
	}
	if totals.TaxTotal != 11.23 {
		t.Errorf("TaxTotal = %v, want 11.23", totals.TaxTotal)
	}
	if totals.GrandTotal != 113.63 {
		t.Errorf("GrandTotal = %v, want 113.63", totals.GrandTotal)
	}

	if len(display) != len(items)+2 {
		t.Fatalf("display rows = %d, want %d", len(display), len(items)+2)
	}
	taxRow := display[len(display)-2]
	if taxRow.Label != "HST (13%)" || taxRow.Tax != 11.23 || taxRow.Total != 11.23 {
		t.Errorf("tax row = %+v", taxRow)
	}
	totalRow := display[len(display)-1]
	if totalRow.Label != "Total" || totalRow.Tax != 11.23 || totalRow.Total != 113.63 {
		t.Errorf("total row = %+v", totalRow)
	}
}

func TestCombineTripsMergesByLabel(t *testing.T) {
	trip1 := []LineItem{
		{Label: "Base Rate", Tax: 10, Total: 100},
		{Label: "Gratuity", Tax: 0, Total: 25},
		{Label: "Fuel Surcharge", Tax: 1, Total: 10},
	}
	trip2 := []LineItem{
		{Label: "Base Rate", Tax: 10, Total: 100},
		{Label: "Gratuity", Tax: 0, Total: 25},
		{Label: "Fuel Surcharge", Tax: 1, Total: 5},
		{Label: "Pearson Toll", Tax: 1.73, Total: 13.27},
	}

	combined := CombineTrips(trip1, trip2)
	want := []LineItem{
		{Label: "Base Rate", Tax: 20, Total: 200},
		{Label: "Gratuity", Tax: 0, Total: 50},
		{Label: "Fuel Surcharge", Tax: 2, Total: 15},
		{Label: "Pearson Toll", Tax: 1.73, Total: 13.27},
	}
	if !reflect.DeepEqual(combined, want) {
		t.Errorf("CombineTrips() = %+v, want %+v", combined, want)
	}

	// exactly one trailing tax/Total pair over the combined sums
	totals, display := Aggregate(combined, "HST (13%)")
	if totals.Subtotal != 278.27 || totals.TaxTotal != 23.73 {
		t.Errorf("combined totals = %+v, want subtotal 278.27 tax 23.73", totals)
	}
	if totals.GrandTotal != 302.00 {
		t.Errorf("combined grand total = %v, want 302.00", totals.GrandTotal)
	}
	if len(display) != len(combined)+2 {
		t.Errorf("display rows = %d, want one tax row and one total row appended", len(display))
	}
}

func TestQuoteTripEndToEnd(t *testing.T) {
	// Distance-mode trip at exactly the minimum distance, full surcharge set.
	book := testBook()
	quote := QuoteTrip(book, 1, 1, TripParams{DistanceKm: 25})

	if !quote.Priceable {
		t.Fatal("quote not priceable with valid vehicle and service")
	}
	if quote.BaseFare != 80 {
		t.Errorf("BaseFare = %v, want 80", quote.BaseFare)
	}
	surchargeTotal := quote.Totals.Subtotal - quote.BaseFare
	if round2Diff(surchargeTotal, 22.4) {
		t.Errorf("surcharge total = %v, want 22.4", surchargeTotal)
	}
	if round2Diff(quote.Totals.TaxTotal, 11.23) {
		t.Errorf("TaxTotal = %v, want 11.23", quote.Totals.TaxTotal)
	}
	if round2Diff(quote.Totals.GrandTotal, 113.63) {
		t.Errorf("GrandTotal = %v, want 113.63", quote.Totals.GrandTotal)
	}
	if quote.TaxName != "HST (13%)" || quote.TaxRate != 13 {
		t.Errorf("tax = %q %v, want HST (13%%) 13", quote.TaxName, quote.TaxRate)
	}
}

func TestQuoteTripUnresolvedVehicle(t *testing.T) {
	book := testBook()
	quote := QuoteTrip(book, 42, 1, TripParams{DistanceKm: 100})
	if quote.Priceable {
		t.Error("quote marked priceable with unknown vehicle class")
	}
	if quote.BaseFare != 0 {
		t.Errorf("BaseFare = %v, want 0 for unresolved vehicle", quote.BaseFare)
	}
}

func TestQuoteTripIdempotent(t *testing.T) {
	book := testBook()
	trip := TripParams{DistanceKm: 31.4, LocationID: "pearson"}
	first := QuoteTrip(book, 1, 1, trip)
	second := QuoteTrip(book, 1, 1, trip)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs diverged:\n%+v\n%+v", first, second)
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	// Tie values must be exactly representable (x.xx5 with a power-of-two
	// fraction) or the tie never reaches the rounding rule.
	cases := []struct{ in, want float64 }{
		{0.832, 0.83},
		{0.125, 0.13},
		{-0.125, -0.13},
		{2.375, 2.38},
		{16, 16},
	}
	for _, tc := range cases {
		if got := round2(tc.in); got != tc.want {
			t.Errorf("round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// round2Diff reports whether two already-rounded amounts differ beyond float noise.
func round2Diff(got, want float64) bool {
	return round2(got) != want
}
