// README: Estimate endpoint tests with a fixture rate book.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"blackcar/internal/http/handlers"
	"blackcar/internal/modules/pricing"
)

type fixtureBookSource struct {
	book pricing.RateBook
}

func (f *fixtureBookSource) RateBook(_ context.Context) (pricing.RateBook, error) {
	return f.book, nil
}

func fixtureBook() pricing.RateBook {
	return pricing.RateBook{
		VehicleClasses: []pricing.VehicleClass{
			{ID: 1, Name: "Luxury Sedan", PerKm: 1.7, MinKm: 25, MinRateKm: 80, PerHour: 80, MinRateHourly: 240, Active: true},
		},
		ServiceTypes: []pricing.ServiceType{
			{ID: 1, Name: "Point to Point", Active: true},
		},
		Surcharges: []pricing.SurchargeRule{
			{ID: 1, Label: "Gratuity", Amount: 20, Percentage: true, Active: true},
		},
		TaxRates: []pricing.TaxRate{
			{ID: 1, Region: "HST (13%)", Percent: 13, Active: true},
		},
	}
}

func buildEstimateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := pricing.NewService(&fixtureBookSource{book: fixtureBook()})
	r := gin.New()
	h := handlers.NewPricingHandler(svc)
	r.POST("/api/pricing/estimate", h.Estimate)
	return r
}

func doEstimate(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/pricing/estimate", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestEstimate_MinimumFare(t *testing.T) {
	r := buildEstimateRouter()
	w := doEstimate(t, r, map[string]any{
		"vehicle_class_id": 1,
		"service_type_id":  1,
		"distance_km":      25,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var result pricing.TripQuote
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.BaseFare != 80 {
		t.Errorf("base fare = %v, want 80", result.BaseFare)
	}
	if !result.Priceable {
		t.Error("estimate not priceable")
	}
	if len(result.Display) != 2+2 {
		t.Errorf("display rows = %d, want base+gratuity+tax+total", len(result.Display))
	}
}

func TestEstimate_MissingIDs(t *testing.T) {
	r := buildEstimateRouter()
	w := doEstimate(t, r, map[string]any{"distance_km": 10})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEstimate_NegativeDistance(t *testing.T) {
	r := buildEstimateRouter()
	w := doEstimate(t, r, map[string]any{
		"vehicle_class_id": 1,
		"service_type_id":  1,
		"distance_km":      -5,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEstimate_UnknownVehicleStillReturns(t *testing.T) {
	// The engine degrades instead of failing; the response carries zeros and
	// priceable=false so the UI can show "call us".
	r := buildEstimateRouter()
	w := doEstimate(t, r, map[string]any{
		"vehicle_class_id": 42,
		"service_type_id":  1,
		"distance_km":      30,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var result pricing.TripQuote
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Priceable {
		t.Error("unknown vehicle reported priceable")
	}
	if result.BaseFare != 0 {
		t.Errorf("base fare = %v, want 0", result.BaseFare)
	}
}
