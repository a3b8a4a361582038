// README: Direct fare estimation endpoint (no persistence, no directions call).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blackcar/internal/modules/pricing"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

type estimateReq struct {
	VehicleClassID int     `json:"vehicle_class_id"`
	ServiceTypeID  int     `json:"service_type_id"`
	DistanceKm     float64 `json:"distance_km"`
	DurationHours  float64 `json:"duration_hours"`
	RoundTrip      bool    `json:"round_trip"`
	LocationID     string  `json:"location_id"`
}

// Estimate prices a trip from explicit measurements. Used by the booking UI
// for live fare display while the customer edits the form.
func (h *PricingHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.VehicleClassID == 0 || req.ServiceTypeID == 0 {
		writeError(c, http.StatusBadRequest, "missing vehicle_class_id or service_type_id")
		return
	}
	if req.DistanceKm < 0 || req.DurationHours < 0 {
		writeError(c, http.StatusBadRequest, "negative distance or duration")
		return
	}

	result, err := h.pricing.Quote(c.Request.Context(), pricing.QuoteCommand{
		VehicleClassID: req.VehicleClassID,
		ServiceTypeID:  req.ServiceTypeID,
		Trip: pricing.TripParams{
			DistanceKm:    req.DistanceKm,
			DurationHours: req.DurationHours,
			RoundTrip:     req.RoundTrip,
			LocationID:    req.LocationID,
		},
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, result)
}
