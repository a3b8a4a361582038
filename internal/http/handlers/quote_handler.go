// README: Quote handlers for create/get/finalize and retrieval-code lookup.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blackcar/internal/modules/pricing"
	"blackcar/internal/modules/quote"
	"blackcar/internal/types"
)

type QuoteHandler struct {
	quotes *quote.Service
}

func NewQuoteHandler(svc *quote.Service) *QuoteHandler {
	return &QuoteHandler{quotes: svc}
}

type createQuoteReq struct {
	ContactName    string  `json:"contact_name"`
	ContactEmail   string  `json:"contact_email"`
	ContactPhone   string  `json:"contact_phone"`
	VehicleClassID int     `json:"vehicle_class_id"`
	ServiceTypeID  int     `json:"service_type_id"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	PickupAt       string  `json:"pickup_at"`
	DurationHours  float64 `json:"duration_hours"`
	RoundTrip      bool    `json:"round_trip"`
	ReturnPickupAt string  `json:"return_pickup_at"`
	LocationID     string  `json:"location_id"`
}

type quoteResponse struct {
	QuoteID       types.ID           `json:"quote_id"`
	RetrievalCode string             `json:"retrieval_code"`
	Status        quote.Status       `json:"status"`
	Priceable     bool               `json:"priceable"`
	Items         []pricing.LineItem `json:"items"`
	Display       []pricing.LineItem `json:"display"`
	Totals        pricing.Totals     `json:"totals"`
	TaxName       string             `json:"tax_name"`
}

func toQuoteResponse(q *quote.Quote) quoteResponse {
	return quoteResponse{
		QuoteID:       q.ID,
		RetrievalCode: q.RetrievalCode,
		Status:        q.Status,
		Priceable:     q.Priceable,
		Items:         q.Items,
		Display:       q.Display,
		Totals:        q.Totals,
		TaxName:       q.TaxName,
	}
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req createQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ContactEmail == "" || req.Origin == "" || req.Destination == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}

	cmd := quote.CreateCommand{
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		VehicleClassID: req.VehicleClassID,
		ServiceTypeID:  req.ServiceTypeID,
		Origin:         req.Origin,
		Destination:    req.Destination,
		DurationHours:  req.DurationHours,
		RoundTrip:      req.RoundTrip,
		LocationID:     req.LocationID,
	}
	if req.PickupAt != "" {
		at, err := time.Parse(time.RFC3339, req.PickupAt)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid pickup_at")
			return
		}
		cmd.PickupAt = at
	}
	if req.ReturnPickupAt != "" {
		at, err := time.Parse(time.RFC3339, req.ReturnPickupAt)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid return_pickup_at")
			return
		}
		cmd.ReturnPickupAt = &at
	}

	q, err := h.quotes.Create(c.Request.Context(), cmd)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQuoteResponse(q))
}

func (h *QuoteHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid quote id")
		return
	}
	q, err := h.quotes.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *QuoteHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		writeError(c, http.StatusBadRequest, "missing retrieval code")
		return
	}
	q, err := h.quotes.GetByCode(c.Request.Context(), code)
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}

func (h *QuoteHandler) Finalize(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid quote id")
		return
	}
	q, err := h.quotes.Finalize(c.Request.Context(), types.ID(id))
	if err != nil {
		writeQuoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(q))
}
