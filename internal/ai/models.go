package ai

// TripIntent captures the structured output from the AI model.
type TripIntent struct {
	// Intent describes the customer's primary goal: "quote" when enough trip
	// detail is present to price, otherwise "chat".
	Intent string `json:"intent"`

	// Origin and Destination are free-text locations. Nullable because chat
	// turns may not contain them yet.
	Origin      *string `json:"origin,omitempty"`
	Destination *string `json:"destination,omitempty"`

	// RoundTrip is set when the customer asked for a return ride.
	RoundTrip bool `json:"round_trip"`

	// VehicleHint is the customer's wording for the car ("SUV", "stretch").
	VehicleHint string `json:"vehicle_hint,omitempty"`

	// DurationHours is the requested booking length for hourly charters
	// ("keep the car for the evening"); zero for transfers.
	DurationHours float64 `json:"duration_hours,omitempty"`

	// ISOTime is the absolute pickup timestamp (YYYY-MM-DDTHH:mm:ss)
	// calculated from the customer's relative wording and the current time.
	ISOTime *string `json:"iso_time,omitempty"`

	// Reply is a short, polite response to the customer, written as the
	// booking concierge.
	Reply string `json:"reply"`
}
