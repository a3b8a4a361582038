package ai

import (
	"context"
)

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// ParseTripIntent analyzes the customer's natural language message and
	// extracts a structured quote request. contextMap carries dynamic
	// information like "current_time" and "service_area".
	ParseTripIntent(ctx context.Context, userMessage string, currentContext map[string]string) (*TripIntent, error)
}
