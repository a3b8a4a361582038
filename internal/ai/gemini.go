package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Flash keeps latency and cost low; intent parsing does not need a
	// larger model.
	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.4)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// ParseTripIntent analyzes a customer message to extract a quote request.
func (p *GeminiProvider) ParseTripIntent(ctx context.Context, userMessage string, currentContext map[string]string) (*TripIntent, error) {
	systemPrompt := buildSystemPrompt(currentContext)
	fullPrompt := fmt.Sprintf("%s\n\nCustomer Message: %s", systemPrompt, userMessage)

	resp, err := p.model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// JSON mode should prevent markdown fences, but strip them anyway.
	cleanJSON := cleanJSONString(responseText.String())

	var result TripIntent
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}

	return &result, nil
}

// buildSystemPrompt constructs the instructions for the AI.
func buildSystemPrompt(ctxMap map[string]string) string {
	currentTime := ctxMap["current_time"]
	serviceArea := ctxMap["service_area"]

	if currentTime == "" {
		currentTime = "UNKNOWN_TIME"
	}
	if serviceArea == "" {
		serviceArea = "Greater Toronto Area"
	}

	return fmt.Sprintf(`Role: You are the booking concierge for "Blackcar", a chauffeured limousine service.
Context:
- Current System Time: %s
- Service Area: %s

DECISION GATE:
You MUST NOT set "intent": "quote" unless BOTH conditions are met:
1. [ ] Origin is CLEAR (explicitly stated by the customer).
2. [ ] Destination is CLEAR (or, for hourly charters, a duration in hours is stated).

When a condition is missing, set "intent": "chat" and use "reply" to ask for
exactly the missing detail, one question at a time.

Rules:
- "round_trip" is true only when the customer asks for a return ride.
- "duration_hours" is set only for by-the-hour bookings.
- "iso_time" is the absolute pickup time computed from relative wording
  ("tomorrow at 9") and the current system time. Omit when unknown.
- "vehicle_hint" echoes the customer's wording for the car, verbatim.
- "reply" is 1-2 sentences, professional and warm, no emoji.

Respond with a single JSON object matching:
{"intent": "...", "origin": "...", "destination": "...", "round_trip": false,
 "vehicle_hint": "...", "duration_hours": 0, "iso_time": "...", "reply": "..."}`,
		currentTime, serviceArea)
}

// cleanJSONString strips markdown code fences the model occasionally emits.
func cleanJSONString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
