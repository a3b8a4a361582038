// README: Interactive demo for the AI intent parser.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"blackcar/internal/ai"
)

func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	provider, err := ai.NewGeminiProvider(ctx, apiKey)
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	fmt.Println("Type a trip request (Ctrl-D to exit):")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		message := scanner.Text()
		if message == "" {
			continue
		}
		intent, err := provider.ParseTripIntent(ctx, message, map[string]string{
			"current_time": time.Now().Format(time.RFC3339),
		})
		if err != nil {
			log.Printf("parse failed: %v", err)
			continue
		}
		fmt.Printf("intent=%s round_trip=%v duration=%.1fh\n", intent.Intent, intent.RoundTrip, intent.DurationHours)
		if intent.Origin != nil {
			fmt.Printf("origin=%s\n", *intent.Origin)
		}
		if intent.Destination != nil {
			fmt.Printf("destination=%s\n", *intent.Destination)
		}
		fmt.Printf("reply: %s\n\n", intent.Reply)
	}
}
