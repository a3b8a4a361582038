// README: Summary rendering and delivery tests.
package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"blackcar/internal/modules/pricing"
	"blackcar/internal/modules/quote"
)

type capturingSender struct {
	emailTo, emailBody string
	smsTo, smsBody     string
}

func (c *capturingSender) SendEmail(_ context.Context, to, _, body string) error {
	c.emailTo, c.emailBody = to, body
	return nil
}

func (c *capturingSender) SendSMS(_ context.Context, to, body string) error {
	c.smsTo, c.smsBody = to, body
	return nil
}

func testQuote() *quote.Quote {
	return &quote.Quote{
		ID:            "q1",
		ContactEmail:  "rider@example.com",
		ContactPhone:  "+14165550100",
		RetrievalCode: "A1B2C3D4",
		Legs: []quote.Leg{{
			Origin:      "Union Station",
			Destination: "Pearson Airport",
			DistanceKm:  27.4,
			PickupAt:    time.Date(2026, 9, 4, 14, 30, 0, 0, time.UTC),
		}},
		Display: []pricing.LineItem{
			{Label: "Base Rate", Tax: 10.4, Total: 80},
			{Label: "Gratuity", Tax: 0, Total: 16},
			{Label: "HST (13%)", Tax: 10.4, Total: 10.4},
			{Label: "Total", Tax: 10.4, Total: 106.4},
		},
		Totals: pricing.Totals{Subtotal: 96, TaxTotal: 10.4, GrandTotal: 106.4},
	}
}

func TestRenderSummaryRowOrder(t *testing.T) {
	body := RenderSummary(testQuote())

	// rows must appear in stored display order
	order := []string{"Base Rate", "Gratuity", "HST (13%)", "Total"}
	last := -1
	for _, label := range order {
		i := strings.Index(body, label)
		if i < 0 {
			t.Fatalf("label %q missing from summary:\n%s", label, body)
		}
		if i < last {
			t.Errorf("label %q out of order in summary:\n%s", label, body)
		}
		last = i
	}
	if !strings.Contains(body, "A1B2C3D4") {
		t.Error("retrieval code missing from summary")
	}
	if !strings.Contains(body, "106.40") {
		t.Error("grand total missing from summary")
	}
}

func TestQuoteCreatedDelivers(t *testing.T) {
	sender := &capturingSender{}
	svc := NewService(sender, sender)

	if err := svc.QuoteCreated(context.Background(), testQuote()); err != nil {
		t.Fatalf("QuoteCreated: %v", err)
	}
	if sender.emailTo != "rider@example.com" {
		t.Errorf("email to = %q", sender.emailTo)
	}
	if sender.smsTo != "+14165550100" {
		t.Errorf("sms to = %q", sender.smsTo)
	}
	if !strings.Contains(sender.smsBody, "106.40") {
		t.Errorf("sms body missing total: %q", sender.smsBody)
	}
}
