// README: Quote summary rendering and delivery fan-out (email/SMS senders).
package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"blackcar/internal/modules/quote"
)

// EmailSender delivers a rendered summary by email. The production
// implementation (SendGrid relay) lives outside this service; LogSender is
// the default.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers a short confirmation by SMS (Twilio relay in production).
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// LogSender writes outbound messages to the process log. Used in development
// and as the fallback when no relay is configured.
type LogSender struct{}

func (LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	log.Printf("email to=%s subject=%q\n%s", to, subject, body)
	return nil
}

func (LogSender) SendSMS(_ context.Context, to, body string) error {
	log.Printf("sms to=%s body=%q", to, body)
	return nil
}

type Service struct {
	email EmailSender
	sms   SMSSender
}

func NewService(email EmailSender, sms SMSSender) *Service {
	return &Service{email: email, sms: sms}
}

// QuoteCreated renders and delivers the quote summary. Implements
// quote.Notifier.
func (s *Service) QuoteCreated(ctx context.Context, q *quote.Quote) error {
	if s.email != nil && q.ContactEmail != "" {
		subject := fmt.Sprintf("Your quote %s", q.RetrievalCode)
		if err := s.email.SendEmail(ctx, q.ContactEmail, subject, RenderSummary(q)); err != nil {
			return fmt.Errorf("send email: %w", err)
		}
	}
	if s.sms != nil && q.ContactPhone != "" {
		body := fmt.Sprintf("Your Blackcar quote %s totals $%.2f. Full breakdown sent by email.",
			q.RetrievalCode, q.Totals.GrandTotal)
		if err := s.sms.SendSMS(ctx, q.ContactPhone, body); err != nil {
			return fmt.Errorf("send sms: %w", err)
		}
	}
	return nil
}

// RenderSummary produces the plain-text receipt body. Row order follows the
// stored display sequence exactly; reconciliation against historical receipts
// depends on it.
func RenderSummary(q *quote.Quote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Quote %s\n", q.RetrievalCode)
	for _, leg := range q.Legs {
		fmt.Fprintf(&b, "%s -> %s (%.1f km)\n", leg.Origin, leg.Destination, leg.DistanceKm)
		fmt.Fprintf(&b, "Pickup: %s\n", leg.PickupAt.Format("Mon, 2 Jan 2006 3:04 PM"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-24s %10s %10s\n", "", "Tax", "Amount")
	for _, item := range q.Display {
		fmt.Fprintf(&b, "%-24s %10.2f %10.2f\n", item.Label, item.Tax, item.Total)
	}
	return b.String()
}
