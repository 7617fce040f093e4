package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Domenick1991/carrental/internal/kafka"
)

// Sender turns booking events into customer and dealer notifications. Delivery is a log
// line until an SMTP relay is configured for the worker.
type Sender struct {
	log *slog.Logger
}

func NewSender(log *slog.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject, ok := Subject(event)
	if !ok {
		s.log.DebugContext(ctx, "no notification for event", "type", event.Type)
		return nil
	}
	recipient, id := "user_id", event.UserID
	if event.Type == kafka.EventBookingPendingOverdue {
		recipient, id = "dealer_id", event.DealerID
	}
	s.log.InfoContext(ctx, "send email",
		recipient, id,
		"subject", subject,
		"booking", event.Reference,
	)
	return nil
}

func Subject(event kafka.BookingEvent) (string, bool) {
	dates := fmt.Sprintf("%s to %s", event.StartDate, event.EndDate)
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking received for %s, awaiting dealer confirmation", dates), true
	case kafka.EventBookingConfirmed:
		return fmt.Sprintf("Your booking for %s is confirmed", dates), true
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Your booking for %s was cancelled", dates), true
	case kafka.EventBookingPendingOverdue:
		return fmt.Sprintf("Booking %s for %s is still waiting for your decision", event.Reference, dates), true
	}
	return "", false
}
