package email

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Domenick1991/carrental/internal/kafka"
	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	event := kafka.BookingEvent{Type: kafka.EventBookingConfirmed, StartDate: "2024-03-16", EndDate: "2024-03-18"}

	subject, ok := Subject(event)
	assert.True(t, ok)
	assert.Equal(t, "Your booking for 2024-03-16 to 2024-03-18 is confirmed", subject)

	_, ok = Subject(kafka.BookingEvent{Type: "car_updated"})
	assert.False(t, ok)
}

func TestSender_Send(t *testing.T) {
	s := NewSender(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, s.Send(context.Background(), kafka.BookingEvent{Type: kafka.EventBookingCreated}))
	assert.NoError(t, s.Send(context.Background(), kafka.BookingEvent{Type: "unknown"}))
}

func TestSender_Send_OverdueGoesToDealer(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(slog.New(slog.NewJSONHandler(&buf, nil)))

	event := kafka.BookingEvent{
		Type:      kafka.EventBookingPendingOverdue,
		Reference: "ref-9",
		UserID:    11,
		DealerID:  3,
		StartDate: "2024-03-08",
		EndDate:   "2024-03-12",
	}
	subject, ok := Subject(event)
	assert.True(t, ok)
	assert.Equal(t, "Booking ref-9 for 2024-03-08 to 2024-03-12 is still waiting for your decision", subject)

	assert.NoError(t, s.Send(context.Background(), event))
	assert.Contains(t, buf.String(), `"dealer_id":3`)
	assert.NotContains(t, buf.String(), `"user_id"`)
}
