package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/autocare-booking/internal/booking"
	"github.com/wolfman30/autocare-booking/internal/vehicle"
)

type mockEmailSender struct {
	sent []EmailMessage
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, msg EmailMessage) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func testConfirmation() booking.Confirmation {
	return booking.Confirmation{
		ID:          "booking-1",
		ServiceType: "ac",
		ServiceName: "AC Service",
		Date:        "2026-03-12",
		Slot:        "10:00 AM",
		Name:        "Asha <Admin>",
		Phone:       "9876543210",
		Email:       "asha@example.com",
		Vehicle:     &vehicle.CarModel{Brand: "Maruti", Model: "Swift", FuelType: "Petrol + CNG"},
		BookedAt:    time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC),
	}
}

func TestBookingConfirmed_CustomerAndWorkshop(t *testing.T) {
	sender := &mockEmailSender{}
	n := NewBookingNotifier(sender, BookingNotifierConfig{WorkshopEmail: " shop@example.com "}, nil)

	require.NoError(t, n.BookingConfirmed(context.Background(), testConfirmation()))
	require.Len(t, sender.sent, 2)

	customer := sender.sent[0]
	assert.Equal(t, "asha@example.com", customer.To)
	assert.Equal(t, "Booking Confirmed: AC Service on 2026-03-12", customer.Subject)
	assert.Contains(t, customer.Body, "Vehicle: Maruti Swift (Petrol + CNG)")
	assert.Contains(t, customer.HTML, "Booking Confirmed!")
	assert.Equal(t, CategoryConfirmation, customer.Category)
	assert.Equal(t, "booking-1", customer.BookingID)

	shop := sender.sent[1]
	assert.Equal(t, "shop@example.com", shop.To)
	assert.Equal(t, "asha@example.com", shop.ReplyTo)
	assert.Contains(t, shop.Body, "Phone: 9876543210")
	assert.Contains(t, shop.Body, "Booking: booking-1")
	assert.Equal(t, CategoryWorkshopSummary, shop.Category)
	assert.Equal(t, "booking-1", shop.BookingID)
}

func TestBookingConfirmed_NoCustomerEmail(t *testing.T) {
	sender := &mockEmailSender{}
	n := NewBookingNotifier(sender, BookingNotifierConfig{}, nil)

	conf := testConfirmation()
	conf.Email = ""
	require.NoError(t, n.BookingConfirmed(context.Background(), conf))
	assert.Empty(t, sender.sent)
}

func TestBookingConfirmed_ReportsSendErrors(t *testing.T) {
	sender := &mockEmailSender{err: errors.New("smtp down")}
	n := NewBookingNotifier(sender, BookingNotifierConfig{WorkshopEmail: "shop@example.com"}, nil)

	err := n.BookingConfirmed(context.Background(), testConfirmation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer: smtp down")
	assert.Contains(t, err.Error(), "workshop: smtp down")
	assert.Len(t, sender.sent, 2)
}

func TestBookingConfirmed_NilSender(t *testing.T) {
	n := NewBookingNotifier(nil, BookingNotifierConfig{WorkshopEmail: "shop@example.com"}, nil)
	assert.NoError(t, n.BookingConfirmed(context.Background(), testConfirmation()))

	var nilNotifier *BookingNotifier
	assert.NoError(t, nilNotifier.BookingConfirmed(context.Background(), testConfirmation()))
}

func TestFormatConfirmation_FallsBackToTypedCarModel(t *testing.T) {
	conf := testConfirmation()
	conf.Vehicle = nil
	conf.CarModel = "Old Fiat"
	conf.Name = ""

	body := FormatConfirmation(conf)
	assert.True(t, strings.HasPrefix(body, "Hi N/A,"))
	assert.Contains(t, body, "Vehicle: Old Fiat")
	assert.Contains(t, body, "Time: 10:00 AM")
}

func TestFormatConfirmationHTML_Escapes(t *testing.T) {
	conf := testConfirmation()
	conf.ServiceName = "Dent & <Paint>"
	out := FormatConfirmationHTML(conf)
	assert.Contains(t, out, "Dent &amp; &lt;Paint&gt;")
}
