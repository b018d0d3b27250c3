package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/wolfman30/autocare-booking/internal/booking"
	"github.com/wolfman30/autocare-booking/pkg/logging"
)

// BookingNotifier emails confirmed bookings to the customer and, when a
// workshop address is configured, a summary to the workshop.
type BookingNotifier struct {
	email    EmailSender
	workshop string
	location *time.Location
	logger   *logging.Logger
}

// BookingNotifierConfig holds the notification targets.
type BookingNotifierConfig struct {
	WorkshopEmail string
	Location      *time.Location
}

// NewBookingNotifier creates a notifier. A nil sender disables email.
func NewBookingNotifier(email EmailSender, cfg BookingNotifierConfig, logger *logging.Logger) *BookingNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &BookingNotifier{
		email:    email,
		workshop: strings.TrimSpace(cfg.WorkshopEmail),
		location: cfg.Location,
		logger:   logger,
	}
}

// BookingConfirmed sends the notifications for conf. Each failure is logged
// and the combined error returned; the booking itself is unaffected.
func (n *BookingNotifier) BookingConfirmed(ctx context.Context, conf booking.Confirmation) error {
	if n == nil || n.email == nil {
		return nil
	}

	var errs []error
	if conf.Email != "" {
		msg := EmailMessage{
			To:      conf.Email,
			ToName:  conf.Name,
			Subject: fmt.Sprintf("Booking Confirmed: %s on %s", conf.ServiceName, conf.Date),
			Body:    FormatConfirmation(conf),
			HTML:    FormatConfirmationHTML(conf),

			Category:  CategoryConfirmation,
			BookingID: conf.ID,
		}
		if err := n.email.Send(ctx, msg); err != nil {
			n.logger.Error("notify: customer confirmation failed", "error", err, "booking_id", conf.ID)
			errs = append(errs, fmt.Errorf("customer: %w", err))
		} else {
			n.logger.Info("notify: customer confirmation sent", "booking_id", conf.ID)
		}
	}

	if n.workshop != "" {
		msg := EmailMessage{
			To:      n.workshop,
			Subject: fmt.Sprintf("New booking: %s (%s, %s)", valueOrNA(conf.Name), conf.ServiceName, conf.Slot),
			Body:    n.workshopSummary(conf),
			ReplyTo: conf.Email,

			Category:  CategoryWorkshopSummary,
			BookingID: conf.ID,
		}
		if err := n.email.Send(ctx, msg); err != nil {
			n.logger.Error("notify: workshop summary failed", "error", err, "booking_id", conf.ID)
			errs = append(errs, fmt.Errorf("workshop: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: booking %s: %w", conf.ID, errors.Join(errs...))
	}
	return nil
}

// FormatConfirmation renders the plain-text customer confirmation.
func FormatConfirmation(conf booking.Confirmation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", valueOrNA(conf.Name))
	b.WriteString("Your booking is confirmed.\n\n")
	for _, row := range confirmationRows(conf) {
		fmt.Fprintf(&b, "%s: %s\n", row[0], row[1])
	}
	b.WriteString("\nWe will contact you shortly to confirm your appointment details.\n")
	return b.String()
}

// FormatConfirmationHTML renders the customer confirmation for HTML clients.
func FormatConfirmationHTML(conf booking.Confirmation) string {
	var rows strings.Builder
	for _, row := range confirmationRows(conf) {
		fmt.Fprintf(&rows, `<tr><td style="padding:6px 12px;font-weight:bold;">%s</td><td style="padding:6px 12px;">%s</td></tr>`+"\n",
			html.EscapeString(row[0]), html.EscapeString(row[1]))
	}
	return fmt.Sprintf(`<div style="font-family:sans-serif;max-width:600px;">
<h2 style="color:#333;">Booking Confirmed!</h2>
<table style="border-collapse:collapse;width:100%%;">
%s</table>
<p style="color:#666;font-size:12px;">We will contact you shortly to confirm your appointment details.</p>
</div>`, rows.String())
}

func (n *BookingNotifier) workshopSummary(conf booking.Confirmation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Booking: %s\n", conf.ID)
	for _, row := range confirmationRows(conf) {
		fmt.Fprintf(&b, "%s: %s\n", row[0], row[1])
	}
	fmt.Fprintf(&b, "Phone: %s\n", valueOrNA(conf.Phone))
	if conf.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", conf.Email)
	}
	if conf.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", conf.Notes)
	}
	fmt.Fprintf(&b, "Booked: %s\n", conf.BookedAt.In(n.location).Format(time.RFC1123))
	return b.String()
}

func confirmationRows(conf booking.Confirmation) [][2]string {
	rows := [][2]string{
		{"Service", valueOrNA(conf.ServiceName)},
		{"Date", valueOrNA(conf.Date)},
		{"Time", valueOrNA(conf.Slot)},
	}
	switch {
	case conf.Vehicle != nil:
		rows = append(rows, [2]string{"Vehicle", conf.Vehicle.String()})
	case conf.CarModel != "":
		rows = append(rows, [2]string{"Vehicle", conf.CarModel})
	}
	return rows
}

func valueOrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
