package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "bookings@example.com"}, nil)
	assert.Nil(t, sender)
}

func TestNewSendGridSender_FromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "bookings@example.com"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, DefaultFromName, sender.fromName)

	sender = NewSendGridSender(SendGridConfig{APIKey: "test-key", FromName: "Workshop"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "Workshop", sender.fromName)
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{}
	err := sender.Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "Test"})
	assert.Error(t, err)
}

func TestNewSESSender_NilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{FromEmail: "bookings@example.com"}, nil))
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)
	err := sender.Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "Test", Body: "body"})
	assert.NoError(t, err)
}

func TestSendGridSender_BuildMessage(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "bookings@example.com"}, nil)
	require.NotNil(t, sender)

	m := sender.buildMessage(EmailMessage{
		To:        "shop@example.com",
		Subject:   "New booking",
		Body:      "plain",
		ReplyTo:   "asha@example.com",
		Category:  CategoryWorkshopSummary,
		BookingID: "booking-1",
	})
	assert.Equal(t, DefaultFromName, m.From.Name)
	require.NotNil(t, m.ReplyTo)
	assert.Equal(t, "asha@example.com", m.ReplyTo.Address)
	assert.Equal(t, []string{CategoryWorkshopSummary}, m.Categories)
	assert.Equal(t, "booking-1", m.CustomArgs["booking_id"])
	require.Len(t, m.Content, 2)
	assert.Equal(t, "plain", m.Content[1].Value, "text doubles as html")
}

func TestBuildSESInput(t *testing.T) {
	input := buildSESInput(`"Modern Auto Parts" <bookings@example.com>`, EmailMessage{
		To:        "asha@example.com",
		Subject:   "Booking Confirmed",
		Body:      "plain",
		HTML:      "<p>html</p>",
		Category:  CategoryConfirmation,
		BookingID: "booking-1",
	})

	assert.Equal(t, []string{"asha@example.com"}, input.Destination.ToAddresses)
	assert.Empty(t, input.ReplyToAddresses)
	body := input.Content.Simple.Body
	assert.Equal(t, "plain", aws.ToString(body.Text.Data))
	assert.Equal(t, "<p>html</p>", aws.ToString(body.Html.Data))
	require.Len(t, input.EmailTags, 2)
	assert.Equal(t, "category", aws.ToString(input.EmailTags[0].Name))
	assert.Equal(t, CategoryConfirmation, aws.ToString(input.EmailTags[0].Value))
	assert.Equal(t, "booking-1", aws.ToString(input.EmailTags[1].Value))

	plain := buildSESInput("bookings@example.com", EmailMessage{To: "a@example.com", Subject: "s", Body: "b", ReplyTo: "r@example.com"})
	assert.Nil(t, plain.Content.Simple.Body.Html)
	assert.Equal(t, []string{"r@example.com"}, plain.ReplyToAddresses)
	assert.Empty(t, plain.EmailTags)
}
