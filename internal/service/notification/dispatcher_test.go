package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/config"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/pkg/brevo"
)

func testDispatcher(sender brevo.Sender) *Dispatcher {
	cfg := &config.BrevoConfig{
		SenderName:         "Realiza",
		SenderEmail:        "no-reply@realiza.test",
		ConfirmTemplateID:  1,
		ReminderTemplateID: 2,
		CancelTemplateID:   3,
		ProblemTemplateID:  4,
		ProblemRecipient:   "staff@realiza.test",
		WhatsAppEnabled:    true,
		WhatsAppSender:     "5541999990000",
		WhatsAppTemplateIDs: map[string]int64{
			TemplateConfirmation: 10,
			TemplateReminder:     11,
		},
	}
	return NewDispatcher(sender, cfg, "https://reservas.realiza.test")
}

func testReservation() *models.Reservation {
	date, _ := time.Parse("2006-01-02", "2026-09-18")
	return &models.Reservation{
		Code:            "RES20260918001",
		CustomerName:    "Ana Souza",
		CustomerPhone:   "5541999990001",
		CustomerEmail:   "ana@example.com",
		GuestsCount:     2,
		ReservationDate: date,
		ReservationTime: "19:00",
		EndTime:         "20:30",
		Status:          models.ReservationStatusConfirmed,
		Table:           &models.DiningTable{Name: "T1"},
	}
}

func TestSendConfirmation(t *testing.T) {
	sender := brevo.NewMockSender()
	d := testDispatcher(sender)

	d.SendConfirmation(context.Background(), testReservation())

	emails := sender.SentEmails()
	require.Len(t, emails, 1)
	assert.EqualValues(t, 1, emails[0].TemplateID)
	assert.Equal(t, "ana@example.com", emails[0].To[0].Email)
	assert.Equal(t, "RES20260918001", emails[0].Params["code"])
	assert.Equal(t, "2026-09-18", emails[0].Params["date"])
	assert.Equal(t, "T1", emails[0].Params["table"])
	assert.Contains(t, emails[0].Params["manage_url"], "/my-reservations/RES20260918001")

	// QR goes out both inline and as attachment
	require.Len(t, emails[0].Attachments, 1)
	assert.NotEmpty(t, emails[0].Attachments[0].Content)
	assert.Contains(t, emails[0].Params["qr_code"], "data:image/png;base64,")

	whats := sender.SentWhatsApps()
	require.Len(t, whats, 1)
	assert.EqualValues(t, 10, whats[0].TemplateID)
	assert.Equal(t, []string{"5541999990001"}, whats[0].ContactNumbers)
}

func TestSendReminderAndCancellation(t *testing.T) {
	sender := brevo.NewMockSender()
	d := testDispatcher(sender)
	res := testReservation()

	d.SendReminder(context.Background(), res)

	reason := "kitchen closed"
	res.CancelReason = &reason
	d.SendCancellation(context.Background(), res)

	emails := sender.SentEmails()
	require.Len(t, emails, 2)
	assert.EqualValues(t, 2, emails[0].TemplateID)
	assert.EqualValues(t, 3, emails[1].TemplateID)
	assert.Equal(t, "kitchen closed", emails[1].Params["reason"])

	// cancellation has no WhatsApp template configured
	whats := sender.SentWhatsApps()
	require.Len(t, whats, 1)
	assert.EqualValues(t, 11, whats[0].TemplateID)
}

func TestSendFailureDoesNotPanic(t *testing.T) {
	sender := brevo.NewMockSender()
	sender.EmailErr = errors.New("brevo down")
	d := testDispatcher(sender)

	assert.NotPanics(t, func() {
		d.SendConfirmation(context.Background(), testReservation())
	})
	assert.Empty(t, sender.SentEmails())
}

func TestSendProblemReport(t *testing.T) {
	sender := brevo.NewMockSender()
	d := testDispatcher(sender)

	d.SendProblemReport(context.Background(), "Overbooked table", "two confirmed reservations overlap on T1")

	emails := sender.SentEmails()
	require.Len(t, emails, 1)
	assert.Equal(t, "staff@realiza.test", emails[0].To[0].Email)
	assert.EqualValues(t, 4, emails[0].TemplateID)
	assert.Equal(t, "Overbooked table", emails[0].Params["subject"])
}
