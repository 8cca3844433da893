// Package notification dispatches customer and staff messages through
// Brevo. Delivery failures are logged and counted but never surface to
// the reservation flow.
package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/config"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/logger"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/metrics"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/qrcode"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/utils"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/models"
	"github.com/alexlitwinski/realiza-reservas-sub000/pkg/brevo"
)

// Template names used as the metric label.
const (
	TemplateConfirmation = "confirmation"
	TemplateReminder     = "reminder"
	TemplateCancellation = "cancellation"
	TemplateProblem      = "problem"
)

// Dispatcher sends reservation notifications.
type Dispatcher struct {
	sender      brevo.Sender
	brevoCfg    *config.BrevoConfig
	portalBase  string
	qrGenerator *qrcode.Generator
	log         *zap.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(sender brevo.Sender, brevoCfg *config.BrevoConfig, portalBase string) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		brevoCfg:    brevoCfg,
		portalBase:  portalBase,
		qrGenerator: qrcode.NewGenerator(qrcode.WithSize(256)),
		log:         logger.GetLogger(),
	}
}

// ManageURL returns the customer portal link for a reservation.
func (d *Dispatcher) ManageURL(code string) string {
	return fmt.Sprintf("%s/my-reservations/%s", d.portalBase, code)
}

func (d *Dispatcher) params(r *models.Reservation) map[string]interface{} {
	params := map[string]interface{}{
		"code":       r.Code,
		"name":       r.CustomerName,
		"date":       utils.FormatDate(r.ReservationDate),
		"time":       r.ReservationTime,
		"guests":     r.GuestsCount,
		"manage_url": d.ManageURL(r.Code),
	}
	if r.Table != nil {
		params["table"] = r.Table.Name
	}
	return params
}

func (d *Dispatcher) sendEmail(ctx context.Context, template string, templateID int64, to brevo.Contact, params map[string]interface{}, attachments []brevo.Attachment) {
	if templateID == 0 {
		d.log.Warn("Notification template not configured",
			logger.String("template", template))
		metrics.GetMetrics().RecordNotification("email", template, "skipped")
		return
	}

	_, err := d.sender.SendEmail(ctx, &brevo.EmailRequest{
		Sender:      brevo.Contact{Name: d.brevoCfg.SenderName, Email: d.brevoCfg.SenderEmail},
		To:          []brevo.Contact{to},
		TemplateID:  templateID,
		Params:      params,
		Attachments: attachments,
	})
	if err != nil {
		d.log.Error("Email delivery failed",
			logger.String("template", template),
			logger.String("recipient", to.Email),
			logger.Err(err))
		metrics.GetMetrics().RecordNotification("email", template, "failed")
		return
	}
	metrics.GetMetrics().RecordNotification("email", template, "sent")
}

func (d *Dispatcher) sendWhatsApp(ctx context.Context, template string, phone string, params map[string]interface{}) {
	if !d.brevoCfg.WhatsAppEnabled {
		return
	}
	templateID := d.brevoCfg.WhatsAppTemplateIDs[template]
	if templateID == 0 {
		return
	}

	_, err := d.sender.SendWhatsApp(ctx, &brevo.WhatsAppRequest{
		TemplateID:     templateID,
		SenderNumber:   d.brevoCfg.WhatsAppSender,
		ContactNumbers: []string{phone},
		Params:         params,
	})
	if err != nil {
		d.log.Error("WhatsApp delivery failed",
			logger.String("template", template),
			logger.Err(err))
		metrics.GetMetrics().RecordNotification("whatsapp", template, "failed")
		return
	}
	metrics.GetMetrics().RecordNotification("whatsapp", template, "sent")
}

// SendConfirmation sends the confirmation email with a QR code for the
// portal link, plus the WhatsApp message when enabled.
func (d *Dispatcher) SendConfirmation(ctx context.Context, r *models.Reservation) {
	params := d.params(r)

	var attachments []brevo.Attachment
	qr, err := d.qrGenerator.GenerateBase64(d.ManageURL(r.Code))
	if err != nil {
		d.log.Error("QR code generation failed",
			logger.ReservationCode(r.Code),
			logger.Err(err))
	} else {
		params["qr_code"] = "data:image/png;base64," + qr
		attachments = append(attachments, brevo.Attachment{
			Name:    fmt.Sprintf("reservation-%s.png", r.Code),
			Content: qr,
		})
	}

	to := brevo.Contact{Name: r.CustomerName, Email: r.CustomerEmail}
	d.sendEmail(ctx, TemplateConfirmation, d.brevoCfg.ConfirmTemplateID, to, params, attachments)
	d.sendWhatsApp(ctx, TemplateConfirmation, r.CustomerPhone, params)
}

// SendReminder sends the upcoming-reservation reminder.
func (d *Dispatcher) SendReminder(ctx context.Context, r *models.Reservation) {
	params := d.params(r)
	to := brevo.Contact{Name: r.CustomerName, Email: r.CustomerEmail}
	d.sendEmail(ctx, TemplateReminder, d.brevoCfg.ReminderTemplateID, to, params, nil)
	d.sendWhatsApp(ctx, TemplateReminder, r.CustomerPhone, params)
}

// SendCancellation notifies the customer of a cancelled reservation.
func (d *Dispatcher) SendCancellation(ctx context.Context, r *models.Reservation) {
	params := d.params(r)
	if r.CancelReason != nil {
		params["reason"] = *r.CancelReason
	}
	to := brevo.Contact{Name: r.CustomerName, Email: r.CustomerEmail}
	d.sendEmail(ctx, TemplateCancellation, d.brevoCfg.CancelTemplateID, to, params, nil)
	d.sendWhatsApp(ctx, TemplateCancellation, r.CustomerPhone, params)
}

// SendProblemReport alerts staff about an operational issue.
func (d *Dispatcher) SendProblemReport(ctx context.Context, subject, detail string) {
	if d.brevoCfg.ProblemRecipient == "" {
		return
	}
	params := map[string]interface{}{
		"subject": subject,
		"detail":  detail,
	}
	to := brevo.Contact{Email: d.brevoCfg.ProblemRecipient}
	d.sendEmail(ctx, TemplateProblem, d.brevoCfg.ProblemTemplateID, to, params, nil)
}
