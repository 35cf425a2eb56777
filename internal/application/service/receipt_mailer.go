package service

import (
	"context"
	"net/http"
	"net/mail"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
	"github.com/sangkips/schoolfees-api/pkg/email"
	"github.com/sangkips/schoolfees-api/pkg/logger"
	"go.uber.org/zap"
)

var errMailDisabled = apperror.NewAppError(http.StatusServiceUnavailable, "Email is not configured")

// ReceiptMailer emails money receipts to guardians.
type ReceiptMailer struct {
	receipts *PrinterService
	sender   email.Sender
	log      *zap.Logger
}

// NewReceiptMailer creates a receipt mailer. A nil sender disables mailing.
func NewReceiptMailer(receipts *PrinterService, sender email.Sender, log *zap.Logger) *ReceiptMailer {
	return &ReceiptMailer{receipts: receipts, sender: sender, log: logger.OrNop(log)}
}

// EmailReceipt builds the receipt of the collection identified by key and
// sends it to the given address.
func (m *ReceiptMailer) EmailReceipt(ctx context.Context, key, to string) (*entity.Receipt, error) {
	if m.sender == nil {
		return nil, errMailDisabled
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "to", Message: "Must be a valid email address"}})
	}

	r, err := m.receipts.BuildReceipt(ctx, key)
	if err != nil {
		return nil, err
	}

	html, err := email.Render("receipt", receiptEmailTemplate, r)
	if err != nil {
		return nil, err
	}

	msg := email.Message{
		To:      to,
		Subject: "Money receipt " + r.ReceiptNo + " - " + r.Header.SchoolName,
		HTML:    html,
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		m.log.Warn("receipt email not sent", zap.Int64("sl", r.CollectionSL), zap.Error(err))
		return nil, apperror.NewAppError(http.StatusBadGateway, "Failed to send receipt email")
	}

	m.log.Info("receipt emailed", zap.Int64("sl", r.CollectionSL), zap.String("receipt_no", r.ReceiptNo))
	return r, nil
}

const receiptEmailTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Money Receipt {{.ReceiptNo}}</title>
</head>
<body style="margin: 0; padding: 24px; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 8px; border-collapse: collapse;">
        <tr>
            <td style="padding: 24px; text-align: center; border-bottom: 1px solid #e2e8f0;">
                <h1 style="margin: 0; font-size: 22px; color: #1a1a2e;">{{.Header.SchoolName}}</h1>
                {{if .Header.Address}}<p style="margin: 4px 0 0 0; color: #718096;">{{.Header.Address}}</p>{{end}}
                {{if .Header.Phone}}<p style="margin: 4px 0 0 0; color: #718096;">{{.Header.Phone}}</p>{{end}}
            </td>
        </tr>
        <tr>
            <td style="padding: 24px; color: #4a5568; font-size: 15px;">
                <p style="margin: 0 0 4px 0;"><strong>Receipt:</strong> {{.ReceiptNo}}</p>
                <p style="margin: 0 0 4px 0;"><strong>Date:</strong> {{.Date}}</p>
                <p style="margin: 0 0 4px 0;"><strong>Student:</strong> {{.StudentID}}{{if .StudentName}} ({{.StudentName}}){{end}}</p>
                <p style="margin: 0 0 16px 0;"><strong>Class:</strong> {{.Scope}}</p>
                <table role="presentation" style="width: 100%; border-collapse: collapse;">
                    {{range .Lines}}
                    <tr>
                        <td style="padding: 6px 0; border-bottom: 1px solid #edf2f7;">{{.FeesType}}</td>
                        <td style="padding: 6px 0; border-bottom: 1px solid #edf2f7; text-align: right;">{{.Amount.StringFixed 2}}</td>
                    </tr>
                    {{end}}
                    <tr><td style="padding: 6px 0;">Total payable</td><td style="padding: 6px 0; text-align: right;">{{.TotalPayable.StringFixed 2}}</td></tr>
                    <tr><td style="padding: 6px 0;">Paid ({{.PaymentMethod}})</td><td style="padding: 6px 0; text-align: right;">{{.Paid.StringFixed 2}} {{.Currency}}</td></tr>
                    <tr><td style="padding: 6px 0;"><strong>Due</strong></td><td style="padding: 6px 0; text-align: right;"><strong>{{.PayableDue.StringFixed 2}}</strong></td></tr>
                </table>
            </td>
        </tr>
        <tr>
            <td style="padding: 16px; text-align: center; background-color: #f8fafc; color: #a0aec0; font-size: 12px;">
                This receipt was sent by {{.Header.SchoolName}}
            </td>
        </tr>
    </table>
</body>
</html>
`
