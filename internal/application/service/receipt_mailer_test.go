package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/sangkips/schoolfees-api/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	err  error
	sent []email.Message
}

func (f *fakeSender) Send(_ context.Context, msg email.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestReceiptMailer_EmailReceipt(t *testing.T) {
	e, _, printerSvc := newPrinterFixture(t)
	sender := &fakeSender{}
	m := NewReceiptMailer(printerSvc, sender, zap.NewNop())

	r, err := m.EmailReceipt(e.ctx, "1", "parent@example.com")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "parent@example.com", msg.To)
	assert.Equal(t, "Money receipt "+r.ReceiptNo+" - Green Valley School", msg.Subject)
	assert.Contains(t, msg.HTML, "Rahim Uddin")
	assert.Contains(t, msg.HTML, "Exam Fee")
	assert.Contains(t, msg.HTML, "1500.00 BDT")
}

func TestReceiptMailer_Errors(t *testing.T) {
	e, _, printerSvc := newPrinterFixture(t)

	_, err := NewReceiptMailer(printerSvc, nil, nil).EmailReceipt(e.ctx, "1", "parent@example.com")
	requireAppError(t, err, http.StatusServiceUnavailable)

	sender := &fakeSender{}
	m := NewReceiptMailer(printerSvc, sender, nil)

	_, err = m.EmailReceipt(e.ctx, "1", "parent")
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, []string{"to"}, fieldNames(appErr))

	_, err = m.EmailReceipt(e.ctx, "9", "parent@example.com")
	requireAppError(t, err, http.StatusNotFound)
	assert.Empty(t, sender.sent)

	sender.err = errors.New("relay refused")
	_, err = m.EmailReceipt(e.ctx, "1", "parent@example.com")
	requireAppError(t, err, http.StatusBadGateway)
}
