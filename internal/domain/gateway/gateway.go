// Package gateway defines how payments reach a payment provider.
package gateway

import (
	"context"
	"errors"

	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidSignature   = errors.New("gateway: notification signature mismatch")
	ErrNotificationUnused = errors.New("gateway: provider does not send notifications")
)

// ChargeItem is one line shown on the provider's payment page.
type ChargeItem struct {
	Name   string
	Amount decimal.Decimal
}

// ChargeRequest asks the provider to take Amount for one payment attempt.
// AttemptID doubles as the provider's order id.
type ChargeRequest struct {
	AttemptID   string
	Amount      decimal.Decimal
	Currency    string
	Method      enum.PaymentMethod
	StudentID   string
	StudentName string
	Items       []ChargeItem
}

// ChargeResult is the provider's answer. Status is processing when the
// payer still has to act, succeeded or failed otherwise.
type ChargeResult struct {
	Status        enum.PaymentStatus
	Reference     string
	RedirectURL   string
	FailureReason string
}

// Notification is a provider callback about an earlier charge.
type Notification struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

// Outcome is what a verified notification means for the attempt.
// Status processing means "no change yet".
type Outcome struct {
	AttemptID     string
	Status        enum.PaymentStatus
	Reference     string
	FailureReason string
	// Amount is what the provider reports as paid; zero when not reported.
	Amount decimal.Decimal
}

// Gateway is a payment provider.
type Gateway interface {
	Name() string
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	// Interpret verifies n and maps it to an outcome.
	Interpret(n Notification) (*Outcome, error)
}
