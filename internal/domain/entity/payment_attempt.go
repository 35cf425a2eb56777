package entity

import (
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PaymentAttempt records one try at taking a payment, including failed ones.
// A succeeded attempt produces exactly one Collection, linked by CollectionSL.
type PaymentAttempt struct {
	ID            string             `json:"id"`
	Draft         CollectionDraft    `json:"draft"`
	Amount        decimal.Decimal    `json:"amount"`
	Method        enum.PaymentMethod `json:"method"`
	Status        enum.PaymentStatus `json:"status"`
	Gateway       string             `json:"gateway"`
	Reference     string             `json:"reference,omitempty"`
	RedirectURL   string             `json:"redirect_url,omitempty"`
	FailureReason string             `json:"failure_reason,omitempty"`
	CollectionSL  int64              `json:"collection_sl,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
