package entity

import (
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Collection is one fee payment taken from a student. SL is a serial that
// increases with every added record and is never reused while the record
// with the highest serial survives.
type Collection struct {
	SL        int64  `json:"sl"`
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Dimensions
	FeesType         FeeTypeList                `json:"fees_type"`
	FeesAmounts      map[string]decimal.Decimal `json:"fees_amounts"`
	TotalPayable     decimal.Decimal            `json:"total_payable"`
	PayableDue       decimal.Decimal            `json:"payable_due"`
	TotalDue         decimal.Decimal            `json:"total_due"`
	PaidAmount       decimal.Decimal            `json:"paid_amount"`
	PaymentMethod    enum.PaymentMethod         `json:"payment_method"`
	PayDate          Date                       `json:"pay_date"`
	PaymentAttemptID string                     `json:"payment_attempt_id,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// MatchesKey reports whether key is this record's serial or id.
func (c Collection) MatchesKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	if sl, err := strconv.ParseInt(key, 10, 64); err == nil && sl == c.SL {
		return true
	}
	return c.ID == key
}

// CollectionPatch holds the fields an edit may change. Nil fields are kept.
type CollectionPatch struct {
	StudentID     *string                    `json:"student_id,omitempty"`
	Class         *string                    `json:"class,omitempty"`
	Group         *string                    `json:"group,omitempty"`
	Section       *string                    `json:"section,omitempty"`
	Session       *string                    `json:"session,omitempty"`
	FeesType      *FeeTypeList               `json:"fees_type,omitempty"`
	FeesAmounts   map[string]decimal.Decimal `json:"fees_amounts,omitempty"`
	TotalPayable  *decimal.Decimal           `json:"total_payable,omitempty"`
	PayableDue    *decimal.Decimal           `json:"payable_due,omitempty"`
	TotalDue      *decimal.Decimal           `json:"total_due,omitempty"`
	PaidAmount    *decimal.Decimal           `json:"paid_amount,omitempty"`
	PaymentMethod *enum.PaymentMethod        `json:"payment_method,omitempty"`
	PayDate       *Date                      `json:"pay_date,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CollectionPatch) IsEmpty() bool {
	return p.StudentID == nil && !p.TouchesScope() && p.FeesType == nil && p.FeesAmounts == nil &&
		p.TotalPayable == nil && p.PayableDue == nil && p.TotalDue == nil && p.PaidAmount == nil &&
		p.PaymentMethod == nil && p.PayDate == nil
}

// Apply merges the set fields into c. Serial, id and timestamps are untouched.
func (p CollectionPatch) Apply(c *Collection) {
	if p.StudentID != nil {
		c.StudentID = strings.TrimSpace(*p.StudentID)
	}
	setTrimmed(&c.Class, p.Class)
	setTrimmed(&c.Group, p.Group)
	setTrimmed(&c.Section, p.Section)
	setTrimmed(&c.Session, p.Session)
	if p.FeesType != nil {
		c.FeesType = p.FeesType.Unique()
	}
	if p.FeesAmounts != nil {
		c.FeesAmounts = p.FeesAmounts
	}
	if p.TotalPayable != nil {
		c.TotalPayable = *p.TotalPayable
	}
	if p.PayableDue != nil {
		c.PayableDue = *p.PayableDue
	}
	if p.TotalDue != nil {
		c.TotalDue = *p.TotalDue
	}
	if p.PaidAmount != nil {
		c.PaidAmount = *p.PaidAmount
	}
	if p.PaymentMethod != nil {
		c.PaymentMethod = *p.PaymentMethod
	}
	if p.PayDate != nil {
		c.PayDate = *p.PayDate
	}
}

// TouchesScope reports whether any scope field is set.
func (p CollectionPatch) TouchesScope() bool {
	return p.Class != nil || p.Group != nil || p.Section != nil || p.Session != nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// CollectionDraft is the state of a collection form before it is saved.
type CollectionDraft struct {
	StudentID string `json:"student_id"`
	Dimensions
	FeesType      FeeTypeList        `json:"fees_type"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	PaymentMethod enum.PaymentMethod `json:"payment_method"`
	PayDate       Date               `json:"pay_date"`
	Confirmed     bool               `json:"confirmed,omitempty"`
}
