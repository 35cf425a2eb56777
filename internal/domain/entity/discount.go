package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Discount lowers one fee for one named student while today falls inside
// [StartDate, EndDate].
type Discount struct {
	ID          string `json:"id"`
	StudentName string `json:"student_name"`
	Dimensions
	FeesType       string          `json:"fees_type"`
	Regular        decimal.Decimal `json:"regular"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	StartDate      Date            `json:"start_date"`
	EndDate        Date            `json:"end_date"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ActiveOn reports whether day lies inside the validity window, inclusive.
func (d Discount) ActiveOn(day Date) bool {
	return day.Within(d.StartDate, d.EndDate)
}

// EffectiveAmount is the regular amount less the discount, never below zero.
func (d Discount) EffectiveAmount() decimal.Decimal {
	return decimal.Max(decimal.Zero, d.Regular.Sub(d.DiscountAmount))
}

// AppliesTo matches student name, scope and fee name.
func (d Discount) AppliesTo(studentName string, dims Dimensions, feesType string) bool {
	return strings.TrimSpace(d.StudentName) == strings.TrimSpace(studentName) &&
		strings.TrimSpace(d.FeesType) == strings.TrimSpace(feesType) &&
		d.Dimensions.Matches(dims)
}
