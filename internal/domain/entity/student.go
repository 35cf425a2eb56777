package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Student is stored under the "students" key. FeesDue is derived from the
// student's collections and rewritten whenever they change.
type Student struct {
	StudentID     string          `json:"studentId"`
	Name          string          `json:"name"`
	ClassName     string          `json:"className"`
	Group         string          `json:"group"`
	Section       string          `json:"section"`
	Session       string          `json:"session"`
	Roll          string          `json:"roll,omitempty"`
	GuardianName  string          `json:"guardianName,omitempty"`
	GuardianPhone string          `json:"guardianPhone,omitempty"`
	FeesDue       decimal.Decimal `json:"feesDue"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (s Student) Dimensions() Dimensions {
	return Dimensions{Class: s.ClassName, Group: s.Group, Section: s.Section, Session: s.Session}
}
