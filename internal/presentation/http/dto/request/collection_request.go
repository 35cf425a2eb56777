package request

import (
	"github.com/sangkips/schoolfees-api/internal/application/service"
	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CollectionDraftRequest is the collection form as posted for a quote, a
// submit or a payment. Field checks are left to the service so that every
// problem is reported at once.
type CollectionDraftRequest struct {
	StudentID     string             `json:"student_id"`
	Class         string             `json:"class"`
	Group         string             `json:"group"`
	Section       string             `json:"section"`
	Session       string             `json:"session"`
	FeesType      entity.FeeTypeList `json:"fees_type"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	PaymentMethod string             `json:"payment_method"`
	PayDate       entity.Date        `json:"pay_date"`
	Confirmed     bool               `json:"confirmed"`
}

func (r CollectionDraftRequest) ToDraft() entity.CollectionDraft {
	return entity.CollectionDraft{
		StudentID: r.StudentID,
		Dimensions: entity.Dimensions{
			Class:   r.Class,
			Group:   r.Group,
			Section: r.Section,
			Session: r.Session,
		},
		FeesType:      r.FeesType,
		PaidAmount:    r.PaidAmount,
		PaymentMethod: enum.PaymentMethod(r.PaymentMethod),
		PayDate:       r.PayDate,
		Confirmed:     r.Confirmed,
	}
}

// UpdateCollectionRequest edits a stored collection. Absent fields stay.
type UpdateCollectionRequest struct {
	StudentID     *string             `json:"student_id"`
	Class         *string             `json:"class"`
	Group         *string             `json:"group"`
	Section       *string             `json:"section"`
	Session       *string             `json:"session"`
	FeesType      *entity.FeeTypeList `json:"fees_type"`
	PaidAmount    *decimal.Decimal    `json:"paid_amount"`
	PaymentMethod *string             `json:"payment_method"`
	PayDate       *entity.Date        `json:"pay_date"`
}

func (r UpdateCollectionRequest) ToInput() service.UpdateCollectionInput {
	return service.UpdateCollectionInput{
		StudentID:     r.StudentID,
		Class:         r.Class,
		Group:         r.Group,
		Section:       r.Section,
		Session:       r.Session,
		FeesType:      r.FeesType,
		PaidAmount:    r.PaidAmount,
		PaymentMethod: r.PaymentMethod,
		PayDate:       r.PayDate,
	}
}

// CollectionListQuery holds the filters of the collection list.
type CollectionListQuery struct {
	StudentID     string `form:"student_id"`
	Class         string `form:"class"`
	Group         string `form:"group"`
	Section       string `form:"section"`
	Session       string `form:"session"`
	PaymentMethod string `form:"payment_method"`
	From          string `form:"from"`
	To            string `form:"to"`
	OnlyDue       bool   `form:"only_due"`
}

// ToFilter parses the date bounds; a malformed date is reported under its
// query name.
func (q CollectionListQuery) ToFilter() (service.CollectionFilter, string, error) {
	f := service.CollectionFilter{
		StudentID:     q.StudentID,
		Class:         q.Class,
		Group:         q.Group,
		Section:       q.Section,
		Session:       q.Session,
		PaymentMethod: q.PaymentMethod,
		OnlyDue:       q.OnlyDue,
	}
	var err error
	if f.From, err = entity.ParseDate(q.From); err != nil {
		return f, "from", err
	}
	if f.To, err = entity.ParseDate(q.To); err != nil {
		return f, "to", err
	}
	return f, "", nil
}

type EmailReceiptRequest struct {
	To string `json:"to" binding:"required"`
}
