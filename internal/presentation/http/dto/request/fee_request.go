package request

import (
	"github.com/sangkips/schoolfees-api/internal/application/service"
	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type FeeTypeItemRequest struct {
	FeesType        string          `json:"fees_type" binding:"required"`
	FeesAmount      decimal.Decimal `json:"fees_amount"`
	PayableLastDate entity.Date     `json:"payable_last_date"`
}

// GenerateFeeTypesRequest appends a fee schedule for one scope.
type GenerateFeeTypesRequest struct {
	Class   string               `json:"class" binding:"required"`
	Group   string               `json:"group"`
	Section string               `json:"section"`
	Session string               `json:"session" binding:"required"`
	Items   []FeeTypeItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r GenerateFeeTypesRequest) ToInput() service.GenerateFeeTypesInput {
	in := service.GenerateFeeTypesInput{
		Dimensions: entity.Dimensions{Class: r.Class, Group: r.Group, Section: r.Section, Session: r.Session},
		Items:      make([]service.FeeTypeItem, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, service.FeeTypeItem{
			FeesType:        it.FeesType,
			FeesAmount:      it.FeesAmount,
			PayableLastDate: it.PayableLastDate,
		})
	}
	return in
}

// ScopeQuery selects class/group/section/session from the query string.
type ScopeQuery struct {
	Class   string `form:"class"`
	Group   string `form:"group"`
	Section string `form:"section"`
	Session string `form:"session"`
}

func (q ScopeQuery) Dimensions() entity.Dimensions {
	return entity.Dimensions{Class: q.Class, Group: q.Group, Section: q.Section, Session: q.Session}
}

type CreateDiscountRequest struct {
	StudentName    string          `json:"student_name" binding:"required"`
	Class          string          `json:"class"`
	Group          string          `json:"group"`
	Section        string          `json:"section"`
	Session        string          `json:"session"`
	FeesType       string          `json:"fees_type" binding:"required"`
	Regular        decimal.Decimal `json:"regular"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	StartDate      entity.Date     `json:"start_date"`
	EndDate        entity.Date     `json:"end_date"`
}

func (r CreateDiscountRequest) ToInput() service.CreateDiscountInput {
	return service.CreateDiscountInput{
		StudentName:    r.StudentName,
		Dimensions:     entity.Dimensions{Class: r.Class, Group: r.Group, Section: r.Section, Session: r.Session},
		FeesType:       r.FeesType,
		Regular:        r.Regular,
		DiscountAmount: r.DiscountAmount,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
	}
}
