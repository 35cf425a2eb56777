package service

import (
	"context"
	"strings"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// DiscountService manages per-student discounts.
type DiscountService struct {
	discounts repository.DiscountRepository
	clock     Clock
}

// NewDiscountService creates a new discount service
func NewDiscountService(discounts repository.DiscountRepository, clock Clock) *DiscountService {
	return &DiscountService{discounts: discounts, clock: clock}
}

// CreateDiscountInput represents the create discount input
type CreateDiscountInput struct {
	StudentName    string
	Dimensions     entity.Dimensions
	FeesType       string
	Regular        decimal.Decimal
	DiscountAmount decimal.Decimal
	StartDate      entity.Date
	EndDate        entity.Date
}

func (s *DiscountService) CreateDiscount(ctx context.Context, in CreateDiscountInput) (*entity.Discount, error) {
	var errs apperror.FieldErrors
	if strings.TrimSpace(in.StudentName) == "" {
		errs.Add("student_name", "Student name is required")
	}
	if strings.TrimSpace(in.FeesType) == "" {
		errs.Add("fees_type", "Fee type is required")
	}
	if strings.TrimSpace(in.Dimensions.Class) == "" {
		errs.Add("class", "Class is required")
	}
	if in.Regular.IsNegative() {
		errs.Add("regular", "Regular amount cannot be negative")
	}
	if !in.DiscountAmount.IsPositive() {
		errs.Add("discount_amount", "Discount amount must be greater than zero")
	}
	if in.StartDate.IsZero() {
		errs.Add("start_date", "Start date is required")
	}
	if in.EndDate.IsZero() {
		errs.Add("end_date", "End date is required")
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		errs.Add("end_date", "End date cannot be before start date")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	d, err := s.discounts.Create(ctx, entity.Discount{
		StudentName:    in.StudentName,
		Dimensions:     in.Dimensions,
		FeesType:       in.FeesType,
		Regular:        in.Regular,
		DiscountAmount: in.DiscountAmount,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
	})
	if err != nil {
		return nil, storageError(err)
	}
	return d, nil
}

// DiscountView is a discount with its state on the current day.
type DiscountView struct {
	entity.Discount
	Active          bool            `json:"active"`
	EffectiveAmount decimal.Decimal `json:"effective_amount"`
}

// ListDiscounts returns all discounts, or only those active today.
func (s *DiscountService) ListDiscounts(ctx context.Context, activeOnly bool) ([]DiscountView, error) {
	items, err := s.discounts.List(ctx)
	if err != nil {
		return nil, err
	}
	day := today(s.clock)
	out := make([]DiscountView, 0, len(items))
	for _, d := range items {
		active := d.ActiveOn(day)
		if activeOnly && !active {
			continue
		}
		out = append(out, DiscountView{Discount: d, Active: active, EffectiveAmount: d.EffectiveAmount()})
	}
	return out, nil
}

func (s *DiscountService) DeleteDiscount(ctx context.Context, id string) error {
	deleted, err := s.discounts.Delete(ctx, id)
	if err != nil {
		return storageError(err)
	}
	if !deleted {
		return apperror.NewNotFoundError("Discount")
	}
	return nil
}
