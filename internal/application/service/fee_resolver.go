package service

import (
	"context"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FeeSource says where a resolved amount came from.
type FeeSource string

const (
	FeeSourceFeeType    FeeSource = "fee_type"
	FeeSourceDiscount   FeeSource = "discount"
	FeeSourceUnresolved FeeSource = "unresolved"
)

// ResolvedFee is the payable amount of one selected fee.
type ResolvedFee struct {
	FeesType string          `json:"fees_type"`
	Amount   decimal.Decimal `json:"amount"`
	// BaseAmount is the configured amount before any discount.
	BaseAmount      decimal.Decimal `json:"base_amount"`
	Source          FeeSource       `json:"source"`
	DiscountID      string          `json:"discount_id,omitempty"`
	PayableLastDate entity.Date     `json:"payable_last_date"`
}

// FeeResolution is the result of resolving a fee selection.
type FeeResolution struct {
	Lines   []ResolvedFee              `json:"lines"`
	Amounts map[string]decimal.Decimal `json:"amounts"`
	Total   decimal.Decimal            `json:"total"`
	// Unresolved names the selected fees with no configured amount.
	Unresolved []string `json:"unresolved"`
}

// FeeResolver prices a fee selection for a scope and, optionally, a student.
type FeeResolver struct {
	feeTypes  repository.FeeTypeRepository
	discounts repository.DiscountRepository
	students  repository.StudentRepository
	clock     Clock
	log       *zap.Logger
}

func NewFeeResolver(
	feeTypes repository.FeeTypeRepository,
	discounts repository.DiscountRepository,
	students repository.StudentRepository,
	clock Clock,
	log *zap.Logger,
) *FeeResolver {
	return &FeeResolver{
		feeTypes:  feeTypes,
		discounts: discounts,
		students:  students,
		clock:     clock,
		log:       logger.OrNop(log),
	}
}

// Resolve prices each selected fee type. Missing fee types and unknown
// students are not errors: they resolve to zero and no discount.
func (r *FeeResolver) Resolve(ctx context.Context, dims entity.Dimensions, selected entity.FeeTypeList, studentID string) (*FeeResolution, error) {
	feeTypes, err := r.feeTypes.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		studentName string
		discounts   []entity.Discount
	)
	if studentID != "" {
		student, err := r.students.GetByID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		if student != nil {
			studentName = student.Name
			if discounts, err = r.discounts.List(ctx); err != nil {
				return nil, err
			}
		}
	}

	res := ResolveFees(feeTypes, discounts, dims, selected, studentName, today(r.clock))
	if len(res.Unresolved) > 0 {
		r.log.Debug("fee types without configured amount",
			zap.String("scope", dims.Label()), zap.Strings("fees_type", res.Unresolved))
	}
	return res, nil
}

// ResolveFees prices selected against a snapshot of fee types and discounts.
// The first fee type in insertion order wins when several match. A discount
// replaces the amount only while day is inside its window; the first active
// match wins. studentName "" disables discounts.
func ResolveFees(
	feeTypes []entity.FeeType,
	discounts []entity.Discount,
	dims entity.Dimensions,
	selected entity.FeeTypeList,
	studentName string,
	day entity.Date,
) *FeeResolution {
	res := &FeeResolution{
		Lines:      []ResolvedFee{},
		Amounts:    map[string]decimal.Decimal{},
		Total:      decimal.Zero,
		Unresolved: []string{},
	}

	for _, name := range selected.Unique() {
		line := ResolvedFee{FeesType: name, Amount: decimal.Zero, BaseAmount: decimal.Zero, Source: FeeSourceUnresolved}

		for _, ft := range feeTypes {
			if ft.Is(dims, name) {
				line.Amount = ft.FeesAmount
				line.BaseAmount = ft.FeesAmount
				line.PayableLastDate = ft.PayableLastDate
				line.Source = FeeSourceFeeType
				break
			}
		}

		if studentName != "" {
			for _, d := range discounts {
				if d.AppliesTo(studentName, dims, name) && d.ActiveOn(day) {
					line.Amount = d.EffectiveAmount()
					line.Source = FeeSourceDiscount
					line.DiscountID = d.ID
					break
				}
			}
		}

		if line.Source == FeeSourceUnresolved {
			res.Unresolved = append(res.Unresolved, name)
		}
		res.Lines = append(res.Lines, line)
		res.Amounts[name] = line.Amount
		res.Total = res.Total.Add(line.Amount)
	}

	return res
}
