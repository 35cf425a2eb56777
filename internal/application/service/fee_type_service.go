package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// FeeTypeService handles fee type configuration. Fee types are only ever
// appended; a later record for the same scope and name does not replace an
// earlier one, because resolution takes the first match.
type FeeTypeService struct {
	feeTypes repository.FeeTypeRepository
}

// NewFeeTypeService creates a new fee type service
func NewFeeTypeService(feeTypes repository.FeeTypeRepository) *FeeTypeService {
	return &FeeTypeService{feeTypes: feeTypes}
}

// FeeTypeItem is one fee of a generation request.
type FeeTypeItem struct {
	FeesType        string
	FeesAmount      decimal.Decimal
	PayableLastDate entity.Date
}

// GenerateFeeTypesInput creates several fee types for one scope.
type GenerateFeeTypesInput struct {
	Dimensions entity.Dimensions
	Items      []FeeTypeItem
}

func (s *FeeTypeService) GenerateFeeTypes(ctx context.Context, in GenerateFeeTypesInput) ([]entity.FeeType, error) {
	var errs apperror.FieldErrors
	dims := in.Dimensions.Normalize()
	if dims.Class == "" {
		errs.Add("class", "Class is required")
	}
	if dims.Session == "" {
		errs.Add("session", "Session is required")
	}
	if len(in.Items) == 0 {
		errs.Add("items", "At least one fee type is required")
	}
	seen := map[string]bool{}
	for i, item := range in.Items {
		name := strings.TrimSpace(item.FeesType)
		field := "items[" + strconv.Itoa(i) + "]"
		if name == "" {
			errs.Add(field+".fees_type", "Fee type name is required")
		} else if seen[name] {
			errs.Add(field+".fees_type", "Fee type is listed twice")
		}
		seen[name] = true
		if item.FeesAmount.IsNegative() {
			errs.Add(field+".fees_amount", "Amount cannot be negative")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	records := make([]entity.FeeType, 0, len(in.Items))
	for _, item := range in.Items {
		records = append(records, entity.FeeType{
			Dimensions:      dims,
			FeesType:        strings.TrimSpace(item.FeesType),
			FeesAmount:      item.FeesAmount,
			PayableLastDate: item.PayableLastDate,
		})
	}

	added, err := s.feeTypes.Append(ctx, records...)
	if err != nil {
		return nil, storageError(err)
	}
	return added, nil
}

// ListFeeTypes returns fee types in insertion order. Empty scope fields are
// not filtered on.
func (s *FeeTypeService) ListFeeTypes(ctx context.Context, scope entity.Dimensions) ([]entity.FeeType, error) {
	items, err := s.feeTypes.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.FeeType, 0, len(items))
	for _, f := range items {
		if matchField(f.Class, scope.Class) && matchField(f.Group, scope.Group) &&
			matchField(f.Section, scope.Section) && matchField(f.Session, scope.Session) {
			out = append(out, f)
		}
	}
	return out, nil
}

// FeeTypeNames lists the distinct fee names configured for a scope, sorted,
// for the fee selector of the collection form.
func (s *FeeTypeService) FeeTypeNames(ctx context.Context, scope entity.Dimensions) ([]string, error) {
	items, err := s.ListFeeTypes(ctx, scope)
	if err != nil {
		return nil, err
	}
	names := entity.FeeTypeList{}
	for _, f := range items {
		names = append(names, f.FeesType)
	}
	names = names.Unique()
	sort.Strings(names)
	return names, nil
}
