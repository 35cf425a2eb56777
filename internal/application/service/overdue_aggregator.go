package service

import (
	"context"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// OverdueAggregator sums what a student still owes from earlier collections
// in one scope.
type OverdueAggregator struct {
	collections repository.CollectionRepository
}

func NewOverdueAggregator(collections repository.CollectionRepository) *OverdueAggregator {
	return &OverdueAggregator{collections: collections}
}

// Overdue returns the sum of positive total_due over the student's
// collections in dims. An empty or unreadable store yields zero.
func (a *OverdueAggregator) Overdue(ctx context.Context, studentID string, dims entity.Dimensions) (decimal.Decimal, error) {
	return a.OverdueExcept(ctx, studentID, dims, 0)
}

// OverdueExcept is Overdue ignoring the collection with serial sl, used when
// a saved collection is being recomputed.
func (a *OverdueAggregator) OverdueExcept(ctx context.Context, studentID string, dims entity.Dimensions, sl int64) (decimal.Decimal, error) {
	items, err := a.collections.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return SumOverdue(items, studentID, dims, sl), nil
}

// SumOverdue is the pure form of OverdueExcept; sl 0 excludes nothing.
func SumOverdue(items []entity.Collection, studentID string, dims entity.Dimensions, sl int64) decimal.Decimal {
	total := decimal.Zero
	if studentID == "" {
		return total
	}
	for _, c := range items {
		if sl != 0 && c.SL == sl {
			continue
		}
		if !utils.SameID(c.StudentID, studentID) || !c.Dimensions.Matches(dims) {
			continue
		}
		if c.TotalDue.IsPositive() {
			total = total.Add(c.TotalDue)
		}
	}
	return total
}
