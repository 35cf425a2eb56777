package repository

import (
	"context"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
)

// FeeTypeRepository is append-only.
type FeeTypeRepository interface {
	// List returns every fee type in insertion order.
	List(ctx context.Context) ([]entity.FeeType, error)
	Append(ctx context.Context, feeTypes ...entity.FeeType) ([]entity.FeeType, error)
}
