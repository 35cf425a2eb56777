package repository

import (
	"context"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
)

type DiscountRepository interface {
	List(ctx context.Context) ([]entity.Discount, error)
	Create(ctx context.Context, d entity.Discount) (*entity.Discount, error)
	Delete(ctx context.Context, id string) (bool, error)
}
