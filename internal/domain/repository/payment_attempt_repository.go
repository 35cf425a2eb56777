package repository

import (
	"context"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
)

type PaymentAttemptRepository interface {
	List(ctx context.Context) ([]entity.PaymentAttempt, error)
	GetByID(ctx context.Context, id string) (*entity.PaymentAttempt, error)
	Create(ctx context.Context, a entity.PaymentAttempt) (*entity.PaymentAttempt, error)
	// Save replaces the stored attempt with the same id.
	Save(ctx context.Context, a entity.PaymentAttempt) error
}
