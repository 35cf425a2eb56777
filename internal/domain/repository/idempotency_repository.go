package repository

import (
	"context"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and client
	GetByKey(ctx context.Context, key, client string) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key
	Create(ctx context.Context, ikey entity.IdempotencyKey) error
	// DeleteExpired removes keys expired at now and reports how many went
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
