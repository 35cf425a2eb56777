package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"go.uber.org/zap"
)

type idempotencyRepository struct {
	mu  sync.Mutex
	doc listDocument[entity.IdempotencyKey]
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(kv domainRepo.KVStore, log *zap.Logger) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{
		doc: newListDocument[entity.IdempotencyKey](kv, domainRepo.KeyIdempotency, log),
	}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, client string) (*entity.IdempotencyKey, error) {
	items, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Key == key && items[i].Client == client {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.doc.load(ctx)
	if err != nil {
		return err
	}

	// A retried request after expiry replaces the old entry.
	kept := items[:0]
	for _, k := range items {
		if k.Key != ikey.Key || k.Client != ikey.Client {
			kept = append(kept, k)
		}
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now().UTC()
	}
	return r.doc.save(ctx, append(kept, ikey))
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.doc.load(ctx)
	if err != nil {
		return 0, err
	}
	kept := items[:0]
	for i := range items {
		if !items[i].IsExpired(now) {
			kept = append(kept, items[i])
		}
	}
	removed := len(items) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, r.doc.save(ctx, kept)
}
