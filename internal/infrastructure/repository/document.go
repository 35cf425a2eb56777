package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/events"
	"go.uber.org/zap"
)

// listDocument is a JSON array stored under one key. Absent keys read as an
// empty list. Documents that fail to decode also read as empty and are
// logged, so a damaged entry never takes the service down.
type listDocument[T any] struct {
	kv  domainRepo.KVStore
	key string
	log *zap.Logger
}

func newListDocument[T any](kv domainRepo.KVStore, key string, log *zap.Logger) listDocument[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return listDocument[T]{kv: kv, key: key, log: log}
}

func (d listDocument[T]) load(ctx context.Context) ([]T, error) {
	raw, err := d.kv.Get(ctx, d.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.key, err)
	}
	if len(raw) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		d.log.Warn("stored document is not readable, treating as empty",
			zap.String("key", d.key), zap.Int("bytes", len(raw)), zap.Error(err))
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (d listDocument[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domainRepo.ErrStorageWrite, d.key, err)
	}
	if err := d.kv.Set(ctx, d.key, raw); err != nil {
		return fmt.Errorf("%w: %s: %w", domainRepo.ErrStorageWrite, d.key, err)
	}
	return nil
}

// writeThenPublish runs fn under mu and, once the lock is released,
// publishes event if fn reports a successful change. Subscribers may
// therefore call back into the repository.
func writeThenPublish(mu *sync.Mutex, pub events.Publisher, event string, fn func() (bool, error)) error {
	mu.Lock()
	changed, err := fn()
	mu.Unlock()
	if err == nil && changed {
		pub.Publish(event)
	}
	return err
}
