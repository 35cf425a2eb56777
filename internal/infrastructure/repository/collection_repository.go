package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/events"
	"github.com/sangkips/schoolfees-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type collectionRepository struct {
	mu  sync.Mutex
	doc listDocument[entity.Collection]
	pub events.Publisher
	log *zap.Logger
	now func() time.Time
}

// NewCollectionRepository creates the collection store over the
// "school_collections" document.
func NewCollectionRepository(kv domainRepo.KVStore, pub events.Publisher, log *zap.Logger) domainRepo.CollectionRepository {
	if log == nil {
		log = zap.NewNop()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &collectionRepository{
		doc: newListDocument[entity.Collection](kv, domainRepo.KeyCollections, log),
		pub: pub,
		log: log,
		now: time.Now,
	}
}

func (r *collectionRepository) List(ctx context.Context) ([]entity.Collection, error) {
	return r.doc.load(ctx)
}

func (r *collectionRepository) GetByKey(ctx context.Context, key string) (*entity.Collection, error) {
	items, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOfCollection(items, key); i >= 0 {
		return &items[i], nil
	}
	return nil, nil
}

func (r *collectionRepository) Add(ctx context.Context, c entity.Collection) (*entity.Collection, error) {
	err := writeThenPublish(&r.mu, r.pub, events.CollectionsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}

		now := r.now().UTC()
		c.SL = maxSerial(items) + 1
		c.ID = utils.NewID()
		c.CreatedAt = now
		c.UpdatedAt = now
		normalizeCollection(&c)

		if err := r.doc.save(ctx, append(items, c)); err != nil {
			r.log.Error("failed to add collection", zap.Int64("sl", c.SL), zap.Error(err))
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Info("collection added",
		zap.Int64("sl", c.SL),
		zap.String("student_id", c.StudentID),
		zap.String("paid_amount", c.PaidAmount.String()))
	return &c, nil
}

func (r *collectionRepository) Update(ctx context.Context, key string, patch entity.CollectionPatch) (*entity.Collection, error) {
	var updated *entity.Collection
	err := writeThenPublish(&r.mu, r.pub, events.CollectionsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		idx := indexOfCollection(items, key)
		if idx < 0 {
			return false, nil
		}

		c := items[idx]
		patch.Apply(&c)
		normalizeCollection(&c)
		c.UpdatedAt = r.now().UTC()
		items[idx] = c

		if err := r.doc.save(ctx, items); err != nil {
			r.log.Error("failed to update collection", zap.String("key", key), zap.Error(err))
			return false, err
		}
		updated = &c
		return true, nil
	})
	return updated, err
}

func (r *collectionRepository) Remove(ctx context.Context, key string) (bool, error) {
	var removed bool
	err := writeThenPublish(&r.mu, r.pub, events.CollectionsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		idx := indexOfCollection(items, key)
		if idx < 0 {
			return false, nil
		}

		gone := items[idx]
		items = append(items[:idx], items[idx+1:]...)
		if err := r.doc.save(ctx, items); err != nil {
			r.log.Error("failed to remove collection", zap.String("key", key), zap.Error(err))
			return false, err
		}
		r.log.Info("collection removed", zap.Int64("sl", gone.SL), zap.String("id", gone.ID))
		removed = true
		return true, nil
	})
	return removed, err
}

func (r *collectionRepository) InitializeWithDefaults(ctx context.Context, defaults []entity.Collection) (bool, error) {
	var seeded bool
	err := writeThenPublish(&r.mu, r.pub, events.CollectionsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		if len(items) > 0 || len(defaults) == 0 {
			return false, nil
		}

		now := r.now().UTC()
		top := maxSerial(defaults)
		out := make([]entity.Collection, 0, len(defaults))
		for _, c := range defaults {
			if c.SL <= 0 {
				top++
				c.SL = top
			}
			if c.ID == "" {
				c.ID = utils.NewID()
			}
			if c.CreatedAt.IsZero() {
				c.CreatedAt = now
			}
			if c.UpdatedAt.IsZero() {
				c.UpdatedAt = c.CreatedAt
			}
			normalizeCollection(&c)
			out = append(out, c)
		}

		if err := r.doc.save(ctx, out); err != nil {
			return false, err
		}
		r.log.Info("collection store seeded", zap.Int("records", len(out)))
		seeded = true
		return true, nil
	})
	return seeded, err
}

func maxSerial(items []entity.Collection) int64 {
	var top int64
	for _, c := range items {
		if c.SL > top {
			top = c.SL
		}
	}
	return top
}

func indexOfCollection(items []entity.Collection, key string) int {
	for i := range items {
		if items[i].MatchesKey(key) {
			return i
		}
	}
	return -1
}

func normalizeCollection(c *entity.Collection) {
	c.StudentID = strings.TrimSpace(c.StudentID)
	c.Dimensions = c.Dimensions.Normalize()
	c.FeesType = c.FeesType.Unique()
	if c.FeesAmounts == nil {
		c.FeesAmounts = map[string]decimal.Decimal{}
	}
}
