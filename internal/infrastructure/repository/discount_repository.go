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
	"go.uber.org/zap"
)

type discountRepository struct {
	mu  sync.Mutex
	doc listDocument[entity.Discount]
	pub events.Publisher
}

// NewDiscountRepository stores discounts under the "fees" key, where the
// fee settings screen has always kept them.
func NewDiscountRepository(kv domainRepo.KVStore, pub events.Publisher, log *zap.Logger) domainRepo.DiscountRepository {
	if pub == nil {
		pub = events.Nop{}
	}
	return &discountRepository{
		doc: newListDocument[entity.Discount](kv, domainRepo.KeyDiscounts, log),
		pub: pub,
	}
}

func (r *discountRepository) List(ctx context.Context) ([]entity.Discount, error) {
	return r.doc.load(ctx)
}

func (r *discountRepository) Create(ctx context.Context, d entity.Discount) (*entity.Discount, error) {
	d.ID = utils.NewID()
	d.StudentName = strings.TrimSpace(d.StudentName)
	d.FeesType = strings.TrimSpace(d.FeesType)
	d.Dimensions = d.Dimensions.Normalize()
	d.CreatedAt = time.Now().UTC()

	err := writeThenPublish(&r.mu, r.pub, events.DiscountsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		return true, r.doc.save(ctx, append(items, d))
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *discountRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := writeThenPublish(&r.mu, r.pub, events.DiscountsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		for i := range items {
			if items[i].ID == id {
				if err := r.doc.save(ctx, append(items[:i], items[i+1:]...)); err != nil {
					return false, err
				}
				deleted = true
				return true, nil
			}
		}
		return false, nil
	})
	return deleted, err
}
