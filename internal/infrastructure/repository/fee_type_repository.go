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

type feeTypeRepository struct {
	mu  sync.Mutex
	doc listDocument[entity.FeeType]
	pub events.Publisher
	log *zap.Logger
}

// NewFeeTypeRepository creates a new fee type repository
func NewFeeTypeRepository(kv domainRepo.KVStore, pub events.Publisher, log *zap.Logger) domainRepo.FeeTypeRepository {
	if log == nil {
		log = zap.NewNop()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &feeTypeRepository{
		doc: newListDocument[entity.FeeType](kv, domainRepo.KeyFeeTypes, log),
		pub: pub,
		log: log,
	}
}

func (r *feeTypeRepository) List(ctx context.Context) ([]entity.FeeType, error) {
	return r.doc.load(ctx)
}

func (r *feeTypeRepository) Append(ctx context.Context, feeTypes ...entity.FeeType) ([]entity.FeeType, error) {
	if len(feeTypes) == 0 {
		return []entity.FeeType{}, nil
	}

	now := time.Now().UTC()
	added := make([]entity.FeeType, 0, len(feeTypes))
	for _, f := range feeTypes {
		f.ID = utils.NewID()
		f.Dimensions = f.Dimensions.Normalize()
		f.FeesType = strings.TrimSpace(f.FeesType)
		f.CreatedAt = now
		added = append(added, f)
	}

	err := writeThenPublish(&r.mu, r.pub, events.FeeTypesUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		if err := r.doc.save(ctx, append(items, added...)); err != nil {
			r.log.Error("failed to append fee types", zap.Int("count", len(added)), zap.Error(err))
			return false, err
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}
