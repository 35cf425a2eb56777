package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/events"
	"github.com/sangkips/schoolfees-api/pkg/utils"
	"go.uber.org/zap"
)

type paymentAttemptRepository struct {
	mu  sync.Mutex
	doc listDocument[entity.PaymentAttempt]
	pub events.Publisher
}

// NewPaymentAttemptRepository creates a new payment attempt repository
func NewPaymentAttemptRepository(kv domainRepo.KVStore, pub events.Publisher, log *zap.Logger) domainRepo.PaymentAttemptRepository {
	if pub == nil {
		pub = events.Nop{}
	}
	return &paymentAttemptRepository{
		doc: newListDocument[entity.PaymentAttempt](kv, domainRepo.KeyPaymentAttempts, log),
		pub: pub,
	}
}

func (r *paymentAttemptRepository) List(ctx context.Context) ([]entity.PaymentAttempt, error) {
	return r.doc.load(ctx)
}

func (r *paymentAttemptRepository) GetByID(ctx context.Context, id string) (*entity.PaymentAttempt, error) {
	items, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, nil
}

func (r *paymentAttemptRepository) Create(ctx context.Context, a entity.PaymentAttempt) (*entity.PaymentAttempt, error) {
	now := time.Now().UTC()
	if a.ID == "" {
		a.ID = utils.NewID()
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	err := writeThenPublish(&r.mu, r.pub, events.PaymentsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		return true, r.doc.save(ctx, append(items, a))
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *paymentAttemptRepository) Save(ctx context.Context, a entity.PaymentAttempt) error {
	return writeThenPublish(&r.mu, r.pub, events.PaymentsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		for i := range items {
			if items[i].ID == a.ID {
				a.CreatedAt = items[i].CreatedAt
				a.UpdatedAt = time.Now().UTC()
				items[i] = a
				return true, r.doc.save(ctx, items)
			}
		}
		return false, fmt.Errorf("payment attempt %s not found", a.ID)
	})
}
