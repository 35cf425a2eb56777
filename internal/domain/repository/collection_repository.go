package repository

import (
	"context"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
)

// CollectionRepository persists fee collections. key is either the serial
// or the id of a record.
type CollectionRepository interface {
	// List never fails on missing or unreadable data; it returns an empty list.
	List(ctx context.Context) ([]entity.Collection, error)
	GetByKey(ctx context.Context, key string) (*entity.Collection, error)
	Add(ctx context.Context, c entity.Collection) (*entity.Collection, error)
	// Update returns nil, nil when no record matches key.
	Update(ctx context.Context, key string, patch entity.CollectionPatch) (*entity.Collection, error)
	Remove(ctx context.Context, key string) (bool, error)
	// InitializeWithDefaults seeds the store only when it is empty and
	// reports whether it did.
	InitializeWithDefaults(ctx context.Context, defaults []entity.Collection) (bool, error)
}
