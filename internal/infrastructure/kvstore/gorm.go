package kvstore

import (
	"context"
	"errors"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore keeps documents in the kv_entries table.
func NewGormStore(db *gorm.DB) domainRepo.KVStore {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var e entity.KVEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(e.Value), nil
}

func (s *gormStore) Set(ctx context.Context, key string, value []byte) error {
	e := entity.KVEntry{Key: key, Value: string(value)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *gormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&entity.KVEntry{}).Error
}

func (s *gormStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&entity.KVEntry{}).Order("key").Pluck("key", &keys).Error
	return keys, err
}
