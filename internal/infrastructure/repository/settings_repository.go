package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/events"
	"go.uber.org/zap"
)

type settingsRepository struct {
	kv  domainRepo.KVStore
	pub events.Publisher
	log *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(kv domainRepo.KVStore, pub events.Publisher, log *zap.Logger) domainRepo.SettingsRepository {
	if log == nil {
		log = zap.NewNop()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &settingsRepository{kv: kv, pub: pub, log: log}
}

// GetSchoolInfo returns nil, nil when nothing was saved or the document is unreadable.
func (r *settingsRepository) GetSchoolInfo(ctx context.Context) (*entity.SchoolInfo, error) {
	raw, err := r.kv.Get(ctx, domainRepo.KeySchoolInfo)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", domainRepo.KeySchoolInfo, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var info entity.SchoolInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		r.log.Warn("stored school info is not readable", zap.Error(err))
		return nil, nil
	}
	return &info, nil
}

func (r *settingsRepository) SaveSchoolInfo(ctx context.Context, info entity.SchoolInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", domainRepo.ErrStorageWrite, domainRepo.KeySchoolInfo, err)
	}
	if err := r.kv.Set(ctx, domainRepo.KeySchoolInfo, raw); err != nil {
		return fmt.Errorf("%w: %s: %w", domainRepo.ErrStorageWrite, domainRepo.KeySchoolInfo, err)
	}
	r.pub.Publish(events.SchoolInfoUpdated)
	return nil
}

// GetRole accepts both a bare string and a JSON-quoted one.
func (r *settingsRepository) GetRole(ctx context.Context) (string, error) {
	raw, err := r.kv.Get(ctx, domainRepo.KeyRole)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", domainRepo.KeyRole, err)
	}
	var role string
	if err := json.Unmarshal(raw, &role); err == nil {
		return strings.TrimSpace(role), nil
	}
	return strings.TrimSpace(string(raw)), nil
}

func (r *settingsRepository) SetRole(ctx context.Context, role string) error {
	if err := r.kv.Set(ctx, domainRepo.KeyRole, []byte(role)); err != nil {
		return fmt.Errorf("%w: %s: %w", domainRepo.ErrStorageWrite, domainRepo.KeyRole, err)
	}
	return nil
}
