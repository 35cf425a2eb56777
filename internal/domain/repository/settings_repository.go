package repository

import (
	"context"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
)

// SettingsRepository holds the single-document settings: school info and
// the operator role.
type SettingsRepository interface {
	GetSchoolInfo(ctx context.Context) (*entity.SchoolInfo, error)
	SaveSchoolInfo(ctx context.Context, info entity.SchoolInfo) error
	GetRole(ctx context.Context) (string, error)
	SetRole(ctx context.Context, role string) error
}
