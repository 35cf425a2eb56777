package service

import (
	"context"
	"strings"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
)

// SchoolService handles the school profile and the operator role.
type SchoolService struct {
	settings repository.SettingsRepository
	defaults entity.SchoolInfo
}

// NewSchoolService creates a new school service. defaults is returned until
// a profile has been saved.
func NewSchoolService(settings repository.SettingsRepository, defaults entity.SchoolInfo) *SchoolService {
	return &SchoolService{settings: settings, defaults: defaults}
}

func (s *SchoolService) GetSchoolInfo(ctx context.Context) (*entity.SchoolInfo, error) {
	info, err := s.settings.GetSchoolInfo(ctx)
	if err != nil {
		return nil, err
	}
	if info == nil {
		d := s.defaults
		return &d, nil
	}
	if info.Currency == "" {
		info.Currency = s.defaults.Currency
	}
	return info, nil
}

// UpdateSchoolInfoInput represents the input for updating the school profile
type UpdateSchoolInfoInput struct {
	Name     string
	Address  string
	Phone    string
	Email    string
	EIIN     string
	Currency string
}

func (s *SchoolService) UpdateSchoolInfo(ctx context.Context, in UpdateSchoolInfoInput) (*entity.SchoolInfo, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "School name is required"}})
	}
	info := entity.SchoolInfo{
		Name:      strings.TrimSpace(in.Name),
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		EIIN:      strings.TrimSpace(in.EIIN),
		Currency:  strings.ToUpper(strings.TrimSpace(in.Currency)),
		UpdatedAt: time.Now().UTC(),
	}
	if info.Currency == "" {
		info.Currency = s.defaults.Currency
	}
	if err := s.settings.SaveSchoolInfo(ctx, info); err != nil {
		return nil, storageError(err)
	}
	return &info, nil
}

// GetRole returns the stored role, or "" when none or an unknown one is stored.
func (s *SchoolService) GetRole(ctx context.Context) (enum.Role, error) {
	raw, err := s.settings.GetRole(ctx)
	if err != nil {
		return "", err
	}
	role, _ := enum.ParseRole(raw)
	return role, nil
}

func (s *SchoolService) SetRole(ctx context.Context, raw string) (enum.Role, error) {
	role, ok := enum.ParseRole(raw)
	if !ok {
		return "", apperror.NewValidationError([]apperror.FieldError{{Field: "role", Message: "Role must be admin, accountant or teacher"}})
	}
	if err := s.settings.SetRole(ctx, string(role)); err != nil {
		return "", storageError(err)
	}
	return role, nil
}
