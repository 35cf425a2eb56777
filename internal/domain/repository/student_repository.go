package repository

import (
	"context"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StudentRepository defines student data access. Lookups by id ignore case.
type StudentRepository interface {
	List(ctx context.Context) ([]entity.Student, error)
	GetByID(ctx context.Context, studentID string) (*entity.Student, error)
	Create(ctx context.Context, s entity.Student) (*entity.Student, error)
	Update(ctx context.Context, s entity.Student) (*entity.Student, error)
	Delete(ctx context.Context, studentID string) (bool, error)
	// SetFeesDue writes the given dues, keyed by lower-cased student id, and
	// reports how many students changed.
	SetFeesDue(ctx context.Context, dues map[string]decimal.Decimal) (int, error)
}
