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

type studentRepository struct {
	mu  sync.Mutex
	doc listDocument[entity.Student]
	pub events.Publisher
	log *zap.Logger
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(kv domainRepo.KVStore, pub events.Publisher, log *zap.Logger) domainRepo.StudentRepository {
	if log == nil {
		log = zap.NewNop()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &studentRepository{
		doc: newListDocument[entity.Student](kv, domainRepo.KeyStudents, log),
		pub: pub,
		log: log,
	}
}

func (r *studentRepository) List(ctx context.Context) ([]entity.Student, error) {
	return r.doc.load(ctx)
}

func (r *studentRepository) GetByID(ctx context.Context, studentID string) (*entity.Student, error) {
	items, err := r.doc.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOfStudent(items, studentID); i >= 0 {
		return &items[i], nil
	}
	return nil, nil
}

func (r *studentRepository) Create(ctx context.Context, s entity.Student) (*entity.Student, error) {
	now := time.Now().UTC()
	s.StudentID = strings.TrimSpace(s.StudentID)
	s.CreatedAt = now
	s.UpdatedAt = now

	err := writeThenPublish(&r.mu, r.pub, events.StudentsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		return true, r.doc.save(ctx, append(items, s))
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) Update(ctx context.Context, s entity.Student) (*entity.Student, error) {
	var updated *entity.Student
	err := writeThenPublish(&r.mu, r.pub, events.StudentsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		i := indexOfStudent(items, s.StudentID)
		if i < 0 {
			return false, nil
		}

		s.StudentID = items[i].StudentID
		s.CreatedAt = items[i].CreatedAt
		s.UpdatedAt = time.Now().UTC()
		items[i] = s
		if err := r.doc.save(ctx, items); err != nil {
			return false, err
		}
		updated = &s
		return true, nil
	})
	return updated, err
}

func (r *studentRepository) Delete(ctx context.Context, studentID string) (bool, error) {
	var deleted bool
	err := writeThenPublish(&r.mu, r.pub, events.StudentsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}
		i := indexOfStudent(items, studentID)
		if i < 0 {
			return false, nil
		}
		if err := r.doc.save(ctx, append(items[:i], items[i+1:]...)); err != nil {
			return false, err
		}
		deleted = true
		return true, nil
	})
	return deleted, err
}

func (r *studentRepository) SetFeesDue(ctx context.Context, dues map[string]decimal.Decimal) (int, error) {
	changed := 0
	err := writeThenPublish(&r.mu, r.pub, events.StudentsUpdated, func() (bool, error) {
		items, err := r.doc.load(ctx)
		if err != nil {
			return false, err
		}

		now := time.Now().UTC()
		for i := range items {
			due := dues[strings.ToLower(strings.TrimSpace(items[i].StudentID))]
			if items[i].FeesDue.Equal(due) {
				continue
			}
			items[i].FeesDue = due
			items[i].UpdatedAt = now
			changed++
		}
		if changed == 0 {
			return false, nil
		}
		if err := r.doc.save(ctx, items); err != nil {
			changed = 0
			return false, err
		}
		return true, nil
	})
	if changed > 0 {
		r.log.Debug("student dues refreshed", zap.Int("changed", changed))
	}
	return changed, err
}

func indexOfStudent(items []entity.Student, studentID string) int {
	for i := range items {
		if utils.SameID(items[i].StudentID, studentID) {
			return i
		}
	}
	return -1
}
