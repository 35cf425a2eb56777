package service

import (
	"context"
	"sort"
	"strings"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
	"github.com/sangkips/schoolfees-api/pkg/events"
	"github.com/sangkips/schoolfees-api/pkg/logger"
	"github.com/sangkips/schoolfees-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StudentService handles student records and keeps their cached feesDue in
// step with the collections.
type StudentService struct {
	students    repository.StudentRepository
	collections repository.CollectionRepository
	log         *zap.Logger
}

// NewStudentService creates a new student service
func NewStudentService(students repository.StudentRepository, collections repository.CollectionRepository, log *zap.Logger) *StudentService {
	return &StudentService{students: students, collections: collections, log: logger.OrNop(log)}
}

// CreateStudentInput represents the create student input
type CreateStudentInput struct {
	StudentID     string
	Name          string
	ClassName     string
	Group         string
	Section       string
	Session       string
	Roll          string
	GuardianName  string
	GuardianPhone string
}

func (s *StudentService) CreateStudent(ctx context.Context, in CreateStudentInput) (*entity.Student, error) {
	var errs apperror.FieldErrors
	if strings.TrimSpace(in.StudentID) == "" {
		errs.Add("studentId", "Student ID is required")
	}
	if strings.TrimSpace(in.Name) == "" {
		errs.Add("name", "Name is required")
	}
	if strings.TrimSpace(in.ClassName) == "" {
		errs.Add("className", "Class is required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	existing, err := s.students.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewAppError(apperror.ErrConflict.Code, "A student with this ID already exists")
	}

	student, err := s.students.Create(ctx, entity.Student{
		StudentID:     in.StudentID,
		Name:          strings.TrimSpace(in.Name),
		ClassName:     strings.TrimSpace(in.ClassName),
		Group:         strings.TrimSpace(in.Group),
		Section:       strings.TrimSpace(in.Section),
		Session:       strings.TrimSpace(in.Session),
		Roll:          strings.TrimSpace(in.Roll),
		GuardianName:  strings.TrimSpace(in.GuardianName),
		GuardianPhone: strings.TrimSpace(in.GuardianPhone),
		FeesDue:       decimal.Zero,
	})
	if err != nil {
		return nil, storageError(err)
	}

	// A student created after their collections were imported picks up the dues.
	if _, err := s.SyncFeesDue(ctx); err != nil {
		s.log.Warn("fees due sync after student create failed", zap.Error(err))
	}
	return student, nil
}

// GetStudent retrieves a student by ID, ignoring case
func (s *StudentService) GetStudent(ctx context.Context, studentID string) (*entity.Student, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperror.NewNotFoundError("Student")
	}
	return student, nil
}

// StudentFilter narrows ListStudents. Search matches id or name.
type StudentFilter struct {
	Search    string
	ClassName string
	Section   string
	Session   string
	WithDue   bool
}

func (s *StudentService) ListStudents(ctx context.Context, filter StudentFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Student], error) {
	items, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]entity.Student, 0, len(items))
	for _, st := range items {
		if search != "" && !strings.Contains(strings.ToLower(st.StudentID), search) &&
			!strings.Contains(strings.ToLower(st.Name), search) {
			continue
		}
		if !matchField(st.ClassName, filter.ClassName) || !matchField(st.Section, filter.Section) ||
			!matchField(st.Session, filter.Session) {
			continue
		}
		if filter.WithDue && !st.FeesDue.IsPositive() {
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })

	return pagination.Paginate(out, params), nil
}

// UpdateStudentInput holds the editable student fields. Nil fields are kept.
type UpdateStudentInput struct {
	Name          *string
	ClassName     *string
	Group         *string
	Section       *string
	Session       *string
	Roll          *string
	GuardianName  *string
	GuardianPhone *string
}

func (s *StudentService) UpdateStudent(ctx context.Context, studentID string, in UpdateStudentInput) (*entity.Student, error) {
	student, err := s.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&student.Name, in.Name)
	set(&student.ClassName, in.ClassName)
	set(&student.Group, in.Group)
	set(&student.Section, in.Section)
	set(&student.Session, in.Session)
	set(&student.Roll, in.Roll)
	set(&student.GuardianName, in.GuardianName)
	set(&student.GuardianPhone, in.GuardianPhone)

	if student.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name cannot be empty"}})
	}

	updated, err := s.students.Update(ctx, *student)
	if err != nil {
		return nil, storageError(err)
	}
	if updated == nil {
		return nil, apperror.NewNotFoundError("Student")
	}
	return updated, nil
}

// DeleteStudent removes the student record. Their collections are kept.
func (s *StudentService) DeleteStudent(ctx context.Context, studentID string) error {
	deleted, err := s.students.Delete(ctx, studentID)
	if err != nil {
		return storageError(err)
	}
	if !deleted {
		return apperror.NewNotFoundError("Student")
	}
	return nil
}

// StudentDues sums total_due per student over collections, keyed by
// lower-cased student id.
func StudentDues(collections []entity.Collection) map[string]decimal.Decimal {
	dues := make(map[string]decimal.Decimal)
	for _, c := range collections {
		id := strings.ToLower(strings.TrimSpace(c.StudentID))
		if id == "" {
			continue
		}
		due, ok := dues[id]
		if !ok {
			due = decimal.Zero
		}
		dues[id] = due.Add(c.TotalDue)
	}
	return dues
}

// SyncFeesDue recomputes every student's feesDue from the collections and
// reports how many students changed.
func (s *StudentService) SyncFeesDue(ctx context.Context) (int, error) {
	items, err := s.collections.List(ctx)
	if err != nil {
		return 0, err
	}
	changed, err := s.students.SetFeesDue(ctx, StudentDues(items))
	if err != nil {
		return 0, storageError(err)
	}
	return changed, nil
}

// Subscribe keeps feesDue current by resyncing after every collection
// change. The returned function stops it.
func (s *StudentService) Subscribe(bus *events.Bus) func() {
	return bus.Subscribe(events.CollectionsUpdated, func(string) {
		if _, err := s.SyncFeesDue(context.Background()); err != nil {
			s.log.Error("fees due sync failed", zap.Error(err))
		}
	})
}
