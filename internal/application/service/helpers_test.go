package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/internal/infrastructure/kvstore"
	infraRepo "github.com/sangkips/schoolfees-api/internal/infrastructure/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
	"github.com/sangkips/schoolfees-api/pkg/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var sixA = entity.Dimensions{Class: "Six", Group: "General", Section: "A", Session: "2025"}

// testEnv wires the services over one in-memory store, the same way main does.
type testEnv struct {
	ctx   context.Context
	store *kvstore.MemoryStore
	bus   *events.Bus
	clock Clock

	feeTypes    repository.FeeTypeRepository
	discounts   repository.DiscountRepository
	students    repository.StudentRepository
	collections repository.CollectionRepository
	attempts    repository.PaymentAttemptRepository
	settings    repository.SettingsRepository

	resolver      *FeeResolver
	overdue       *OverdueAggregator
	collectionSvc *CollectionService
	studentSvc    *StudentService
	schoolSvc     *SchoolService
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	log := zap.NewNop()
	e := &testEnv{
		ctx:   context.Background(),
		store: kvstore.NewMemoryStore(0),
		bus:   events.NewBus(log),
		clock: FixedClock(now),
	}
	e.feeTypes = infraRepo.NewFeeTypeRepository(e.store, e.bus, log)
	e.discounts = infraRepo.NewDiscountRepository(e.store, e.bus, log)
	e.students = infraRepo.NewStudentRepository(e.store, e.bus, log)
	e.collections = infraRepo.NewCollectionRepository(e.store, e.bus, log)
	e.attempts = infraRepo.NewPaymentAttemptRepository(e.store, e.bus, log)
	e.settings = infraRepo.NewSettingsRepository(e.store, e.bus, log)

	e.resolver = NewFeeResolver(e.feeTypes, e.discounts, e.students, e.clock, log)
	e.overdue = NewOverdueAggregator(e.collections)
	e.collectionSvc = NewCollectionService(e.collections, e.students, e.resolver, e.overdue, e.clock, log)
	e.studentSvc = NewStudentService(e.students, e.collections, log)
	e.schoolSvc = NewSchoolService(e.settings, entity.SchoolInfo{Name: "Green Valley School", Currency: "BDT"})

	t.Cleanup(e.studentSvc.Subscribe(e.bus))
	return e
}

func (e *testEnv) addFeeType(t *testing.T, name string, amount int64) {
	t.Helper()
	_, err := e.feeTypes.Append(e.ctx, entity.FeeType{
		Dimensions: sixA,
		FeesType:   name,
		FeesAmount: decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
}

func (e *testEnv) addStudent(t *testing.T, id, name string) {
	t.Helper()
	_, err := e.students.Create(e.ctx, entity.Student{
		StudentID: id,
		Name:      name,
		ClassName: sixA.Class,
		Group:     sixA.Group,
		Section:   sixA.Section,
		Session:   sixA.Session,
		FeesDue:   decimal.Zero,
	})
	require.NoError(t, err)
}

func (e *testEnv) feesDue(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	st, err := e.students.GetByID(e.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, st)
	return st.FeesDue
}

func draftFor(studentID string, paid int64, fees ...string) entity.CollectionDraft {
	return entity.CollectionDraft{
		StudentID:     studentID,
		Dimensions:    sixA,
		FeesType:      fees,
		PaidAmount:    decimal.NewFromInt(paid),
		PaymentMethod: enum.PaymentMethodCash,
	}
}

func assertAmount(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, decimal.NewFromInt(want).Equal(got), "%s: want %d, got %s", field, want, got)
}

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

func fieldNames(appErr *apperror.AppError) []string {
	out := make([]string, 0, len(appErr.Errors))
	for _, fe := range appErr.Errors {
		out = append(out, fe.Field)
	}
	return out
}
