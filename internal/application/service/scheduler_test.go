package service

import (
	"testing"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	infraRepo "github.com/sangkips/schoolfees-api/internal/infrastructure/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestScheduler(t *testing.T, e *testEnv) (*Scheduler, *PaymentService) {
	t.Helper()
	payments := NewPaymentService(PaymentServiceConfig{
		Attempts:    e.attempts,
		Collections: e.collectionSvc,
		Counter:     &fakeGateway{},
		Clock:       e.clock,
	})
	idem := infraRepo.NewIdempotencyRepository(e.store, zap.NewNop())
	return NewScheduler(e.studentSvc, payments, idem, e.clock, zap.NewNop()), payments
}

func TestScheduler_Register(t *testing.T) {
	e := newTestEnv(t, time.Now())
	s, _ := newTestScheduler(t, e)

	assert.Error(t, s.Register(SchedulerSpecs{Reconcile: "every now and then"}))
	assert.NoError(t, s.Register(SchedulerSpecs{Reconcile: "@every 5m", IdempotencyGC: "0 3 * * *"}))
	assert.Len(t, s.cron.Entries(), 2)

	s.Start()
	s.Stop()
}

func TestScheduler_ReconcileFeesDue(t *testing.T) {
	e := newTestEnv(t, time.Now())
	e.addStudent(t, "S-1001", "Rahim Uddin")
	s, _ := newTestScheduler(t, e)

	_, err := e.collections.Add(e.ctx, dueCollection(0, "S-1001", sixA, 750))
	require.NoError(t, err)
	// knock the cached value out of line behind the subscriber's back
	_, err = e.students.SetFeesDue(e.ctx, map[string]decimal.Decimal{"s-1001": decimal.NewFromInt(1)})
	require.NoError(t, err)

	n, err := s.ReconcileFeesDue(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assertAmount(t, 750, e.feesDue(t, "S-1001"), "feesDue")
}

func TestScheduler_PurgeIdempotencyKeys(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := newTestEnv(t, now)
	s, _ := newTestScheduler(t, e)

	for key, expires := range map[string]time.Time{
		"old":   now.Add(-time.Minute),
		"fresh": now.Add(time.Hour),
	} {
		require.NoError(t, s.idempotency.Create(e.ctx, entity.IdempotencyKey{
			Key: key, Client: "10.0.0.1", Endpoint: "POST /api/v1/collections", ExpiresAt: expires,
		}))
	}

	n, err := s.PurgeIdempotencyKeys(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	kept, err := s.idempotency.GetByKey(e.ctx, "fresh", "10.0.0.1")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}
