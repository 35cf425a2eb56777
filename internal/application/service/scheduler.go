package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/logger"
	"go.uber.org/zap"
)

// SchedulerSpecs holds the cron expressions of the maintenance jobs. An
// empty spec disables its job.
type SchedulerSpecs struct {
	Reconcile      string
	ExpirePayments string
	IdempotencyGC  string
}

// Scheduler runs periodic maintenance: resyncing students' feesDue, failing
// abandoned payment attempts and dropping expired idempotency keys.
type Scheduler struct {
	cron        *cron.Cron
	students    *StudentService
	payments    *PaymentService
	idempotency repository.IdempotencyRepository
	clock       Clock
	timeout     time.Duration
	log         *zap.Logger
}

func NewScheduler(
	students *StudentService,
	payments *PaymentService,
	idempotency repository.IdempotencyRepository,
	clock Clock,
	log *zap.Logger,
) *Scheduler {
	log = logger.OrNop(log)
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(clock.Now().Location()),
			cron.WithChain(cron.Recover(cronLogger{log}), cron.SkipIfStillRunning(cronLogger{log})),
		),
		students:    students,
		payments:    payments,
		idempotency: idempotency,
		clock:       clock,
		timeout:     2 * time.Minute,
		log:         log,
	}
}

// Register adds the jobs for specs. It fails on an invalid expression.
func (s *Scheduler) Register(specs SchedulerSpecs) error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) (int, error)
	}{
		{"reconcile_fees_due", specs.Reconcile, s.ReconcileFeesDue},
		{"expire_payments", specs.ExpirePayments, s.ExpirePayments},
		{"idempotency_gc", specs.IdempotencyGC, s.PurgeIdempotencyKeys},
	}
	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		j := j
		if _, err := s.cron.AddFunc(j.spec, func() { s.run(j.name, j.run) }); err != nil {
			return err
		}
		s.log.Info("scheduled job", zap.String("job", j.name), zap.String("spec", j.spec))
	}
	return nil
}

func (s *Scheduler) run(name string, fn func(context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := fn(ctx)
	if err != nil {
		s.log.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
		return
	}
	s.log.Info("scheduled job done", zap.String("job", name), zap.Int("affected", n), zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) ReconcileFeesDue(ctx context.Context) (int, error) {
	return s.students.SyncFeesDue(ctx)
}

func (s *Scheduler) ExpirePayments(ctx context.Context) (int, error) {
	return s.payments.ExpireStale(ctx)
}

func (s *Scheduler) PurgeIdempotencyKeys(ctx context.Context) (int, error) {
	return s.idempotency.DeleteExpired(ctx, s.clock.Now())
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().With(zap.Error(err)).Errorw(msg, keysAndValues...)
}
