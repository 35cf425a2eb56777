package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/internal/domain/gateway"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
	"github.com/sangkips/schoolfees-api/pkg/logger"
	"go.uber.org/zap"
)

// PaymentService moves payment attempts through
// idle -> initiated -> processing -> succeeded | failed
// and stores the collection of every succeeded attempt exactly once.
type PaymentService struct {
	mu          sync.Mutex
	attempts    repository.PaymentAttemptRepository
	collections *CollectionService
	online      gateway.Gateway
	counter     gateway.Gateway
	clock       Clock
	ttl         time.Duration
	currency    string
	log         *zap.Logger
}

// PaymentServiceConfig wires a PaymentService.
type PaymentServiceConfig struct {
	Attempts    repository.PaymentAttemptRepository
	Collections *CollectionService
	// Online takes card and online payments; Counter records everything
	// taken in person.
	Online     gateway.Gateway
	Counter    gateway.Gateway
	Clock      Clock
	AttemptTTL time.Duration
	Currency   string
	Log        *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(cfg PaymentServiceConfig) *PaymentService {
	if cfg.Online == nil {
		cfg.Online = cfg.Counter
	}
	if cfg.AttemptTTL <= 0 {
		cfg.AttemptTTL = 30 * time.Minute
	}
	return &PaymentService{
		attempts:    cfg.Attempts,
		collections: cfg.Collections,
		online:      cfg.Online,
		counter:     cfg.Counter,
		clock:       cfg.Clock,
		ttl:         cfg.AttemptTTL,
		currency:    cfg.Currency,
		log:         logger.OrNop(cfg.Log),
	}
}

func (s *PaymentService) gatewayFor(m enum.PaymentMethod) gateway.Gateway {
	if m.RequiresGateway() {
		return s.online
	}
	return s.counter
}

// Initiate validates draft the way a direct submit would, opens an attempt
// and charges it. Counter payments settle immediately; online payments
// return in processing with a redirect URL for the payer.
func (s *PaymentService) Initiate(ctx context.Context, draft entity.CollectionDraft) (*entity.PaymentAttempt, *Quote, error) {
	q, err := s.collections.Prepare(ctx, &draft)
	if err != nil {
		return nil, q, err
	}
	if draft.PaymentMethod.RequiresGateway() && !draft.PaidAmount.Equal(draft.PaidAmount.Truncate(0)) {
		return nil, q, apperror.NewValidationError([]apperror.FieldError{
			{Field: "paid_amount", Message: "Online payments must be a whole amount"},
		})
	}

	gw := s.gatewayFor(draft.PaymentMethod)
	attempt, err := s.attempts.Create(ctx, entity.PaymentAttempt{
		Draft:   draft,
		Amount:  draft.PaidAmount,
		Method:  draft.PaymentMethod,
		Status:  enum.PaymentStatusInitiated,
		Gateway: gw.Name(),
	})
	if err != nil {
		return nil, q, storageError(err)
	}

	items := make([]gateway.ChargeItem, 0, len(q.Lines))
	for _, l := range q.Lines {
		items = append(items, gateway.ChargeItem{Name: l.FeesType, Amount: l.Amount})
	}
	res, chargeErr := gw.Charge(ctx, gateway.ChargeRequest{
		AttemptID:   attempt.ID,
		Amount:      attempt.Amount,
		Currency:    s.currency,
		Method:      attempt.Method,
		StudentID:   q.StudentID,
		StudentName: q.StudentName,
		Items:       items,
	})
	if chargeErr != nil {
		s.log.Warn("payment charge failed", zap.String("attempt_id", attempt.ID), zap.String("gateway", gw.Name()), zap.Error(chargeErr))
		failed, err := s.transition(ctx, attempt.ID, gateway.Outcome{
			AttemptID:     attempt.ID,
			Status:        enum.PaymentStatusFailed,
			FailureReason: chargeErr.Error(),
		})
		if err != nil {
			return nil, q, err
		}
		return failed, q, &apperror.AppError{
			Code:    http.StatusBadGateway,
			Message: apperror.ErrPaymentGatewayFailed.Message,
			Data:    failed,
		}
	}

	attempt, err = s.transition(ctx, attempt.ID, gateway.Outcome{
		AttemptID:     attempt.ID,
		Status:        res.Status,
		Reference:     res.Reference,
		FailureReason: res.FailureReason,
	}, withRedirect(res.RedirectURL))
	return attempt, q, err
}

// Confirm records the final outcome of an attempt reported out of band,
// e.g. a cashier confirming a wallet transfer.
func (s *PaymentService) Confirm(ctx context.Context, attemptID string, succeeded bool, reference, reason string) (*entity.PaymentAttempt, error) {
	status := enum.PaymentStatusFailed
	if succeeded {
		status = enum.PaymentStatusSucceeded
	}
	return s.transition(ctx, attemptID, gateway.Outcome{
		AttemptID:     attemptID,
		Status:        status,
		Reference:     reference,
		FailureReason: reason,
	})
}

// HandleNotification applies a provider callback.
func (s *PaymentService) HandleNotification(ctx context.Context, n gateway.Notification) (*entity.PaymentAttempt, error) {
	out, err := s.online.Interpret(n)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) {
			return nil, apperror.NewAppError(http.StatusUnauthorized, "Invalid notification signature")
		}
		return nil, apperror.NewBadRequestError(err.Error())
	}
	if out.Status == enum.PaymentStatusProcessing {
		return s.GetAttempt(ctx, out.AttemptID)
	}
	if out.Status == enum.PaymentStatusSucceeded && !out.Amount.IsZero() {
		a, err := s.GetAttempt(ctx, out.AttemptID)
		if err != nil {
			return nil, err
		}
		if !out.Amount.Equal(a.Amount) {
			s.log.Warn("notified amount does not match attempt",
				zap.String("attempt_id", a.ID),
				zap.String("notified", out.Amount.String()),
				zap.String("expected", a.Amount.String()))
			out.Status = enum.PaymentStatusFailed
			out.FailureReason = "paid amount " + out.Amount.String() + " does not match " + a.Amount.String()
		}
	}
	return s.transition(ctx, out.AttemptID, *out)
}

type transitionOption func(*entity.PaymentAttempt)

func withRedirect(url string) transitionOption {
	return func(a *entity.PaymentAttempt) {
		if url != "" {
			a.RedirectURL = url
		}
	}
}

// transition moves an attempt to out.Status. Repeating the current terminal
// status is a no-op so retried callbacks are harmless. Reaching succeeded
// stores the collection.
func (s *PaymentService) transition(ctx context.Context, attemptID string, out gateway.Outcome, opts ...transitionOption) (*entity.PaymentAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NewNotFoundError("Payment attempt")
	}

	if a.Status == out.Status && a.Status.IsTerminal() {
		return a, nil
	}
	if a.Status != out.Status && !a.Status.CanTransition(out.Status) {
		return nil, &apperror.AppError{
			Code:    apperror.ErrInvalidStateChange.Code,
			Message: "Payment attempt cannot move from " + a.Status.String() + " to " + out.Status.String(),
		}
	}

	prev := a.Status
	a.Status = out.Status
	if out.Reference != "" {
		a.Reference = out.Reference
	}
	if out.FailureReason != "" {
		a.FailureReason = out.FailureReason
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.Status == enum.PaymentStatusSucceeded && a.CollectionSL == 0 {
		c, err := s.collections.SubmitForAttempt(ctx, a.ID, a.Draft)
		if err != nil {
			s.log.Error("collection for succeeded payment not stored", zap.String("attempt_id", a.ID), zap.Error(err))
			return nil, err
		}
		a.CollectionSL = c.SL
	}

	if err := s.attempts.Save(ctx, *a); err != nil {
		return nil, storageError(err)
	}

	s.log.Info("payment attempt moved",
		zap.String("attempt_id", a.ID),
		zap.String("from", prev.String()),
		zap.String("to", a.Status.String()),
		zap.Int64("collection_sl", a.CollectionSL))
	return a, nil
}

func (s *PaymentService) GetAttempt(ctx context.Context, id string) (*entity.PaymentAttempt, error) {
	a, err := s.attempts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperror.NewNotFoundError("Payment attempt")
	}
	return a, nil
}

// ListAttempts returns attempts newest first, optionally only in status.
func (s *PaymentService) ListAttempts(ctx context.Context, status *enum.PaymentStatus) ([]entity.PaymentAttempt, error) {
	items, err := s.attempts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.PaymentAttempt, 0, len(items))
	for _, a := range items {
		if status == nil || a.Status == *status {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ExpireStale fails every open attempt older than the attempt TTL and
// reports how many it closed.
func (s *PaymentService) ExpireStale(ctx context.Context) (int, error) {
	items, err := s.attempts.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := s.clock.Now().Add(-s.ttl)
	expired := 0
	for _, a := range items {
		if a.Status.IsTerminal() || !a.CreatedAt.Before(cutoff) {
			continue
		}
		if _, err := s.transition(ctx, a.ID, gateway.Outcome{
			AttemptID:     a.ID,
			Status:        enum.PaymentStatusFailed,
			FailureReason: "expired before completion",
		}); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}
