package service

import (
	"context"
	"sort"
	"strings"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
	"github.com/sangkips/schoolfees-api/pkg/logger"
	"github.com/sangkips/schoolfees-api/pkg/pagination"
	"github.com/sangkips/schoolfees-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CollectionService takes fee payments: it prices a draft, validates it and
// stores the resulting collection.
type CollectionService struct {
	collections repository.CollectionRepository
	students    repository.StudentRepository
	resolver    *FeeResolver
	overdue     *OverdueAggregator
	clock       Clock
	log         *zap.Logger
}

// NewCollectionService creates a new collection service
func NewCollectionService(
	collections repository.CollectionRepository,
	students repository.StudentRepository,
	resolver *FeeResolver,
	overdue *OverdueAggregator,
	clock Clock,
	log *zap.Logger,
) *CollectionService {
	return &CollectionService{
		collections: collections,
		students:    students,
		resolver:    resolver,
		overdue:     overdue,
		clock:       clock,
		log:         logger.OrNop(log),
	}
}

// Quote is every derived value of a collection form for its current inputs.
type Quote struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	entity.Dimensions
	FeesType           entity.FeeTypeList         `json:"fees_type"`
	Lines              []ResolvedFee              `json:"lines"`
	FeesAmounts        map[string]decimal.Decimal `json:"fees_amounts"`
	Unresolved         []string                   `json:"unresolved"`
	TotalPayable       decimal.Decimal            `json:"total_payable"`
	StudentExistingDue decimal.Decimal            `json:"student_existing_due"`
	OverdueAmount      decimal.Decimal            `json:"overdue_amount"`
	PaidAmount         decimal.Decimal            `json:"paid_amount"`
	Balances
	// RequiresConfirmation is set when a balance remains after payment.
	RequiresConfirmation bool `json:"requires_confirmation"`
}

// Quote recomputes every derived field of draft. It has no side effects and
// is meant to be called on each change of the form.
func (s *CollectionService) Quote(ctx context.Context, draft entity.CollectionDraft) (*Quote, error) {
	return s.quote(ctx, draft, 0)
}

// quote prices draft; exceptSL leaves that saved collection out of the overdue
// sum so an edit is not counted against itself.
func (s *CollectionService) quote(ctx context.Context, draft entity.CollectionDraft, exceptSL int64) (*Quote, error) {
	studentID := strings.TrimSpace(draft.StudentID)
	dims := draft.Dimensions.Normalize()
	selected := draft.FeesType.Unique()

	fees, err := s.resolver.Resolve(ctx, dims, selected, studentID)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		StudentID:          studentID,
		Dimensions:         dims,
		FeesType:           selected,
		Lines:              fees.Lines,
		FeesAmounts:        fees.Amounts,
		Unresolved:         fees.Unresolved,
		TotalPayable:       fees.Total,
		StudentExistingDue: decimal.Zero,
		OverdueAmount:      decimal.Zero,
		PaidAmount:         draft.PaidAmount,
	}

	if studentID != "" {
		q.OverdueAmount, err = s.overdue.OverdueExcept(ctx, studentID, dims, exceptSL)
		if err != nil {
			return nil, err
		}

		student, err := s.students.GetByID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		if student != nil {
			q.StudentName = student.Name
			// feesDue covers every scope; what this scope owes is already
			// in the overdue sum.
			scopeDue, err := s.overdue.Overdue(ctx, studentID, dims)
			if err != nil {
				return nil, err
			}
			q.StudentExistingDue = decimal.Max(decimal.Zero, student.FeesDue.Sub(scopeDue))
		}
	}

	q.Balances = ComputeBalances(BalanceInput{
		TotalPayable:       q.TotalPayable,
		PaidAmount:         q.PaidAmount,
		StudentExistingDue: q.StudentExistingDue,
		OverdueAmount:      q.OverdueAmount,
	})
	q.RequiresConfirmation = q.TotalDue.IsPositive()
	return q, nil
}

// ValidateDraft reports every blocking problem with draft at once.
func ValidateDraft(draft entity.CollectionDraft, q *Quote) error {
	var errs apperror.FieldErrors
	if strings.TrimSpace(draft.StudentID) == "" {
		errs.Add("student_id", "Student ID is required")
	}
	if len(draft.FeesType.Unique()) == 0 && (q == nil || !q.StudentExistingDue.Add(q.OverdueAmount).IsPositive()) {
		errs.Add("fees_type", "Select at least one fee type when there is no due to collect")
	}
	if !draft.PaidAmount.IsPositive() {
		errs.Add("paid_amount", "Paid amount must be greater than zero")
	}
	switch {
	case strings.TrimSpace(string(draft.PaymentMethod)) == "":
		errs.Add("payment_method", "Payment method is required")
	case !draft.PaymentMethod.IsValid():
		errs.Add("payment_method", "Unknown payment method")
	}
	return errs.Err()
}

// Prepare prices and validates draft for saving. A draft that leaves money
// owing is refused with a 428 carrying the quote until it is resubmitted
// with Confirmed set.
func (s *CollectionService) Prepare(ctx context.Context, draft *entity.CollectionDraft) (*Quote, error) {
	draft.StudentID = strings.TrimSpace(draft.StudentID)
	draft.PaymentMethod, _ = enum.ParsePaymentMethod(string(draft.PaymentMethod))

	q, err := s.Quote(ctx, *draft)
	if err != nil {
		return nil, err
	}
	if err := ValidateDraft(*draft, q); err != nil {
		return q, err
	}
	if q.RequiresConfirmation && !draft.Confirmed {
		return q, apperror.NewConfirmationRequiredError("A balance remains after this payment; resubmit with confirmed=true to save it", q)
	}
	return q, nil
}

// Submit validates draft and stores it as a new collection.
func (s *CollectionService) Submit(ctx context.Context, draft entity.CollectionDraft) (*entity.Collection, *Quote, error) {
	q, err := s.Prepare(ctx, &draft)
	if err != nil {
		return nil, q, err
	}
	c, err := s.persist(ctx, draft, q, "")
	if err != nil {
		return nil, q, err
	}
	return c, q, nil
}

// SubmitForAttempt stores the collection paid by a succeeded payment
// attempt. Amounts are recomputed against the current state of the store.
// A collection already stored for the attempt is returned as is.
func (s *CollectionService) SubmitForAttempt(ctx context.Context, attemptID string, draft entity.CollectionDraft) (*entity.Collection, error) {
	existing, err := s.collections.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].PaymentAttemptID == attemptID {
			return &existing[i], nil
		}
	}

	q, err := s.Quote(ctx, draft)
	if err != nil {
		return nil, err
	}
	return s.persist(ctx, draft, q, attemptID)
}

func (s *CollectionService) persist(ctx context.Context, draft entity.CollectionDraft, q *Quote, attemptID string) (*entity.Collection, error) {
	payDate := draft.PayDate
	if payDate.IsZero() {
		payDate = today(s.clock)
	}

	c, err := s.collections.Add(ctx, entity.Collection{
		StudentID:        q.StudentID,
		Dimensions:       q.Dimensions,
		FeesType:         q.FeesType,
		FeesAmounts:      q.FeesAmounts,
		TotalPayable:     q.TotalPayable,
		PayableDue:       q.PayableDue,
		TotalDue:         q.TotalDue,
		PaidAmount:       q.PaidAmount,
		PaymentMethod:    draft.PaymentMethod,
		PayDate:          payDate,
		PaymentAttemptID: attemptID,
	})
	if err != nil {
		return nil, storageError(err)
	}
	return c, nil
}

// GetCollection returns the collection with serial or id key.
func (s *CollectionService) GetCollection(ctx context.Context, key string) (*entity.Collection, error) {
	c, err := s.collections.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NewNotFoundError("Collection")
	}
	return c, nil
}

// CollectionFilter narrows ListCollections. Empty fields match everything.
type CollectionFilter struct {
	StudentID     string
	Class         string
	Group         string
	Section       string
	Session       string
	PaymentMethod string
	From          entity.Date
	To            entity.Date
	// OnlyDue keeps collections that still carry a positive total_due.
	OnlyDue bool
}

func (f CollectionFilter) match(c entity.Collection) bool {
	if f.StudentID != "" && !utils.SameID(c.StudentID, f.StudentID) {
		return false
	}
	if !matchField(c.Class, f.Class) || !matchField(c.Group, f.Group) ||
		!matchField(c.Section, f.Section) || !matchField(c.Session, f.Session) {
		return false
	}
	if f.PaymentMethod != "" && !strings.EqualFold(string(c.PaymentMethod), strings.TrimSpace(f.PaymentMethod)) {
		return false
	}
	if !f.From.IsZero() && c.PayDate.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && c.PayDate.After(f.To) {
		return false
	}
	if f.OnlyDue && !c.TotalDue.IsPositive() {
		return false
	}
	return true
}

func matchField(value, want string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.TrimSpace(value) == want
}

// CollectionSummary totals the filtered collections.
type CollectionSummary struct {
	Count        int             `json:"count"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPayable decimal.Decimal `json:"total_payable"`
}

// ListCollections returns the filtered collections newest first.
func (s *CollectionService) ListCollections(ctx context.Context, filter CollectionFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Collection], *CollectionSummary, error) {
	items, err := s.collections.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	matched := make([]entity.Collection, 0, len(items))
	summary := &CollectionSummary{TotalPaid: decimal.Zero, TotalPayable: decimal.Zero}
	for _, c := range items {
		if !filter.match(c) {
			continue
		}
		matched = append(matched, c)
		summary.Count++
		summary.TotalPaid = summary.TotalPaid.Add(c.PaidAmount)
		summary.TotalPayable = summary.TotalPayable.Add(c.TotalPayable)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].SL > matched[j].SL })

	return pagination.Paginate(matched, params), summary, nil
}

// UpdateCollectionInput holds the editable fields of a saved collection.
// Derived amounts are recomputed, never taken from the caller.
type UpdateCollectionInput struct {
	StudentID     *string
	Class         *string
	Group         *string
	Section       *string
	Session       *string
	FeesType      *entity.FeeTypeList
	PaidAmount    *decimal.Decimal
	PaymentMethod *string
	PayDate       *entity.Date
}

func (in UpdateCollectionInput) touchesMoney() bool {
	return in.StudentID != nil || in.Class != nil || in.Group != nil || in.Section != nil ||
		in.Session != nil || in.FeesType != nil || in.PaidAmount != nil
}

// UpdateCollection edits a saved collection. Changing the student, scope,
// fee selection or paid amount recomputes every derived amount.
func (s *CollectionService) UpdateCollection(ctx context.Context, key string, in UpdateCollectionInput) (*entity.Collection, error) {
	existing, err := s.GetCollection(ctx, key)
	if err != nil {
		return nil, err
	}

	var errs apperror.FieldErrors
	if in.StudentID != nil && strings.TrimSpace(*in.StudentID) == "" {
		errs.Add("student_id", "Student ID cannot be empty")
	}
	if in.PaidAmount != nil && !in.PaidAmount.IsPositive() {
		errs.Add("paid_amount", "Paid amount must be greater than zero")
	}
	var method *enum.PaymentMethod
	if in.PaymentMethod != nil {
		m, ok := enum.ParsePaymentMethod(*in.PaymentMethod)
		if !ok {
			errs.Add("payment_method", "Unknown payment method")
		}
		method = &m
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	patch := entity.CollectionPatch{
		StudentID:     in.StudentID,
		Class:         in.Class,
		Group:         in.Group,
		Section:       in.Section,
		Session:       in.Session,
		FeesType:      in.FeesType,
		PaidAmount:    in.PaidAmount,
		PaymentMethod: method,
		PayDate:       in.PayDate,
	}

	if in.touchesMoney() {
		merged := *existing
		patch.Apply(&merged)
		q, err := s.quote(ctx, entity.CollectionDraft{
			StudentID:  merged.StudentID,
			Dimensions: merged.Dimensions,
			FeesType:   merged.FeesType,
			PaidAmount: merged.PaidAmount,
		}, existing.SL)
		if err != nil {
			return nil, err
		}
		patch.FeesAmounts = q.FeesAmounts
		patch.TotalPayable = &q.TotalPayable
		patch.PayableDue = &q.PayableDue
		patch.TotalDue = &q.TotalDue
	}

	if patch.IsEmpty() {
		return existing, nil
	}

	updated, err := s.collections.Update(ctx, key, patch)
	if err != nil {
		return nil, storageError(err)
	}
	if updated == nil {
		return nil, apperror.NewNotFoundError("Collection")
	}
	s.log.Info("collection updated", zap.Int64("sl", updated.SL), zap.Bool("recomputed", in.touchesMoney()))
	return updated, nil
}

// DeleteCollection removes a collection by serial or id.
func (s *CollectionService) DeleteCollection(ctx context.Context, key string) error {
	removed, err := s.collections.Remove(ctx, key)
	if err != nil {
		return storageError(err)
	}
	if !removed {
		return apperror.NewNotFoundError("Collection")
	}
	return nil
}
