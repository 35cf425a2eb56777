package service

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
	"github.com/sangkips/schoolfees-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CollectionServiceSuite struct {
	suite.Suite
	env *testEnv
	svc *CollectionService
}

func TestCollectionService(t *testing.T) {
	suite.Run(t, new(CollectionServiceSuite))
}

func (s *CollectionServiceSuite) SetupTest() {
	s.env = newTestEnv(s.T(), time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC))
	s.env.addFeeType(s.T(), "Tuition Fee", 5000)
	s.env.addStudent(s.T(), "S-1001", "Rahim Uddin")
	s.svc = s.env.collectionSvc
}

func (s *CollectionServiceSuite) storedCount() int {
	items, err := s.env.collections.List(s.env.ctx)
	s.Require().NoError(err)
	return len(items)
}

// submitPartial stores a confirmed collection of 2000 against 5000 owed.
func (s *CollectionServiceSuite) submitPartial() *entity.Collection {
	d := draftFor("S-1001", 2000, "Tuition Fee")
	d.Confirmed = true
	c, _, err := s.svc.Submit(s.env.ctx, d)
	s.Require().NoError(err)
	return c
}

func (s *CollectionServiceSuite) TestQuoteHasNoSideEffects() {
	q, err := s.svc.Quote(s.env.ctx, draftFor("S-1001", 2000, "Tuition Fee"))
	s.Require().NoError(err)

	s.Equal("Rahim Uddin", q.StudentName)
	assertAmount(s.T(), 5000, q.TotalPayable, "total_payable")
	assertAmount(s.T(), 3000, q.PayableDue, "payable_due")
	assertAmount(s.T(), 3000, q.TotalDue, "total_due")
	assertAmount(s.T(), 2000, q.InTotal, "in_total")
	s.True(q.RequiresConfirmation)
	s.Zero(s.storedCount())
}

func (s *CollectionServiceSuite) TestSubmitAsksForConfirmationWhenDueRemains() {
	c, q, err := s.svc.Submit(s.env.ctx, draftFor("S-1001", 2000, "Tuition Fee"))
	appErr := requireAppError(s.T(), err, http.StatusPreconditionRequired)

	s.Nil(c)
	s.Require().NotNil(q)
	data, ok := appErr.Data.(*Quote)
	s.Require().True(ok, "428 must carry the quote")
	assertAmount(s.T(), 3000, data.TotalDue, "total_due")
	s.Zero(s.storedCount())
}

func (s *CollectionServiceSuite) TestConfirmedSubmitStoresAndUpdatesFeesDue() {
	c := s.submitPartial()

	s.Equal(int64(1), c.SL)
	s.NotEmpty(c.ID)
	s.Equal(entity.FeeTypeList{"Tuition Fee"}, c.FeesType)
	assertAmount(s.T(), 5000, c.FeesAmounts["Tuition Fee"], "fees_amounts")
	assertAmount(s.T(), 3000, c.TotalDue, "total_due")
	s.Equal("2025-06-01", c.PayDate.String(), "pay date defaults to today")
	assertAmount(s.T(), 3000, s.env.feesDue(s.T(), "S-1001"), "feesDue")
}

func (s *CollectionServiceSuite) TestFullPaymentNeedsNoConfirmation() {
	c, q, err := s.svc.Submit(s.env.ctx, draftFor("S-1001", 5000, "Tuition Fee"))
	s.Require().NoError(err)

	s.False(q.RequiresConfirmation)
	assertAmount(s.T(), 0, c.TotalDue, "total_due")
	assertAmount(s.T(), 0, s.env.feesDue(s.T(), "S-1001"), "feesDue")
}

func (s *CollectionServiceSuite) TestLaterQuoteCarriesOverdue() {
	s.submitPartial()

	q, err := s.svc.Quote(s.env.ctx, draftFor("S-1001", 3000))
	s.Require().NoError(err)
	assertAmount(s.T(), 3000, q.OverdueAmount, "overdue")
	// feesDue is fully explained by this scope's overdue
	assertAmount(s.T(), 0, q.StudentExistingDue, "existing_due")
	assertAmount(s.T(), 0, q.TotalPayable, "total_payable")
	assertAmount(s.T(), 0, q.TotalDue, "total_due")

	// with only an overdue to collect, no fee type is needed
	c, _, err := s.svc.Submit(s.env.ctx, draftFor("S-1001", 3000))
	s.Require().NoError(err)
	s.Equal(int64(2), c.SL)
	s.Empty(c.FeesType)
}

func (s *CollectionServiceSuite) TestValidationReportsEveryField() {
	_, _, err := s.svc.Submit(s.env.ctx, entity.CollectionDraft{})
	appErr := requireAppError(s.T(), err, http.StatusUnprocessableEntity)

	s.Equal([]string{"student_id", "fees_type", "paid_amount", "payment_method"}, fieldNames(appErr))
	s.Zero(s.storedCount())
}

func (s *CollectionServiceSuite) TestUnknownPaymentMethod() {
	d := draftFor("S-1001", 5000, "Tuition Fee")
	d.PaymentMethod = "Cheque"

	_, _, err := s.svc.Submit(s.env.ctx, d)
	appErr := requireAppError(s.T(), err, http.StatusUnprocessableEntity)
	s.Require().Len(appErr.Errors, 1)
	s.Equal("payment_method", appErr.Errors[0].Field)
	s.Equal("Unknown payment method", appErr.Errors[0].Message)
}

func (s *CollectionServiceSuite) TestPaymentMethodIsNormalized() {
	d := draftFor("S-1001", 5000, "Tuition Fee")
	d.PaymentMethod = " BKash "

	c, _, err := s.svc.Submit(s.env.ctx, d)
	s.Require().NoError(err)
	s.Equal(enum.PaymentMethodBkash, c.PaymentMethod)
}

func (s *CollectionServiceSuite) TestUpdateRecomputesWithoutCountingItself() {
	c := s.submitPartial()

	paid := decimal.NewFromInt(5000)
	updated, err := s.svc.UpdateCollection(s.env.ctx, "1", UpdateCollectionInput{PaidAmount: &paid})
	s.Require().NoError(err)

	s.Equal(c.ID, updated.ID)
	assertAmount(s.T(), 5000, updated.PaidAmount, "paid")
	assertAmount(s.T(), 0, updated.PayableDue, "payable_due")
	assertAmount(s.T(), 0, updated.TotalDue, "total_due")
	assertAmount(s.T(), 0, s.env.feesDue(s.T(), "S-1001"), "feesDue")
}

func (s *CollectionServiceSuite) TestUpdateRejectsBadInput() {
	s.submitPartial()

	zero := decimal.Zero
	method := "cheque"
	_, err := s.svc.UpdateCollection(s.env.ctx, "1", UpdateCollectionInput{PaidAmount: &zero, PaymentMethod: &method})
	appErr := requireAppError(s.T(), err, http.StatusUnprocessableEntity)
	s.Equal([]string{"paid_amount", "payment_method"}, fieldNames(appErr))

	_, err = s.svc.UpdateCollection(s.env.ctx, "99", UpdateCollectionInput{PaidAmount: &zero})
	requireAppError(s.T(), err, http.StatusNotFound)
}

func (s *CollectionServiceSuite) TestDeleteByIDAndSerial() {
	c := s.submitPartial()

	s.Require().NoError(s.svc.DeleteCollection(s.env.ctx, c.ID))
	assertAmount(s.T(), 0, s.env.feesDue(s.T(), "S-1001"), "feesDue")

	err := s.svc.DeleteCollection(s.env.ctx, "1")
	requireAppError(s.T(), err, http.StatusNotFound)
}

func (s *CollectionServiceSuite) TestListFiltersAndSummarizes() {
	s.env.addStudent(s.T(), "S-1002", "Nusrat Jahan")
	s.submitPartial()
	_, _, err := s.svc.Submit(s.env.ctx, draftFor("S-1002", 5000, "Tuition Fee"))
	s.Require().NoError(err)

	page, summary, err := s.svc.ListCollections(s.env.ctx, CollectionFilter{}, pagination.DefaultPagination())
	s.Require().NoError(err)
	s.Require().Len(page.Items, 2)
	s.Equal(int64(2), page.Items[0].SL, "newest first")
	s.Equal(2, summary.Count)
	assertAmount(s.T(), 7000, summary.TotalPaid, "total_paid")

	page, summary, err = s.svc.ListCollections(s.env.ctx, CollectionFilter{OnlyDue: true}, pagination.DefaultPagination())
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal("S-1001", page.Items[0].StudentID)
	s.Equal(1, summary.Count)
}

func (s *CollectionServiceSuite) TestGetCollectionNotFound() {
	_, err := s.svc.GetCollection(s.env.ctx, "42")
	requireAppError(s.T(), err, http.StatusNotFound)
}

func TestStorageError(t *testing.T) {
	err := storageError(fmt.Errorf("%w: %w", repository.ErrStorageWrite, repository.ErrQuotaExceeded))
	appErr := requireAppError(t, err, http.StatusInsufficientStorage)
	assert.Equal(t, "Local storage quota exceeded", appErr.Message)

	err = storageError(fmt.Errorf("%w: disk gone", repository.ErrStorageWrite))
	appErr = requireAppError(t, err, http.StatusInsufficientStorage)
	assert.Equal(t, apperror.ErrStorageUnavailable.Message, appErr.Message)

	plain := errors.New("boom")
	assert.Same(t, plain, storageError(plain))
	assert.NoError(t, storageError(nil))
}
