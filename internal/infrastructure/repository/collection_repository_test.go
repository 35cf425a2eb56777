package repository

import (
	"context"
	"testing"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/domain/enum"
	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/internal/infrastructure/kvstore"
	"github.com/sangkips/schoolfees-api/pkg/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type CollectionRepositorySuite struct {
	suite.Suite
	ctx    context.Context
	store  *kvstore.MemoryStore
	bus    *events.Bus
	repo   domainRepo.CollectionRepository
	events []string
}

func TestCollectionRepository(t *testing.T) {
	suite.Run(t, new(CollectionRepositorySuite))
}

func (s *CollectionRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = kvstore.NewMemoryStore(0)
	s.bus = events.NewBus(zap.NewNop())
	s.events = nil
	s.bus.SubscribeAll(func(name string) { s.events = append(s.events, name) })
	s.repo = NewCollectionRepository(s.store, s.bus, zap.NewNop())
}

func sampleCollection(studentID string, paid int64) entity.Collection {
	return entity.Collection{
		StudentID:     studentID,
		Dimensions:    entity.Dimensions{Class: "Six", Group: "General", Section: "A", Session: "2025"},
		FeesType:      entity.FeeTypeList{"Tuition Fee"},
		FeesAmounts:   map[string]decimal.Decimal{"Tuition Fee": decimal.NewFromInt(1500)},
		TotalPayable:  decimal.NewFromInt(1500),
		PaidAmount:    decimal.NewFromInt(paid),
		PaymentMethod: enum.PaymentMethodCash,
		PayDate:       entity.MustParseDate("2025-01-10"),
	}
}

func (s *CollectionRepositorySuite) TestListEmpty() {
	items, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.NotNil(items)
	s.Empty(items)
}

func (s *CollectionRepositorySuite) TestAddAssignsSerialsFromTheMaximum() {
	// a store that already holds serials 1, 2 and 5
	s.Require().NoError(s.store.Set(s.ctx, domainRepo.KeyCollections,
		[]byte(`[{"sl":1,"id":"a"},{"sl":2,"id":"b"},{"sl":5,"id":"c"}]`)))

	added, err := s.repo.Add(s.ctx, sampleCollection("S-1", 1000))
	s.Require().NoError(err)
	s.Equal(int64(6), added.SL)
	s.NotEmpty(added.ID)
	s.False(added.CreatedAt.IsZero())

	next, err := s.repo.Add(s.ctx, sampleCollection("S-2", 500))
	s.Require().NoError(err)
	s.Equal(int64(7), next.SL)
	s.NotEqual(added.ID, next.ID)

	s.Equal([]string{events.CollectionsUpdated, events.CollectionsUpdated}, s.events)
}

func (s *CollectionRepositorySuite) TestAddToEmptyStartsAtOne() {
	added, err := s.repo.Add(s.ctx, sampleCollection(" S-1 ", 1000))
	s.Require().NoError(err)
	s.Equal(int64(1), added.SL)
	s.Equal("S-1", added.StudentID)
}

func (s *CollectionRepositorySuite) TestGetByKey() {
	added, err := s.repo.Add(s.ctx, sampleCollection("S-1", 1000))
	s.Require().NoError(err)

	bySL, err := s.repo.GetByKey(s.ctx, "1")
	s.Require().NoError(err)
	s.Require().NotNil(bySL)
	s.Equal(added.ID, bySL.ID)

	byID, err := s.repo.GetByKey(s.ctx, added.ID)
	s.Require().NoError(err)
	s.Require().NotNil(byID)
	s.Equal(int64(1), byID.SL)

	missing, err := s.repo.GetByKey(s.ctx, "99")
	s.NoError(err)
	s.Nil(missing)
}

func (s *CollectionRepositorySuite) TestUpdate() {
	added, err := s.repo.Add(s.ctx, sampleCollection("S-1", 1000))
	s.Require().NoError(err)
	s.events = nil

	paid := decimal.NewFromInt(1200)
	method := enum.PaymentMethodNagad
	updated, err := s.repo.Update(s.ctx, "1", entity.CollectionPatch{PaidAmount: &paid, PaymentMethod: &method})
	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.True(updated.PaidAmount.Equal(paid))
	s.Equal(enum.PaymentMethodNagad, updated.PaymentMethod)
	s.Equal(added.ID, updated.ID)
	s.Equal(added.SL, updated.SL)
	s.Equal([]string{events.CollectionsUpdated}, s.events)

	missing, err := s.repo.Update(s.ctx, "42", entity.CollectionPatch{PaidAmount: &paid})
	s.NoError(err)
	s.Nil(missing)
	s.Len(s.events, 1, "no event for a missing record")
}

func (s *CollectionRepositorySuite) TestRemove() {
	_, err := s.repo.Add(s.ctx, sampleCollection("S-1", 1000))
	s.Require().NoError(err)
	s.events = nil

	removed, err := s.repo.Remove(s.ctx, "1")
	s.Require().NoError(err)
	s.True(removed)
	s.Equal([]string{events.CollectionsUpdated}, s.events)

	removed, err = s.repo.Remove(s.ctx, "1")
	s.Require().NoError(err)
	s.False(removed)
	s.Len(s.events, 1)
}

func (s *CollectionRepositorySuite) TestInitializeWithDefaults() {
	defaults := []entity.Collection{
		{SL: 3, StudentID: "S-1"},
		{StudentID: "S-2"},
		{StudentID: "S-3"},
	}
	seeded, err := s.repo.InitializeWithDefaults(s.ctx, defaults)
	s.Require().NoError(err)
	s.True(seeded)

	items, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(items, 3)
	s.Equal([]int64{3, 4, 5}, []int64{items[0].SL, items[1].SL, items[2].SL})
	for _, c := range items {
		s.NotEmpty(c.ID)
	}

	again, err := s.repo.InitializeWithDefaults(s.ctx, defaults)
	s.Require().NoError(err)
	s.False(again, "a store with data is not reseeded")
}

func (s *CollectionRepositorySuite) TestCorruptDocumentReadsAsEmpty() {
	s.Require().NoError(s.store.Set(s.ctx, domainRepo.KeyCollections, []byte(`{not json`)))

	items, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(items)

	added, err := s.repo.Add(s.ctx, sampleCollection("S-1", 1000))
	s.Require().NoError(err)
	s.Equal(int64(1), added.SL)
}

func (s *CollectionRepositorySuite) TestQuotaExceededIsAStorageWriteError() {
	store := kvstore.NewMemoryStore(64)
	repo := NewCollectionRepository(store, s.bus, zap.NewNop())
	s.events = nil

	_, err := repo.Add(s.ctx, sampleCollection("S-1", 1000))
	s.Require().Error(err)
	s.ErrorIs(err, domainRepo.ErrStorageWrite)
	s.ErrorIs(err, domainRepo.ErrQuotaExceeded)
	s.Empty(s.events, "failed writes publish nothing")

	items, err := repo.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *CollectionRepositorySuite) TestSubscriberMayReadBack() {
	var seen int
	s.bus.Subscribe(events.CollectionsUpdated, func(string) {
		items, err := s.repo.List(s.ctx)
		s.Require().NoError(err)
		seen = len(items)
	})

	_, err := s.repo.Add(s.ctx, sampleCollection("S-1", 1000))
	s.Require().NoError(err)
	s.Equal(1, seen)
}
