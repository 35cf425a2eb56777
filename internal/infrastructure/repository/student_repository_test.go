package repository

import (
	"context"
	"testing"

	"github.com/sangkips/schoolfees-api/internal/domain/entity"
	"github.com/sangkips/schoolfees-api/internal/infrastructure/kvstore"
	"github.com/sangkips/schoolfees-api/pkg/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStudentRepository_CaseInsensitiveLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(kvstore.NewMemoryStore(0), nil, zap.NewNop())

	_, err := repo.Create(ctx, entity.Student{StudentID: "S-1001", Name: "Rahim"})
	require.NoError(t, err)

	st, err := repo.GetByID(ctx, "s-1001")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "Rahim", st.Name)

	ok, err := repo.Delete(ctx, "S-1001 ")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStudentRepository_SetFeesDue(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus(zap.NewNop())
	published := 0
	bus.Subscribe(events.StudentsUpdated, func(string) { published++ })

	repo := NewStudentRepository(kvstore.NewMemoryStore(0), bus, zap.NewNop())
	_, err := repo.Create(ctx, entity.Student{StudentID: "S-1"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, entity.Student{StudentID: "S-2"})
	require.NoError(t, err)
	published = 0

	changed, err := repo.SetFeesDue(ctx, map[string]decimal.Decimal{"s-1": decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	assert.Equal(t, 1, published)

	st, err := repo.GetByID(ctx, "S-1")
	require.NoError(t, err)
	assert.True(t, st.FeesDue.Equal(decimal.NewFromInt(500)))

	changed, err = repo.SetFeesDue(ctx, map[string]decimal.Decimal{"s-1": decimal.NewFromInt(500)})
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, 1, published, "unchanged dues publish nothing")
}
