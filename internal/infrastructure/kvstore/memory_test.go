package kvstore

import (
	"context"
	"testing"

	domainRepo "github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	v, err := s.Get(ctx, "students")
	require.NoError(t, err)
	assert.Nil(t, v, "absent key reads as nil")

	require.NoError(t, s.Set(ctx, "students", []byte(`[]`)))
	v, err = s.Get(ctx, "students")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(v))

	v[0] = 'x'
	again, _ := s.Get(ctx, "students")
	assert.Equal(t, `[]`, string(again), "callers get a copy")

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"students"}, keys)

	require.NoError(t, s.Delete(ctx, "students"))
	assert.Zero(t, s.Size())
}

func TestMemoryStore_Quota(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(20)

	require.NoError(t, s.Set(ctx, "k", []byte("0123456789")))
	assert.Equal(t, 11, s.Size())

	err := s.Set(ctx, "other", []byte("0123456789"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainRepo.ErrQuotaExceeded)
	assert.Equal(t, 11, s.Size(), "a refused write changes nothing")

	// replacing a value only counts the difference
	require.NoError(t, s.Set(ctx, "k", []byte("0123456789012345678")))
	assert.Equal(t, 20, s.Size())
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore(0)
	assert.ErrorIs(t, s.Set(ctx, "k", []byte("v")), context.Canceled)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}
