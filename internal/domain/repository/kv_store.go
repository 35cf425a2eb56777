package repository

import (
	"context"
	"errors"
)

// Keys of the documents kept in the key-value store.
const (
	KeyDiscounts       = "fees"
	KeyFeeTypes        = "feeTypes"
	KeyStudents        = "students"
	KeyCollections     = "school_collections"
	KeyAdmitCards      = "generatedAdmitCards"
	KeySchoolInfo      = "schoolInfo"
	KeyRole            = "role"
	KeyPaymentAttempts = "payment_attempts"
	KeyIdempotency     = "idempotency_keys"
)

var (
	// ErrStorageWrite wraps every failed write to the store.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrQuotaExceeded is returned when a write would exceed the store quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// KVStore holds one JSON document per key. Get returns nil, nil for an
// absent key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
