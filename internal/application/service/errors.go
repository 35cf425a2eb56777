package service

import (
	"errors"
	"net/http"

	"github.com/sangkips/schoolfees-api/internal/domain/repository"
	"github.com/sangkips/schoolfees-api/pkg/apperror"
)

// storageError turns a failed store write into a 507 for the client. Other
// errors pass through unchanged.
func storageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrStorageWrite) {
		msg := apperror.ErrStorageUnavailable.Message
		if errors.Is(err, repository.ErrQuotaExceeded) {
			msg = "Local storage quota exceeded"
		}
		return &apperror.AppError{Code: http.StatusInsufficientStorage, Message: msg}
	}
	return err
}
