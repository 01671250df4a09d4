package database

import (
	"database/sql/driver"
	"errors"

	"github.com/lib/pq"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// storageError distinguishes an unreachable database from a query failure so
// callers can tell a retryable outage apart from a bug.
func storageError(message string, err error) *apperrors.AppError {
	if isConnectionError(err) {
		return apperrors.NewUnavailableError(message, err)
	}
	return apperrors.NewInternalError(message, err)
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exception. Class 57: operator intervention
		// (shutdown, crash).
		class := pqErr.Code.Class()
		return class == "08" || class == "57"
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
