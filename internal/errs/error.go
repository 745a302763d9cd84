package errs

import (
	"errors"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrUnavailable          = errors.New("no copies available")
	ErrDuplicateReservation = errors.New("pending reservation already exists")
	ErrInvalidTransition    = errors.New("reservation is not pending")
	ErrInvariantViolation   = errors.New("available copies out of bounds")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)
