package auth

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPendingApproval    = errors.New("account pending approval")
	ErrNotFound           = errors.New("account not found")
)

// RejectedAccountError carries the administrator's rejection reason so the
// login response can surface it to the worker.
type RejectedAccountError struct {
	Reason string
}

func (e *RejectedAccountError) Error() string {
	return fmt.Sprintf("account rejected: %s", e.Reason)
}
