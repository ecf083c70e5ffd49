package admin

import "errors"

var (
	ErrNotFound      = errors.New("worker not found")
	ErrNotPending    = errors.New("worker is not in pending status")
	ErrMissingReason = errors.New("rejection reason is required")
)
