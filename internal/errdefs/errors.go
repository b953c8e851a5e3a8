package errdefs

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrUnauthenticated  = errors.New("authentication error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrUnavailable      = errors.New("upstream unavailable")
)
