// Package apperr defines the error kinds shared across folio packages.
package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrTransportFailure   = errors.New("transport failure")
)
