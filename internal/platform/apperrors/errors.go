package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNoData       = errors.New("no data recorded")
	ErrUnsupported  = errors.New("unsupported on this platform")
)
