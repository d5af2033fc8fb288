package models

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the store and graph builder.
var (
	ErrUpstream = errors.New("upstream error")
	ErrCache    = errors.New("cache error")
	ErrData     = errors.New("data error")
)

// Sentinel errors for lookups and input validation.
var (
	ErrSongNotFound  = errors.New("song not found")
	ErrInvalidDegree = errors.New("invalid degree")
)

// Error tags a failure with its kind and the operation that produced it.
type Error struct {
	Kind error
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}

	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// UpstreamError wraps a data source failure.
func UpstreamError(op string, err error) error {
	return &Error{Kind: ErrUpstream, Op: op, Err: err}
}

// CacheError wraps a cache backend failure.
func CacheError(op string, err error) error {
	return &Error{Kind: ErrCache, Op: op, Err: err}
}

// DataError wraps a (de)serialization failure.
func DataError(op string, err error) error {
	return &Error{Kind: ErrData, Op: op, Err: err}
}

// KindOf returns the error kind name, or "unknown".
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrCache):
		return "cache"
	case errors.Is(err, ErrData):
		return "data"
	default:
		return "unknown"
	}
}
