// Package errs defines the sentinel error values returned across logos's
// public API. Callers should match on these with errors.Is rather than on
// error strings.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURI is returned when a store URI does not match any known scheme.
	ErrInvalidURI = errors.New("logos: invalid store uri")

	// ErrStoreIO wraps a failure reported by a KV backend.
	ErrStoreIO = errors.New("logos: store io error")

	// ErrNotFound is returned when a content-addressed key has no blob in the store.
	ErrNotFound = errors.New("logos: not found")

	// ErrInvalidAttribute is returned when a query or transaction names an
	// attribute with no entry in the ident map.
	ErrInvalidAttribute = errors.New("logos: invalid attribute")

	// ErrTypeMismatch is returned when a bound variable's value disagrees in
	// kind with the position it is substituted into.
	ErrTypeMismatch = errors.New("logos: type mismatch")

	// ErrUnimplemented is returned by operations this version of the database
	// does not support, such as retraction.
	ErrUnimplemented = errors.New("logos: unimplemented")
)

// NotFound wraps ErrNotFound with the offending key.
func NotFound(key string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}

// InvalidAttribute wraps ErrInvalidAttribute with the offending name.
func InvalidAttribute(name string) error {
	return fmt.Errorf("%w: %s", ErrInvalidAttribute, name)
}

// StoreIO wraps ErrStoreIO with the failing operation and underlying cause.
func StoreIO(op string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreIO, op, cause)
}
