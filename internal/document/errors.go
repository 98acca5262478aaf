package document

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrAlreadyInvoiced = errors.New("work order already invoiced")
)

// ValidationError reports a missing or malformed field, detected before any
// write begins.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a storage-layer failure inside a document transaction.
// The transaction is always rolled back before it propagates.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
