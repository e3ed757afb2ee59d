package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by the catalog and upstream clients when nothing exists for a key.
	// Image providers and the season walk treat it as a fallback/termination signal.
	ErrNotFound = errors.New("not found")

	// ErrIdentityUnresolvable means an upstream item carries no usable external id
	ErrIdentityUnresolvable = errors.New("identity unresolvable")

	// ErrUpsertFailed matches every *UpsertError
	ErrUpsertFailed = errors.New("upsert failed")

	// ErrTitleMismatch means a scraped release resolved to metadata for a different title
	ErrTitleMismatch = errors.New("title mismatch")

	// ErrUnknownSource is returned when a run is requested for a source nobody registered
	ErrUnknownSource = errors.New("unknown source")
)

// UpsertError reports a storage fault while writing a catalog entry
type UpsertError struct {
	Key string
	Err error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("upsert %s: %v", e.Key, e.Err)
}

func (e *UpsertError) Unwrap() []error {
	return []error{ErrUpsertFailed, e.Err}
}
