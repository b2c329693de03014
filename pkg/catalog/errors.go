package catalog

import "errors"

var (
	// ErrAppNotFound is returned when a key does not match any record.
	ErrAppNotFound = errors.New("app not found")

	// ErrNoCatalogFiles is returned when a glob matches nothing.
	ErrNoCatalogFiles = errors.New("no catalog files matched")
)
