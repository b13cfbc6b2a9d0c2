/*
errors.go - Sentinel errors shared across the engine

PURPOSE:
  Systemic failures only. The engine never returns an error for a single
  bad employee row; those degrade the record and surface as validation
  warnings instead.

USAGE:
  if errors.Is(err, benefit.ErrMissingCategory) { ... }
*/
package benefit

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCategory is returned when a required input category is
	// entirely absent. This is the only fatal input condition.
	ErrMissingCategory = errors.New("required input category missing")

	// ErrNoReferenceTable marks a degraded rate lookup: the union-rate
	// table was absent and the configured default rate was used.
	ErrNoReferenceTable = errors.New("union rate table missing")

	// ErrCacheMiss is returned by run caches when no fresh entry exists.
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidReference is returned for a reference month outside 1-12.
	ErrInvalidReference = errors.New("invalid reference month")
)

// MissingCategoryError names the absent category.
type MissingCategoryError struct {
	Category Category
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("required input category %q missing", e.Category)
}

func (e *MissingCategoryError) Unwrap() error { return ErrMissingCategory }
