// Package pokemon provides storage for catalog records behind the pokedex
// cache. Entries are keyed by the lower-cased, trimmed name; a negative
// entry remembers a definitive "name not recognized" answer so the same
// invalid name never triggers repeated upstream calls.
package pokemon

import (
	"context"

	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
)

// GetInput identifies the record to fetch.
type GetInput struct {
	Name string
}

// GetOutput carries a cached entry. Exactly one of Record or Negative is
// meaningful: Negative reports a cached not-found answer.
type GetOutput struct {
	Record   *entities.Pokemon
	Negative bool
}

// PutInput stores a fetched record.
type PutInput struct {
	Record *entities.Pokemon
}

// PutNegativeInput stores a not-found marker for a name.
type PutNegativeInput struct {
	Name string
}

// DeleteInput invalidates a cached entry.
type DeleteInput struct {
	Name string
}

// Repository stores pokemon records and negative entries. A stored record is
// never mutated, only superseded by an explicit delete-and-refetch.
type Repository interface {
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
	Put(ctx context.Context, input PutInput) error
	PutNegative(ctx context.Context, input PutNegativeInput) error
	Delete(ctx context.Context, input DeleteInput) error
}
