package pokemon

import (
	"context"
	"sync"

	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
)

type memoryEntry struct {
	record   *entities.Pokemon
	negative bool
}

// InMemoryRepository implements Repository using in-memory storage. It
// supports concurrent reads and is safe to share across orchestration runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]memoryEntry
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]memoryEntry),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Get retrieves a cached record or negative entry by name
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	normalized := entities.NormalizeName(input.Name)
	if normalized == "" {
		return nil, errors.InvalidArgument(errNameEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.store[normalized]
	if !exists {
		return nil, errors.NotFound("pokemon record not cached").
			WithMeta("pokemon_name", input.Name)
	}

	if entry.negative {
		return &GetOutput{Negative: true}, nil
	}

	return &GetOutput{Record: entry.record}, nil
}

// Put stores a fetched record
func (r *InMemoryRepository) Put(_ context.Context, input PutInput) error {
	if input.Record == nil {
		return errors.InvalidArgument(errRecordNil)
	}

	normalized := entities.NormalizeName(input.Record.Name)
	if normalized == "" {
		return errors.InvalidArgument(errNameBlank)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[normalized] = memoryEntry{record: input.Record}
	return nil
}

// PutNegative stores a not-found marker for a name
func (r *InMemoryRepository) PutNegative(_ context.Context, input PutNegativeInput) error {
	normalized := entities.NormalizeName(input.Name)
	if normalized == "" {
		return errors.InvalidArgument(errNameEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[normalized] = memoryEntry{negative: true}
	return nil
}

// Delete invalidates a cached entry
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) error {
	normalized := entities.NormalizeName(input.Name)
	if normalized == "" {
		return errors.InvalidArgument(errNameEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, normalized)
	return nil
}
