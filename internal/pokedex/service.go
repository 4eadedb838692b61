// Package pokedex is the catalog service: a read-through cache in front of
// the external catalog, with request coalescing so concurrent fetches for
// the same name produce a single upstream call.
package pokedex

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gabrielblins/pokemon-agent-system/internal/clients/pokeapi"
	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	pokemonrepo "github.com/gabrielblins/pokemon-agent-system/internal/repositories/pokemon"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 250 * time.Millisecond
)

// FetchInput identifies the record to fetch.
type FetchInput struct {
	Name string
}

// FetchOutput carries the fetched record.
type FetchOutput struct {
	Record *entities.Pokemon
}

// InvalidateInput identifies the cached entry to drop.
type InvalidateInput struct {
	Name string
}

// Service is the catalog lookup surface the capabilities use.
type Service interface {
	// Fetch returns the record for name, from cache when possible. A name
	// the upstream catalog definitively does not know returns a NotFound
	// error, cached so repeats never hit the upstream again.
	Fetch(ctx context.Context, input *FetchInput) (*FetchOutput, error)
	// Invalidate drops the cached entry for name, forcing the next Fetch
	// to go upstream.
	Invalidate(ctx context.Context, input *InvalidateInput) error
}

// Config holds the service's dependencies.
type Config struct {
	Repository pokemonrepo.Repository
	Catalog    pokeapi.Client
	Logger     *slog.Logger

	// MaxAttempts bounds upstream tries per fetch (optional, defaults to 3)
	MaxAttempts int
	// RetryDelay is the initial backoff, doubled per retry (optional,
	// defaults to 250ms)
	RetryDelay time.Duration
}

// Validate ensures all required dependencies are provided and sets
// defaults for the optional knobs.
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Repository == nil {
		vb.RequiredField("Repository")
	}
	if cfg.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return nil
}

type service struct {
	repo        pokemonrepo.Repository
	catalog     pokeapi.Client
	logger      *slog.Logger
	maxAttempts int
	retryDelay  time.Duration

	group singleflight.Group
}

// New creates a pokedex service with the provided config.
func New(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &service{
		repo:        cfg.Repository,
		catalog:     cfg.Catalog,
		logger:      cfg.Logger,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
	}, nil
}

// Ensure service implements Service
var _ Service = (*service)(nil)

func (s *service) Fetch(ctx context.Context, input *FetchInput) (*FetchOutput, error) {
	name := entities.NormalizeName(input.Name)
	if name == "" {
		return nil, errors.InvalidArgument("pokemon name is required")
	}

	// Coalesce concurrent fetches for the same name into one lookup.
	result, err, _ := s.group.Do(name, func() (any, error) {
		return s.fetch(ctx, name)
	})
	if err != nil {
		return nil, err
	}

	record, ok := result.(*entities.Pokemon)
	if !ok {
		return nil, errors.Internal("unexpected fetch result type")
	}
	return &FetchOutput{Record: record}, nil
}

func (s *service) fetch(ctx context.Context, name string) (*entities.Pokemon, error) {
	cached, err := s.repo.Get(ctx, pokemonrepo.GetInput{Name: name})
	if err == nil {
		if cached.Negative {
			return nil, errors.NotFoundf("pokemon not recognized: %s", name).
				WithMeta("pokemon_name", name)
		}
		return cached.Record, nil
	}
	if !errors.IsNotFound(err) {
		// A broken cache degrades to upstream-only, it never fails the fetch.
		s.logger.WarnContext(ctx, "cache read failed, falling through to catalog",
			slog.String("pokemon_name", name),
			slog.String("error", err.Error()))
	}

	record, err := s.fetchUpstream(ctx, name)
	if err != nil {
		if errors.IsNotFound(err) {
			s.storeNegative(ctx, name)
		}
		return nil, err
	}

	if putErr := s.repo.Put(ctx, pokemonrepo.PutInput{Record: record}); putErr != nil {
		s.logger.WarnContext(ctx, "cache write failed",
			slog.String("pokemon_name", name),
			slog.String("error", putErr.Error()))
	}
	return record, nil
}

// fetchUpstream calls the catalog with bounded retries. Only transient
// failures are retried; a definitive not-found comes back immediately.
func (s *service) fetchUpstream(ctx context.Context, name string) (*entities.Pokemon, error) {
	delay := s.retryDelay
	var lastErr error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		record, err := s.catalog.GetPokemon(ctx, name)
		if err == nil {
			return record, nil
		}
		if !errors.IsUnavailable(err) {
			return nil, err
		}
		lastErr = err

		if attempt < s.maxAttempts {
			s.logger.WarnContext(ctx, "catalog fetch failed, retrying",
				slog.String("pokemon_name", name),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", delay),
				slog.String("error", err.Error()))

			select {
			case <-ctx.Done():
				return nil, errors.WrapWithCode(ctx.Err(), errors.CodeDeadlineExceeded,
					"fetch canceled during backoff")
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return nil, errors.Wrapf(lastErr, "catalog unavailable after %d attempts", s.maxAttempts)
}

func (s *service) storeNegative(ctx context.Context, name string) {
	if err := s.repo.PutNegative(ctx, pokemonrepo.PutNegativeInput{Name: name}); err != nil {
		s.logger.WarnContext(ctx, "negative cache write failed",
			slog.String("pokemon_name", name),
			slog.String("error", err.Error()))
	}
}

func (s *service) Invalidate(ctx context.Context, input *InvalidateInput) error {
	name := entities.NormalizeName(input.Name)
	if name == "" {
		return errors.InvalidArgument("pokemon name is required")
	}
	return s.repo.Delete(ctx, pokemonrepo.DeleteInput{Name: name})
}
