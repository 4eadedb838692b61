// Package pokeapi is the catalog collaborator client. It resolves a pokemon
// name to a structured record, or a definitive not-found signal, against the
// public PokeAPI.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
)

// Client defines the interface for catalog lookups
type Client interface {
	// GetPokemon fetches one record by name. A NotFound error is a
	// definitive "name not recognized" answer; an Unavailable error is a
	// transient upstream failure the caller may retry.
	GetPokemon(ctx context.Context, name string) (*entities.Pokemon, error)
}

// Config contains configuration options for the catalog client.
type Config struct {
	// BaseURL for the PokeAPI (optional, defaults to https://pokeapi.co/api/v2)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// HTTPClient overrides the default client, mainly for tests
	HTTPClient *http.Client
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://pokeapi.co/api/v2"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	return nil
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new catalog client
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	return &client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}, nil
}

// Ensure client implements Client
var _ Client = (*client)(nil)

// GetPokemon fetches one record by name
func (c *client) GetPokemon(ctx context.Context, name string) (*entities.Pokemon, error) {
	normalized := entities.NormalizeName(name)
	if normalized == "" {
		return nil, errors.InvalidArgument("pokemon name is required")
	}

	url := fmt.Sprintf("%s/pokemon/%s", c.baseURL, normalized)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build pokeapi request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeUnavailable,
			"pokeapi request failed for %q", normalized)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NotFoundf("pokemon %q not found", normalized).
			WithMeta("pokemon_name", normalized)
	default:
		return nil, errors.Unavailablef("pokeapi returned status %d for %q",
			resp.StatusCode, normalized)
	}

	var payload apiPokemon
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable,
			"failed to decode pokeapi response")
	}

	record, err := toRecord(&payload)
	if err != nil {
		return nil, err
	}

	return record, nil
}
