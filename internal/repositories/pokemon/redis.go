package pokemon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/gabrielblins/pokemon-agent-system/internal/entities"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	redisclient "github.com/gabrielblins/pokemon-agent-system/internal/redis"
)

const (
	// Key pattern: pokemon:{normalized_name}
	recordKeyPrefix = "pokemon:"

	// Sentinel stored for names the catalog does not recognize.
	negativeSentinel = "__not_found__"

	defaultCacheTTL = 24 * time.Hour

	errNameEmpty  = "name cannot be empty"
	errRecordNil  = "record cannot be nil"
	errNameBlank  = "record name cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	// TTL for cached entries. Defaults to 24 hours.
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.TTL == 0 {
		c.TTL = defaultCacheTTL
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis-backed record store
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		ttl:    cfg.TTL,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Get retrieves a cached record or negative entry by name
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	key, err := buildKey(input.Name)
	if err != nil {
		return nil, err
	}

	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFound("pokemon record not cached").
				WithMeta("pokemon_name", input.Name)
		}
		return nil, errors.Wrapf(err, "failed to get record from Redis")
	}

	if raw == negativeSentinel {
		return &GetOutput{Negative: true}, nil
	}

	var record entities.Pokemon
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal record")
	}

	return &GetOutput{Record: &record}, nil
}

// Put stores a fetched record
func (r *redisRepository) Put(ctx context.Context, input PutInput) error {
	if input.Record == nil {
		return errors.InvalidArgument(errRecordNil)
	}
	if input.Record.Name == "" {
		return errors.InvalidArgument(errNameBlank)
	}

	recordJSON, err := json.Marshal(input.Record)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal record")
	}

	key, err := buildKey(input.Record.Name)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, recordJSON, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to store record in Redis")
	}

	return nil
}

// PutNegative stores a not-found marker for a name
func (r *redisRepository) PutNegative(ctx context.Context, input PutNegativeInput) error {
	key, err := buildKey(input.Name)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, negativeSentinel, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to store negative entry in Redis")
	}

	return nil
}

// Delete invalidates a cached entry
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) error {
	key, err := buildKey(input.Name)
	if err != nil {
		return err
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "failed to delete record from Redis")
	}

	return nil
}

func buildKey(name string) (string, error) {
	normalized := entities.NormalizeName(name)
	if normalized == "" {
		return "", errors.InvalidArgument(errNameEmpty)
	}
	return fmt.Sprintf("%s%s", recordKeyPrefix, normalized), nil
}
