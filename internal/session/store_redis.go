package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-web-server/internal/config"
	"github.com/MKhiriev/go-web-server/internal/logger"
)

const (
	redisKeyPrefix   = "sess:"
	redisDefaultAddr = "localhost:6379"
	redisPingTimeout = 5 * time.Second
)

// RedisStore keeps sessions in redis as JSON strings under "sess:<id>" with
// a native key expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore returns a store using client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client, prefix: redisKeyPrefix}
}

func newRedisStoreFromConfig(cfg config.Provider, log *logger.Logger) (Store, error) {
	var rc config.Redis
	if v, ok := cfg.Get("session:redis"); ok {
		rc, _ = v.(config.Redis)
	}
	if rc.Addr == "" {
		rc.Addr = redisDefaultAddr
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:       []string{rc.Addr},
		Username:    rc.Username,
		Password:    rc.Password,
		DB:          rc.DB,
		DialTimeout: rc.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Err(err).Str("addr", rc.Addr).Msg("error connecting to redis")
		return nil, fmt.Errorf("error connecting to redis at %s: %w", rc.Addr, err)
	}
	log.Debug().Str("addr", rc.Addr).Msg("connected to redis successfully")

	return NewRedisStore(client), nil
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

// Client exposes the underlying client so other stages (rate limiting) can
// share the connection pool.
func (s *RedisStore) Client() redis.UniversalClient {
	return s.client
}

// Get implements [Store].
func (s *RedisStore) Get(ctx context.Context, id string) (Values, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error reading session from redis: %w", err)
	}

	var values Values
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, errors.Join(ErrDecodingValues, err)
	}
	return values, nil
}

// Set implements [Store].
func (s *RedisStore) Set(ctx context.Context, id string, values Values, ttl time.Duration) error {
	data, err := json.Marshal(values)
	if err != nil {
		return errors.Join(ErrEncodingValues, err)
	}

	if err := s.client.Set(ctx, s.key(id), data, ttl).Err(); err != nil {
		return fmt.Errorf("error writing session to redis: %w", err)
	}
	return nil
}

// Destroy implements [Store].
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("error deleting session from redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
