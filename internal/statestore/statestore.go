// Package statestore wraps the Redis instance that MCP server replicas use
// for shared session state. The operator itself only needs liveness probes,
// but the full accessor set is kept here so tooling can inspect sessions.
package statestore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPort is the conventional Redis port the in-cluster service exposes.
const DefaultPort = 6379

// Options configures a Store connection.
type Options struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Store is a thin wrapper over a Redis client scoped to session state.
type Store struct {
	client *redis.Client
}

// New connects to the Redis instance at opts.Addr. The connection is lazy;
// failures surface on the first command or Ping.
func New(opts Options) *Store {
	dialTimeout := opts.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:        opts.Addr,
			Password:    opts.Password,
			DB:          opts.DB,
			DialTimeout: dialTimeout,
		}),
	}
}

// ServiceAddr builds the cluster-internal address for a Redis Service.
func ServiceAddr(serviceName, namespace string) string {
	return fmt.Sprintf("%s.%s.svc.cluster.local:%d", serviceName, namespace, DefaultPort)
}

// FromService connects to the Redis Service with the given name and
// namespace using in-cluster DNS.
func FromService(serviceName, namespace string) *Store {
	return New(Options{Addr: ServiceAddr(serviceName, namespace)})
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Get returns the value stored under key, or an empty string and false when
// the key does not exist.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return val, true, nil
}

// Set stores value under key with an optional TTL; ttl of zero means no
// expiry.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes keys. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// HGet returns a single field of the hash stored under key.
func (s *Store) HGet(ctx context.Context, key, field string) (string, bool, error) {
	val, err := s.client.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("hget %q.%q: %w", key, field, err)
	}
	return val, true, nil
}

// HSet writes fields of the hash stored under key.
func (s *Store) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	if err := s.client.HSet(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("hset %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

// Pinger probes Redis Services by name without holding connections open. It
// satisfies the operator's backing store probe interface.
type Pinger struct {
	// AddrFor overrides address resolution, used by tests to point at a
	// local instance instead of cluster DNS.
	AddrFor func(serviceName, namespace string) string
}

// PingService dials the named Redis Service and verifies it responds.
func (p *Pinger) PingService(ctx context.Context, serviceName, namespace string) error {
	addrFor := p.AddrFor
	if addrFor == nil {
		addrFor = ServiceAddr
	}
	store := New(Options{Addr: addrFor(serviceName, namespace), DialTimeout: 2 * time.Second})
	defer store.Close()
	return store.Ping(ctx)
}
