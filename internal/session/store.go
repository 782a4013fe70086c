//go:generate mockgen -source=store.go -destination=../mock/session_store_mock.go -package=mock

package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-web-server/internal/config"
	"github.com/MKhiriev/go-web-server/internal/logger"
)

// DefaultStore is the store used when the "session" key is not configured.
const DefaultStore = "redis"

// Store persists session payloads. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the payload of id, or ErrNotFound.
	Get(ctx context.Context, id string) (Values, error)
	// Set writes the payload of id with a fresh ttl.
	Set(ctx context.Context, id string, values Values, ttl time.Duration) error
	// Destroy removes id. Removing an unknown id is not an error.
	Destroy(ctx context.Context, id string) error
}

// StoreFactory builds a Store from configuration.
type StoreFactory func(cfg config.Provider, log *logger.Logger) (Store, error)

var (
	storesMu sync.RWMutex
	stores   = map[string]StoreFactory{}
)

// RegisterStore makes a store available by name. It panics if called twice
// with the same name or with a nil factory.
func RegisterStore(name string, factory StoreFactory) {
	storesMu.Lock()
	defer storesMu.Unlock()

	if factory == nil {
		panic("session: RegisterStore factory is nil")
	}
	if _, dup := stores[name]; dup {
		panic("session: RegisterStore called twice for store " + name)
	}
	stores[name] = factory
}

// Stores returns the sorted names of the registered stores.
func Stores() []string {
	storesMu.RLock()
	defer storesMu.RUnlock()

	names := make([]string, 0, len(stores))
	for name := range stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStore builds the store registered under name. An empty name selects
// [DefaultStore].
func NewStore(name string, cfg config.Provider, log *logger.Logger) (Store, error) {
	if name == "" {
		name = DefaultStore
	}
	if log == nil {
		log = logger.Nop()
	}

	storesMu.RLock()
	factory, ok := stores[name]
	storesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, name)
	}

	store, err := factory(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("error creating %s session store: %w", name, err)
	}

	log.Info().Str("store", name).Msg("session store created")
	return store, nil
}

func init() {
	RegisterStore("memory", func(config.Provider, *logger.Logger) (Store, error) {
		return NewMemoryStore(), nil
	})
	RegisterStore("redis", newRedisStoreFromConfig)
	RegisterStore("postgres", func(cfg config.Provider, log *logger.Logger) (Store, error) {
		return newSQLStoreFromConfig(DialectPostgres, cfg, log)
	})
	RegisterStore("sqlite", func(cfg config.Provider, log *logger.Logger) (Store, error) {
		return newSQLStoreFromConfig(DialectSQLite, cfg, log)
	})
}
