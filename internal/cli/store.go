package cli

import (
	"fmt"
	"path/filepath"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/thicket/pkg/adapters/badger"
	"github.com/aretw0/thicket/pkg/adapters/file"
	"github.com/aretw0/thicket/pkg/adapters/memory"
	"github.com/aretw0/thicket/pkg/adapters/redis"
	"github.com/aretw0/thicket/pkg/ports"
)

// Store kinds accepted by --store.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreBadger = "badger"
)

// StoreOptions selects a plan store backend.
type StoreOptions struct {
	Kind string
	// Path is the directory of the file and badger stores.
	Path string
	// RedisURL is a redis:// URL.
	RedisURL string
	TTL      time.Duration
}

// OpenStore opens the configured store. The returned close func is never nil.
// StoreNone yields a nil store.
func OpenStore(opts StoreOptions) (ports.PlanStore, func() error, error) {
	noop := func() error { return nil }

	switch opts.Kind {
	case "", StoreNone:
		return nil, noop, nil
	case StoreMemory:
		return memory.NewStore(), noop, nil
	case StoreFile:
		return file.New(opts.Path), noop, nil
	case StoreRedis:
		url := opts.RedisURL
		if url == "" {
			url = "redis://localhost:6379/0"
		}
		clientOpts, err := backend.ParseURL(url)
		if err != nil {
			return nil, noop, &InputError{Err: fmt.Errorf("invalid redis url: %w", err)}
		}
		store := redis.NewFromClient(backend.NewClient(clientOpts), redis.WithTTL(opts.TTL))
		return store, store.Close, nil
	case StoreBadger:
		path := opts.Path
		if path == "" {
			path = filepath.Join(".thicket", "badger")
		}
		cfg := badger.DefaultConfig(path)
		cfg.TTL = opts.TTL
		store, err := badger.Open(cfg)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil
	}
	return nil, noop, &InputError{Err: fmt.Errorf("unknown store %q (want none, memory, file, redis or badger)", opts.Kind)}
}
