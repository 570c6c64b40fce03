package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/amterp/lanes/internal/model"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Options carries what a backend opener may need.
type Options struct {
	Config  model.StorageConfig
	Secrets SecretSource
	Logger  log.FieldLogger
}

// Opener constructs a backend from options.
type Opener func(ctx context.Context, opts Options) (Backend, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Opener{
		model.BackendFile:   openFile,
		model.BackendSQLite: openSQLite,
		model.BackendRedis:  openRedis,
		model.BackendAzure:  openAzure,
		model.BackendMemory: func(context.Context, Options) (Backend, error) { return NewMemoryBackend(), nil },
		model.BackendNone:   func(context.Context, Options) (Backend, error) { return NoopBackend{}, nil },
	}
)

// RegisterBackend adds or replaces an opener.
func RegisterBackend(name string, fn Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = fn
}

// Backends lists registered backend names.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs the backend named by opts.Config.Backend.
func Open(ctx context.Context, opts Options) (Backend, error) {
	name := opts.Config.Backend
	if name == "" {
		name = model.BackendFile
	}

	registryMu.RLock()
	fn, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown storage backend %q (available: %s)", name, strings.Join(Backends(), ", "))
	}
	return fn(ctx, opts)
}

func openFile(_ context.Context, opts Options) (Backend, error) {
	return NewFileBackend(opts.Config.Path)
}

func openSQLite(_ context.Context, opts Options) (Backend, error) {
	if opts.Config.Path == "" {
		return nil, fmt.Errorf("sqlite backend requires storage.path")
	}
	return NewSQLiteBackend(opts.Config.Path)
}

func openRedis(ctx context.Context, opts Options) (Backend, error) {
	redisOpts, err := redis.ParseURL(opts.Config.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if redisOpts.Password == "" && opts.Secrets != nil {
		if pw, err := opts.Secrets.Get(SecretRedisPassword); err == nil {
			redisOpts.Password = pw
		}
	}

	client := redis.NewClient(redisOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return NewRedisBackend(client, opts.Config.Redis.Prefix), nil
}

func openAzure(ctx context.Context, opts Options) (Backend, error) {
	if opts.Secrets == nil {
		return nil, fmt.Errorf("azure backend requires the %s secret", SecretAzureConnection)
	}
	connStr, err := opts.Secrets.Get(SecretAzureConnection)
	if err != nil {
		return nil, fmt.Errorf("azure backend requires the %s secret: %w", SecretAzureConnection, err)
	}
	return NewTableBackendFromConnectionString(ctx, connStr, opts.Config.Azure.Table)
}
