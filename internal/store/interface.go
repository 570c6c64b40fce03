package store

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Backend.Get when nothing is stored under the key.
	ErrKeyNotFound = errors.New("key not found")
	// ErrUnavailable is returned by backends that cannot persist anything.
	ErrUnavailable = errors.New("storage unavailable")
)

// Backend is a durable string-keyed byte store.
// Values are opaque to the backend; the Gateway owns encoding.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
	// Name identifies the backend in logs and diagnostics.
	Name() string
}

// SecretSource supplies credentials that must not live in the config file.
type SecretSource interface {
	Get(name string) (string, error)
}

// Secret names understood by the backend factory.
const (
	SecretRedisPassword   = "redis-password"
	SecretAzureConnection = "azure-connection-string"
)
