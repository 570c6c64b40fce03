package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/99designs/keyring"
)

const serviceName = "lanes"

// EnvPrefix prefixes environment overrides, e.g. LANES_SECRET_REDIS_PASSWORD.
const EnvPrefix = "LANES_SECRET_"

// ErrNotFound is returned when a secret is in neither the environment nor
// the keyring.
var ErrNotFound = errors.New("secret not found")

// Store reads and writes named secrets. An environment override wins over
// the keyring, so CI can run without one.
type Store struct {
	open   func() (keyring.Keyring, error)
	getenv func(string) string

	once sync.Once
	ring keyring.Keyring
	err  error
}

// New returns a store over the OS keyring, opened on first use.
func New() *Store {
	return &Store{open: openKeyring, getenv: os.Getenv}
}

// NewWithKeyring wraps an already-open keyring.
func NewWithKeyring(ring keyring.Keyring) *Store {
	return &Store{
		open:   func() (keyring.Keyring, error) { return ring, nil },
		getenv: os.Getenv,
	}
}

func openKeyring() (keyring.Keyring, error) {
	dir := ""
	if cfgDir, err := os.UserConfigDir(); err == nil {
		dir = filepath.Join(cfgDir, serviceName, "credentials")
	}
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt("lanes-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

func (s *Store) keyring() (keyring.Keyring, error) {
	s.once.Do(func() {
		s.ring, s.err = s.open()
	})
	return s.ring, s.err
}

// EnvName returns the environment variable that overrides secret name.
func EnvName(name string) string {
	return EnvPrefix + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

// Get returns the secret called name.
func (s *Store) Get(name string) (string, error) {
	if v := s.getenv(EnvName(name)); v != "" {
		return v, nil
	}

	ring, err := s.keyring()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(name)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("getting secret %q: %w", name, err)
	}
	return string(item.Data), nil
}

// Set stores a secret in the keyring.
func (s *Store) Set(name, value string) error {
	ring, err := s.keyring()
	if err != nil {
		return err
	}
	if err := ring.Set(keyring.Item{Key: name, Data: []byte(value), Label: "lanes " + name}); err != nil {
		return fmt.Errorf("setting secret %q: %w", name, err)
	}
	return nil
}

// Delete removes a secret from the keyring.
func (s *Store) Delete(name string) error {
	ring, err := s.keyring()
	if err != nil {
		return err
	}
	if err := ring.Remove(name); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("deleting secret %q: %w", name, err)
	}
	return nil
}
