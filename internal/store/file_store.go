package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gofrs/flock"
)

// FileBackend stores every key in a single JSON object on disk.
// Writers take an exclusive lock on a sibling .lock file so the CLI and a
// running server never interleave a read-modify-write. A flock.Flock is
// not reentrant across goroutines, hence mu.
type FileBackend struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileBackend creates the parent directory of path if needed.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("file backend requires a path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileBackend{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the data file location.
func (f *FileBackend) Path() string {
	return f.path
}

func (f *FileBackend) Name() string { return "file" }

func (f *FileBackend) Close() error {
	return f.lock.Close()
}

func (f *FileBackend) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.RLock(); err != nil {
		return nil, fmt.Errorf("acquiring read lock: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	entries, err := f.read()
	if err != nil {
		return nil, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (f *FileBackend) Set(_ context.Context, key string, value []byte) error {
	return f.update(func(entries map[string]json.RawMessage) {
		entries[key] = value
	})
}

func (f *FileBackend) Delete(_ context.Context, key string) error {
	return f.update(func(entries map[string]json.RawMessage) {
		delete(entries, key)
	})
}

func (f *FileBackend) update(mutate func(map[string]json.RawMessage)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("acquiring write lock: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	entries, err := f.read()
	if err != nil {
		// Keep the unreadable file around instead of silently clobbering it.
		if renameErr := os.Rename(f.path, f.path+".corrupt"); renameErr != nil {
			return fmt.Errorf("data file unreadable (%v) and could not be moved aside: %w", err, renameErr)
		}
		entries = make(map[string]json.RawMessage)
	}
	mutate(entries)
	return f.write(entries)
}

// read returns the decoded file, or an empty map if it does not exist yet.
func (f *FileBackend) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	if len(data) == 0 {
		return make(map[string]json.RawMessage), nil
	}

	entries := make(map[string]json.RawMessage)
	if err := sonic.ConfigStd.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid data file %s: %w", f.path, err)
	}
	return entries, nil
}

func (f *FileBackend) write(entries map[string]json.RawMessage) error {
	data, err := sonic.ConfigStd.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".lanes-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}
