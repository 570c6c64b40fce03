package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := NewWithKeyring(keyring.NewArrayKeyring(nil))

	if err := s.Set("redis-password", "hunter2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := s.Get("redis-password")
	if err != nil || got != "hunter2" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if err := s.Delete("redis-password"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get("redis-password"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_EnvOverrideWins(t *testing.T) {
	s := NewWithKeyring(keyring.NewArrayKeyring([]keyring.Item{{Key: "azure-connection-string", Data: []byte("from-ring")}}))
	t.Setenv("LANES_SECRET_AZURE_CONNECTION_STRING", "from-env")

	got, err := s.Get("azure-connection-string")
	if err != nil || got != "from-env" {
		t.Errorf("Get = %q, %v; want env value", got, err)
	}
}

func TestStore_OpenErrorIsReported(t *testing.T) {
	boom := errors.New("no keyring backend")
	s := &Store{
		open:   func() (keyring.Keyring, error) { return nil, boom },
		getenv: func(string) string { return "" },
	}

	if _, err := s.Get("redis-password"); !errors.Is(err, boom) {
		t.Errorf("expected open error, got %v", err)
	}
	if err := s.Set("redis-password", "x"); !errors.Is(err, boom) {
		t.Errorf("expected open error from Set, got %v", err)
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("redis-password"); got != "LANES_SECRET_REDIS_PASSWORD" {
		t.Errorf("EnvName = %q", got)
	}
}
