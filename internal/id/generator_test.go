package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestFlexGenerator_Unique(t *testing.T) {
	gen := NewFlexGenerator()
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id := gen.Generate()
		if id == "" {
			t.Fatal("generated empty id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestUUIDGenerator_Parses(t *testing.T) {
	id := NewUUIDGenerator().Generate()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected valid uuid, got %q: %v", id, err)
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"", "flex", "uuid"} {
		if _, err := New(format); err != nil {
			t.Errorf("New(%q) failed: %v", format, err)
		}
	}
	if _, err := New("snowflake"); err == nil {
		t.Error("expected error for unknown format")
	}
}
