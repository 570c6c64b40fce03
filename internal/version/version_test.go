package version

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatConfigSchema(t *testing.T) {
	tests := []struct {
		version  int
		expected string
	}{
		{1, "config/1"},
		{2, "config/2"},
		{10, "config/10"},
	}
	for _, tt := range tests {
		got := FormatConfigSchema(tt.version)
		if got != tt.expected {
			t.Errorf("FormatConfigSchema(%d) = %q, want %q", tt.version, got, tt.expected)
		}
	}
}

func TestParseConfigVersion(t *testing.T) {
	tests := []struct {
		schema    string
		expected  int
		expectErr bool
	}{
		{"config/1", 1, false},
		{"config/10", 10, false},
		{"board/1", 0, true},    // Wrong prefix
		{"config/", 0, true},    // Missing version
		{"config/abc", 0, true}, // Invalid version
		{"config/0", 0, true},   // Version must be >= 1
		{"config/-1", 0, true},  // Negative version
		{"", 0, true},           // Empty
	}
	for _, tt := range tests {
		got, err := ParseConfigVersion(tt.schema)
		if tt.expectErr {
			if err == nil {
				t.Errorf("ParseConfigVersion(%q) expected error, got %d", tt.schema, got)
			}
		} else {
			if err != nil {
				t.Errorf("ParseConfigVersion(%q) unexpected error: %v", tt.schema, err)
			} else if got != tt.expected {
				t.Errorf("ParseConfigVersion(%q) = %d, want %d", tt.schema, got, tt.expected)
			}
		}
	}
}

func TestCurrentConfigSchema(t *testing.T) {
	if got := CurrentConfigSchema(); got != "config/1" {
		t.Errorf("CurrentConfigSchema() = %q, want %q", got, "config/1")
	}
}

func TestSchemaVersionError(t *testing.T) {
	err := MissingConfigSchema("/home/u/.config/lanes/config.toml")
	if !strings.Contains(err.Error(), "no config_schema") {
		t.Errorf("unexpected missing message: %v", err)
	}

	err = InvalidConfigSchema("/x/config.toml", "config/7")
	var sve *SchemaVersionError
	if !errors.As(err, &sve) || sve.MinRequired != "a newer version" {
		t.Errorf("expected upgrade hint for a future schema, got %v", err)
	}

	err = InvalidConfigSchema("/x/config.toml", "bogus")
	if !errors.As(err, &sve) || sve.MinRequired != "" {
		t.Errorf("expected no upgrade hint for garbage, got %v", err)
	}
}

// TestMinLanesVersionCompleteness catches a version bump without a
// matching MinLanesVersion entry.
func TestMinLanesVersionCompleteness(t *testing.T) {
	if _, ok := MinLanesVersion[CurrentConfigSchema()]; !ok {
		t.Errorf("MinLanesVersion missing entry for %q", CurrentConfigSchema())
	}
}
