package logging

import (
	"bytes"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", "json", &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.WithField("key", "boardData").Info("saved")
	logger.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, `"key":"boardData"`) || !strings.Contains(out, `"msg":"saved"`) {
		t.Errorf("unexpected json output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry should be filtered at info level")
	}
}

func TestNew_Defaults(t *testing.T) {
	logger, err := New("", "", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("expected warn by default, got %v", logger.GetLevel())
	}
}

func TestNew_Invalid(t *testing.T) {
	if _, err := New("loud", "text", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New("info", "xml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
