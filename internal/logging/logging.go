package logging

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// New builds a logger writing to out. Level is any logrus level name;
// format is "text" or "json".
func New(level, format string, out io.Writer) (*log.Logger, error) {
	logger := log.New()
	logger.SetOutput(out)

	if level == "" {
		level = "warn"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log_format %q (expected text or json)", format)
	}
	return logger, nil
}
