package store

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

// Gateway reads and writes JSON values through a Backend. Writes never
// fail from the caller's point of view and reads fall back to a default,
// so a broken or missing backend degrades to an in-memory session.
type Gateway struct {
	backend Backend
	logger  log.FieldLogger
	timeout time.Duration
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger routes swallowed storage failures to logger.
func WithLogger(logger log.FieldLogger) GatewayOption {
	return func(g *Gateway) { g.logger = logger }
}

// WithTimeout bounds each backend call. Zero disables the bound.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

// NewGateway wraps backend. A nil backend behaves as unavailable storage.
func NewGateway(backend Backend, opts ...GatewayOption) *Gateway {
	if backend == nil {
		backend = NoopBackend{}
	}
	g := &Gateway{
		backend: backend,
		logger:  log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Backend returns the wrapped backend.
func (g *Gateway) Backend() Backend {
	return g.backend
}

// Save serializes value and stores it under key, replacing any prior value.
// Failures are logged and otherwise ignored.
func (g *Gateway) Save(ctx context.Context, key string, value any) {
	entry := g.logger.WithFields(log.Fields{"key": key, "backend": g.backend.Name()})

	data, err := sonic.ConfigStd.Marshal(value)
	if err != nil {
		entry.WithError(err).Warn("encoding value failed, skipping save")
		return
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	if err := g.backend.Set(ctx, key, data); err != nil {
		if errors.Is(err, ErrUnavailable) {
			entry.Debug("storage unavailable, skipping save")
			return
		}
		entry.WithError(err).Warn("saving value failed")
		return
	}
	entry.WithField("bytes", len(data)).Debug("saved")
}

// Raw returns the undecoded bytes stored under key.
func (g *Gateway) Raw(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	return g.backend.Get(ctx, key)
}

// Load decodes the value stored under key into a T. It returns fallback
// when the key is absent, the payload does not decode, or the backend fails.
func Load[T any](ctx context.Context, g *Gateway, key string, fallback T) T {
	entry := g.logger.WithFields(log.Fields{"key": key, "backend": g.backend.Name()})

	data, err := g.Raw(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, ErrKeyNotFound):
			entry.Debug("no stored value, using fallback")
		case errors.Is(err, ErrUnavailable):
			entry.Debug("storage unavailable, using fallback")
		default:
			entry.WithError(err).Warn("loading value failed, using fallback")
		}
		return fallback
	}

	var out T
	if err := sonic.ConfigStd.Unmarshal(data, &out); err != nil {
		entry.WithError(err).Warn("stored value is unparsable, using fallback")
		return fallback
	}
	return out
}

func (g *Gateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}
