package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amterp/lanes/internal/service"
	log "github.com/sirupsen/logrus"
)

// Server wraps the HTTP server for the web board.
type Server struct {
	httpServer  *http.Server
	watcher     *FileWatcher
	wsHub       *WebSocketHub
	unsubscribe func()
	logger      log.FieldLogger
}

// NewServer creates a server for handler on port. When watchPath is set,
// external writes to that file reload the store and are pushed to clients.
func NewServer(handler *Handler, boards *service.BoardService, port int, watchPath string, logger log.FieldLogger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	wsHub := NewWebSocketHub(logger)
	mux.HandleFunc("GET /api/v1/ws", wsHub.ServeWS)

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      Logging(logger)(Cors(mux)),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		wsHub:       wsHub,
		unsubscribe: boards.Subscribe(wsHub.OnChange),
		logger:      logger,
	}

	if watchPath != "" {
		watcher, err := NewFileWatcher(watchPath, func() {
			// Reload notifies subscribers, which broadcasts "reload".
			boards.Reload(context.Background())
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("failed to create file watcher")
		} else {
			s.watcher = watcher
		}
	}

	return s
}

// Start begins listening for HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	if s.watcher != nil {
		if err := s.watcher.Start(); err != nil {
			s.logger.WithError(err).Warn("failed to start file watcher")
		}
	}

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.WithError(err).Warn("failed to stop file watcher")
		}
	}
	s.unsubscribe()
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
