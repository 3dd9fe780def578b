package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"campusrag/rag"

	"go.uber.org/zap"
)

// Asker is satisfied by *rag.Answerer.
type Asker interface {
	Ask(ctx context.Context, question string) (*rag.Answer, error)
}

// Server represents the API server
type Server struct {
	answerer Asker
	logger   *zap.Logger
	port     int
}

func NewServer(answerer Asker, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		answerer: answerer,
		logger:   logger,
		port:     port,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", s.AskHandler)
	mux.HandleFunc("/health", s.HealthHandler)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", zap.Int("port", s.port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	}
}
