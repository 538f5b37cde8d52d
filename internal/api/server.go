// Package api implements the HTTPS control-plane server: the chi router,
// middleware stack and request handlers that front internal/auth,
// internal/multipart and pkg/store.
package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"

	"github.com/a1exx55/server-backend-sub000/internal/auth"
	"github.com/a1exx55/server-backend-sub000/internal/config"
	"github.com/a1exx55/server-backend-sub000/internal/logger"
	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

// Server is the HTTPS control-plane server: health checks, authentication,
// user management, and the multipart upload endpoint.
//
// The server supports graceful shutdown with a configurable timeout.
type Server struct {
	server       *http.Server
	cfg          config.ServerConfig
	shutdownOnce sync.Once
}

// NewServer wires the chi router against the given store, JWT service and
// upload configuration, and wraps it in an *http.Server configured with TLS
// and the listener's timeouts.
func NewServer(cfg config.ServerConfig, uploadCfg config.UploadConfig, jwtService *auth.JWTService, st store.Store) (*Server, error) {
	router := NewRouter(jwtService, st, uploadCfg)

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		TLSConfig:    tlsConfig,
	}

	return &Server{server: httpServer, cfg: cfg}, nil
}

// Start begins serving HTTPS requests and blocks until ctx is cancelled or
// the server fails. On cancellation it performs a graceful shutdown bounded
// by cfg.ShutdownTimeout.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", s.cfg.ListenAddr)

		err := s.server.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
		if err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Stop initiates graceful shutdown. It is safe to call multiple times and
// concurrently with Start.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("API server shutdown initiated")
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
			logger.Error("API server shutdown error", "error", err)
		} else {
			logger.Info("API server stopped gracefully")
		}
	})
	return shutdownErr
}

// Addr returns the address the server is configured to listen on.
func (s *Server) Addr() string {
	return s.cfg.ListenAddr
}
