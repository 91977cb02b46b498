/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Package server runs the HTTP server of the gateway. It routes the GraphQL endpoint, health checks
// and metrics, and shuts down gracefully when its context is done.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/botobag/placeholder-gateway/handler"

	pkgerrors "github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Paths served besides the GraphQL endpoint
const (
	HealthPath  = "/healthz"
	MetricsPath = "/metrics"
)

// DefaultShutdownTimeout bounds graceful shutdown when Config.ShutdownTimeout is not set.
const DefaultShutdownTimeout = 30 * time.Second

// Config specifies how to set up a Server.
type Config struct {
	// Address to listen on, such as ":3000"
	Addr string

	// (Required) Path of the GraphQL endpoint
	Path string

	// (Required) Handler serving the GraphQL endpoint
	GraphQL http.Handler

	// Source of the metrics exposed at MetricsPath; nil to not expose metrics.
	Gatherer prometheus.Gatherer

	// Origins allowed for cross-origin requests; "*" allows any.
	CORSOrigins []string

	ShutdownTimeout time.Duration

	Logger *zap.Logger
}

// Server serves the gateway over HTTP.
type Server struct {
	config     Config
	logger     *zap.Logger
	handler    http.Handler
	httpServer *http.Server
}

// New creates a Server with routes set up.
func New(config Config) (*Server, error) {
	if config.GraphQL == nil {
		return nil, errors.New("server: GraphQL handler must be provided")
	}
	if len(config.Path) == 0 || config.Path[0] != '/' {
		return nil, pkgerrors.Errorf("server: invalid GraphQL path %q", config.Path)
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.Handle(config.Path, config.GraphQL)
	mux.HandleFunc(HealthPath, handleHealth)
	if config.Gatherer != nil {
		mux.Handle(MetricsPath, promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}

	h := handler.RequestID(corsMiddleware(config.CORSOrigins, mux))

	return &Server{
		config:  config,
		logger:  logger,
		handler: h,
		httpServer: &http.Server{
			Addr:              config.Addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}, nil
}

// Handler returns the handler with all routes and middlewares.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return pkgerrors.Wrapf(err, "listen on %s", s.config.Addr)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is done, then shuts down gracefully within the
// configured timeout. It returns nil on graceful shutdown.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("server started",
			zap.String("address", listener.Addr().String()),
			zap.String("path", s.config.Path))
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-errChan:
		return pkgerrors.Wrap(err, "serve HTTP")

	case <-ctx.Done():
	}

	s.logger.Info("server stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return pkgerrors.Wrap(err, "graceful shutdown")
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return pkgerrors.Wrap(err, "serve HTTP")
	}

	s.logger.Info("server stopped")
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// corsMiddleware adds CORS headers to responses for allowed origins and answers preflight requests.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		allowed := false
		for _, allowedOrigin := range origins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+handler.RequestIDHeader)
			w.Header().Set("Access-Control-Expose-Headers", handler.RequestIDHeader)
			w.Header().Set("Access-Control-Max-Age", "3600")

			// Preflight
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
