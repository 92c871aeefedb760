package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type httpServer struct {
	server *http.Server

	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	srv := &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: handler,
	}
	if cfg.RequestTimeout > 0 {
		srv.ReadTimeout = cfg.RequestTimeout
		srv.WriteTimeout = cfg.RequestTimeout
	}

	return &httpServer{server: srv, logger: logger}
}

func (h *httpServer) RunServer() {
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error().Msgf("HTTP server ListenAndServe: %v", err)
	}
}

func (h *httpServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Error().Msgf("HTTP server Shutdown: %v", err)
	}
}
