package http

import (
	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/internal/service"
)

type Handler struct {
	services *service.Services
	app      config.App

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		app:      cfg,
		logger:   logger,
	}
}
