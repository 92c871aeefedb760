package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-doc-ledger/internal/cache"
	"github.com/MKhiriev/go-doc-ledger/internal/config"
	myHTTP "github.com/MKhiriev/go-doc-ledger/internal/handler/http"
	"github.com/MKhiriev/go-doc-ledger/internal/keys"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/internal/server"
	"github.com/MKhiriev/go-doc-ledger/internal/service"
	"github.com/MKhiriev/go-doc-ledger/internal/store"
	"github.com/MKhiriev/go-doc-ledger/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("doc-ledger-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	keyService, err := keys.NewKeyService(cfg.Keys, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating key service")
	}

	verificationCache := cache.NewVerificationCache(cfg.Cache, log)

	services := service.NewServices(storages, keyService, verificationCache, *cfg, log)

	backgroundWorkers := workers.NewWorkers(ctx, verificationCache, cfg.Workers, log)
	backgroundWorkers.Run()

	handler := myHTTP.NewHandler(services, cfg.App, log)

	srv, err := server.NewServer(handler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
