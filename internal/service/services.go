package service

import (
	"github.com/MKhiriev/go-doc-ledger/internal/cache"
	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/keys"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/internal/store"
)

type Services struct {
	Envelope  EnvelopeService
	Chain     ChainService
	Integrity IntegrityService
}

func NewServices(storages *store.Storages, keySvc keys.KeyService, verCache *cache.VerificationCache, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	envelope := NewEnvelopeService(storages.Blobs, keySvc, cfg.Keys, logger)
	chain := NewChainService(storages.Ledger, keySvc, cfg.Keys, logger)

	return &Services{
		Envelope:  envelope,
		Chain:     chain,
		Integrity: NewIntegrityService(envelope, chain, storages.Ledger, verCache, logger),
	}
}
