package store

import (
	"context"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
)

// Storages aggregates every persistence backend the service depends on.
type Storages struct {
	Ledger LedgerRepository
	Blobs  BlobStorage
}

// NewStorages connects to the ledger database, runs pending migrations, and
// opens the blob store.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error running migrations")
		return nil, err
	}

	blobs, err := NewFileBlobStorage(cfg.Blobs, log)
	if err != nil {
		return nil, err
	}

	return &Storages{
		Ledger: NewLedgerRepository(db, log),
		Blobs:  blobs,
	}, nil
}
