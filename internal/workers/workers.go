package workers

import (
	"context"

	"github.com/MKhiriev/go-doc-ledger/internal/cache"
	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles every background worker of the service. All workers
// stop when ctx is cancelled.
func NewWorkers(ctx context.Context, verCache *cache.VerificationCache, cfg config.Workers, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewCacheSweeper(ctx, verCache, cfg, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
