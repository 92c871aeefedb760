// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-doc-ledger/internal/cache"
	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
)

const defaultSweepInterval = 5 * time.Minute

// cacheSweeper periodically evicts expired verification cache entries.
// Lazy eviction on read already keeps hot keys fresh; the sweeper exists so
// that entries nobody reads again do not accumulate.
type cacheSweeper struct {
	ctx      context.Context
	cache    *cache.VerificationCache
	interval time.Duration

	logger *logger.Logger
}

// NewCacheSweeper constructs the sweeper [Worker]. It runs until ctx is
// cancelled.
func NewCacheSweeper(ctx context.Context, verCache *cache.VerificationCache, cfg config.Workers, logger *logger.Logger) Worker {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	return &cacheSweeper{
		ctx:      ctx,
		cache:    verCache,
		interval: interval,
		logger:   logger,
	}
}

// Run implements [Worker]. The sweep loop runs on its own goroutine.
func (w *cacheSweeper) Run() {
	go w.loop()
}

func (w *cacheSweeper) loop() {
	w.logger.Info().
		Str("func", "cacheSweeper.loop").
		Dur("interval", w.interval).
		Msg("cache sweeper started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.logger.Info().Str("func", "cacheSweeper.loop").Msg("cache sweeper stopped")
			return
		case <-ticker.C:
			removed := w.cache.ClearExpired()
			stats := w.cache.GetStats()
			w.logger.Debug().
				Str("func", "cacheSweeper.loop").
				Int("removed", removed).
				Int("active_entries", stats.ActiveEntries).
				Msg("cache sweep complete")
		}
	}
}
