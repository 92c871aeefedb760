// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache provides the in-memory verification cache that shields the
// ledger database from repeated integrity checks of the same document.
//
// The cache is a pure performance optimization: it holds derived, disposable
// copies of verification results and can be dropped at any time without
// affecting correctness — a miss always re-derives truth from the ledger.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/models"
)

// Default TTLs and throttle window. Verified results stay cached longer than
// tampered ones: a tamper is something the caller may want to re-check soon.
const (
	DefaultVerifiedTTL    = time.Hour
	DefaultTamperedTTL    = 30 * time.Minute
	DefaultNotFoundTTL    = 5 * time.Minute
	DefaultThrottleWindow = 60 * time.Second
)

type cacheEntry struct {
	result     models.VerificationResult
	insertedAt time.Time
	ttl        time.Duration
}

// VerificationCache is a process-local, time-expiring cache of verification
// results with a per-document throttle gate. A single coarse mutex guards
// both internal maps; all operations are short and allocation-light, so
// contention is not a concern at the write rates this service sees.
//
// Entries expire by TTL and are evicted lazily on access; ClearExpired
// provides an explicit sweep for the background worker.
type VerificationCache struct {
	mu           sync.Mutex
	entries      map[string]cacheEntry
	lastRequests map[string]time.Time

	verifiedTTL    time.Duration
	tamperedTTL    time.Duration
	notFoundTTL    time.Duration
	throttleWindow time.Duration

	// now is stubbed in tests to drive expiry without sleeping.
	now func() time.Time

	logger *logger.Logger
}

// NewVerificationCache constructs a [VerificationCache]. Zero values in cfg
// fall back to the package defaults.
func NewVerificationCache(cfg config.Cache, log *logger.Logger) *VerificationCache {
	c := &VerificationCache{
		entries:        make(map[string]cacheEntry),
		lastRequests:   make(map[string]time.Time),
		verifiedTTL:    cfg.VerifiedTTL,
		tamperedTTL:    cfg.TamperedTTL,
		notFoundTTL:    cfg.NotFoundTTL,
		throttleWindow: cfg.ThrottleWindow,
		now:            time.Now,
		logger:         log,
	}

	if c.verifiedTTL <= 0 {
		c.verifiedTTL = DefaultVerifiedTTL
	}
	if c.tamperedTTL <= 0 {
		c.tamperedTTL = DefaultTamperedTTL
	}
	if c.notFoundTTL <= 0 {
		c.notFoundTTL = DefaultNotFoundTTL
	}
	if c.throttleWindow <= 0 {
		c.throttleWindow = DefaultThrottleWindow
	}

	return c
}

// cacheKey builds the composite key for a document verification entry. The
// content hash is truncated to 16 characters — enough to separate distinct
// contents, short enough to keep keys compact.
func cacheKey(documentID, contentHash string) string {
	if contentHash != "" {
		if len(contentHash) > 16 {
			contentHash = contentHash[:16]
		}
		return "verify:" + documentID + ":" + contentHash
	}
	return "verify:" + documentID
}

// Get returns the cached verification result for (documentID, contentHash),
// or false on a miss. contentHash may be empty to address the document-level
// entry. Expired entries are evicted on access.
func (c *VerificationCache) Get(documentID, contentHash string) (models.VerificationResult, bool) {
	key := cacheKey(documentID, contentHash)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return models.VerificationResult{}, false
	}

	if c.now().Sub(entry.insertedAt) > entry.ttl {
		delete(c.entries, key)
		c.logger.Debug().
			Str("func", "VerificationCache.Get").
			Str("key", key).
			Msg("cache entry expired")
		return models.VerificationResult{}, false
	}

	return entry.result, true
}

// Set stores a verification result under (documentID, contentHash) with a
// TTL chosen by result status: verified results live longest, tampered ones
// half as long, not-found ones shortest. Existing entries are overwritten.
// Error results must not be cached and are dropped with a warning.
func (c *VerificationCache) Set(documentID string, result models.VerificationResult, contentHash string) {
	ttl := c.ttlFor(result.Status)
	if ttl <= 0 {
		c.logger.Warn().
			Str("func", "VerificationCache.Set").
			Str("document_id", documentID).
			Str("status", string(result.Status)).
			Msg("refusing to cache result status")
		return
	}

	key := cacheKey(documentID, contentHash)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		result:     result,
		insertedAt: c.now(),
		ttl:        ttl,
	}

	c.logger.Debug().
		Str("func", "VerificationCache.Set").
		Str("key", key).
		Dur("ttl", ttl).
		Msg("cached verification result")
}

// ttlFor maps a result status onto its cache lifetime. ERROR and THROTTLED
// results return zero: they are never cached.
func (c *VerificationCache) ttlFor(status models.VerificationStatus) time.Duration {
	switch status {
	case models.StatusVerified:
		return c.verifiedTTL
	case models.StatusTampered:
		return c.tamperedTTL
	case models.StatusNotFound:
		return c.notFoundTTL
	default:
		return 0
	}
}

// IsThrottled reports whether a verification request for documentID arrived
// inside the throttle window. Checking is not read-only: when the gate is
// open, the current instant is recorded as the last request time, so
// back-to-back calls within the window all report throttled except the first.
func (c *VerificationCache) IsThrottled(documentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if last, ok := c.lastRequests[documentID]; ok && now.Sub(last) < c.throttleWindow {
		c.logger.Warn().
			Str("func", "VerificationCache.IsThrottled").
			Str("document_id", documentID).
			Msg("verification request throttled")
		return true
	}

	c.lastRequests[documentID] = now
	return false
}

// Invalidate removes every cache entry belonging to the document, both the
// document-level entry and all content-hash variants.
func (c *VerificationCache) Invalidate(documentID string) {
	prefix := "verify:" + documentID

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Info().
			Str("func", "VerificationCache.Invalidate").
			Str("document_id", documentID).
			Int("removed", removed).
			Msg("invalidated cache entries")
	}
}

// ClearExpired removes all TTL-expired entries and returns how many were
// dropped. The background sweeper calls this periodically; lazy eviction in
// Get covers entries that are still being read.
func (c *VerificationCache) ClearExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.Sub(entry.insertedAt) > entry.ttl {
			delete(c.entries, key)
			removed++
		}
	}

	if removed > 0 {
		c.logger.Info().
			Str("func", "VerificationCache.ClearExpired").
			Int("removed", removed).
			Msg("cleared expired cache entries")
	}

	return removed
}

// Stats describes the cache contents at a point in time.
type Stats struct {
	TotalEntries   int `json:"total_entries"`
	ExpiredEntries int `json:"expired_entries"`
	ActiveEntries  int `json:"active_entries"`
}

// GetStats returns a snapshot of entry counts, including entries that have
// expired but not yet been evicted.
func (c *VerificationCache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for _, entry := range c.entries {
		if now.Sub(entry.insertedAt) > entry.ttl {
			expired++
		}
	}

	return Stats{
		TotalEntries:   len(c.entries),
		ExpiredEntries: expired,
		ActiveEntries:  len(c.entries) - expired,
	}
}
