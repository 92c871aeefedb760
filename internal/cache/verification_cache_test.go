package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/models"
)

func newTestCache(t *testing.T, cfg config.Cache) (*VerificationCache, *time.Time) {
	t.Helper()

	c := NewVerificationCache(cfg, logger.Nop())

	clock := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	return c, &clock
}

func TestVerificationCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t, config.Cache{})

	result := models.VerificationResult{
		Verified: true,
		Status:   models.StatusVerified,
		HashID:   "hash-1",
	}

	c.Set("doc-1", result, "abcdef0123456789deadbeef")

	got, ok := c.Get("doc-1", "abcdef0123456789deadbeef")
	assert.True(t, ok)
	assert.Equal(t, result, got)

	// same 16-char prefix addresses the same entry
	got, ok = c.Get("doc-1", "abcdef0123456789")
	assert.True(t, ok)
	assert.Equal(t, result, got)

	_, ok = c.Get("doc-2", "abcdef0123456789deadbeef")
	assert.False(t, ok)

	_, ok = c.Get("doc-1", "")
	assert.False(t, ok)
}

func TestVerificationCache_TTLExpiry(t *testing.T) {
	c, clock := newTestCache(t, config.Cache{})

	c.Set("doc-1", models.VerificationResult{Status: models.StatusVerified}, "")
	c.Set("doc-2", models.VerificationResult{Status: models.StatusTampered}, "")
	c.Set("doc-3", models.VerificationResult{Status: models.StatusNotFound}, "")

	*clock = clock.Add(6 * time.Minute)

	_, ok := c.Get("doc-1", "")
	assert.True(t, ok, "verified entry should survive 6 minutes")
	_, ok = c.Get("doc-2", "")
	assert.True(t, ok, "tampered entry should survive 6 minutes")
	_, ok = c.Get("doc-3", "")
	assert.False(t, ok, "not-found entry should expire after 5 minutes")

	*clock = clock.Add(30 * time.Minute)

	_, ok = c.Get("doc-1", "")
	assert.True(t, ok, "verified entry should survive 36 minutes")
	_, ok = c.Get("doc-2", "")
	assert.False(t, ok, "tampered entry should expire after 30 minutes")

	*clock = clock.Add(time.Hour)

	_, ok = c.Get("doc-1", "")
	assert.False(t, ok, "verified entry should expire after an hour")
}

func TestVerificationCache_ErrorNeverCached(t *testing.T) {
	c, _ := newTestCache(t, config.Cache{})

	c.Set("doc-1", models.VerificationResult{Status: models.StatusError}, "")
	c.Set("doc-2", models.VerificationResult{Status: models.StatusThrottled}, "")

	_, ok := c.Get("doc-1", "")
	assert.False(t, ok)
	_, ok = c.Get("doc-2", "")
	assert.False(t, ok)

	assert.Equal(t, 0, c.GetStats().TotalEntries)
}

func TestVerificationCache_Throttle(t *testing.T) {
	c, clock := newTestCache(t, config.Cache{})

	assert.False(t, c.IsThrottled("doc-1"), "first request passes")
	assert.True(t, c.IsThrottled("doc-1"), "second request inside window is throttled")

	*clock = clock.Add(59 * time.Second)
	assert.True(t, c.IsThrottled("doc-1"), "still inside the window measured from the first request")

	*clock = clock.Add(2 * time.Second)
	assert.False(t, c.IsThrottled("doc-1"), "window elapsed, gate opens again")
	assert.True(t, c.IsThrottled("doc-1"))

	assert.False(t, c.IsThrottled("doc-2"), "documents are throttled independently")
}

func TestVerificationCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t, config.Cache{})

	c.Set("doc-1", models.VerificationResult{Status: models.StatusVerified}, "")
	c.Set("doc-1", models.VerificationResult{Status: models.StatusVerified}, "aaaa111122223333")
	c.Set("doc-1", models.VerificationResult{Status: models.StatusTampered}, "bbbb444455556666")
	c.Set("doc-9", models.VerificationResult{Status: models.StatusVerified}, "")

	c.Invalidate("doc-1")

	_, ok := c.Get("doc-1", "")
	assert.False(t, ok)
	_, ok = c.Get("doc-1", "aaaa111122223333")
	assert.False(t, ok)
	_, ok = c.Get("doc-1", "bbbb444455556666")
	assert.False(t, ok)

	_, ok = c.Get("doc-9", "")
	assert.True(t, ok, "other documents survive invalidation")
}

func TestVerificationCache_ClearExpired(t *testing.T) {
	c, clock := newTestCache(t, config.Cache{})

	c.Set("doc-1", models.VerificationResult{Status: models.StatusVerified}, "")
	c.Set("doc-2", models.VerificationResult{Status: models.StatusNotFound}, "")
	c.Set("doc-3", models.VerificationResult{Status: models.StatusNotFound}, "")

	*clock = clock.Add(10 * time.Minute)

	stats := c.GetStats()
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 2, stats.ExpiredEntries)
	assert.Equal(t, 1, stats.ActiveEntries)

	removed := c.ClearExpired()
	assert.Equal(t, 2, removed)

	stats = c.GetStats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 0, stats.ExpiredEntries)

	assert.Equal(t, 0, c.ClearExpired(), "second sweep finds nothing")
}

func TestVerificationCache_ConfiguredTTLs(t *testing.T) {
	c, clock := newTestCache(t, config.Cache{
		VerifiedTTL:    2 * time.Minute,
		ThrottleWindow: 5 * time.Second,
	})

	c.Set("doc-1", models.VerificationResult{Status: models.StatusVerified}, "")

	*clock = clock.Add(3 * time.Minute)
	_, ok := c.Get("doc-1", "")
	assert.False(t, ok, "configured verified TTL overrides the default")

	assert.False(t, c.IsThrottled("doc-1"))
	*clock = clock.Add(6 * time.Second)
	assert.False(t, c.IsThrottled("doc-1"), "configured throttle window overrides the default")
}
