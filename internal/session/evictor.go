// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// removes sessions idle longer than the idle TTL.  Capacity pressure is
// handled synchronously by the LRU on insert.
//
// Each eviction pass is logged and updates Prometheus counters.
package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/adept-forms/internal/metrics"
)

func (c *Cache) evictLoop() {
	for {
		select {
		case <-c.done:
			return
		case now := <-c.evictTicker.C:
			if n := c.evictIdle(now); n > 0 {
				zap.S().Infow("sessions evicted", "count", n, "reason", "idle")
			}
		}
	}
}

// evictIdle drops sessions whose last hit is older than the idle TTL.
func (c *Cache) evictIdle(now time.Time) int {
	cutoff := now.Add(-c.opts.IdleTTL).UnixNano()
	c.mu.Lock()
	n := c.lru.RemoveFunc(func(_ string, s *Session) bool {
		return s.lastSeen.Load() < cutoff
	})
	c.mu.Unlock()

	if n > 0 {
		metrics.SessionEvictTotal.WithLabelValues("idle").Add(float64(n))
		metrics.ActiveSessions.Sub(float64(n))
	}
	return n
}
