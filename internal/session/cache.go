package session

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanizio/adept-forms/internal/cache"
	"github.com/yanizio/adept-forms/internal/metrics"
)

// Static defaults used when Options leaves a field zero.
const (
	DefaultCookieName  = "adept_forms"
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxSessions = 10000
	EvictInterval      = time.Minute
)

// Options configure a Cache.
type Options struct {
	CookieName  string
	IdleTTL     time.Duration
	MaxSessions int
	// Secure marks the cookie Secure; requests over TLS always get it.
	Secure bool
}

// Cache holds live sessions, evicting them on idle TTL or LRU pressure.
type Cache struct {
	opts Options
	sfg  singleflight.Group

	mu  sync.Mutex
	lru *cache.LRU[string, *Session]

	evictTicker *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

// New constructs a Cache and starts the background evictor.
func New(opts Options) *Cache {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}

	c := &Cache{
		opts: opts,
		lru:  cache.New[string, *Session](opts.MaxSessions),
		done: make(chan struct{}),
	}
	c.lru.OnEvict = func(string, *Session) {
		metrics.SessionEvictTotal.WithLabelValues("capacity").Inc()
		metrics.ActiveSessions.Dec()
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Close stops the evictor.  Sessions stay readable.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		c.evictTicker.Stop()
		close(c.done)
	})
}

// Len reports the number of live sessions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Get returns the session with id, creating it when missing.  Concurrent
// requests carrying the same unknown ID share one new session.
func (c *Cache) Get(id string) *Session {
	if s, ok := c.lookup(id); ok {
		return s
	}
	v, _, _ := c.sfg.Do(id, func() (any, error) {
		// Double-check after singleflight barrier.
		if s, ok := c.lookup(id); ok {
			return s, nil
		}
		s := newSession(id)
		c.mu.Lock()
		c.lru.Add(id, s)
		c.mu.Unlock()
		metrics.SessionCreateTotal.Inc()
		metrics.ActiveSessions.Inc()
		return s, nil
	})
	return v.(*Session)
}

func (c *Cache) lookup(id string) (*Session, bool) {
	c.mu.Lock()
	s, ok := c.lru.Get(id)
	c.mu.Unlock()
	if ok {
		s.touch()
	}
	return s, ok
}

// FromRequest returns the caller's session.  A cookie is honoured only when
// it names a live session; a missing, malformed, expired, or unknown ID gets
// a freshly minted one, so a client can never pick its own session ID.  The
// cookie is refreshed on every call so its lifetime tracks the idle TTL.
func (c *Cache) FromRequest(w http.ResponseWriter, r *http.Request) (*Session, error) {
	var s *Session
	if ck, err := r.Cookie(c.opts.CookieName); err == nil && validID(ck.Value) {
		s, _ = c.lookup(ck.Value)
	}
	if s == nil {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		s = c.Get(id)
	}
	setCookie(w, c.opts.CookieName, s.ID, c.opts.Secure || r.TLS != nil, c.opts.IdleTTL)
	return s, nil
}

// Drop removes id immediately.
func (c *Cache) Drop(id string) {
	c.mu.Lock()
	removed := c.lru.Remove(id)
	c.mu.Unlock()
	if removed {
		metrics.ActiveSessions.Dec()
	}
}
