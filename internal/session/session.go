// internal/session/session.go
//
// Visitor sessions.
//
// Context
//   Every visitor owns one store.Store holding the state of each form they
//   have opened.  A Session pairs that store with the form bindings built on
//   it, so input components (and their password visibility flags) survive
//   between requests.  Sessions are identified by a random ID kept in an
//   HttpOnly cookie and live in memory only; see Cache.
//
//   A Session is not safe for concurrent requests on its own.  Handlers take
//   Lock for the duration of one request, which serializes a visitor's
//   double-clicks without blocking anyone else.
//
// Style
//   Two-space sentence spacing, Oxford comma, terse inline notes.
//
//------------------------------------------------------------------------------

package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanizio/adept-forms/internal/metrics"
	"github.com/yanizio/adept-forms/internal/store"
)

const idBytes = 18

// Session is one visitor's form state.
type Session struct {
	ID    string
	Store *store.Store

	mu       sync.Mutex
	bindings map[string]any
	lastSeen atomic.Int64
}

func newSession(id string) *Session {
	s := &Session{
		ID:       id,
		Store:    store.New(),
		bindings: make(map[string]any),
	}
	s.touch()
	s.Store.Subscribe(countAction)
	return s
}

// Lock serializes requests of one visitor.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases Lock.
func (s *Session) Unlock() { s.mu.Unlock() }

func (s *Session) touch() { s.lastSeen.Store(time.Now().UnixNano()) }

// LastSeen reports the time of the last Cache hit.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Binding returns the value stored under key, building it with build on
// first use.  The caller must hold Lock.
func Binding[T any](s *Session, key string, build func(*store.Store) (T, error)) (T, error) {
	if v, ok := s.bindings[key]; ok {
		t, ok := v.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("session: binding %q holds %T", key, v)
		}
		return t, nil
	}
	t, err := build(s.Store)
	if err != nil {
		return t, err
	}
	s.bindings[key] = t
	return t, nil
}

// Forget drops the binding stored under key.  The caller must hold Lock.
func (s *Session) Forget(key string) { delete(s.bindings, key) }

// countAction feeds the dispatch counter.  Labels use the reducer name only
// so cardinality stays bounded by the reducer set.
func countAction(a store.Action) {
	reducer := a.Type
	if i := strings.LastIndexByte(reducer, '/'); i >= 0 {
		reducer = reducer[i+1:]
	}
	metrics.ActionsDispatchedTotal.WithLabelValues(reducer).Inc()
}

// newID returns a URL-safe random identifier.
func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// validID rejects cookies we could not have issued.
func validID(id string) bool {
	if len(id) != base64.RawURLEncoding.EncodedLen(idBytes) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(id)
	return err == nil
}

// setCookie writes the session cookie.
func setCookie(w http.ResponseWriter, name, id string, secure bool, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl / time.Second),
	})
}
