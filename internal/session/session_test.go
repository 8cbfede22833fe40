package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/adept-forms/internal/store"
)

func newTestCache(t *testing.T, opts Options) *Cache {
	t.Helper()
	c := New(opts)
	t.Cleanup(c.Close)
	return c
}

func TestFromRequestIssuesCookie(t *testing.T) {
	c := newTestCache(t, Options{CookieName: "sid"})

	rec := httptest.NewRecorder()
	s, err := c.FromRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, s.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// Same cookie, same session.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again, err := c.FromRequest(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Same(t, s, again)
}

func TestFromRequestReplacesForgedID(t *testing.T) {
	c := newTestCache(t, Options{CookieName: "sid"})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "../../etc"})

	s, err := c.FromRequest(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "../../etc", s.ID)
	assert.True(t, validID(s.ID))
}

func TestFromRequestIgnoresUnknownID(t *testing.T) {
	c := newTestCache(t, Options{CookieName: "sid"})
	planted, err := newID()
	require.NoError(t, err)
	require.True(t, validID(planted))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: planted})
	rec := httptest.NewRecorder()
	s, err := c.FromRequest(rec, req)
	require.NoError(t, err)

	assert.NotEqual(t, planted, s.ID, "well-formed but unknown ID was adopted")
	assert.Nil(t, c.lookupOrNil(planted))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, s.ID, cookies[0].Value)
	assert.Equal(t, 1, c.Len())
}

func TestFromRequestAfterEviction(t *testing.T) {
	c := newTestCache(t, Options{CookieName: "sid"})
	rec := httptest.NewRecorder()
	s, err := c.FromRequest(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	c.Drop(s.ID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	again, err := c.FromRequest(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, again.ID, "dropped ID revived from its cookie")
}

func (c *Cache) lookupOrNil(id string) *Session {
	s, _ := c.lookup(id)
	return s
}

func TestGetSharesConcurrentCreation(t *testing.T) {
	c := newTestCache(t, Options{})
	id, err := newID()
	require.NoError(t, err)

	var wg sync.WaitGroup
	got := make([]*Session, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = c.Get(id)
		}(i)
	}
	wg.Wait()
	for _, s := range got[1:] {
		assert.Same(t, got[0], s)
	}
	assert.Equal(t, 1, c.Len())
}

func TestCapacityEviction(t *testing.T) {
	c := newTestCache(t, Options{MaxSessions: 2})
	a := c.Get("a")
	c.Get("b")
	c.Get("d")
	assert.Equal(t, 2, c.Len())
	assert.NotSame(t, a, c.Get("a"), "a was evicted and recreated")
}

func TestEvictIdle(t *testing.T) {
	c := newTestCache(t, Options{IdleTTL: time.Minute})
	c.Get("old").lastSeen.Store(time.Now().Add(-2 * time.Minute).UnixNano())
	c.Get("new")

	n := c.evictIdle(time.Now())
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, c.Len())
}

func TestBindingBuildsOnce(t *testing.T) {
	s := newSession("x")
	calls := 0
	build := func(st *store.Store) (int, error) {
		calls++
		return 42, nil
	}

	s.Lock()
	defer s.Unlock()
	for i := 0; i < 3; i++ {
		v, err := Binding(s, "k", build)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}
	assert.Equal(t, 1, calls)

	_, err := Binding(s, "k", func(*store.Store) (string, error) { return "", nil })
	assert.Error(t, err, "type mismatch")

	s.Forget("k")
	_, err = Binding(s, "k", func(*store.Store) (int, error) { return 0, errors.New("boom") })
	assert.EqualError(t, err, "boom")
}
