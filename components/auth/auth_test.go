package auth

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/adept-forms/internal/config"
	"github.com/yanizio/adept-forms/internal/form"
	"github.com/yanizio/adept-forms/internal/session"
)

type testRuntime struct {
	cfg      *config.Config
	sessions *session.Cache
	csrf     *form.CSRF
}

func (rt *testRuntime) Config() *config.Config   { return rt.cfg }
func (rt *testRuntime) Sessions() *session.Cache { return rt.sessions }
func (rt *testRuntime) CSRF() *form.CSRF         { return rt.csrf }

var tokenRE = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

type client struct {
	t      *testing.T
	srv    http.Handler
	cookie *http.Cookie
}

func newClient(t *testing.T) *client {
	t.Helper()
	csrf, err := form.NewCSRF(bytes.Repeat([]byte("s"), 32), time.Hour)
	require.NoError(t, err)
	sessions := session.New(session.Options{CookieName: "sid"})
	t.Cleanup(sessions.Close)

	c := &Component{}
	require.NoError(t, c.Init(&testRuntime{cfg: &config.Config{}, sessions: sessions, csrf: csrf}))
	r := chi.NewRouter()
	r.Mount("/"+c.Name(), c.Routes())

	oldVerify, oldAfter := Verify, AfterLogin
	Verify = func(_ context.Context, email, password string) (bool, error) {
		return email == "me@example.com" && password == "correct horse", nil
	}
	AfterLogin = "/welcome"
	t.Cleanup(func() { Verify, AfterLogin = oldVerify, oldAfter })

	return &client{t: t, srv: r}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.srv.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "sid" {
			c.cookie = ck
		}
	}
	return rec
}

// token loads the login page and returns its CSRF token.
func (c *client) token() string {
	rec := c.do(httptest.NewRequest(http.MethodGet, loginURL, nil))
	require.Equal(c.t, http.StatusOK, rec.Code)
	m := tokenRE.FindStringSubmatch(rec.Body.String())
	require.NotNil(c.t, m, "no csrf token in page")
	return m[1]
}

func (c *client) login(email, password string) *httptest.ResponseRecorder {
	form := url.Values{"csrf_token": {c.token()}, "email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func TestLoginPage(t *testing.T) {
	c := newClient(t)
	rec := c.do(httptest.NewRequest(http.MethodGet, loginURL, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<form method="post" action="/auth/login"`)
	assert.Contains(t, body, `type="email"`)
	assert.Contains(t, body, `name="password" type="password"`)
	assert.Contains(t, body, `name="_toggle" value="password"`)
	assert.NotNil(t, c.cookie, "session cookie not issued")
}

func TestLoginSuccess(t *testing.T) {
	c := newClient(t)
	rec := c.login("  me@example.com ", "correct horse")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/welcome", rec.Header().Get("Location"))
}

func TestLoginValidation(t *testing.T) {
	cases := []struct {
		name, email, password, want string
	}{
		{"empty email", "", "correct horse", form.MsgNotEmpty},
		{"bad email", "not-an-email", "correct horse", msgBadEmail},
		{"short password", "me@example.com", "short", msgShortPassword},
		{"wrong credentials", "me@example.com", "wrong horse", msgBadCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t)
			rec := c.login(tc.email, tc.password)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestLoginVisitorsAreIsolated(t *testing.T) {
	a, b := newClient(t), newClient(t)
	b.srv = a.srv

	rec := a.login("", "x")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = b.do(httptest.NewRequest(http.MethodGet, loginURL, nil))
	assert.NotContains(t, rec.Body.String(), "form-field--error", "errors leaked across sessions")
}

func TestPlantedSessionCookieIsNotShared(t *testing.T) {
	victim := newClient(t)
	planted := &http.Cookie{Name: "sid", Value: strings.Repeat("A", 24)}
	victim.cookie = planted

	rec := victim.login("me@example.com", "victim-secret-pw")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NotEqual(t, planted.Value, victim.cookie.Value, "planted session ID was adopted")

	attacker := &client{t: t, srv: victim.srv, cookie: planted}
	form := url.Values{"csrf_token": {attacker.token()}, "_toggle": {"password"}}
	req := httptest.NewRequest(http.MethodPost, loginURL+"/visibility", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = attacker.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "victim-secret-pw")
}
