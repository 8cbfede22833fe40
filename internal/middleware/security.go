// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years + preload)
//   • Content-Security-Policy   –  sane default self-only policy
//   • X-Frame-Options           –  click-jacking defence
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • Referrer-Policy           –  drops path/query from Referer
//   • Permissions-Policy        –  disables powerful features by default
//
// Notes
// -----
// • Headers are added when the handler first writes, so handlers may set
//   their own first; the middleware never overwrites an existing value.
// • If the server runs behind a TLS-terminating proxy, HSTS is still useful
//   because browsers see the public domain as HTTPS.
// • The CSP allows the form pages' own stylesheet and htmx bundle only.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts = "max-age=63072000; includeSubDomains; preload"
		csp  = "default-src 'self'; img-src 'self' data:; object-src 'none'; " +
			"base-uri 'self'; frame-ancestors 'none'"
		xfo   = "DENY"
		nosn  = "nosniff"
		refer = "strict-origin-when-cross-origin"
		perm  = "geolocation=(), microphone=(), camera=()"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hw := &headerWriter{ResponseWriter: w, before: func(h http.Header) {
			setDefault(h, "Strict-Transport-Security", hsts)
			setDefault(h, "Content-Security-Policy", csp)
			setDefault(h, "X-Frame-Options", xfo)
			setDefault(h, "X-Content-Type-Options", nosn)
			setDefault(h, "Referrer-Policy", refer)
			setDefault(h, "Permissions-Policy", perm)
		}}
		next.ServeHTTP(hw, r)
		hw.fire() // handler wrote nothing; net/http sends 200 after return

	})
}

// setDefault adds k unless the handler already set it.
func setDefault(h http.Header, k, v string) {
	if h.Get(k) == "" {
		h.Set(k, v)
	}
}

// headerWriter runs before once, right before the status line goes out.
// Headers added after WriteHeader would be dropped.
type headerWriter struct {
	http.ResponseWriter
	before func(http.Header)
	done   bool
}

func (w *headerWriter) fire() {
	if !w.done {
		w.done = true
		w.before(w.Header())
	}
}

func (w *headerWriter) WriteHeader(code int) {
	w.fire()
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerWriter) Write(b []byte) (int, error) {
	w.fire()
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *headerWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

