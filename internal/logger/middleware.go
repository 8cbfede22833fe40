// internal/logger/middleware.go
//
// Per-request logging.
//
// Middleware derives a child logger tagged with chi's request ID, stores it
// in the request context, and writes one "request" line when the handler
// returns.  The line carries the User-Agent's browser, OS, device class, and
// bot flag.  Mount it after middleware.RequestID.
package logger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/adept-forms/internal/ua"
)

// Middleware logs every request through base.
func Middleware(base *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base
			if id := middleware.GetReqID(r.Context()); id != "" {
				l = base.With("req", id)
			}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(WithContext(r.Context(), l)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			agent := ua.Parse(r.UserAgent())
			l.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start),
				"browser", agent.Browser,
				"os", agent.OS,
				"device", agent.Device,
				"bot", agent.IsBot,
			)
		})
	}
}
