// cmd/web/main.go
//
// Adept Forms – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (defaults → .env → conf/global.yaml → ADEPT_ env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Build the CSRF signer and the in-memory session cache.
//
//  4. Initialize and mount every registered component:
//
//     • auth   – typed login form at /auth/login
//     • forms  – YAML forms at /forms/{id}
//
//  5. Expose Prometheus /metrics, on its own listener when configured.
//
//  6. Serve until SIGINT or SIGTERM, then shut every listener down
//     gracefully via an errgroup.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/yanizio/adept-forms/internal/component"
	"github.com/yanizio/adept-forms/internal/config"
	"github.com/yanizio/adept-forms/internal/form"
	"github.com/yanizio/adept-forms/internal/locale"
	"github.com/yanizio/adept-forms/internal/logger"
	"github.com/yanizio/adept-forms/internal/middleware"
	"github.com/yanizio/adept-forms/internal/server"
	"github.com/yanizio/adept-forms/internal/session"

	_ "github.com/yanizio/adept-forms/components/auth"
	_ "github.com/yanizio/adept-forms/components/forms"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// runtime implements component.Runtime.
type runtime struct {
	cfg      *config.Config
	sessions *session.Cache
	csrf     *form.CSRF
}

func (rt *runtime) Config() *config.Config   { return rt.cfg }
func (rt *runtime) Sessions() *session.Cache { return rt.sessions }
func (rt *runtime) CSRF() *form.CSRF         { return rt.csrf }

func main() {
	//
	// ── 1.  Config & logger ─────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logOut, err := logger.New(cfg.Paths.Root, cfg.Log.Level, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 2.  Shared services ─────────────────────────────────────────────
	//
	csrf, err := form.NewCSRF(form.DecodeSecret(cfg.CSRF.Secret), cfg.CSRF.MaxAge)
	switch {
	case errors.Is(err, form.ErrEphemeralSecret):
		logOut.Warnw("csrf secret not configured; tokens will not survive a restart")
	case err != nil:
		logOut.Fatalw("csrf init failed", "err", err)
	}

	sessions := session.New(session.Options{
		CookieName:  cfg.Session.CookieName,
		IdleTTL:     cfg.Session.IdleTTL,
		MaxSessions: cfg.Session.MaxSessions,
		Secure:      cfg.Session.Secure,
	})
	defer sessions.Close()

	rt := &runtime{cfg: cfg, sessions: sessions, csrf: csrf}

	//
	// ── 3.  Router ──────────────────────────────────────────────────────
	//
	defLang, err := language.Parse(cfg.Locale.Default)
	if err != nil {
		defLang = language.English
	}

	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		logger.Middleware(logOut),
		chimw.Recoverer,
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
		middleware.Security,
		locale.Middleware(defLang),
	)
	if err := component.Mount(r, rt); err != nil {
		logOut.Fatalw("mount components", "err", err)
	}
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/forms", http.StatusFound)
	})

	//
	// ── 4.  Metrics endpoint ────────────────────────────────────────────
	//
	servers := []*http.Server{}
	if cfg.HTTP.MetricsAddr != "" {
		servers = append(servers, server.New(cfg.HTTP.MetricsAddr, promhttp.Handler()))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}
	servers = append(servers, server.New(cfg.HTTP.ListenAddr, r))

	//
	// ── 5.  Serve until signalled ──────────────────────────────────────
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		srv := srv
		g.Go(func() error {
			logOut.Infow("listening", "addr", srv.Addr)
			return server.Run(gctx, srv)
		})
	}
	if err := g.Wait(); err != nil {
		zap.S().Errorw("http server", "err", err)
		os.Exit(1)
	}
	logOut.Infow("shutdown complete")
}
