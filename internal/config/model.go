// internal/config/model.go
//
// Typed configuration model for the forms server.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `ADEPT_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing or out of range.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr  string `koanf:"listen_addr"  validate:"required,hostname_port"`
	MetricsAddr string `koanf:"metrics_addr" validate:"omitempty,hostname_port"`
	ForceHTTPS  bool   `koanf:"force_https"`
	// HTMX adds hx-post change hooks to rendered inputs.
	HTMX bool `koanf:"htmx"`
}

//
// Session section
//

// Session controls the per-visitor form stores.
type Session struct {
	CookieName  string        `koanf:"cookie_name"  validate:"required"`
	MaxSessions int           `koanf:"max_sessions" validate:"min=1"`
	IdleTTL     time.Duration `koanf:"idle_ttl"     validate:"min=1s"`
	Secure      bool          `koanf:"secure"`
}

//
// Forms section
//

// Forms locates YAML form definitions.
type Forms struct {
	// Dirs are base directories in precedence order; each is searched for
	// components/*/forms/*.yaml.  Relative entries resolve against Root.
	Dirs []string `koanf:"dirs"`
}

//
// CSRF section
//

// CSRF holds the token key.  Secret is base64url; an empty or short key
// makes the server generate a random one at start-up.
type CSRF struct {
	Secret string        `koanf:"secret"  validate:"csrf_secret"`
	MaxAge time.Duration `koanf:"max_age" validate:"omitempty,min=1m"`
}

//
// Locale & logging sections
//

// Locale picks the fallback language for Accept-Language matching.
type Locale struct {
	Default string `koanf:"default" validate:"omitempty,bcp47_language_tag"`
}

// Log configures the zap logger.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.  The loader
// discovers `Root` (repo root or ADEPT_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // ADEPT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP    HTTP    `koanf:"http"`
	Session Session `koanf:"session"`
	Forms   Forms   `koanf:"forms"`
	CSRF    CSRF    `koanf:"csrf"`
	Locale  Locale  `koanf:"locale"`
	Log     Log     `koanf:"log"`
	Paths   Paths   `koanf:"-"` // not loaded from config files
}

// FormDirs returns Forms.Dirs made absolute, or Root alone when unset.
func (c *Config) FormDirs() []string {
	if len(c.Forms.Dirs) == 0 {
		return []string{c.Paths.Root}
	}
	out := make([]string, 0, len(c.Forms.Dirs))
	for _, d := range c.Forms.Dirs {
		out = append(out, absUnder(c.Paths.Root, d))
	}
	return out
}
