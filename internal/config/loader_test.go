package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	return root
}

func TestLoadFromAppliesDefaults(t *testing.T) {
	root := writeRoot(t, "http:\n  listen_addr: \"127.0.0.1:9000\"\n")

	cfg, err := LoadFrom(root)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.ListenAddr)
	assert.Equal(t, "adept_forms", cfg.Session.CookieName)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
	assert.Equal(t, 2*time.Hour, cfg.CSRF.MaxAge)
	assert.Equal(t, root, cfg.Paths.Root)
	assert.Equal(t, []string{root}, cfg.FormDirs())
}

func TestLoadFromEnvOverrides(t *testing.T) {
	root := writeRoot(t, "session:\n  max_sessions: 5\n")
	t.Setenv("ADEPT_SESSION__MAX_SESSIONS", "7")

	cfg, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Session.MaxSessions)
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad addr":   "http:\n  listen_addr: \"nope\"\n",
		"bad level":  "log:\n  level: loud\n",
		"bad secret": "csrf:\n  secret: \"***\"\n",
		"short ttl":  "session:\n  idle_ttl: 10ms\n",
	}
	for name, y := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(writeRoot(t, y))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromMissingYAML(t *testing.T) {
	_, err := LoadFrom(t.TempDir())
	assert.Error(t, err)
}

func TestFormDirsResolvesRelative(t *testing.T) {
	cfg := &Config{Forms: Forms{Dirs: []string{"site", "/abs"}}, Paths: Paths{Root: "/srv"}}
	assert.Equal(t, []string{"/srv/site", "/abs"}, cfg.FormDirs())
}
