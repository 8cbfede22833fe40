// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web calls Mount once
// at start-up: every component gets Init(rt) when it implements
// Initializer, then its Routes() are mounted at "/<name>".

package component

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/adept-forms/internal/config"
	"github.com/yanizio/adept-forms/internal/form"
	"github.com/yanizio/adept-forms/internal/session"
)

// Runtime exposes process-wide services to components.
type Runtime interface {
	Config() *config.Config
	Sessions() *session.Cache
	CSRF() *form.CSRF
}

// Initializer is optional.  If a Component implements it, Mount calls
// Init(rt) once before mounting its routes.
type Initializer interface {
	Init(Runtime) error
}

// Component contract.
//
// Routes() should mount every page the component serves, relative to
// "/<name>", e.g:
//
//	r := chi.NewRouter()
//	r.Mount("/login", loginHandler.Routes()) // served at /auth/login
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Mount initializes every component and mounts its routes on r.
func Mount(r chi.Router, rt Runtime) error {
	for _, c := range All() {
		if in, ok := c.(Initializer); ok {
			if err := in.Init(rt); err != nil {
				return fmt.Errorf("component %s: %w", c.Name(), err)
			}
		}
		r.Mount("/"+c.Name(), c.Routes())
	}
	return nil
}
