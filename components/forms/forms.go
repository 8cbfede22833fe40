// components/forms/forms.go
//
// YAML forms component.
//
// Context
//   Serves every definition found under components/*/forms/*.yaml.  Init
//   loads the definitions from the configured base directories, then builds
//   one form.Handler per definition, mounted at /forms/{id}.  GET /forms
//   lists them.  A valid submission runs the definition's actions.
//
//------------------------------------------------------------------------------

package forms

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/adept-forms/internal/component"
	"github.com/yanizio/adept-forms/internal/form"
	"github.com/yanizio/adept-forms/internal/locale"
	"github.com/yanizio/adept-forms/internal/logger"
	"github.com/yanizio/adept-forms/internal/store"
	"github.com/yanizio/adept-forms/internal/view"
)

// Compile-time assertions.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

const mountPath = "/forms"

// Component serves YAML-defined forms.
type Component struct {
	defs     []*form.FormDef
	handlers map[string]*form.Handler[string]
}

// Name returns the canonical component key.
func (c *Component) Name() string { return "forms" }

// Init loads definitions and builds their handlers.
func (c *Component) Init(rt component.Runtime) error {
	cfg := rt.Config()
	n, err := form.RegisterForms(cfg.FormDirs())
	if err != nil {
		return err
	}
	zap.S().Infow("form definitions loaded", "count", n, "dirs", cfg.FormDirs())

	c.defs = form.All()
	c.handlers = make(map[string]*form.Handler[string], len(c.defs))
	for _, fd := range c.defs {
		c.handlers[fd.ID] = newHandler(fd, rt)
	}
	return nil
}

// Routes builds and returns the router mounted at “/forms”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.handleIndex)
	for _, fd := range c.defs {
		r.Mount("/"+fd.ID, c.handlers[fd.ID].Routes())
	}
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }

// newHandler wires one definition to the session cache.
func newHandler(fd *form.FormDef, rt component.Runtime) *form.Handler[string] {
	title := fd.Title
	if title == "" {
		title = fd.ID
	}
	return &form.Handler[string]{
		ID:          fd.ID,
		Base:        mountPath + "/" + fd.ID,
		Title:       title,
		SubmitLabel: fd.Submit,
		Resolve: component.SessionResolver(rt.Sessions(), "yaml:"+fd.ID,
			func(st *store.Store) (*form.Binding[string], error) { return fd.Build(st) }),
		OnSubmit: func(_ http.ResponseWriter, r *http.Request, _ *form.Binding[string], p form.FormPayload[string]) (string, error) {
			form.ExecuteActions(r.Context(), fd, p)
			return "", nil
		},
		CSRF: rt.CSRF(),
		HTMX: rt.Config().HTTP.HTMX,
	}
}

func (c *Component) handleIndex(w http.ResponseWriter, r *http.Request) {
	t := locale.Translator(locale.FromContext(r.Context()))
	links := make([]view.Link, 0, len(c.defs))
	for _, fd := range c.defs {
		label := fd.Title
		if label == "" {
			label = fd.ID
		}
		links = append(links, view.Link{Href: mountPath + "/" + fd.ID, Label: label})
	}

	body, err := view.RenderToString("index", map[string]any{"Items": links}, t)
	if err == nil {
		err = view.Render(w, http.StatusOK, view.Page{
			Title:     "Forms",
			Lang:      locale.FromContext(r.Context()).String(),
			Body:      body,
			Translate: t,
		})
	}
	if err != nil {
		logger.FromContext(r.Context()).Errorw("form index failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
