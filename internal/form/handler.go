// internal/form/handler.go
//
// Adept – Forms subsystem: HTTP endpoints.
//
// Context
//   Handler serves one form, backed by one Binding per visitor.  The
//   Resolver finds (or builds) the visitor's Binding and returns a release
//   func; the handler holds it for the whole request, so a visitor's
//   requests are applied one at a time.
//
// Routes (relative to Base)
//   GET  /            render the page.
//   POST /change      htmx: apply one field (`_field`), return the field
//                     fragment plus an out-of-band submit button.
//   POST /visibility  apply edited fields, flip `_toggle`, re-render.
//   POST /reset       dispatch resetForm, 303 back to Base.
//   POST /            submit: re-run every field, mark all touched, and call
//                     OnSubmit only when IsFormValid holds (422 otherwise).
//
//   Every POST must carry a valid `csrf_token` (403 otherwise).
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/adept-forms/internal/locale"
	"github.com/yanizio/adept-forms/internal/logger"
	"github.com/yanizio/adept-forms/internal/metrics"
	"github.com/yanizio/adept-forms/internal/view"
)

// Reserved POST keys.
const (
	keyCSRF   = "csrf_token"
	keyField  = "_field"
	keyToggle = "_toggle"
)

// ErrRejected tells the handler that OnSubmit refused a valid-looking
// submission.  OnSubmit is expected to have set field errors via SetError;
// the form is re-rendered with 422.
var ErrRejected = errors.New("form: submission rejected")

// Resolver returns the visitor's Binding.  release must be called once the
// request is done with it.
type Resolver[N ~string] func(w http.ResponseWriter, r *http.Request) (b *Binding[N], release func(), err error)

// SubmitFunc handles a valid submission.  A non-empty redirect sends the
// visitor there with 303; otherwise the form is shown again with a
// confirmation notice.
type SubmitFunc[N ~string] func(w http.ResponseWriter, r *http.Request, b *Binding[N], p FormPayload[N]) (redirect string, err error)

// Handler serves one form.
type Handler[N ~string] struct {
	// ID names the form in logs and metrics.
	ID string
	// Base is the mount path, e.g. "/login".
	Base        string
	Title       string
	SubmitLabel string
	Resolve     Resolver[N]
	OnSubmit    SubmitFunc[N]
	CSRF        *CSRF
	// HTMX enables per-keystroke validation through POST /change.
	HTMX bool
	// Styles and Scripts are linked from the page head.
	Styles  []string
	Scripts []string
}

// Routes returns a router to mount at Base.
func (h *Handler[N]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.serve(h.show))
	r.Group(func(r chi.Router) {
		r.Use(h.verifyCSRF)
		r.Post("/", h.serve(h.submit))
		r.Post("/change", h.serve(h.change))
		r.Post("/visibility", h.serve(h.visibility))
		r.Post("/reset", h.serve(h.reset))
	})
	return r
}

// -----------------------------------------------------------------------------
// Request plumbing
// -----------------------------------------------------------------------------

// request bundles what every endpoint needs.
type request[N ~string] struct {
	w http.ResponseWriter
	r *http.Request
	b *Binding[N]
	t func(string) string
}

func (h *Handler[N]) serve(fn func(*request[N])) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, release, err := h.Resolve(w, r)
		if err != nil {
			logger.FromContext(r.Context()).Errorw("form resolve failed", "form", h.ID, "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer release()

		b.ValidationFailed = func(name N, _ string) {
			metrics.ValidationFailuresTotal.WithLabelValues(h.ID).Inc()
		}
		fn(&request[N]{
			w: w,
			r: r,
			b: b,
			t: locale.Translator(locale.FromContext(r.Context())),
		})
	}
}

// verifyCSRF rejects POSTs without a valid token before any state changes.
func (h *Handler[N]) verifyCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form body", http.StatusBadRequest)
			return
		}
		if err := h.CSRF.Verify(r.PostForm.Get(keyCSRF)); err != nil {
			metrics.CSRFRejectTotal.Inc()
			logger.FromContext(r.Context()).Warnw("csrf rejected", "form", h.ID, "path", r.URL.Path)
			h.serve(func(req *request[N]) {
				if r.PostForm.Has(keyField) {
					http.Error(w, req.t(MsgBadToken), http.StatusForbidden)
					return
				}
				h.page(req, http.StatusForbidden, MsgBadToken, true)
			})(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler[N]) renderContext(t func(string) string) RenderContext {
	rc := RenderContext{Translate: t, VisibilityURL: h.Base + "/visibility"}
	if h.HTMX {
		rc.ChangeURL = h.Base + "/change"
	}
	return rc
}

func (h *Handler[N]) formView(req *request[N], notice string, isErr bool) (FormView, error) {
	tok, err := h.CSRF.Token()
	if err != nil {
		return FormView{}, err
	}
	return FormView{
		Action:        h.Base,
		Token:         tok,
		SubmitLabel:   h.SubmitLabel,
		Notice:        notice,
		Error:         isErr,
		RenderContext: h.renderContext(req.t),
	}, nil
}

// page renders the full page with status.
func (h *Handler[N]) page(req *request[N], status int, notice string, isErr bool) {
	fv, err := h.formView(req, notice, isErr)
	if err != nil {
		h.fail(req, "csrf token", err)
		return
	}
	var body bytes.Buffer
	if err := RenderForm(&body, req.b, fv); err != nil {
		h.fail(req, "render", err)
		return
	}
	err = view.Render(req.w, status, view.Page{
		Title:     h.Title,
		Lang:      locale.FromContext(req.r.Context()).String(),
		Body:      template.HTML(body.String()),
		Styles:    h.Styles,
		Scripts:   h.Scripts,
		Translate: req.t,
	})
	if err != nil {
		logger.FromContext(req.r.Context()).Errorw("page write failed", "form", h.ID, "err", err)
	}
}

func (h *Handler[N]) fail(req *request[N], what string, err error) {
	logger.FromContext(req.r.Context()).Errorw("form "+what+" failed", "form", h.ID, "err", err)
	http.Error(req.w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// applyPosted feeds posted values into the binding.  A field missing from
// the post, or a hidden password posted empty, keeps its stored value; with
// rerun set that stored value is still run through the pipeline again.
// With onlyChanged set, values equal to the stored one are skipped.
func applyPosted[N ~string](b *Binding[N], form url.Values, rerun, onlyChanged bool) error {
	state, err := b.State()
	if err != nil {
		return err
	}
	for _, name := range b.Fields() {
		stored := state[name].Value
		v, posted := form[string(name)]
		value := stored
		if posted && len(v) > 0 && (v[0] != "" || b.Echoed(name)) {
			value = v[0]
		} else if !rerun {
			continue
		}
		if onlyChanged && value == stored {
			continue
		}
		if err := b.Change(name, value); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Endpoints
// -----------------------------------------------------------------------------

func (h *Handler[N]) show(req *request[N]) {
	h.page(req, http.StatusOK, "", false)
}

func (h *Handler[N]) change(req *request[N]) {
	name, ok := req.b.Lookup(req.r.PostForm.Get(keyField))
	if !ok {
		http.Error(req.w, ErrUnknownField.Error(), http.StatusBadRequest)
		return
	}
	if err := req.b.Change(name, req.r.PostForm.Get(string(name))); err != nil {
		h.fail(req, "change", err)
		return
	}

	fv, err := h.formView(req, "", false)
	if err != nil {
		h.fail(req, "csrf token", err)
		return
	}
	var buf bytes.Buffer
	if err := req.b.RenderField(&buf, name, fv.RenderContext); err != nil {
		h.fail(req, "render", err)
		return
	}
	if err := SubmitButton(&buf, req.b, fv); err != nil {
		h.fail(req, "render", err)
		return
	}
	req.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = req.w.Write(buf.Bytes())
}

func (h *Handler[N]) visibility(req *request[N]) {
	name, ok := req.b.Lookup(req.r.PostForm.Get(keyToggle))
	if !ok {
		http.Error(req.w, ErrUnknownField.Error(), http.StatusBadRequest)
		return
	}
	if err := applyPosted(req.b, req.r.PostForm, false, true); err != nil {
		h.fail(req, "change", err)
		return
	}
	if err := req.b.Toggle(name); err != nil {
		http.Error(req.w, err.Error(), http.StatusBadRequest)
		return
	}
	h.page(req, http.StatusOK, "", false)
}

func (h *Handler[N]) reset(req *request[N]) {
	req.b.Reset()
	http.Redirect(req.w, req.r, h.Base, http.StatusSeeOther)
}

func (h *Handler[N]) submit(req *request[N]) {
	log := logger.FromContext(req.r.Context())
	b := req.b

	if err := applyPosted(b, req.r.PostForm, true, false); err != nil {
		h.fail(req, "change", err)
		return
	}
	b.TouchAll()

	if !b.Valid() {
		metrics.SubmitsTotal.WithLabelValues(h.ID, "invalid").Inc()
		log.Debugw("form invalid", "form", h.ID)
		h.page(req, http.StatusUnprocessableEntity, "", false)
		return
	}

	payload, err := b.Payload()
	if err != nil {
		h.fail(req, "payload", err)
		return
	}

	redirect := ""
	if h.OnSubmit != nil {
		redirect, err = h.OnSubmit(req.w, req.r, b, payload)
	}
	switch {
	case errors.Is(err, ErrRejected):
		metrics.SubmitsTotal.WithLabelValues(h.ID, "rejected").Inc()
		h.page(req, http.StatusUnprocessableEntity, "", false)
		return
	case err != nil:
		metrics.SubmitsTotal.WithLabelValues(h.ID, "error").Inc()
		h.fail(req, "submit", err)
		return
	}

	metrics.SubmitsTotal.WithLabelValues(h.ID, "ok").Inc()
	log.Infow("form submitted", "form", h.ID)
	b.Reset()
	if redirect != "" {
		http.Redirect(req.w, req.r, redirect, http.StatusSeeOther)
		return
	}
	h.page(req, http.StatusOK, MsgSubmitted, false)
}
