// components/auth/auth.go
//
// Authentication component – login form.
//
// Context
//   The login page is a form wired in Go rather than YAML: the field set is
//   a typed enum (loginField), so a typo in a field name is a compile error.
//   Email is a NotEmpty text input with trimming; the password gets the
//   visibility toggle.  Credentials are checked by Verify, which cmd/web (or
//   a test) replaces; the default accepts nobody.
//
//------------------------------------------------------------------------------

package auth

import (
	"context"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/adept-forms/internal/component"
	"github.com/yanizio/adept-forms/internal/form"
	"github.com/yanizio/adept-forms/internal/store"
)

// Compile-time assertions.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// loginField enumerates the login form's fields.
type loginField string

const (
	fieldEmail    loginField = "email"
	fieldPassword loginField = "password"
)

const (
	formID   = "login"
	loginURL = "/auth/login"

	msgBadCredentials = "Incorrect email or password."
	msgBadEmail       = "Enter a valid email address."
	msgShortPassword  = "Password must be at least 8 characters."
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Verify checks credentials.  Replace it before Mount.
var Verify = func(ctx context.Context, email, password string) (bool, error) {
	return false, nil
}

// AfterLogin is where a successful login redirects.
var AfterLogin = "/"

// Component encapsulates login functionality.
type Component struct {
	login *form.Handler[loginField]
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Init builds the login handler from runtime services.
func (c *Component) Init(rt component.Runtime) error {
	c.login = &form.Handler[loginField]{
		ID:          formID,
		Base:        loginURL,
		Title:       "Sign in",
		SubmitLabel: "Sign in",
		Resolve:     component.SessionResolver(rt.Sessions(), formID, buildLogin),
		OnSubmit:    submitLogin,
		CSRF:        rt.CSRF(),
		HTMX:        rt.Config().HTTP.HTMX,
	}
	return nil
}

// Routes builds and returns the router mounted at “/auth”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Mount("/login", c.login.Routes())
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Form wiring ──────────────────────────────────*/

// buildLogin binds a fresh login form to st.
func buildLogin(st *store.Store) (*form.Binding[loginField], error) {
	slice := form.CreateSliceOptions(formID, form.NewFormState(fieldEmail, fieldPassword))
	return form.Bind(st, slice,
		form.FieldSpec[loginField]{
			Name: fieldEmail,
			Kind: form.KindNotEmpty,
			Props: form.TextInputProps{
				Label:        "Email",
				Type:         "email",
				AutoComplete: "username",
				ErrorHandling: form.ErrorHandling{
					Mutators:        []form.InputMutator{form.TrimSpace},
					ValidateHelpers: []form.ValidateHelper{form.Matches(emailPattern, msgBadEmail)},
				},
			},
		},
		form.FieldSpec[loginField]{
			Name: fieldPassword,
			Kind: form.KindPassword,
			Props: form.TextInputProps{
				Label: "Password",
				ErrorHandling: form.ErrorHandling{
					ValidateHelpers: []form.ValidateHelper{form.NotEmpty, form.Length(msgShortPassword)},
					ValidateOptions: form.ValidateOptions{MinLength: form.Ptr(8)},
				},
			},
		},
	)
}

/*──────────────────────────── Submission ───────────────────────────────────*/

func submitLogin(_ http.ResponseWriter, r *http.Request, b *form.Binding[loginField], p form.FormPayload[loginField]) (string, error) {
	ok, err := Verify(r.Context(), p[fieldEmail], p[fieldPassword])
	if err != nil {
		return "", err
	}
	if !ok {
		if err := b.SetError(fieldPassword, msgBadCredentials); err != nil {
			return "", err
		}
		return "", form.ErrRejected
	}
	return AfterLogin, nil
}
