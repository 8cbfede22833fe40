// internal/form/input.go
//
// Adept – Forms subsystem: text input components.
//
// Context
//   A TextInput is a bare renderer plus the error-handling decorator.  It
//   never stores the field itself.  Change feeds a raw value through the
//   decorated handler (which normally dispatches to the store), and Render
//   draws whatever InputField the caller read back from the store.
//
//   Error text is shown only for touched fields.  Otherwise the helper line
//   holds a single space so the layout height does not jump when an error
//   appears, unless the caller disabled the helper line altogether.
//
// Style
//   Output HTML is plain, like the rest of the forms subsystem.  Each input
//   gets id="fld-{name}" and is wrapped in <div class="form-field">.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"html"
	"io"
	"strconv"
	"strings"
)

// Input is a bound, renderable field control.
type Input interface {
	Name() string
	Change(raw string)
	Render(w io.Writer, field InputField, rc RenderContext) error
}

// RenderContext carries per-request rendering hints.
type RenderContext struct {
	// Translate maps literal messages to the request language.  Nil means
	// messages are written as-is.
	Translate func(string) string
	// ChangeURL, when set, adds hx-post attributes so each edit is sent to
	// the server and only the helper line is swapped.  Fields without a
	// helper line swap nothing in place.
	ChangeURL string
	// VisibilityURL is the formaction of password visibility buttons.
	VisibilityURL string
}

func (rc RenderContext) t(s string) string {
	if rc.Translate == nil {
		return s
	}
	return rc.Translate(s)
}

// TextInputProps configure a TextInput.
type TextInputProps struct {
	Name         string
	ID           string // defaults to "fld-{Name}"
	Label        string
	Placeholder  string
	Type         string // HTML input type, defaults to "text"
	AutoComplete string
	NoHelperText bool
	OnChange     OnChange
	ErrorHandling
}

// TextInput renders a text field and runs the decorated change pipeline.
type TextInput struct {
	props     TextInputProps
	onchange  OnChange
	inputType func() string
	adornment func(buf *bytes.Buffer, rc RenderContext)
}

// Compile-time assertion.
var _ Input = (*TextInput)(nil)

// NewTextInput wires p.OnChange behind p.ErrorHandling.
func NewTextInput(p TextInputProps) *TextInput {
	return &TextInput{
		props:    p,
		onchange: p.ErrorHandling.Wrap(p.OnChange),
	}
}

// NewNotEmptyTextInput is NewTextInput with NotEmpty checked after the
// caller's own helpers.
func NewNotEmptyTextInput(p TextInputProps) *TextInput {
	p.ErrorHandling = p.ErrorHandling.withHelper(NotEmpty)
	return NewTextInput(p)
}

// Name returns the field name.
func (t *TextInput) Name() string { return t.props.Name }

// Change is the raw change event: the value arrives with an empty error.
func (t *TextInput) Change(raw string) { t.onchange(raw, "") }

// ErrorHandling exposes the configured pipeline.
func (t *TextInput) ErrorHandling() ErrorHandling { return t.props.ErrorHandling }

// Type returns the HTML input type currently rendered.
func (t *TextInput) Type() string {
	if t.inputType != nil {
		return t.inputType()
	}
	if t.props.Type == "" {
		return "text"
	}
	return t.props.Type
}

func (t *TextInput) id() string {
	if t.props.ID != "" {
		return t.props.ID
	}
	return "fld-" + t.props.Name
}

// HelperID is the DOM id of the helper line.
func (t *TextInput) HelperID() string { return t.id() + "-helper" }

// HelperText returns the helper line content for field.  ok is false when
// the helper line is disabled.
func (t *TextInput) HelperText(field InputField) (text string, ok bool) {
	if t.props.NoHelperText {
		return "", false
	}
	if field.ShowError() {
		return field.Error, true
	}
	return " ", true
}

// Render writes the field markup.
func (t *TextInput) Render(w io.Writer, field InputField, rc RenderContext) error {
	var buf bytes.Buffer
	p := t.props
	id := html.EscapeString(t.id())
	name := html.EscapeString(p.Name)
	typ := t.Type()
	invalid := field.ShowError()

	class := "form-field"
	if invalid {
		class += " form-field--error"
	}
	buf.WriteString(`<div class="` + class + `" data-field="` + name + `">` + "\n")

	if p.Label != "" {
		buf.WriteString(`<label for="` + id + `">` + html.EscapeString(rc.t(p.Label)) + `</label>` + "\n")
	}

	buf.WriteString(`<div class="form-control">` + "\n")
	buf.WriteString(`<input id="` + id + `" name="` + name + `" type="` + html.EscapeString(typ) + `"`)
	// A hidden password is never echoed back into the page.
	if field.Value != "" && typ != "password" {
		buf.WriteString(` value="` + html.EscapeString(field.Value) + `"`)
	}
	if p.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(rc.t(p.Placeholder)) + `"`)
	}
	if p.AutoComplete != "" {
		buf.WriteString(` autocomplete="` + html.EscapeString(p.AutoComplete) + `"`)
	}
	if n := p.ValidateOptions.MaxLength; n != nil {
		buf.WriteString(` maxlength="` + strconv.Itoa(*n) + `"`)
	}
	if invalid {
		buf.WriteString(` aria-invalid="true"`)
	}
	if !p.NoHelperText {
		buf.WriteString(` aria-describedby="` + html.EscapeString(t.HelperID()) + `"`)
	}
	if rc.ChangeURL != "" {
		hid := html.EscapeString(t.HelperID())
		buf.WriteString(` hx-post="` + html.EscapeString(rc.ChangeURL) + `"`)
		buf.WriteString(` hx-trigger="input changed delay:300ms"`)
		buf.WriteString(` hx-include="closest form"`)
		buf.WriteString(` hx-vals='{"_field":"` + jsonEscape(p.Name) + `"}'`)
		if p.NoHelperText {
			// Nothing to swap in place; the response still carries the
			// out-of-band submit button.
			buf.WriteString(` hx-swap="none"`)
		} else {
			buf.WriteString(` hx-target="#` + hid + `" hx-select="#` + hid + `" hx-swap="outerHTML"`)
		}
	}
	buf.WriteString(`>` + "\n")

	if t.adornment != nil {
		t.adornment(&buf, rc)
	}
	buf.WriteString(`</div>` + "\n")

	if text, ok := t.HelperText(field); ok {
		if text != " " {
			text = rc.t(text)
		}
		buf.WriteString(`<p class="helper-text" id="` + html.EscapeString(t.HelperID()) + `" aria-live="polite">`)
		buf.WriteString(html.EscapeString(text))
		buf.WriteString(`</p>` + "\n")
	}

	buf.WriteString(`</div>` + "\n")
	_, err := w.Write(buf.Bytes())
	return err
}

var jsonAttrReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`'`, `\u0027`,
	`<`, `\u003c`,
	`>`, `\u003e`,
	`&`, `\u0026`,
)

// jsonEscape makes s safe inside a single-quoted attribute holding a JSON
// string literal.
func jsonEscape(s string) string {
	return jsonAttrReplacer.Replace(s)
}
