// internal/form/renderer.go
//
// Adept – Forms subsystem: form markup.
//
// Context
//   Inputs render themselves (input.go, password.go).  This file wraps a
//   Binding's fields in the surrounding <form>: the CSRF hidden input, an
//   optional notice banner, and the submit and reset buttons.
//
// Workflow
//   •  RenderForm writes the full <form> element.
//   •  SubmitButton writes only the submit button; with htmx the change
//      endpoint sends it out-of-band so its disabled state follows
//      IsFormValid without a page reload.
//
// Style
//   Output HTML is plain, no framework classes, so themes can style via
//   element selectors or class hooks.  Each input gets id="fld-{name}" and
//   is wrapped in <div class="form-field"> for consistent styling.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"html"
	"io"
)

// Default labels; translated through RenderContext.
const (
	MsgSubmit    = "Submit"
	MsgReset     = "Reset"
	MsgBadToken  = "Security token invalid.  Please refresh and try again."
	MsgSubmitted = "Thank you.  Your submission was received."
)

// FormView carries everything RenderForm needs besides the binding.
type FormView struct {
	// Action is the submit URL; reset posts to Action+"/reset".
	Action string
	// Token is the CSRF token embedded as a hidden input.
	Token       string
	SubmitLabel string
	// Notice is a form-level message shown above the fields.  Error
	// selects the alert styling.
	Notice string
	Error  bool
	RenderContext
}

// RenderForm writes b's fields inside a <form> element.
func RenderForm[N ~string](w io.Writer, b *Binding[N], v FormView) error {
	var buf bytes.Buffer
	action := html.EscapeString(v.Action)

	buf.WriteString(`<form method="post" action="` + action + `" class="adept-form" id="adept-form" novalidate>` + "\n")
	if v.Notice != "" {
		class, role := "form-notice", "status"
		if v.Error {
			class, role = "form-notice form-notice--error", "alert"
		}
		buf.WriteString(`<p class="` + class + `" role="` + role + `">` + html.EscapeString(v.t(v.Notice)) + `</p>` + "\n")
	}
	buf.WriteString(`<input type="hidden" name="csrf_token" value="` + html.EscapeString(v.Token) + `">` + "\n")

	if err := b.Render(&buf, v.RenderContext); err != nil {
		return err
	}

	buf.WriteString(`<div class="form-actions">` + "\n")
	writeSubmit(&buf, v, b.Valid(), false)
	buf.WriteString(`<button type="submit" class="button" formaction="` + action + `/reset" formnovalidate>`)
	buf.WriteString(html.EscapeString(v.t(MsgReset)) + `</button>` + "\n")
	buf.WriteString(`</div>` + "\n")
	buf.WriteString(`</form>` + "\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// SubmitButton writes the submit button alone, marked for an out-of-band
// htmx swap.
func SubmitButton[N ~string](w io.Writer, b *Binding[N], v FormView) error {
	var buf bytes.Buffer
	writeSubmit(&buf, v, b.Valid(), true)
	_, err := w.Write(buf.Bytes())
	return err
}

// writeSubmit draws the submit button.  It is only disabled while change
// events reach the server (ChangeURL set); otherwise the server cannot see
// edits and a disabled button could never recover.
func writeSubmit(buf *bytes.Buffer, v FormView, valid, oob bool) {
	label := v.SubmitLabel
	if label == "" {
		label = MsgSubmit
	}
	buf.WriteString(`<button type="submit" id="form-submit" class="button button--primary"`)
	if !valid && v.ChangeURL != "" {
		buf.WriteString(` disabled`)
	}
	if oob {
		buf.WriteString(` hx-swap-oob="true"`)
	}
	buf.WriteString(`>` + html.EscapeString(v.t(label)) + `</button>` + "\n")
}
