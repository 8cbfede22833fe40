// internal/form/password.go
//
// Adept – Forms subsystem: password input.
//
// Context
//   PasswordInput is a TextInput with one piece of component-local state:
//   whether the password is shown.  The flag lives on the instance, never in
//   the store, so two password fields (or two sessions) toggle independently.
//   The trailing PasswordVisibilityButton flips the flag.  Without scripts
//   the button is a submit button pointed at the visibility endpoint.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"html"
)

// Tooltip texts of the visibility button.
const (
	MsgShowPassword = "Show password"
	MsgHidePassword = "Hide password"
)

// PasswordInput renders a password field with a visibility toggle.
type PasswordInput struct {
	*TextInput
	visible bool
}

// NewPasswordInput builds a password field.  Type and AutoComplete from p
// are ignored; the component owns both.
func NewPasswordInput(p TextInputProps) *PasswordInput {
	p.Type = ""
	p.AutoComplete = ""
	pi := &PasswordInput{TextInput: NewTextInput(p)}
	pi.inputType = pi.currentType
	pi.adornment = pi.renderButton
	return pi
}

// Visible reports whether the password is shown in clear text.
func (p *PasswordInput) Visible() bool { return p.visible }

// Toggle flips visibility.
func (p *PasswordInput) Toggle() { p.visible = !p.visible }

func (p *PasswordInput) currentType() string {
	if p.visible {
		return "text"
	}
	return "password"
}

// Button returns the adornment bound to this input.
func (p *PasswordInput) Button() PasswordVisibilityButton {
	return PasswordVisibilityButton{Show: p.visible, OnClick: p.Toggle}
}

func (p *PasswordInput) renderButton(buf *bytes.Buffer, rc RenderContext) {
	p.Button().render(buf, p.Name(), rc)
}

// PasswordVisibilityButton is purely presentational: it draws the icon that
// matches Show and calls OnClick when clicked.
type PasswordVisibilityButton struct {
	Show    bool
	OnClick func()
}

// Click invokes OnClick when set.
func (b PasswordVisibilityButton) Click() {
	if b.OnClick != nil {
		b.OnClick()
	}
}

// Tooltip returns the hint describing what a click will do.
func (b PasswordVisibilityButton) Tooltip() string {
	if b.Show {
		return MsgHidePassword
	}
	return MsgShowPassword
}

// Icon names the glyph drawn for the current state.
func (b PasswordVisibilityButton) Icon() string {
	if b.Show {
		return "visibility"
	}
	return "visibility-off"
}

func (b PasswordVisibilityButton) render(buf *bytes.Buffer, field string, rc RenderContext) {
	tip := html.EscapeString(rc.t(b.Tooltip()))
	buf.WriteString(`<span class="input-adornment input-adornment--end">`)
	buf.WriteString(`<button class="icon-button" aria-label="toggle password visibility"`)
	buf.WriteString(` title="` + tip + `" data-tooltip="` + tip + `" data-tooltip-placement="top"`)
	if rc.VisibilityURL != "" {
		buf.WriteString(` type="submit" formaction="` + html.EscapeString(rc.VisibilityURL) + `" formnovalidate`)
		buf.WriteString(` name="_toggle" value="` + html.EscapeString(field) + `"`)
	} else {
		buf.WriteString(` type="button"`)
	}
	buf.WriteString(`><span class="icon icon-` + b.Icon() + `" aria-hidden="true"></span></button>`)
	buf.WriteString(`</span>` + "\n")
}
