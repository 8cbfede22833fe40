// internal/form/binding.go
//
// Adept – Forms subsystem: store bindings.
//
// Context
//   A Binding ties one form's slice, its input components, and a store
//   together.  It is the unit the HTTP handler works with: one Binding per
//   form per session.  Components are created once, so component-local state
//   (password visibility) survives between requests, while field state is
//   always read back from the store.
//
// Workflow
//   •  Bind registers the slice (if needed) and builds an Input for every
//      FieldSpec, each wired to UseForm(...).HandleChange(name).
//   •  Change routes a raw value to the named input.
//   •  TouchAll, Reset, and SetInitialValues dispatch the other reducers.
//   •  Render draws fields in declaration order.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io"

	"github.com/yanizio/adept-forms/internal/store"
)

// ErrUnknownField is returned for names outside the form's field set.
var ErrUnknownField = errors.New("form: unknown field")

// ErrNotToggleable is returned by Toggle for fields without visibility state.
var ErrNotToggleable = errors.New("form: field has no visibility toggle")

// Kind selects the input component built for a field.
type Kind string

const (
	KindText     Kind = "text"
	KindNotEmpty Kind = "notempty"
	KindPassword Kind = "password"
)

// FieldSpec declares one bound field.  Props.Name and Props.OnChange are
// filled by Bind.
type FieldSpec[N ~string] struct {
	Name  N
	Kind  Kind
	Props TextInputProps
}

// Binding is one form bound to one store.
type Binding[N ~string] struct {
	slice   *SliceOptions[N]
	store   *store.Store
	order   []N
	inputs  map[N]Input
	toggles map[N]*PasswordInput
	// ValidationFailed, when set, observes every change that produced an
	// error.  Used for metrics.
	ValidationFailed func(name N, err string)
}

// Bind registers slice in st (unless already present) and builds inputs.
func Bind[N ~string](st *store.Store, slice *SliceOptions[N], fields ...FieldSpec[N]) (*Binding[N], error) {
	if !st.Has(slice.Name()) {
		if err := st.Register(slice); err != nil {
			return nil, err
		}
	}

	b := &Binding[N]{
		slice:   slice,
		store:   st,
		inputs:  make(map[N]Input, len(fields)),
		toggles: make(map[N]*PasswordInput),
	}

	state, err := b.State()
	if err != nil {
		return nil, err
	}
	form := UseForm(state, slice.SetInputFieldAction, st)

	for _, spec := range fields {
		if !slice.Has(spec.Name) {
			return nil, fmt.Errorf("%w: %s in %s", ErrUnknownField, spec.Name, slice.Name())
		}
		if _, dup := b.inputs[spec.Name]; dup {
			return nil, fmt.Errorf("form: field %s bound twice in %s", spec.Name, slice.Name())
		}

		name := spec.Name
		handle := form.HandleChange(name)
		props := spec.Props
		props.Name = string(name)
		props.OnChange = func(value, err string) {
			if err != "" && b.ValidationFailed != nil {
				b.ValidationFailed(name, err)
			}
			handle(value, err)
		}

		var in Input
		switch spec.Kind {
		case KindText, "":
			in = NewTextInput(props)
		case KindNotEmpty:
			in = NewNotEmptyTextInput(props)
		case KindPassword:
			pi := NewPasswordInput(props)
			b.toggles[name] = pi
			in = pi
		default:
			return nil, fmt.Errorf("form: field %s has unsupported kind %q", name, spec.Kind)
		}
		b.inputs[name] = in
		b.order = append(b.order, name)
	}
	return b, nil
}

// Slice returns the reducer bundle.
func (b *Binding[N]) Slice() *SliceOptions[N] { return b.slice }

// Fields returns field names in declaration order.
func (b *Binding[N]) Fields() []N { return append([]N(nil), b.order...) }

// Lookup resolves a raw name, e.g. from a posted form.
func (b *Binding[N]) Lookup(raw string) (N, bool) {
	n := N(raw)
	_, ok := b.inputs[n]
	return n, ok
}

// Input returns the component of name.
func (b *Binding[N]) Input(name N) (Input, bool) {
	in, ok := b.inputs[name]
	return in, ok
}

// State reads the form state from the store.
func (b *Binding[N]) State() (FormState[N], error) {
	return store.Select[FormState[N]](b.store, b.slice.Name())
}

// Payload recomputes the value-only projection.
func (b *Binding[N]) Payload() (FormPayload[N], error) {
	state, err := b.State()
	if err != nil {
		return nil, err
	}
	return UseForm(state, b.slice.SetInputFieldAction, b.store).Payload, nil
}

// Echoed reports whether the rendered markup carries name's value.  A hidden
// password is never written back to the page, so an empty post for it does
// not mean the visitor cleared it.
func (b *Binding[N]) Echoed(name N) bool {
	in, ok := b.inputs[name]
	if !ok {
		return false
	}
	if t, ok := in.(interface{ Type() string }); ok {
		return t.Type() != "password"
	}
	return true
}

// Valid reports IsFormValid of the current state.
func (b *Binding[N]) Valid() bool {
	state, err := b.State()
	return err == nil && IsFormValid(state)
}

// Change feeds raw into the named input.
func (b *Binding[N]) Change(name N, raw string) error {
	in, ok := b.inputs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	in.Change(raw)
	return nil
}

// Toggle flips password visibility of name.
func (b *Binding[N]) Toggle(name N) error {
	if _, ok := b.inputs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	pi, ok := b.toggles[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotToggleable, name)
	}
	pi.Button().Click()
	return nil
}

// TouchAll dispatches setTouchedAll.
func (b *Binding[N]) TouchAll() { b.store.Dispatch(b.slice.SetTouchedAllAction()) }

// Reset dispatches resetForm.
func (b *Binding[N]) Reset() { b.store.Dispatch(b.slice.ResetFormAction()) }

// SetInitialValues dispatches setInitialValues.
func (b *Binding[N]) SetInitialValues(p FormPayload[N]) {
	b.store.Dispatch(b.slice.SetInitialValuesAction(p))
}

// SetError stores a caller-supplied error on name, keeping its value.  Use
// it for checks only the server can make, e.g. wrong credentials.
func (b *Binding[N]) SetError(name N, msg string) error {
	state, err := b.State()
	if err != nil {
		return err
	}
	f, ok := state[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	b.store.Dispatch(b.slice.SetInputFieldAction(name, f.Value, msg))
	return nil
}

// Render writes every field in declaration order.
func (b *Binding[N]) Render(w io.Writer, rc RenderContext) error {
	state, err := b.State()
	if err != nil {
		return err
	}
	for _, name := range b.order {
		if err := b.inputs[name].Render(w, state[name], rc); err != nil {
			return err
		}
	}
	return nil
}

// RenderField writes one field.
func (b *Binding[N]) RenderField(w io.Writer, name N, rc RenderContext) error {
	in, ok := b.inputs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	state, err := b.State()
	if err != nil {
		return err
	}
	return in.Render(w, state[name], rc)
}
