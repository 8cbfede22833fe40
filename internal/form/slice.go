// internal/form/slice.go
//
// Adept – Forms subsystem: form state slice factory.
//
// Context
//   CreateSliceOptions turns a field-name set and its initial values into a
//   named reducer bundle for internal/store.  Four reducers exist and they
//   are the only way a FormState changes:
//
//      setInitialValues – copy values from a payload (prefill, edit forms).
//      setTouchedAll    – reveal every error, e.g. on a submit attempt.
//      resetForm        – return the initial snapshot.
//      setInputField    – replace one field; every input change lands here.
//
//   Reducers copy the map before writing, so the initial snapshot handed to
//   the factory is never mutated and resetForm can return it as-is.  Names
//   outside the initial key set are ignored; keys never change at runtime.
//
//------------------------------------------------------------------------------

package form

import (
	"strings"

	"github.com/yanizio/adept-forms/internal/store"
)

// Reducer names, the suffix of every action type.
const (
	ReducerSetInitialValues = "setInitialValues"
	ReducerSetTouchedAll    = "setTouchedAll"
	ReducerResetForm        = "resetForm"
	ReducerSetInputField    = "setInputField"
)

// InputPayload is an InputField without the touch flag.
type InputPayload struct {
	Value string
	Error string
}

// WithInputField is the payload of a setInputField action.
type WithInputField[N ~string] struct {
	Name         N
	InputPayload InputPayload
}

// SliceOptions is the reducer bundle of one form.
type SliceOptions[N ~string] struct {
	name    string
	initial FormState[N]
}

// Compile-time assertion.
var _ store.Slice = (*SliceOptions[string])(nil)

// CreateSliceOptions returns the bundle for the form called name.  The store
// slice is named "form/<name>".
//
// initialState is cloned once here, so later edits to the caller's map do
// not leak into the form.  ResetForm therefore returns that private snapshot:
// equal to initialState as passed, but not the caller's map itself.  Every
// reset returns the same snapshot.
func CreateSliceOptions[N ~string](name string, initialState FormState[N]) *SliceOptions[N] {
	return &SliceOptions[N]{
		name:    "form/" + name,
		initial: initialState.Clone(),
	}
}

// Name implements store.Slice.
func (s *SliceOptions[N]) Name() string { return s.name }

// Initial implements store.Slice.
func (s *SliceOptions[N]) Initial() any { return s.initial }

// InitialState returns the snapshot resetForm restores.  Treat it as
// read-only.
func (s *SliceOptions[N]) InitialState() FormState[N] { return s.initial }

// Has reports whether name belongs to the form.
func (s *SliceOptions[N]) Has(name N) bool {
	_, ok := s.initial[name]
	return ok
}

// -----------------------------------------------------------------------------
// Reducers
// -----------------------------------------------------------------------------

// SetInitialValues copies payload values into state.  A field's error is
// cleared only when its new value is non-empty.
func (s *SliceOptions[N]) SetInitialValues(state FormState[N], payload FormPayload[N]) FormState[N] {
	next := state.Clone()
	for name, value := range payload {
		f, ok := next[name]
		if !ok {
			continue
		}
		f.Value = value
		if value != "" {
			f.Error = ""
		}
		next[name] = f
	}
	return next
}

// SetTouchedAll marks every field touched.
func (s *SliceOptions[N]) SetTouchedAll(state FormState[N]) FormState[N] {
	next := state.Clone()
	for name, f := range next {
		f.Untouched = false
		next[name] = f
	}
	return next
}

// ResetForm returns the initial snapshot taken by CreateSliceOptions,
// unchanged by any earlier action.
func (s *SliceOptions[N]) ResetForm() FormState[N] { return s.initial }

// SetInputField replaces the named field and marks it touched.
func (s *SliceOptions[N]) SetInputField(state FormState[N], name N, value, err string) FormState[N] {
	if _, ok := state[name]; !ok {
		return state
	}
	next := state.Clone()
	next[name] = InputField{Value: value, Error: err, Untouched: false}
	return next
}

// -----------------------------------------------------------------------------
// Action creators
// -----------------------------------------------------------------------------

func (s *SliceOptions[N]) actionType(reducer string) string { return s.name + "/" + reducer }

// SetInitialValuesAction builds a setInitialValues action.
func (s *SliceOptions[N]) SetInitialValuesAction(payload FormPayload[N]) store.Action {
	return store.Action{Type: s.actionType(ReducerSetInitialValues), Payload: payload}
}

// SetTouchedAllAction builds a setTouchedAll action.
func (s *SliceOptions[N]) SetTouchedAllAction() store.Action {
	return store.Action{Type: s.actionType(ReducerSetTouchedAll)}
}

// ResetFormAction builds a resetForm action.
func (s *SliceOptions[N]) ResetFormAction() store.Action {
	return store.Action{Type: s.actionType(ReducerResetForm)}
}

// SetInputFieldAction builds a setInputField action.  Its signature matches
// ActionCreator so it can be handed to UseForm.
func (s *SliceOptions[N]) SetInputFieldAction(name N, value, err string) store.Action {
	return store.Action{
		Type: s.actionType(ReducerSetInputField),
		Payload: WithInputField[N]{
			Name:         name,
			InputPayload: InputPayload{Value: value, Error: err},
		},
	}
}

// Reduce implements store.Slice.
func (s *SliceOptions[N]) Reduce(state any, a store.Action) (any, bool) {
	prefix := s.name + "/"
	if !strings.HasPrefix(a.Type, prefix) {
		return state, false
	}
	fs, ok := state.(FormState[N])
	if !ok {
		return state, false
	}

	switch a.Type[len(prefix):] {
	case ReducerSetInitialValues:
		p, ok := a.Payload.(FormPayload[N])
		if !ok {
			return state, false
		}
		return s.SetInitialValues(fs, p), true
	case ReducerSetTouchedAll:
		return s.SetTouchedAll(fs), true
	case ReducerResetForm:
		return s.ResetForm(), true
	case ReducerSetInputField:
		p, ok := a.Payload.(WithInputField[N])
		if !ok {
			return state, false
		}
		return s.SetInputField(fs, p.Name, p.InputPayload.Value, p.InputPayload.Error), true
	}
	return state, false
}

// ReducerName returns the reducer part of an action type, or "" when the
// type has no slash.
func ReducerName(actionType string) string {
	i := strings.LastIndexByte(actionType, '/')
	if i < 0 {
		return ""
	}
	return actionType[i+1:]
}

// IsFormValid reports whether no field carries an error.  Touch state is
// ignored, so a form can be invalid before the user has typed anything.
func IsFormValid[N ~string](state FormState[N]) bool {
	for _, f := range state {
		if f.Error != "" {
			return false
		}
	}
	return true
}
