// internal/form/hook.go
//
// Adept – Forms subsystem: form hook.
//
// UseForm binds a form's fields to change handlers that dispatch
// setInputField actions, and derives the value-only payload.  The payload is
// recomputed on every call; nothing is memoized.
//
//------------------------------------------------------------------------------

package form

import "github.com/yanizio/adept-forms/internal/store"

// ActionCreator builds the setInputField action for one field.
type ActionCreator[N ~string] func(name N, value, err string) store.Action

// Form is what UseForm returns.
type Form[N ~string] struct {
	Payload       FormPayload[N]
	dispatch      store.Dispatcher
	setInputField ActionCreator[N]
}

// UseForm derives the payload of fields and prepares HandleChange.
func UseForm[N ~string](fields FormState[N], setInputField ActionCreator[N], dispatch store.Dispatcher) Form[N] {
	return Form[N]{
		Payload:       CreateFormPayload(fields),
		dispatch:      dispatch,
		setInputField: setInputField,
	}
}

// HandleChange returns the change handler of one field.
func (f Form[N]) HandleChange(name N) OnChange {
	return func(value, err string) {
		f.dispatch.Dispatch(f.setInputField(name, value, err))
	}
}
