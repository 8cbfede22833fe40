// internal/form/field.go
//
// Adept – Forms subsystem: field state shapes.
//
// Context
//   Each input on a bound form owns one InputField inside the store.  The
//   Untouched flag hides validation errors until the user edits the field or
//   the form is marked touched (usually on a submit attempt).  FormState is
//   keyed by a closed set of field names; the generic parameter N lets
//   callers use their own string type so a typo is a compile error.
//
//------------------------------------------------------------------------------

package form

// InputField is the store state of one field.  Error is empty when the value
// is valid, otherwise it holds a user-facing message.
type InputField struct {
	Value     string `json:"value"`
	Error     string `json:"error"`
	Untouched bool   `json:"unTouched"`
}

// DefaultInputField is the state a fresh, empty field starts in.
var DefaultInputField = InputField{Value: "", Error: "", Untouched: true}

// ShowError reports whether the field's error should be displayed.
func (f InputField) ShowError() bool { return !f.Untouched && f.Error != "" }

// FormState maps every field name of a form to its state.  The key set is
// fixed when the slice is created.
type FormState[N ~string] map[N]InputField

// Clone returns a shallow copy; InputField has no reference members so the
// copy is fully independent.
func (s FormState[N]) Clone() FormState[N] {
	out := make(FormState[N], len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// FormPayload is the value-only projection of a FormState.
type FormPayload[N ~string] map[N]string

// NewFormState builds a state where every name starts as DefaultInputField.
func NewFormState[N ~string](names ...N) FormState[N] {
	s := make(FormState[N], len(names))
	for _, n := range names {
		s[n] = DefaultInputField
	}
	return s
}

// CreateFormPayload projects fields onto their values.
func CreateFormPayload[N ~string](fields FormState[N]) FormPayload[N] {
	p := make(FormPayload[N], len(fields))
	for k, f := range fields {
		p[k] = f.Value
	}
	return p
}

// Ptr returns a pointer to v.  Handy for the optional ValidateOptions bounds:
//
//	form.ValidateOptions{Max: form.Ptr(10.0), MaxLength: form.Ptr(32)}
func Ptr[T any](v T) *T { return &v }
