// internal/form/decorator.go
//
// Adept – Forms subsystem: error-handling decorator.
//
// Context
//   Inputs report raw changes as OnChange(value, ""), with no opinion about
//   validity.  ErrorHandling.Wrap composes the configured mutators and
//   validators in front of the consumer's handler:
//
//      raw → mutators (in order) → helpers (first failure wins) → next
//
//   The wrapper keeps no state; calling it twice with the same input gives
//   the same result.
//
//------------------------------------------------------------------------------

package form

// OnChange receives a field's new value and its validation error ("" when
// valid).
type OnChange func(value, err string)

// ErrorHandling configures the mutate-then-validate pipeline of one input.
type ErrorHandling struct {
	ValidateHelpers []ValidateHelper
	ValidateOptions ValidateOptions
	Mutators        []InputMutator
}

// Apply runs the pipeline for value.  An incoming err is kept unless a
// helper fails.
func (h ErrorHandling) Apply(value, err string) (string, string) {
	for _, m := range h.Mutators {
		value = m(value)
	}
	for _, helper := range h.ValidateHelpers {
		if !helper.Validate(value, h.ValidateOptions) {
			err = helper.ErrorText
			break
		}
	}
	return value, err
}

// Wrap returns an OnChange that applies the pipeline and then calls next.
func (h ErrorHandling) Wrap(next OnChange) OnChange {
	return func(value, err string) {
		value, err = h.Apply(value, err)
		if next != nil {
			next(value, err)
		}
	}
}

// withHelper returns a copy of h with extra appended after the caller's
// helpers.
func (h ErrorHandling) withHelper(extra ValidateHelper) ErrorHandling {
	helpers := make([]ValidateHelper, 0, len(h.ValidateHelpers)+1)
	helpers = append(helpers, h.ValidateHelpers...)
	h.ValidateHelpers = append(helpers, extra)
	return h
}
