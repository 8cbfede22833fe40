// internal/form/mutators.go
//
// Adept – Forms subsystem: input mutators.
//
// Context
//   A mutator rewrites raw input before any validator sees it.  Mutators run
//   left to right in the order the caller lists them.  The result is what
//   gets stored, so mutators double as light sanitizers.
//
//------------------------------------------------------------------------------

package form

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// InputMutator transforms raw input.
type InputMutator func(input string) string

// strictPolicy strips every tag and keeps text content.
var strictPolicy = bluemonday.StrictPolicy()

// TrimSpace drops leading and trailing white space.
func TrimSpace(input string) string { return strings.TrimSpace(input) }

// CommaToDot turns a decimal comma into a dot so "3,5" validates as 3.5.
func CommaToDot(input string) string { return strings.ReplaceAll(input, ",", ".") }

// DigitsOnly keeps ASCII digits only.
func DigitsOnly(input string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
}

// CollapseSpace folds every run of white space into one space.
func CollapseSpace(input string) string {
	return strings.Join(strings.FieldsFunc(input, unicode.IsSpace), " ")
}

// StripTags removes HTML markup.  Entities produced by the sanitizer are
// left escaped; the renderer escapes on output anyway.
func StripTags(input string) string { return strictPolicy.Sanitize(input) }

// NormalizeNFC composes characters so visually equal input compares equal.
func NormalizeNFC(input string) string { return norm.NFC.String(input) }

// Truncate returns a mutator cutting input to at most n runes.
func Truncate(n int) InputMutator {
	return func(input string) string {
		if n < 0 {
			return input
		}
		runes := []rune(input)
		if len(runes) <= n {
			return input
		}
		return string(runes[:n])
	}
}

// mutatorsByName backs the YAML "mutators" list.
var mutatorsByName = map[string]InputMutator{
	"trim":           TrimSpace,
	"comma_to_dot":   CommaToDot,
	"digits":         DigitsOnly,
	"collapse_space": CollapseSpace,
	"strip_tags":     StripTags,
	"nfc":            NormalizeNFC,
}

// MutatorByName returns a registered mutator.
func MutatorByName(name string) (InputMutator, bool) {
	m, ok := mutatorsByName[name]
	return m, ok
}
