// internal/form/validators.go
//
// Adept – Forms subsystem: validator primitives.
//
// Context
//   A validator is a pure predicate over the raw input string and a bag of
//   optional bounds.  Unset bounds (nil pointers) are not checked.  Bound
//   checks run in a fixed order and each later check only runs while the
//   result is still true, so the first failing bound decides the outcome.
//
//   Numbers are parsed the way a browser's Number() does, and lengths are
//   counted in UTF-16 code units, so server results agree with the markup's
//   maxlength hints and any client-side script.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// MsgNotEmpty is the message surfaced by NotEmpty.
const MsgNotEmpty = "Field must not be empty"

// ValidateOptions bounds consumed by validators.  Nil means unset.
type ValidateOptions struct {
	Min         *float64 `yaml:"min,omitempty"`
	Max         *float64 `yaml:"max,omitempty"`
	MoreThan    *float64 `yaml:"more_than,omitempty"`
	LessThan    *float64 `yaml:"less_than,omitempty"`
	MinLength   *int     `yaml:"min_length,omitempty"`
	MaxLength   *int     `yaml:"max_length,omitempty"`
	MaxAfterDot *int     `yaml:"max_after_dot,omitempty"`
}

// InputValidator decides whether input satisfies a rule.
type InputValidator func(input string, opts ValidateOptions) bool

// ValidateHelper pairs a validator with the message shown when it fails.
type ValidateHelper struct {
	ErrorText string
	Validate  InputValidator
}

// NotEmpty rejects empty input with MsgNotEmpty.
var NotEmpty = ValidateHelper{
	ErrorText: MsgNotEmpty,
	Validate:  func(input string, _ ValidateOptions) bool { return CheckNotEmpty(input) },
}

// CheckDiapason reports whether input is a number inside every set bound.
// Order: Max, Min, MoreThan, LessThan.
func CheckDiapason(input string, opts ValidateOptions) bool {
	value := parseNumber(input)
	if math.IsNaN(value) {
		return false
	}
	correct := true
	if opts.Max != nil {
		correct = value <= *opts.Max
	}
	if opts.Min != nil && correct {
		correct = value >= *opts.Min
	}
	if opts.MoreThan != nil && correct {
		correct = value > *opts.MoreThan
	}
	if opts.LessThan != nil && correct {
		correct = value < *opts.LessThan
	}
	return correct
}

// CheckLength reports whether input fits MinLength and MaxLength, in that
// order.
func CheckLength(input string, opts ValidateOptions) bool {
	n := textLength(input)
	correct := true
	if opts.MinLength != nil {
		correct = n >= *opts.MinLength
	}
	if opts.MaxLength != nil && correct {
		correct = n <= *opts.MaxLength
	}
	return correct
}

// CheckNotEmpty is CheckLength with MinLength 1.
func CheckNotEmpty(input string) bool {
	return CheckLength(input, ValidateOptions{MinLength: Ptr(1)})
}

// CheckAfterDot limits the characters after the first '.' to MaxAfterDot.
func CheckAfterDot(input string, opts ValidateOptions) bool {
	if opts.MaxAfterDot == nil {
		return true
	}
	i := strings.IndexByte(input, '.')
	if i < 0 {
		return true
	}
	return textLength(input[i+1:]) <= *opts.MaxAfterDot
}

// Diapason pairs CheckDiapason with msg.
func Diapason(msg string) ValidateHelper { return ValidateHelper{ErrorText: msg, Validate: CheckDiapason} }

// Length pairs CheckLength with msg.
func Length(msg string) ValidateHelper { return ValidateHelper{ErrorText: msg, Validate: CheckLength} }

// AfterDot pairs CheckAfterDot with msg.
func AfterDot(msg string) ValidateHelper { return ValidateHelper{ErrorText: msg, Validate: CheckAfterDot} }

// Matches accepts input that re matches.  Empty input passes; pair it with
// NotEmpty when the field is mandatory.
func Matches(re *regexp.Regexp, msg string) ValidateHelper {
	return ValidateHelper{
		ErrorText: msg,
		Validate: func(input string, _ ValidateOptions) bool {
			return input == "" || re.MatchString(input)
		},
	}
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// textLength counts UTF-16 code units, the unit browsers use for maxlength.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// parseNumber converts s like Number() does.  Invalid input yields NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadix(s[2:], base)
		}
	}

	// Go accepts spellings Number() does not (inf, nan, 1_000, hex floats).
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return math.NaN()
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v // ±Inf or 0, same as Number()
		}
		return math.NaN()
	}
	return v
}

func parseRadix(digits string, base int) float64 {
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return math.NaN()
	}
	n, err := strconv.ParseUint(digits, base, 64)
	if err == nil {
		return float64(n)
	}
	if !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	b, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(b).Float64()
	return f
}
