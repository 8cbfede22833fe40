// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing configuration.
//
// Built-in rules cover most fields (`required`, `hostname_port`, `min`,
// `oneof`, and `bcp47_language_tag`).  One custom rule is registered:
// `csrf_secret` rejects a non-empty secret that is not valid base64url.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"encoding/base64"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("csrf_secret", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		if _, err := base64.RawURLEncoding.DecodeString(s); err == nil {
			return true
		}
		_, err := base64.URLEncoding.DecodeString(s)
		return err == nil
	})
	return val
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
