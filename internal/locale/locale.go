// internal/locale/locale.go
//
// Literal message translation.
//
// Context
// -------
// Validators and components work with plain English strings ("Field must
// not be empty", "Show password").  The renderer passes those strings
// through the request's Translator, which looks them up in the
// golang.org/x/text message catalog.  Unknown strings come back unchanged,
// so caller-supplied messages keep working without registration.
//
// The request language is picked once per request by Middleware from the
// Accept-Language header and stored in the context.
//
// Notes
// -----
// • Only literal strings are translated; there is no plural or argument
//   handling on purpose.
// • Oxford commas, two spaces after periods.
package locale

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Supported lists the languages with catalog entries, default first.
var Supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(Supported)

// ru holds the Russian catalog.
var ru = map[string]string{
	"Field must not be empty":      "Поле не должно быть пустым",
	"Show password":                "Показать пароль",
	"Hide password":                "Скрыть пароль",
	"Submit":                       "Отправить",
	"Reset":                        "Сбросить",
	"Email":                        "Электронная почта",
	"Password":                     "Пароль",
	"Sign in":                      "Войти",
	"Incorrect email or password.": "Неверная почта или пароль.",
	"Enter a valid email address.": "Введите корректный адрес почты.",

	"Security token invalid.  Please refresh and try again.": "Токен безопасности недействителен.  Обновите страницу и попробуйте снова.",
	"Thank you.  Your submission was received.":              "Спасибо.  Ваша заявка получена.",
	"Password must be at least 8 characters.":                "Пароль должен содержать не менее 8 символов.",
}

func init() {
	if err := register(language.Russian, ru); err != nil {
		panic(err)
	}
}

// register loads a catalog into the default message catalog.
func register(tag language.Tag, entries map[string]string) error {
	for k, v := range entries {
		if err := message.SetString(tag, k, v); err != nil {
			return fmt.Errorf("locale: register %q for %s: %w", k, tag, err)
		}
	}
	return nil
}

// Match picks the best supported language for an Accept-Language header.
func Match(acceptLanguage string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}

// Translator maps a literal message to tag's language.
func Translator(tag language.Tag) func(string) string {
	p := message.NewPrinter(tag)
	return func(s string) string {
		// Printer treats '%' as a verb; such strings are never catalog keys.
		if s == "" || strings.ContainsRune(s, '%') {
			return s
		}
		return p.Sprintf(s)
	}
}

type ctxKey struct{}

// WithTag stores tag in ctx.
func WithTag(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// FromContext returns the request language or English.
func FromContext(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
		return tag
	}
	return Supported[0]
}

// Middleware resolves the request language, falling back to def.
func Middleware(def language.Tag) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := Match(r.Header.Get("Accept-Language"), def)
			next.ServeHTTP(w, r.WithContext(WithTag(r.Context(), tag)))
		})
	}
}
