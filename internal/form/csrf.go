// internal/form/csrf.go
//
// Adept – Forms subsystem: stateless CSRF tokens.
//
// Context
//   Every rendered form embeds a hidden `csrf_token` input, and every POST
//   (field change, visibility toggle, reset, submit) must echo it back.  The
//   token is stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with the process secret from config.
//
//   Verify checks the signature and that the issue time lies inside MaxAge
//   (with one minute of tolerance for clock skew).  No server-side storage
//   is needed, so tokens survive session eviction.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

const (
	nonceBytes = 16
	tsBytes    = 8
	tokenBytes = nonceBytes + tsBytes + sha256.Size

	// DefaultTokenMaxAge is used when NewCSRF gets a zero max age.
	DefaultTokenMaxAge = 2 * time.Hour
)

// ErrBadToken is returned by Verify for malformed, forged, or expired tokens.
var ErrBadToken = errors.New("form: invalid csrf token")

// CSRF issues and verifies tokens with one secret.
type CSRF struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewCSRF returns a CSRF using secret.  A secret shorter than 32 bytes is
// replaced by a random one, so tokens do not survive a restart.  In that case
// the CSRF is still returned together with ErrEphemeralSecret, which callers
// should log and otherwise ignore.
func NewCSRF(secret []byte, maxAge time.Duration) (*CSRF, error) {
	if maxAge <= 0 {
		maxAge = DefaultTokenMaxAge
	}
	if len(secret) < 32 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
		return &CSRF{secret: secret, maxAge: maxAge, now: time.Now}, ErrEphemeralSecret
	}
	return &CSRF{secret: secret, maxAge: maxAge, now: time.Now}, nil
}

// ErrEphemeralSecret is a soft error from NewCSRF: the CSRF is usable.
var ErrEphemeralSecret = errors.New("form: csrf secret missing or short, using a random key")

// DecodeSecret parses a base64url (raw or padded) key from config.
func DecodeSecret(s string) []byte {
	if s == "" {
		return nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b
	}
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return b
	}
	return nil
}

// Token creates a new token.  Call once per form render.
func (c *CSRF) Token() (string, error) {
	buf := make([]byte, nonceBytes+tsBytes, tokenBytes)
	if _, err := rand.Read(buf[:nonceBytes]); err != nil {
		return "", err
	}
	binary.BigEndian.PutUint64(buf[nonceBytes:], uint64(c.now().UnixMicro()))
	buf = append(buf, c.sign(buf[:nonceBytes+tsBytes])...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify returns nil when tok is authentic and fresh.
func (c *CSRF) Verify(tok string) error {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return ErrBadToken
	}
	body, sig := raw[:nonceBytes+tsBytes], raw[nonceBytes+tsBytes:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(body[nonceBytes:])))
	now := c.now()
	if now.Sub(issued) > c.maxAge || issued.Sub(now) > time.Minute {
		return ErrBadToken
	}
	if !hmac.Equal(sig, c.sign(body)) {
		return ErrBadToken
	}
	return nil
}

func (c *CSRF) sign(body []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(body)
	return mac.Sum(nil)
}
