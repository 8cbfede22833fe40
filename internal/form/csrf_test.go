package form

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"
	"time"
)

func testCSRF(t *testing.T) *CSRF {
	t.Helper()
	c, err := NewCSRF(bytes.Repeat([]byte("k"), 32), time.Hour)
	if err != nil {
		t.Fatalf("NewCSRF: %v", err)
	}
	return c
}

func TestCSRFRoundTrip(t *testing.T) {
	c := testCSRF(t)
	tok, err := c.Token()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Verify(tok); err != nil {
		t.Fatalf("Verify(fresh) = %v", err)
	}
}

func TestCSRFRejects(t *testing.T) {
	c := testCSRF(t)
	tok, _ := c.Token()

	raw, _ := base64.RawURLEncoding.DecodeString(tok)
	raw[len(raw)-1] ^= 1
	forged := base64.RawURLEncoding.EncodeToString(raw)

	other, _ := NewCSRF(bytes.Repeat([]byte("x"), 32), time.Hour)
	foreign, _ := other.Token()

	for name, tok := range map[string]string{
		"empty":   "",
		"garbage": "not-base64!",
		"short":   base64.RawURLEncoding.EncodeToString([]byte("short")),
		"forged":  forged,
		"foreign": foreign,
	} {
		if err := c.Verify(tok); !errors.Is(err, ErrBadToken) {
			t.Errorf("%s: Verify = %v", name, err)
		}
	}
}

func TestCSRFExpiry(t *testing.T) {
	c := testCSRF(t)
	now := time.Now()
	c.now = func() time.Time { return now }
	tok, _ := c.Token()

	c.now = func() time.Time { return now.Add(59 * time.Minute) }
	if err := c.Verify(tok); err != nil {
		t.Fatalf("inside max age: %v", err)
	}
	c.now = func() time.Time { return now.Add(61 * time.Minute) }
	if err := c.Verify(tok); !errors.Is(err, ErrBadToken) {
		t.Fatalf("expired: %v", err)
	}
	c.now = func() time.Time { return now.Add(-2 * time.Minute) }
	if err := c.Verify(tok); !errors.Is(err, ErrBadToken) {
		t.Fatalf("from the future: %v", err)
	}
}

func TestNewCSRFShortSecret(t *testing.T) {
	c, err := NewCSRF([]byte("short"), 0)
	if !errors.Is(err, ErrEphemeralSecret) {
		t.Fatalf("err = %v", err)
	}
	if c == nil || c.maxAge != DefaultTokenMaxAge {
		t.Fatal("ephemeral CSRF not usable")
	}
	tok, _ := c.Token()
	if err := c.Verify(tok); err != nil {
		t.Fatalf("Verify = %v", err)
	}
}

func TestDecodeSecret(t *testing.T) {
	key := bytes.Repeat([]byte{0xfb}, 32)
	for _, enc := range []*base64.Encoding{base64.RawURLEncoding, base64.URLEncoding} {
		if got := DecodeSecret(enc.EncodeToString(key)); !bytes.Equal(got, key) {
			t.Errorf("DecodeSecret = %x", got)
		}
	}
	if DecodeSecret("") != nil || DecodeSecret("***") != nil {
		t.Error("invalid secrets must decode to nil")
	}
}
