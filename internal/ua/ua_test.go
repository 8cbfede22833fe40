package ua

import (
	"testing"

	surfer "github.com/avct/uasurfer"
)

const (
	chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.6422.112 Safari/537.36"
	iPhone    = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"
	googlebot = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestParseDesktop(t *testing.T) {
	got := Parse(chromeMac)
	if got.Browser != "Chrome" || got.Device != "Desktop" || got.IsBot {
		t.Fatalf("Parse(chrome) = %+v", got)
	}
	if got.OS != "MacOSX" {
		t.Errorf("OS = %q", got.OS)
	}
	if got.Version == "" {
		t.Error("browser version missing")
	}
}

func TestParseDeviceClasses(t *testing.T) {
	if got := Parse(iPhone); got.Device != "Mobile" {
		t.Errorf("iPhone device = %q", got.Device)
	}
	if got := Parse(googlebot); !got.IsBot {
		t.Errorf("Googlebot not flagged: %+v", got)
	}
	if got := Parse(""); got.Device != "Other" {
		t.Errorf("empty UA device = %q", got.Device)
	}
}

func TestVersionToString(t *testing.T) {
	cases := map[surfer.Version]string{
		{}:                              "",
		{Major: 17}:                     "17",
		{Major: 17, Minor: 3}:           "17.3",
		{Major: 17, Minor: 3, Patch: 1}: "17.3.1",
		{Major: 17, Patch: 2}:           "17.0.2",
	}
	for v, want := range cases {
		if got := versionToString(v); got != want {
			t.Errorf("versionToString(%+v) = %q, want %q", v, got, want)
		}
	}
}
