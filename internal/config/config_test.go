package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv registers the restore; a set-but-empty var would mask the
	// struct defaults, so unset afterwards.
	t.Setenv("MOONCOOKIES_BACKEND_URL", "")
	t.Setenv("MOONCOOKIES_REQUEST_TIMEOUT_SEC", "")
	os.Unsetenv("MOONCOOKIES_BACKEND_URL")
	os.Unsetenv("MOONCOOKIES_REQUEST_TIMEOUT_SEC")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.BackendURL != "http://localhost:1111" {
		t.Fatalf("backend = %q", c.BackendURL)
	}
	if c.RequestTimeoutSec != 15 {
		t.Fatalf("timeout = %d", c.RequestTimeoutSec)
	}
}

func TestLoad_EnvOverridesAndTrailingSlash(t *testing.T) {
	t.Setenv("MOONCOOKIES_BACKEND_URL", "https://moon.example/ ")
	t.Setenv("MOONCOOKIES_REQUEST_TIMEOUT_SEC", "3")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.BackendURL != "https://moon.example" {
		t.Fatalf("backend = %q", c.BackendURL)
	}
	if c.RequestTimeoutSec != 3 {
		t.Fatalf("timeout = %d", c.RequestTimeoutSec)
	}
}

func TestDir_Override(t *testing.T) {
	want := filepath.Join(t.TempDir(), "state")
	t.Setenv("MOONCOOKIES_CONFIG_DIR", want)

	got, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("dir = %q, want %q", got, want)
	}
}
