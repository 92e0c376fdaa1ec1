package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// LoadEnvFiles reads KEY=VALUE pairs into the process environment.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("OPENBESTUUR_KIND", "")
	t.Setenv("OPENBESTUUR_FORMAT", "")

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "\n# sample dotenv file\nOPENBESTUUR_KIND=plenary\nexport OPENBESTUUR_FORMAT='markdown'\nmalformed line\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	if err := LoadEnvFiles(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("OPENBESTUUR_KIND"); got != "plenary" {
		t.Fatalf("KIND=%q, want plenary", got)
	}
	if got := os.Getenv("OPENBESTUUR_FORMAT"); got != "markdown" {
		t.Fatalf("FORMAT=%q, want markdown", got)
	}
}

// Later files override earlier ones.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
	t.Setenv("K", "")
	dir := t.TempDir()
	a := filepath.Join(dir, ".env")
	b := filepath.Join(dir, ".env.local")
	if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := os.WriteFile(b, []byte("K=second # local\n"), 0o600); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if err := LoadEnvFiles(a, b); err != nil {
		t.Fatalf("LoadEnvFiles error: %v", err)
	}
	if got := os.Getenv("K"); got != "second" {
		t.Fatalf("override order failed: got %q, want second", got)
	}
}

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		in       string
		key, val string
		ok       bool
	}{
		{"A=b", "A", "b", true},
		{"  export A = b  ", "A", "b", true},
		{`A="x # y"`, "A", "x # y", true},
		{"A=x # y", "A", "x", true},
		{"# A=b", "", "", false},
		{"=b", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		k, v, ok := parseEnvLine(tc.in)
		if k != tc.key || v != tc.val || ok != tc.ok {
			t.Fatalf("parseEnvLine(%q) = %q, %q, %v", tc.in, k, v, ok)
		}
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("OPENBESTUUR_INPUTS", "a.txt, https://example.org/b.html")
	t.Setenv("OPENBESTUUR_WORKERS", "7")
	t.Setenv("OPENBESTUUR_TIMEOUT", "5s")
	t.Setenv("OPENBESTUUR_REQUIRE_VOTES", "yes")
	t.Setenv("OPENBESTUUR_NO_CACHE", "off")
	t.Setenv("OPENBESTUUR_BOILERPLATE", "Gemeente Gent,Botermarkt 1")
	t.Setenv("OPENBESTUUR_MAX_ATTEMPTS", "not-a-number")

	cfg := Config{NoCache: true, MaxAttempts: 2}
	ApplyEnvOverrides(&cfg)
	if !reflect.DeepEqual(cfg.Inputs, []string{"a.txt", "https://example.org/b.html"}) {
		t.Fatalf("Inputs=%v", cfg.Inputs)
	}
	if cfg.Workers != 7 || cfg.Timeout != 5*time.Second {
		t.Fatalf("Workers=%d Timeout=%s", cfg.Workers, cfg.Timeout)
	}
	if !cfg.RequireVotes || cfg.NoCache {
		t.Fatalf("booleans not applied: %+v", cfg)
	}
	if cfg.MaxAttempts != 2 {
		t.Fatalf("invalid number should be ignored, got %d", cfg.MaxAttempts)
	}
	if len(cfg.ExtraBoilerplate) != 2 || cfg.ExtraBoilerplate[1] != "Botermarkt 1" {
		t.Fatalf("ExtraBoilerplate=%v", cfg.ExtraBoilerplate)
	}
}
