package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestLocalURL verifies wildcard hosts are shown as localhost.
func TestLocalURL(t *testing.T) {
	cases := map[string]string{
		"0.0.0.0:8787": "http://localhost:8787",
		":9000":        "http://localhost:9000",
		"10.0.0.5:80":  "http://10.0.0.5:80",
		"[::]:8787":    "http://localhost:8787",
	}
	for addr, want := range cases {
		got, ok := localURL(addr)
		if !ok || got != want {
			t.Fatalf("expected %q for %q, got %q (ok=%v)", want, addr, got, ok)
		}
	}
	if _, ok := localURL("nonsense"); ok {
		t.Fatalf("expected invalid addr to be rejected")
	}
}

// TestFileExists verifies directories do not count as files.
func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if fileExists(path) {
		t.Fatalf("expected missing file")
	}
	if err := os.WriteFile(path, []byte("A=1\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !fileExists(path) || fileExists(dir) {
		t.Fatalf("expected file true and dir false")
	}
}

// TestVersionCommand verifies the version subcommand output.
func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(buf.String(), "deskinput dev") {
		t.Fatalf("expected version line, got %q", buf.String())
	}
}

// TestServeRequiresPassword verifies serve refuses to start without UI_PASSWORD.
func TestServeRequiresPassword(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "deskinput.yaml")
	if err := os.WriteFile(cfgPath, []byte("data_dir: "+dir+"\n"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	t.Setenv("UI_PASSWORD", "")
	t.Setenv("PASSWORD_MODE", "true")

	rootCmd.SetArgs([]string{"serve", "--config", cfgPath})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "UI_PASSWORD") {
		t.Fatalf("expected UI_PASSWORD error, got %v", err)
	}
}
