package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFile writes content into dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// TestLoad_YAMLOverlaysDefaults verifies YAML values replace only the keys they set.
func TestLoad_YAMLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "data_dir: "+dir+"\ninput_backend: uinput\ndisplay_width: 2560\ndrag_step_delay_ms: 0\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.InputBackend != "uinput" {
		t.Fatalf("expected uinput, got %q", cfg.InputBackend)
	}
	if cfg.DisplayWidth != 2560 || cfg.DisplayHeight != defaultDisplayHeight {
		t.Fatalf("expected 2560x%d, got %dx%d", defaultDisplayHeight, cfg.DisplayWidth, cfg.DisplayHeight)
	}
	if cfg.DragStepDelayMs != 0 {
		t.Fatalf("expected drag delay 0, got %d", cfg.DragStepDelayMs)
	}
	if cfg.Source != path {
		t.Fatalf("expected source %q, got %q", path, cfg.Source)
	}
}

// TestLoad_EnvOverridesYAML verifies environment variables win over file values.
func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "data_dir: "+dir+"\nmjpeg_quality: 70\n")
	t.Setenv("MJPEG_QUALITY", "85")
	t.Setenv("INPUT_BACKEND", "X11")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MJPEGQuality != 85 {
		t.Fatalf("expected quality 85, got %d", cfg.MJPEGQuality)
	}
	if cfg.InputBackend != "x11" {
		t.Fatalf("expected x11, got %q", cfg.InputBackend)
	}
}

// TestLoad_DotEnvFillsUnsetKeys verifies .env values apply when the env var is absent.
func TestLoad_DotEnvFillsUnsetKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "data_dir: "+dir+"\n")
	writeFile(t, dir, ".env", "# comment\nexport DISPLAY_HEIGHT=1440\nUI_PASSWORD=\"secret\"\n")
	for _, key := range []string{"DISPLAY_HEIGHT", "UI_PASSWORD"} {
		_ = os.Unsetenv(key)
		k := key
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DisplayHeight != 1440 {
		t.Fatalf("expected 1440, got %d", cfg.DisplayHeight)
	}
	if cfg.UIPassword != "secret" {
		t.Fatalf("expected secret, got %q", cfg.UIPassword)
	}
}

// TestLoad_InvalidInteger verifies malformed integers are reported with their key.
func TestLoad_InvalidInteger(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "data_dir: "+dir+"\n")
	t.Setenv("DISPLAY_WIDTH", "wide")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "DISPLAY_WIDTH") {
		t.Fatalf("expected DISPLAY_WIDTH error, got %v", err)
	}
}

// TestLoad_UnknownBackend verifies unknown backend names are rejected.
func TestLoad_UnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "data_dir: "+dir+"\ninput_backend: directx\n")

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

// TestLoad_MissingExplicitFile verifies an explicit missing path is an error.
func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

// TestRequirePassword verifies the password check honours password mode.
func TestRequirePassword(t *testing.T) {
	cfg := Default()
	if err := cfg.RequirePassword(); err == nil {
		t.Fatalf("expected error without password")
	}
	cfg.PasswordMode = false
	if err := cfg.RequirePassword(); err != nil {
		t.Fatalf("expected dev mode to skip password, got %v", err)
	}
}

// TestParseEnvLine verifies comment, export and quoting handling.
func TestParseEnvLine(t *testing.T) {
	if _, _, ok := parseEnvLine("# nope"); ok {
		t.Fatalf("expected comment to be skipped")
	}
	if _, _, ok := parseEnvLine("novalue"); ok {
		t.Fatalf("expected line without '=' to be skipped")
	}
	key, value, ok := parseEnvLine(" export LOG_LEVEL = 'debug' ")
	if !ok || key != "LOG_LEVEL" || value != "debug" {
		t.Fatalf("expected LOG_LEVEL=debug, got %q=%q ok=%v", key, value, ok)
	}
}
