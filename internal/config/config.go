// Package config loads runtime configuration for deskinput.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr      = "0.0.0.0:8787"
	defaultDataDir         = "./data"
	defaultInputBackend    = "auto"
	defaultDisplayWidth    = 1920
	defaultDisplayHeight   = 1080
	defaultDragStepDelayMs = 2
	defaultDisplayIndex    = 0
	defaultMJPEGEnabled    = true
	defaultMJPEGIntervalMs = 120
	defaultMJPEGQuality    = 60
	defaultLogLevel        = "info"
	defaultLogFormat       = "console"
	defaultPasswordMode    = true
)

// FileName is the YAML config file looked up inside the data directory.
const FileName = "deskinput.yaml"

// Config holds runtime configuration values.
type Config struct {
	ListenAddr      string `yaml:"listen_addr"`
	UIPassword      string `yaml:"ui_password"`
	PasswordMode    bool   `yaml:"password_mode"`
	DataDir         string `yaml:"data_dir"`
	InputBackend    string `yaml:"input_backend"`
	DisplayWidth    int    `yaml:"display_width"`
	DisplayHeight   int    `yaml:"display_height"`
	DragStepDelayMs int    `yaml:"drag_step_delay_ms"`
	DisplayIndex    int    `yaml:"display_index"`
	MJPEGEnabled    bool   `yaml:"mjpeg_enabled"`
	MJPEGIntervalMs int    `yaml:"mjpeg_interval_ms"`
	MJPEGQuality    int    `yaml:"mjpeg_quality"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`

	// Source is the YAML file that was applied, empty when none was found.
	Source string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:      defaultListenAddr,
		PasswordMode:    defaultPasswordMode,
		DataDir:         defaultDataDir,
		InputBackend:    defaultInputBackend,
		DisplayWidth:    defaultDisplayWidth,
		DisplayHeight:   defaultDisplayHeight,
		DragStepDelayMs: defaultDragStepDelayMs,
		DisplayIndex:    defaultDisplayIndex,
		MJPEGEnabled:    defaultMJPEGEnabled,
		MJPEGIntervalMs: defaultMJPEGIntervalMs,
		MJPEGQuality:    defaultMJPEGQuality,
		LogLevel:        defaultLogLevel,
		LogFormat:       defaultLogFormat,
	}
}

// Load reads configuration from the YAML file, ./data/.env and environment variables,
// in increasing order of precedence. An empty path looks for FileName in the data dir.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.DataDir, FileName)
	}
	if err := loadYAMLFile(path, explicit, &cfg); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.InputBackend = normalizeBackend(envString("INPUT_BACKEND", cfg.InputBackend))
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envString("LOG_FORMAT", cfg.LogFormat)
	cfg.PasswordMode = envBool("PASSWORD_MODE", cfg.PasswordMode)
	cfg.MJPEGEnabled = envBool("MJPEG_ENABLED", cfg.MJPEGEnabled)
	if pw := strings.TrimSpace(os.Getenv("UI_PASSWORD")); pw != "" {
		cfg.UIPassword = pw
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DISPLAY_WIDTH", &cfg.DisplayWidth},
		{"DISPLAY_HEIGHT", &cfg.DisplayHeight},
		{"DRAG_STEP_DELAY_MS", &cfg.DragStepDelayMs},
		{"DISPLAY_INDEX", &cfg.DisplayIndex},
		{"MJPEG_INTERVAL_MS", &cfg.MJPEGIntervalMs},
		{"MJPEG_QUALITY", &cfg.MJPEGQuality},
	}
	for _, item := range ints {
		value, err := envInt(item.key, *item.dst)
		if err != nil {
			return Config{}, err
		}
		*item.dst = value
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that are independent of the command being run.
func (c Config) Validate() error {
	if c.InputBackend == "" {
		return fmt.Errorf("INPUT_BACKEND must be one of auto, quartz, win32, x11, wayland, uinput")
	}
	if c.DisplayWidth <= 0 || c.DisplayHeight <= 0 {
		return fmt.Errorf("DISPLAY_WIDTH and DISPLAY_HEIGHT must be > 0")
	}
	if c.DragStepDelayMs < 0 {
		return fmt.Errorf("DRAG_STEP_DELAY_MS must be >= 0")
	}
	if c.DisplayIndex < 0 {
		return fmt.Errorf("DISPLAY_INDEX must be >= 0")
	}
	if c.MJPEGIntervalMs <= 0 {
		return fmt.Errorf("MJPEG_INTERVAL_MS must be > 0")
	}
	if c.MJPEGQuality <= 0 || c.MJPEGQuality > 100 {
		return fmt.Errorf("MJPEG_QUALITY must be 1-100")
	}
	return nil
}

// RequirePassword reports an error when password mode is on and no password is set.
func (c Config) RequirePassword() error {
	if c.PasswordMode && c.UIPassword == "" {
		return errors.New("UI_PASSWORD is required")
	}
	return nil
}

// normalizeBackend lowercases a backend name and rejects unknown values with "".
func normalizeBackend(value string) string {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "auto", "quartz", "win32", "x11", "wayland", "uinput":
		return v
	case "":
		return defaultInputBackend
	default:
		return ""
	}
}

// loadYAMLFile overlays YAML values onto cfg. A missing implicit file is not an error.
func loadYAMLFile(path string, explicit bool, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Source = path
	return nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file without overriding the environment.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}
