package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// SettingsFile is the file name searched for in config directories.
const SettingsFile = "settings.yaml"

// Load loads settings and applies environment overrides.
// Search order: customPath -> ~/.autosplit/settings.yaml -> ./configs/settings.yaml -> embedded default.
// The returned path is the file that was used, or "" for the embedded default.
func Load(customPath string) (File, string, error) {
	cfg, path, err := loadFile(customPath)
	if err != nil {
		return cfg, path, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}

func loadFile(customPath string) (File, string, error) {
	// Try custom path first
	if customPath != "" {
		cfg, err := ReadFile(customPath)
		return cfg, customPath, err
	}

	// Try user config directory
	if userCfgPath := UserConfigPath(); userCfgPath != "" {
		if cfg, err := ReadFile(userCfgPath); err == nil {
			return cfg, userCfgPath, nil
		}
	}

	// Try local configs directory
	local := filepath.Join("configs", SettingsFile)
	if cfg, err := ReadFile(local); err == nil {
		return cfg, local, nil
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultSettingsYAML)
	if err != nil {
		return DefaultFile(), "", nil // Fallback to hardcoded if embed fails
	}
	return cfg, "", nil
}

// ReadFile reads and parses one settings file.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a settings document on top of the defaults, so omitted
// fields keep their default values.
func Parse(data []byte) (File, error) {
	cfg := DefaultFile()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Checkpoints == nil {
		cfg.Checkpoints = map[string]bool{}
	}
	return cfg, nil
}

// ApplyEnv overrides fields from AUTOSPLIT_* environment variables.
func ApplyEnv(cfg *File) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes settings to path, creating parent directories.
func Save(path string, cfg File) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Write then rename so the watcher never sees a half-written file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// WriteDefault writes the embedded default document to path.
// It refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, defaultSettingsYAML, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// UserConfigPath returns ~/.autosplit/settings.yaml, or empty if home is unavailable.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".autosplit", SettingsFile)
}
