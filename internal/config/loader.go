package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the match configuration.
// Search order: customPath -> ~/.netpong/configs/match.yaml -> ./configs/match.yaml -> embedded default
func Load(customPath string) (MatchConfig, error) {
	var cfg MatchConfig

	// An explicitly named file must exist and parse; silent fallback here
	// would run the match with settings the user did not ask for.
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("match.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, cfg.Validate()
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/match.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, cfg.Validate()
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultMatchYAML, &cfg); err != nil {
		return DefaultMatchConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netpong", "configs", filename)
}

// UserMatchConfigPath returns where the per-user match config is looked up,
// or empty when the home directory is unavailable.
func UserMatchConfigPath() string {
	return userConfigPath("match.yaml")
}

// InitUserConfig writes the embedded defaults to path as a starting point
// for customization. An existing file is left alone unless force is set.
func InitUserConfig(path string, force bool) error {
	if path == "" {
		return fmt.Errorf("config: no config path available")
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: %s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create config directory: %w", err)
	}
	if err := os.WriteFile(path, DefaultYAML(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
