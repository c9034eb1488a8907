// pkg/config/config.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/archlinux/arch-repro-status/pkg/pacman"
	"github.com/archlinux/arch-repro-status/pkg/rebuilderd"
)

// AppName names the configuration directory
const AppName = "arch-repro-status"

// DefaultPager is used when neither the config nor the environment names one
const DefaultPager = "less"

// Config holds arch-repro-status configuration
type Config struct {
	Rebuilderd string   `yaml:"rebuilderd" toml:"rebuilderd"`
	DBPath     string   `yaml:"dbpath" toml:"dbpath"`
	Repos      []string `yaml:"repos" toml:"repos"`
	Pager      string   `yaml:"pager" toml:"pager"`
	CacheDir   string   `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
	Maintainer string   `yaml:"maintainer,omitempty" toml:"maintainer,omitempty"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Rebuilderd: rebuilderd.DefaultURL,
		DBPath:     pacman.DefaultDBPath,
		Repos:      append([]string(nil), pacman.DefaultRepos...),
		Pager:      DefaultPager,
	}
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Rebuilderd) == "":
		return errors.New("rebuilderd URL must not be empty")
	case strings.TrimSpace(c.DBPath) == "":
		return errors.New("dbpath must not be empty")
	case strings.TrimSpace(c.Pager) == "":
		return errors.New("pager must not be empty")
	}
	return nil
}

// DefaultPath returns ~/.config/arch-repro-status/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName, "config.yaml"), nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads the configuration at path, YAML unless the extension is .toml.
// Settings missing from the file keep their defaults, and a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Marshal encodes cfg as TOML when toTOML is set and as YAML otherwise
func Marshal(cfg *Config, toTOML bool) ([]byte, error) {
	if !toTOML {
		return yaml.Marshal(cfg)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path in the format its extension selects
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := Marshal(cfg, isTOML(path))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
