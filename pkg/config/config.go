package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	xdgAppName = "daybook"
	configFile = "config.json"

	DefaultExtension = ".md"
	DefaultCalendar  = "Journal"
)

// Scope overrides where one class of entries lives. Empty fields fall back
// to the top-level defaults.
type Scope struct {
	Base      string `json:"base,omitempty"`
	Extension string `json:"extension,omitempty"`
}

type Config struct {
	// Base is the journal root; day pages live under <base>/<YYYY>/<MM>/.
	Base      string `json:"base"`
	Extension string `json:"extension"`
	// Calendar is the Google Calendar name task entries sync to.
	Calendar string           `json:"calendar"`
	Scopes   map[string]Scope `json:"scopes,omitempty"`
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, configFile), nil
}

func defaultConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Base:      filepath.Join(home, "Journal"),
		Extension: DefaultExtension,
		Calendar:  DefaultCalendar,
	}, nil
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig()
		}
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	defaults, err := defaultConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Base == "" {
		cfg.Base = defaults.Base
	}
	if cfg.Extension == "" {
		cfg.Extension = defaults.Extension
	}
	if cfg.Calendar == "" {
		cfg.Calendar = defaults.Calendar
	}
	return &cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// ResolveScope returns the effective base directory and file extension for
// a scope. Unknown scopes and the default scope use the top-level values.
func (c *Config) ResolveScope(name string) (base, extension string) {
	base, extension = c.Base, c.Extension
	if s, ok := c.Scopes[name]; ok {
		if s.Base != "" {
			base = s.Base
		}
		if s.Extension != "" {
			extension = s.Extension
		}
	}
	return base, extension
}
