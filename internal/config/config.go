// Package config loads and saves the lnr configuration file: a small JSON
// document mapping organization names to API tokens, plus a couple of
// feature flags and test hooks.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const configFileName = "lnr.cfg"

// Config is the on-disk configuration. Organizations maps an organization
// name to its Linear API token; names are unique by map semantics, so adding
// an existing name overwrites its token.
type Config struct {
	Organizations map[string]string `json:"organizations"`
	Path          string            `json:"path"`
	Spinners      *bool             `json:"spinners,omitempty"`

	// Test hooks. MockURL overrides the GraphQL endpoint, MockString and
	// MockSelect stand in for interactive prompts.
	MockURL    *string `json:"mock_url,omitempty"`
	MockString *string `json:"mock_string,omitempty"`
	MockSelect *int    `json:"mock_select,omitempty"`
}

// DefaultPath resolves the config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, configFileName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, configFileName), nil
}

// New returns a Config with default values rooted at path.
func New(path string) *Config {
	enabled := true
	return &Config{
		Organizations: map[string]string{},
		Path:          path,
		Spinners:      &enabled,
	}
}

// GetOrCreate loads the config at path, creating it with defaults when the
// file does not exist. An empty path falls back to DefaultPath.
func GetOrCreate(path string) (*Config, error) {
	if path == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}

	cfg, ok, err := Load(path)
	if err != nil {
		return nil, err
	}
	if ok {
		return cfg, nil
	}

	cfg = New(path)
	if err := cfg.Save(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the config at path. The second return value is false when the
// file does not exist.
func Load(path string) (*Config, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, false, fmt.Errorf("decode config file: %w", err)
	}
	if cfg.Organizations == nil {
		cfg.Organizations = map[string]string{}
	}
	cfg.Path = path
	return &cfg, true, nil
}

// Save writes the whole config to its path as pretty JSON, replacing any
// previous contents via a tmp file and rename.
func (c *Config) Save() error {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp := c.Path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode config file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close config file: %w", err)
	}
	if err := os.Rename(tmp, c.Path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}

// AddOrganization stores the token for name, overwriting any previous entry.
func (c *Config) AddOrganization(name, token string) {
	if c.Organizations == nil {
		c.Organizations = map[string]string{}
	}
	c.Organizations[name] = token
}

// RemoveOrganization deletes name from the organization map. Removing an
// absent name is a no-op.
func (c *Config) RemoveOrganization(name string) {
	delete(c.Organizations, name)
}

// OrganizationNames returns the configured organization names, sorted.
func (c *Config) OrganizationNames() []string {
	names := make([]string, 0, len(c.Organizations))
	for name := range c.Organizations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Token returns the API token for the named organization.
func (c *Config) Token(name string) (string, error) {
	token, ok := c.Organizations[name]
	if !ok {
		return "", errors.New("organization not found")
	}
	return token, nil
}

// SpinnersEnabled reports whether the progress spinner should be shown.
func (c *Config) SpinnersEnabled() bool {
	return c.Spinners != nil && *c.Spinners
}
