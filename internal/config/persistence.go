// file: internal/config/persistence.go
// version: 1.0.0
// guid: 1797055f-9fb4-4170-b4d1-d21e7923ec60

package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the configuration as YAML. Secrets are stored in
// plaintext; the 0600 mode restricts access.
func (c *Config) Save(path string) error {
	if path == "" {
		return fmt.Errorf("config save path must not be empty")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	log.Printf("[INFO] config: saved %s", path)
	return nil
}
