package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Load reads the configuration file at path. A missing file is created
// holding an empty object, so first runs start from a clean config. The
// returned bool reports whether the file was created.
//
// The file is parsed leniently (comments and trailing commas allowed),
// since users edit it by hand.
func Load(path string) (*Config, bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("creating config directory: %w", err)
	}

	created := false
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data = []byte("{}")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, false, fmt.Errorf("creating %s: %w", path, err)
		}
		created = true
	} else if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, false, fmt.Errorf("not valid JSON: %s: %w", path, err)
	}
	return &cfg, created, nil
}

// Save writes the configuration back to path, pretty-printed.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
