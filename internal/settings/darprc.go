package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// rcFile holds values loaded from a .darprc file in the current directory.
// Machine is a pointer so an explicit `machine = ""` (any machine) can be
// told apart from the key being absent.
type rcFile struct {
	Root    string  `toml:"root"`
	Machine *string `toml:"machine"`
}

// loadRC reads .darprc from cwd. Returns nil, nil if not found.
func loadRC() (*rcFile, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	path := filepath.Join(cwd, ".darprc")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rc rcFile
	if err := toml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &rc, nil
}
