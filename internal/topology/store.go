package topology

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Save writes the topology to the portmap file, pretty-printed, with
// object key order matching build order.
func Save(path string, topo *Topology) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating portmap directory: %w", err)
	}

	data, err := json.MarshalIndent(topo, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling portmap: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads the portmap file. A missing file yields an empty topology,
// so lookups fail with ErrPortNotAssigned rather than an IO error.
func Load(path string) (*Topology, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Topology{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var topo Topology
	if err := json.Unmarshal(jsonc.ToJSON(data), &topo); err != nil {
		return nil, fmt.Errorf("not valid JSON: %s: %w", path, err)
	}
	return &topo, nil
}
