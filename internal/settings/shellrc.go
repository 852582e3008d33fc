package settings

import (
	"fmt"
	"os"
	"strings"
)

// SetExport rewrites the shell rc file at path so that it contains exactly
// one `export key="value"` line, replacing any previous export of the same
// key. The file is created if it does not exist.
func SetExport(path, key, value string) error {
	lines, err := readLines(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	lines = dropExport(lines, key)

	// Trim trailing blank lines so repeated edits don't accumulate gaps.
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	lines = append(lines, "", fmt.Sprintf("export %s=%q", key, value))
	return writeLines(path, lines)
}

// RemoveExport deletes any `export key=` line from the rc file. It reports
// whether a line was removed.
func RemoveExport(path, key string) (bool, error) {
	lines, err := readLines(path)
	if err != nil {
		return false, err
	}

	trimmed := dropExport(lines, key)
	if len(trimmed) == len(lines) {
		return false, nil
	}
	return true, writeLines(path, trimmed)
}

func dropExport(lines []string, key string) []string {
	prefix := "export " + key + "="
	out := lines[:0:0]
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSuffix(string(data), "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}

func writeLines(path string, lines []string) error {
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
