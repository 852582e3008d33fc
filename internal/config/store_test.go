package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, created, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !created {
		t.Error("created = false for a missing file")
	}
	if cfg.Domains.Len() != 0 || cfg.HasEnvironments() {
		t.Errorf("fresh config not empty: %+v", cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading created file: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("created file = %q, want {}", data)
	}

	// Second load finds the file.
	if _, created, err = Load(path); err != nil || created {
		t.Errorf("second Load = created %v, err %v", created, err)
	}
}

func TestLoadToleratesHandEditedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
    // personal projects
    "domains": {
        "personal": { "location": "/home/me/personal" },
    },
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dom, ok := cfg.Domains.Get("personal")
	if !ok || dom.Location != "/home/me/personal" {
		t.Errorf("Get(personal) = %+v, %v", dom, ok)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := &Config{Environments: map[string]*Environment{
		"rails": {ServeCommand: "bin/rails s"},
	}}
	_ = cfg.AddDomain("work", "/home/me/work")
	_ = cfg.AddDomain("personal", "/home/me/personal")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("saved file missing trailing newline")
	}

	back, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := back.Domains.Names(); !reflect.DeepEqual(got, []string{"work", "personal"}) {
		t.Errorf("domain order after round trip = %v", got)
	}
	if back.Environments["rails"].ServeCommand != "bin/rails s" {
		t.Errorf("environments lost in round trip: %+v", back.Environments)
	}
}
