package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ptml.toml",
		"guard_policy = \"policies/strict.yaml\"\ncolor = false\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GuardPolicy != "policies/strict.yaml" {
		t.Fatalf("GuardPolicy = %q", cfg.GuardPolicy)
	}
	if cfg.Color {
		t.Fatal("Color = true, want false")
	}
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("Load of missing explicit path must fail")
	}
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Color || cfg.GuardPolicy != "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_UnknownKeyFails(t *testing.T) {
	path := writeFile(t, t.TempDir(), "ptml.toml", "colour = true\n")

	if _, err := Load(path); err == nil {
		t.Fatal("unknown key must be rejected")
	}
}
