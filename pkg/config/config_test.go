package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

type validatedConfig struct {
	Name string `yaml:"name"`
}

func (c *validatedConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", "name: ansuz\nport: 8080\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "ansuz" || cfg.Port != 8080 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_CONFIG_NAME", "from-env")
	path := writeFile(t, "config.yaml", "name: ${TEST_CONFIG_NAME}\n")
	var cfg testConfig
	if err := Load(path, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "from-env" {
		t.Errorf("name = %q, want from-env", cfg.Name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_ValidatorCalled(t *testing.T) {
	path := writeFile(t, "config.yaml", "name: \"\"\n")
	var cfg validatedConfig
	err := Load(path, &cfg)
	if err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestLoadWithDefaults_PrefersExisting(t *testing.T) {
	primary := writeFile(t, "primary.yaml", "name: primary\n")
	fallback := writeFile(t, "fallback.yaml", "name: fallback\n")
	var cfg testConfig
	if err := LoadWithDefaults(primary, fallback, &cfg); err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Name != "primary" {
		t.Errorf("name = %q, want primary", cfg.Name)
	}
}

func TestLoadWithDefaults_FallsBack(t *testing.T) {
	fallback := writeFile(t, "fallback.yaml", "name: fallback\n")
	var cfg testConfig
	if err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"), fallback, &cfg); err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Name != "fallback" {
		t.Errorf("name = %q, want fallback", cfg.Name)
	}
}

func TestLoadWithDefaults_NoFallback(t *testing.T) {
	var cfg testConfig
	if err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"), "", &cfg); err == nil {
		t.Error("expected error when both paths are missing")
	}
}
