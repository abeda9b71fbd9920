package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Check(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"unknown method", func(c *Config) { c.Method = "newton" }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Check(); err == nil {
			t.Errorf("%s: Check passed, want error", tc.name)
		}
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	src := "dt: 0.005\nmethod: lagrangian\n"
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if cfg.Dt != 0.005 {
		t.Errorf("dt = %v, want 0.005", cfg.Dt)
	}
	if cfg.Method != "lagrangian" {
		t.Errorf("method = %q, want lagrangian", cfg.Method)
	}
	if cfg.Duration != DefaultDuration {
		t.Errorf("duration = %v, want default %v", cfg.Duration, DefaultDuration)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("listed preset %q not found", name)
		}
		if err := cfg.Check(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}

	// presets hand out copies
	a := GetPreset("preview")
	a.Dt = 123
	if GetPreset("preview").Dt == 123 {
		t.Error("mutating a preset copy changed the shared preset")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scene = "scenes/arm.yaml"
	cfg.Output = "out.csv"

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("saving: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if *back != *cfg {
		t.Errorf("round trip changed config: %+v vs %+v", back, cfg)
	}
}
