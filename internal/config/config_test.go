package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.N1 != 1.46 {
		t.Errorf("expected n1 1.46, got %g", cfg.N1)
	}
	if cfg.N3 != 1.47 {
		t.Errorf("expected n3 1.47, got %g", cfg.N3)
	}
	if cfg.Length != 2e-7 {
		t.Errorf("expected length 2e-7, got %g", cfg.Length)
	}
	if cfg.Samples != 100 {
		t.Errorf("expected 100 samples, got %d", cfg.Samples)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero n1", func(c *Config) { c.N1 = 0 }},
		{"negative length", func(c *Config) { c.Length = -1 }},
		{"one sample", func(c *Config) { c.Samples = 1 }},
		{"zero tolerance", func(c *Config) { c.Tolerance = 0 }},
		{"inverted sweep range", func(c *Config) { c.Sweep.MaxDeltaBeta = c.Sweep.MinDeltaBeta / 10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thg.yaml")

	cfg := DefaultConfig()
	cfg.DeltaBeta = 5e7
	cfg.Samples = 250
	cfg.Sweep.Points = 12

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.DeltaBeta != 5e7 {
		t.Errorf("expected delta_beta 5e7, got %g", loaded.DeltaBeta)
	}
	if loaded.Samples != 250 {
		t.Errorf("expected 250 samples, got %d", loaded.Samples)
	}
	if loaded.Sweep.Points != 12 {
		t.Errorf("expected 12 sweep points, got %d", loaded.Sweep.Points)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thg.yaml")
	if err := os.WriteFile(path, []byte("delta_beta: 3.0e6\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DeltaBeta != 3e6 {
		t.Errorf("expected delta_beta 3e6, got %g", cfg.DeltaBeta)
	}
	if cfg.N1 != DefaultN1 || cfg.Samples != DefaultSamples {
		t.Error("omitted keys should keep their defaults")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("mismatched")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.DeltaBeta != 1e10 {
		t.Errorf("expected delta_beta 1e10, got %g", cfg.DeltaBeta)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	if len(ListPresets()) == 0 {
		t.Error("expected at least one preset")
	}
}

func TestInitState(t *testing.T) {
	cfg := DefaultConfig()
	x0 := cfg.InitState()

	if len(x0) != 2 {
		t.Fatalf("expected 2 field components, got %d", len(x0))
	}
	if x0[0] != 10000+0i {
		t.Errorf("expected seeded fundamental 10000+0i, got %v", x0[0])
	}
	if x0[1] != 0 {
		t.Errorf("expected dark harmonic, got %v", x0[1])
	}
}
