package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
	if !cfg.Radial.LogSpacing {
		t.Fatal("log spacing should default to on")
	}
	if cfg.MVC.LowCut != 2 || cfg.MVC.HighCut != 64 {
		t.Fatalf("clip window (%g, %g)", cfg.MVC.LowCut, cfg.MVC.HighCut)
	}
	if cfg.SCF.Size != 11 {
		t.Fatalf("scf size %d", cfg.SCF.Size)
	}
	if cfg.SCF.Workers < 1 {
		t.Fatalf("workers %d", cfg.SCF.Workers)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		breakIt func(*Analysis)
	}{
		{"inverted clip window", func(c *Analysis) { c.MVC.LowCut = 64; c.MVC.HighCut = 2 }},
		{"zero pixel scale", func(c *Analysis) { c.MVC.PixelScale = 0 }},
		{"tiny scf grid", func(c *Analysis) { c.SCF.Size = 1 }},
		{"thin vca slices", func(c *Analysis) { c.VCA.SliceThickness = 0.25 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.breakIt(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for a nonexistent path")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	if err := os.WriteFile(path, []byte("scf:\n  size: 21\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SCF.Size != 21 {
		t.Fatalf("scf size %d, want 21", cfg.SCF.Size)
	}
	want := Default()
	if cfg.MVC != want.MVC || cfg.VCA != want.VCA || cfg.Radial != want.Radial {
		t.Fatalf("unset sections lost their defaults: %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	cfg := Default()
	cfg.MVC.HighCut = 32
	cfg.SCF.Size = 21
	cfg.SCF.Weighted = false
	cfg.VCA.SliceThickness = 2
	cfg.VCA.Break = 8

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Fatalf("round trip changed the configuration:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	cfg := Default()
	cfg.SCF.Size = 1
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error on load")
	}

	if err := os.WriteFile(path, []byte("radial: [not, a, mapping]"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error on load")
	}
}
