package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xivix/darksim/internal/detector"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Detector != DefaultDetector {
		t.Errorf("detector default: got %q", cfg.Detector)
	}
	if cfg.MassKg != DefaultMassKg || cfg.ExposureDays != DefaultExposureDays {
		t.Errorf("mass/exposure defaults: got %f/%f", cfg.MassKg, cfg.ExposureDays)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("addr default: got %q", cfg.Addr)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "darksim.yaml")

	want := DefaultConfig()
	want.Detector = "germanium"
	want.MassKg = 2.5
	want.Seed = 42
	want.WIMPMassGeV = 10

	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Detector != "germanium" || got.MassKg != 2.5 || got.Seed != 42 || got.WIMPMassGeV != 10 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadRegistersCustomDetectors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "darksim.yaml")
	raw := `detector: calcium_tungstate
mass_kg: 0.3
exposure_days: 90
detectors:
  calcium_tungstate:
    threshold_kev: 0.3
    resolution: 0.05
    background_rate: 0.1
    efficiency: 0.9
    nominal_temp_mk: 15
    atomic_number: 20
    mass_number: 40
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Detector != "calcium_tungstate" {
		t.Errorf("detector: got %q", cfg.Detector)
	}

	p, ok := detector.Lookup("calcium_tungstate")
	if !ok {
		t.Fatal("custom detector was not registered")
	}
	if p.ThresholdKeV != 0.3 || p.MassNumber != 40 {
		t.Errorf("registered params mismatch: %+v", p)
	}
}

func TestLoadRejectsInvalidDetector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "darksim.yaml")
	raw := `detectors:
  broken:
    resolution: 5.0
    efficiency: 0.9
    atomic_number: 1
    mass_number: 1
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for out-of-range resolution")
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("germanium", "benchmark")
	if p == nil {
		t.Fatal("expected germanium benchmark preset")
	}
	if p.Seed != 42 || p.SignalEvents != 1000 || p.BackgroundEvents != 1000 {
		t.Errorf("benchmark preset mismatch: %+v", p)
	}

	if GetPreset("germanium", "nope") != nil {
		t.Error("unknown preset name should return nil")
	}
	if GetPreset("nope", "benchmark") != nil {
		t.Error("unknown kind should return nil")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets("liquid_xenon")
	if len(names) != 2 {
		t.Errorf("expected 2 xenon presets, got %d", len(names))
	}
	if ListPresets("nope") != nil {
		t.Error("unknown kind should list nothing")
	}
}

func TestPresetsNameValidDetectors(t *testing.T) {
	for kind, presets := range Presets {
		if _, ok := detector.Lookup(detector.Kind(kind)); !ok {
			t.Errorf("preset group %q names an unregistered detector", kind)
		}
		for name, cfg := range presets {
			if cfg.Detector != kind {
				t.Errorf("preset %s/%s targets detector %q", kind, name, cfg.Detector)
			}
			if cfg.MassKg <= 0 || cfg.ExposureDays <= 0 {
				t.Errorf("preset %s/%s has non-physical mass or exposure", kind, name)
			}
		}
	}
}
