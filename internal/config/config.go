package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xivix/darksim/internal/detector"
)

const (
	DefaultDetector     = "superfluid_helium"
	DefaultMassKg       = 1.0
	DefaultExposureDays = 365.0
	DefaultSignal       = 50
	DefaultBackground   = 1000
	DefaultEnergyBins   = 100
	DefaultTimeBins     = 50
	DefaultHistoryLimit = 100
	DefaultAddr         = ":5000"
)

type Config struct {
	Detector         string  `yaml:"detector"`
	MassKg           float64 `yaml:"mass_kg"`
	TemperatureMK    float64 `yaml:"temperature_mk"`
	ThresholdKeV     float64 `yaml:"threshold_kev"`
	ExposureDays     float64 `yaml:"exposure_days"`
	SignalEvents     int     `yaml:"signal_events"`
	BackgroundEvents int     `yaml:"background_events"`
	Seed             int64   `yaml:"seed"`
	EnergyBins       int     `yaml:"energy_bins"`
	TimeBins         int     `yaml:"time_bins"`
	MixArrival       *bool   `yaml:"mix_arrival,omitempty"`

	WIMPMassGeV     float64 `yaml:"wimp_mass_gev"`
	CrossSectionCm2 float64 `yaml:"cross_section_cm2"`

	Addr         string `yaml:"addr"`
	HistoryLimit int    `yaml:"history_limit"`

	// Detectors extends the built-in detector table with additional
	// kinds. Entries here are registered at load time.
	Detectors map[string]detector.Params `yaml:"detectors,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Detector:         DefaultDetector,
		MassKg:           DefaultMassKg,
		ExposureDays:     DefaultExposureDays,
		SignalEvents:     DefaultSignal,
		BackgroundEvents: DefaultBackground,
		EnergyBins:       DefaultEnergyBins,
		TimeBins:         DefaultTimeBins,
		Addr:             DefaultAddr,
		HistoryLimit:     DefaultHistoryLimit,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	for name, p := range cfg.Detectors {
		if err := detector.Register(detector.Kind(name), p); err != nil {
			return nil, fmt.Errorf("config %s: detector %q: %w", path, name, err)
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
