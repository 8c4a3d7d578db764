// Package detector holds detector configurations and the modeled
// detector response. Detector kinds form a lookup table of fixed physical
// parameters; new kinds extend the table, never the algorithms.
package detector

import (
	"fmt"
	"sort"
)

// Kind names one of the supported detector technologies.
type Kind string

const (
	SuperfluidHelium Kind = "superfluid_helium"
	LiquidXenon      Kind = "liquid_xenon"
	Germanium        Kind = "germanium"
	Scintillator     Kind = "scintillator"
)

// Params are the fixed physical parameters of a detector kind.
type Params struct {
	ThresholdKeV   float64 `yaml:"threshold_kev" json:"threshold_kev"`
	Resolution     float64 `yaml:"resolution" json:"resolution"`
	BackgroundRate float64 `yaml:"background_rate" json:"background_rate"` // events/kg/day
	Efficiency     float64 `yaml:"efficiency" json:"efficiency"`           // plateau acceptance
	NominalTempMK  float64 `yaml:"nominal_temp_mk" json:"nominal_temp_mk"`
	AtomicNumber   int     `yaml:"atomic_number" json:"atomic_number"`
	MassNumber     int     `yaml:"mass_number" json:"mass_number"`
}

var kinds = map[Kind]Params{
	SuperfluidHelium: {ThresholdKeV: 3.0, Resolution: 0.03, BackgroundRate: 0.01, Efficiency: 0.85, NominalTempMK: 15, AtomicNumber: 2, MassNumber: 3},
	LiquidXenon:      {ThresholdKeV: 5.0, Resolution: 0.05, BackgroundRate: 0.005, Efficiency: 0.90, NominalTempMK: 170e3, AtomicNumber: 54, MassNumber: 131},
	Germanium:        {ThresholdKeV: 1.0, Resolution: 0.02, BackgroundRate: 0.02, Efficiency: 0.80, NominalTempMK: 20, AtomicNumber: 32, MassNumber: 73},
	Scintillator:     {ThresholdKeV: 10.0, Resolution: 0.10, BackgroundRate: 0.05, Efficiency: 0.70, NominalTempMK: 293e3, AtomicNumber: 53, MassNumber: 127},
}

// Lookup returns the parameter record for a detector kind.
func Lookup(kind Kind) (Params, bool) {
	p, ok := kinds[kind]
	return p, ok
}

// Kinds lists the registered detector kinds in stable order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Register adds or overrides a detector kind. This is the extension point
// for configuration-supplied detector tables.
func Register(kind Kind, p Params) error {
	if kind == "" {
		return &ConfigurationError{Field: "kind", Reason: "empty detector kind"}
	}
	if err := validateParams(p); err != nil {
		return err
	}
	kinds[kind] = p
	return nil
}

func validateParams(p Params) error {
	switch {
	case p.ThresholdKeV < 0:
		return &ConfigurationError{Field: "threshold_kev", Reason: "must be non-negative"}
	case p.Resolution <= 0 || p.Resolution > 1:
		return &ConfigurationError{Field: "resolution", Reason: "must be in (0, 1]"}
	case p.BackgroundRate < 0:
		return &ConfigurationError{Field: "background_rate", Reason: "must be non-negative"}
	case p.Efficiency <= 0 || p.Efficiency > 1:
		return &ConfigurationError{Field: "efficiency", Reason: "must be in (0, 1]"}
	case p.AtomicNumber < 1 || p.MassNumber < 1:
		return &ConfigurationError{Field: "nucleus", Reason: "atomic and mass numbers must be positive"}
	case p.MassNumber < p.AtomicNumber:
		return &ConfigurationError{Field: "nucleus", Reason: "mass number below atomic number"}
	}
	return nil
}

// ConfigurationError reports an unknown detector kind or a physical
// parameter outside its documented range. It always surfaces before any
// sampling begins.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("detector configuration: %s: %s", e.Field, e.Reason)
}

// Config is the immutable per-run detector configuration.
type Config struct {
	Kind           Kind    `json:"kind"`
	MassKg         float64 `json:"mass_kg"`
	TemperatureMK  float64 `json:"temperature_mk"`
	ThresholdKeV   float64 `json:"threshold_kev"`
	Resolution     float64 `json:"resolution"`
	BackgroundRate float64 `json:"background_rate"` // events/kg/day
	Efficiency     float64 `json:"efficiency"`
	ExposureDays   float64 `json:"exposure_days"`
	AtomicNumber   int     `json:"atomic_number"`
	MassNumber     int     `json:"mass_number"`

	// Curve, when set, replaces the flat efficiency with an
	// energy-dependent acceptance.
	Curve *EfficiencyCurve `json:"efficiency_curve,omitempty"`
}

// NewConfig builds a validated configuration for a registered detector
// kind. Zero-valued overrides fall back to the kind's table entry.
func NewConfig(kind Kind, massKg, temperatureMK, thresholdKeV, backgroundRate, exposureDays float64) (Config, error) {
	p, ok := Lookup(kind)
	if !ok {
		return Config{}, &ConfigurationError{Field: "kind", Reason: fmt.Sprintf("unknown detector kind %q", kind)}
	}

	cfg := Config{
		Kind:           kind,
		MassKg:         massKg,
		TemperatureMK:  temperatureMK,
		ThresholdKeV:   thresholdKeV,
		Resolution:     p.Resolution,
		BackgroundRate: backgroundRate,
		Efficiency:     p.Efficiency,
		ExposureDays:   exposureDays,
		AtomicNumber:   p.AtomicNumber,
		MassNumber:     p.MassNumber,
	}
	if cfg.TemperatureMK == 0 {
		cfg.TemperatureMK = p.NominalTempMK
	}
	if cfg.ThresholdKeV == 0 {
		cfg.ThresholdKeV = p.ThresholdKeV
	}
	if cfg.BackgroundRate == 0 {
		cfg.BackgroundRate = p.BackgroundRate
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every numeric field against its documented physical
// range. It is re-run by the orchestrator before any sampling begins.
func (c Config) Validate() error {
	switch {
	case c.MassKg <= 0:
		return &ConfigurationError{Field: "mass_kg", Reason: "must be positive"}
	case c.TemperatureMK <= 0:
		return &ConfigurationError{Field: "temperature_mk", Reason: "must be positive"}
	case c.ThresholdKeV < 0:
		return &ConfigurationError{Field: "threshold_kev", Reason: "must be non-negative"}
	case c.Resolution <= 0 || c.Resolution > 1:
		return &ConfigurationError{Field: "resolution", Reason: "must be in (0, 1]"}
	case c.BackgroundRate < 0:
		return &ConfigurationError{Field: "background_rate", Reason: "must be non-negative"}
	case c.ExposureDays <= 0:
		return &ConfigurationError{Field: "exposure_days", Reason: "must be positive"}
	}
	return nil
}

// NucleusMass returns the target nucleus mass in GeV/c².
func (c Config) NucleusMass() float64 {
	return float64(c.MassNumber) * 0.9315
}

// ExposureKgDays is the detector exposure normalization.
func (c Config) ExposureKgDays() float64 {
	return c.MassKg * c.ExposureDays
}
