package config

var Presets = map[string]map[string]*Config{
	"germanium": {
		"benchmark": {
			Detector: "germanium", MassKg: 1.0, ThresholdKeV: 1.0, ExposureDays: 365,
			SignalEvents: 1000, BackgroundEvents: 1000, Seed: 42,
		},
		"lowrate": {
			Detector: "germanium", MassKg: 1.0, ExposureDays: 365,
			SignalEvents: 50, BackgroundEvents: 500,
		},
	},
	"liquid_xenon": {
		"tonne_scale": {
			Detector: "liquid_xenon", MassKg: 1000.0, ExposureDays: 365,
			SignalEvents: 100, BackgroundEvents: 2000,
		},
		"short": {
			Detector: "liquid_xenon", MassKg: 100.0, ExposureDays: 30,
			SignalEvents: 50, BackgroundEvents: 200,
		},
	},
	"superfluid_helium": {
		"light_wimp": {
			Detector: "superfluid_helium", MassKg: 1.0, ExposureDays: 180,
			SignalEvents: 200, BackgroundEvents: 400, WIMPMassGeV: 5.0,
		},
	},
	"scintillator": {
		"annual": {
			Detector: "scintillator", MassKg: 10.0, ExposureDays: 365,
			SignalEvents: 300, BackgroundEvents: 3000,
		},
	},
}

func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	return names
}
