package detector

import "math/rand"

// EfficiencyCurve models realistic detection turn-on: zero acceptance
// below the threshold, a linear ramp up to the plateau between threshold
// and the mid-energy point, and the plateau above it.
type EfficiencyCurve struct {
	ThresholdKeV float64 `json:"threshold_kev" yaml:"threshold_kev"`
	MidKeV       float64 `json:"mid_kev" yaml:"mid_kev"`
	Plateau      float64 `json:"plateau" yaml:"plateau"`
}

// At evaluates the acceptance probability at the given true energy.
func (c EfficiencyCurve) At(energyKeV float64) float64 {
	switch {
	case energyKeV < c.ThresholdKeV:
		return 0
	case energyKeV < c.MidKeV:
		return c.Plateau * (energyKeV - c.ThresholdKeV) / (c.MidKeV - c.ThresholdKeV)
	default:
		return c.Plateau
	}
}

// Respond maps a true deposited energy to an observed energy. The second
// return value is false when the event escapes detection entirely.
//
// Acceptance is a flat probability unless the configuration carries an
// energy-dependent curve, in which case the curve is evaluated at the true
// energy. Accepted events are smeared with a Gaussian of width
// energy×resolution and clamped to be non-negative. Threshold comparison
// is left to the caller so the function stays usable for non-thresholded
// analyses.
func Respond(r *rand.Rand, trueEnergyKeV float64, cfg Config) (float64, bool) {
	eff := cfg.Efficiency
	if cfg.Curve != nil {
		eff = cfg.Curve.At(trueEnergyKeV)
	}
	if r.Float64() > eff {
		return 0, false
	}

	sigma := trueEnergyKeV * cfg.Resolution
	observed := trueEnergyKeV + r.NormFloat64()*sigma
	if observed < 0 {
		observed = 0
	}
	return observed, true
}
