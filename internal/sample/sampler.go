// Package sample draws random physical quantities from configured
// distributions. Every function takes an explicit *rand.Rand so runs can
// own independently seeded streams and replay deterministically.
package sample

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/xivix/darksim/internal/particle"
)

// maxRejectionRetries bounds rejection sampling loops so a pathological
// configuration (vEscape ≤ v0) surfaces as an Error instead of spinning.
const maxRejectionRetries = 10000

// Error reports an exhausted rejection-sampling retry budget.
type Error struct {
	Op       string
	Attempts int
}

func (e *Error) Error() string {
	return fmt.Sprintf("sample: %s gave up after %d attempts", e.Op, e.Attempts)
}

// GalacticVelocity draws a velocity vector from a truncated
// Maxwell-Boltzmann distribution: three independent normal components with
// standard deviation v0, resampled until the magnitude is below vEscape.
func GalacticVelocity(r *rand.Rand, v0, vEscape float64) (particle.Vec3, error) {
	for i := 0; i < maxRejectionRetries; i++ {
		v := particle.Vec3{
			r.NormFloat64() * v0,
			r.NormFloat64() * v0,
			r.NormFloat64() * v0,
		}
		if v.Mag() < vEscape {
			return v, nil
		}
	}
	return particle.Vec3{}, &Error{Op: "galactic velocity", Attempts: maxRejectionRetries}
}

// ScatteringAngle draws an isotropic scattering angle in [0, π] by sampling
// cosθ uniformly on [-1, 1].
func ScatteringAngle(r *rand.Rand) float64 {
	return math.Acos(2*r.Float64() - 1)
}

// SphericalMomentum draws an isotropic direction scaled to the given
// magnitude.
func SphericalMomentum(r *rand.Rand, magnitude float64) particle.Vec3 {
	theta := math.Acos(2*r.Float64() - 1)
	phi := 2 * math.Pi * r.Float64()
	return particle.Vec3{
		magnitude * math.Sin(theta) * math.Cos(phi),
		magnitude * math.Sin(theta) * math.Sin(phi),
		magnitude * math.Cos(theta),
	}
}

// BackgroundEnergies draws a Poisson-distributed number of background
// energies with mean rate×exposure. Each energy follows an exponential
// distribution with scale (max-min)/3; draws outside [min, max] are
// discarded rather than resampled, so the result may be shorter than the
// Poisson count.
func BackgroundEnergies(r *rand.Rand, minKeV, maxKeV, rate, exposure float64) []float64 {
	n := Poisson(r, rate*exposure)
	scale := (maxKeV - minKeV) / 3
	energies := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		e := r.ExpFloat64() * scale
		if e >= minKeV && e <= maxKeV {
			energies = append(energies, e)
		}
	}
	return energies
}

// BackgroundEnergy draws a single background energy within [min, max] from
// the same exponential model, retrying out-of-range draws and clamping if
// the budget runs out so the caller always gets an in-range value.
func BackgroundEnergy(r *rand.Rand, minKeV, maxKeV float64) float64 {
	scale := (maxKeV - minKeV) / 3
	for i := 0; i < maxRejectionRetries; i++ {
		e := r.ExpFloat64() * scale
		if e >= minKeV && e <= maxKeV {
			return e
		}
	}
	return minKeV
}

// Poisson draws from a Poisson distribution. Small means use Knuth's
// product method; large means fall back to a rounded normal approximation
// to avoid underflow in exp(-mean).
func Poisson(r *rand.Rand, mean float64) int {
	if mean <= 0 {
		return 0
	}
	if mean > 30 {
		n := math.Round(mean + math.Sqrt(mean)*r.NormFloat64())
		if n < 0 {
			return 0
		}
		return int(n)
	}
	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= r.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// UniformPosition draws a position uniformly inside the unit detector cube
// [-1, 1]³ (meters).
func UniformPosition(r *rand.Rand) particle.Vec3 {
	return particle.Vec3{
		2*r.Float64() - 1,
		2*r.Float64() - 1,
		2*r.Float64() - 1,
	}
}
