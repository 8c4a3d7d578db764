package particle

import (
	"fmt"
	"math"
)

// Vec3 is a fixed three-component vector. Positions are in meters,
// velocities in m/s, momenta in GeV/c.
type Vec3 [3]float64

func (v Vec3) Mag() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Kind tags the physical origin of a quantum in the simulation.
type Kind int

const (
	DarkMatter Kind = iota
	Background
	CosmicRay
	Neutrino

	numKinds
)

var kindNames = [numKinds]string{
	DarkMatter: "dark_matter",
	Background: "background",
	CosmicRay:  "cosmic_ray",
	Neutrino:   "neutrino",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

func ParseKind(s string) (Kind, error) {
	for k := Kind(0); k < numKinds; k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown particle kind: %q", s)
}

// RestMass returns the rest mass in GeV/c². The switch is exhaustive over
// the tag set; extending Kind requires extending this table.
func (k Kind) RestMass() float64 {
	switch k {
	case DarkMatter:
		return 50.0
	case Background:
		return 0
	case CosmicRay:
		return 0.10566 // muon
	case Neutrino:
		return 0
	default:
		return 0
	}
}

const speedOfLight = 299792458.0 // m/s

// Particle is a quantum traversing the detector volume.
type Particle struct {
	Kind        Kind
	Energy      float64 // true deposited energy, keV
	Momentum    Vec3    // GeV/c
	Position    Vec3    // m
	Time        float64 // seconds since exposure start
	Interaction string
}

// Velocity derives the lab-frame velocity from momentum and rest mass via
// v = pc²/E. Massless kinds move at c along the momentum direction.
func (p Particle) Velocity() Vec3 {
	pm := p.Momentum.Mag()
	if pm == 0 {
		return Vec3{}
	}
	m := p.Kind.RestMass()
	etot := math.Sqrt(pm*pm + m*m)
	return p.Momentum.Scale(speedOfLight * pm / etot / pm)
}

// KineticEnergy derives the relativistic kinetic energy in keV.
func (p Particle) KineticEnergy() float64 {
	pm := p.Momentum.Mag()
	m := p.Kind.RestMass()
	etot := math.Sqrt(pm*pm + m*m)
	return (etot - m) * 1e6
}
