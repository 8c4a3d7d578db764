package phys

import "math"

// RecoilEnergy computes the nuclear recoil energy in keV for an elastic
// WIMP-nucleus scatter. Masses are in GeV/c², velocity in m/s, angle in
// radians. E_r = 2μ²v²(1-cosθ)/m_N with v expressed as a fraction of c.
func RecoilEnergy(wimpMass, velocity, nucleusMass, angle float64) float64 {
	if wimpMass <= 0 || nucleusMass <= 0 {
		return 0
	}
	mu := wimpMass * nucleusMass / (wimpMass + nucleusMass)
	beta := velocity / SpeedOfLight
	er := 2 * mu * mu * beta * beta * (1 - math.Cos(angle)) / nucleusMass
	return er * KeVPerGeV
}

// NuclearFormFactor evaluates the Helm approximation at momentum transfer
// q (fm⁻¹) for mass number a. The return value is the magnitude of the
// envelope 3j₁(qR)/(qR)·exp(-(qs)²/2), which stays in [0,1]. The qR→0
// limit is taken explicitly so q=0 never divides by zero.
func NuclearFormFactor(q float64, a int) float64 {
	r1 := 1.2 * math.Cbrt(float64(a))
	rr := r1*r1 - 5*SurfaceThickness*SurfaceThickness
	if rr < 0 {
		// Light nuclei where the surface term exceeds the nominal
		// radius; treat the effective radius as zero.
		rr = 0
	}
	r := math.Sqrt(rr)

	qr := q * r
	qs := q * SurfaceThickness
	damp := math.Exp(-0.5 * qs * qs)

	if qr < 1e-6 {
		// 3j₁(x)/x → 1 as x → 0.
		return damp
	}

	j1 := math.Sin(qr)/(qr*qr) - math.Cos(qr)/qr
	return math.Abs(3 * j1 / qr * damp)
}

// MomentumTransfer converts a recoil energy in keV to the momentum
// transfer in fm⁻¹ for a nucleus of mass number a.
func MomentumTransfer(recoilKeV float64, a int) float64 {
	if recoilKeV <= 0 {
		return 0
	}
	er := recoilKeV / KeVPerGeV
	m := float64(a) * NucleonMass
	return math.Sqrt(2*m*er) * GeVPerFm
}

// CrossSection computes the differential cross-section in cm²/keV with
// coherent A² scaling and the squared Helm form factor.
func CrossSection(recoilKeV float64, a int, sigma0 float64) float64 {
	f := NuclearFormFactor(MomentumTransfer(recoilKeV, a), a)
	return sigma0 * float64(a) * float64(a) * f * f
}

// InteractionRate returns the expected WIMP interaction rate in
// events/day for the given cross-section (cm²), WIMP velocity (m/s),
// detector mass (kg), target nucleus mass and WIMP mass (GeV/c²), and
// local dark-matter density (GeV/cm³).
func InteractionRate(sigma, velocity, detectorMassKg, nucleusMass, wimpMass, density float64) float64 {
	if wimpMass <= 0 || nucleusMass <= 0 {
		return 0
	}
	nucleusGrams := nucleusMass / NucleonMass * AMUGrams
	targets := detectorMassKg * 1000 / nucleusGrams
	flux := density / wimpMass * velocity * 100 // cm⁻² s⁻¹ per target
	return flux * sigma * targets * SecondsPerDay
}
