package phys

// Physical constants and unit conversion factors. Masses are carried in
// GeV/c², velocities in m/s, energies in keV, momentum transfer in fm⁻¹.
const (
	SpeedOfLight = 299792458.0 // m/s
	NucleonMass  = 0.9315      // GeV/c², atomic mass unit

	KeVPerGeV = 1e6
	GeVPerFm  = 5.068 // fm⁻¹ per GeV/c (1/ħc)

	AMUGrams = 1.66054e-24 // g

	LocalDMDensity = 0.3 // GeV/cm³

	// Standard halo model parameters.
	MostProbableVelocity = 220e3 // m/s
	EscapeVelocity       = 544e3 // m/s
	EarthVelocity        = 230e3 // m/s

	// Helm form factor surface thickness.
	SurfaceThickness = 0.9 // fm

	WIMPMass         = 50.0  // GeV/c²
	WIMPCrossSection = 1e-45 // cm²

	SecondsPerDay = 86400.0
)
