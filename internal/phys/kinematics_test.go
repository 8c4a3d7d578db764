package phys

import (
	"math"
	"testing"
)

func TestRecoilEnergyZeroAtForwardScatter(t *testing.T) {
	if e := RecoilEnergy(50, 230e3, 68, 0); e != 0 {
		t.Errorf("expected zero recoil at angle 0, got %f", e)
	}
}

func TestRecoilEnergyIncreasesWithAngle(t *testing.T) {
	nucleus := 73 * NucleonMass
	e90 := RecoilEnergy(50, 230e3, nucleus, math.Pi/2)
	e180 := RecoilEnergy(50, 230e3, nucleus, math.Pi)

	if e90 <= 0 {
		t.Fatalf("expected positive recoil at 90°, got %f", e90)
	}
	if e180 <= e90 {
		t.Errorf("expected backscatter %f > 90° recoil %f", e180, e90)
	}
	if math.Abs(e180-2*e90) > 1e-9 {
		t.Errorf("backscatter should be twice the 90° recoil: %f vs %f", e180, e90)
	}
}

func TestRecoilEnergyRealisticScale(t *testing.T) {
	// 50 GeV WIMP at galactic speeds on germanium deposits keV-scale
	// recoils, not eV or MeV.
	e := RecoilEnergy(50, 230e3, 73*NucleonMass, math.Pi)
	if e < 1 || e > 1000 {
		t.Errorf("recoil energy out of expected keV range: %f", e)
	}
}

func TestRecoilEnergyDegenerateMasses(t *testing.T) {
	if e := RecoilEnergy(0, 230e3, 68, math.Pi); e != 0 {
		t.Errorf("expected 0 for zero WIMP mass, got %f", e)
	}
	if e := RecoilEnergy(50, 230e3, 0, math.Pi); e != 0 {
		t.Errorf("expected 0 for zero nucleus mass, got %f", e)
	}
}

func TestNuclearFormFactorBounds(t *testing.T) {
	for _, a := range []int{1, 4, 16, 28, 73, 131, 197, 250} {
		for q := 0.0; q <= 10.0; q += 0.05 {
			f := NuclearFormFactor(q, a)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				t.Fatalf("form factor not finite at q=%f A=%d", q, a)
			}
			if f < 0 || f > 1 {
				t.Fatalf("form factor out of [0,1] at q=%f A=%d: %f", q, a, f)
			}
		}
	}
}

func TestNuclearFormFactorZeroMomentumLimit(t *testing.T) {
	if f := NuclearFormFactor(0, 73); f != 1 {
		t.Errorf("expected F(0)=1, got %f", f)
	}
	// Approaching zero from above must not blow up.
	f := NuclearFormFactor(1e-12, 73)
	if math.Abs(f-1) > 1e-6 {
		t.Errorf("expected F(q→0)≈1, got %f", f)
	}
}

func TestNuclearFormFactorSuppression(t *testing.T) {
	low := NuclearFormFactor(0.1, 131)
	high := NuclearFormFactor(2.0, 131)
	if high >= low {
		t.Errorf("expected suppression at high q: F(0.1)=%f F(2.0)=%f", low, high)
	}
}

func TestCrossSectionCoherentScaling(t *testing.T) {
	// At zero momentum transfer the form factor is 1, so the cross
	// section is exactly sigma0 A².
	sigma := CrossSection(0, 73, 1e-45)
	want := 1e-45 * 73 * 73
	if math.Abs(sigma-want)/want > 1e-12 {
		t.Errorf("expected %g, got %g", want, sigma)
	}
}

func TestMomentumTransfer(t *testing.T) {
	if q := MomentumTransfer(0, 73); q != 0 {
		t.Errorf("expected zero momentum transfer at zero recoil, got %f", q)
	}
	q10 := MomentumTransfer(10, 73)
	q40 := MomentumTransfer(40, 73)
	if math.Abs(q40-2*q10) > 1e-9 {
		t.Errorf("momentum transfer should scale with sqrt(E): %f vs %f", q10, q40)
	}
}

func TestInteractionRate(t *testing.T) {
	sigma := CrossSection(0, 73, WIMPCrossSection)
	rate := InteractionRate(sigma, MostProbableVelocity, 1.0, 73*NucleonMass, WIMPMass, LocalDMDensity)
	if rate <= 0 {
		t.Fatalf("expected positive rate, got %f", rate)
	}

	double := InteractionRate(sigma, MostProbableVelocity, 2.0, 73*NucleonMass, WIMPMass, LocalDMDensity)
	if math.Abs(double-2*rate) > rate*1e-9 {
		t.Errorf("rate should scale linearly with detector mass")
	}
}

func TestInteractionRateDegenerate(t *testing.T) {
	if r := InteractionRate(1e-45, 220e3, 1, 68, 0, 0.3); r != 0 {
		t.Errorf("expected 0 for zero WIMP mass, got %f", r)
	}
}
