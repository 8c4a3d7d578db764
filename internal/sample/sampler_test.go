package sample

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestGalacticVelocityBelowEscape(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	const v0, vEsc = 220e3, 544e3

	for i := 0; i < 10000; i++ {
		v, err := GalacticVelocity(r, v0, vEsc)
		if err != nil {
			t.Fatalf("trial %d: %v", i, err)
		}
		if v.Mag() >= vEsc {
			t.Fatalf("trial %d: magnitude %f >= escape velocity", i, v.Mag())
		}
	}
}

func TestGalacticVelocityDeterministic(t *testing.T) {
	a := rand.New(rand.NewSource(7))
	b := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		va, _ := GalacticVelocity(a, 220e3, 544e3)
		vb, _ := GalacticVelocity(b, 220e3, 544e3)
		if va != vb {
			t.Fatalf("trial %d: same seed diverged: %v vs %v", i, va, vb)
		}
	}
}

func TestGalacticVelocityRetryBudget(t *testing.T) {
	r := rand.New(rand.NewSource(1))

	// Escape velocity far below the thermal scale makes acceptance
	// practically impossible.
	_, err := GalacticVelocity(r, 220e3, 1e-3)
	if err == nil {
		t.Fatal("expected sampling error for pathological escape velocity")
	}
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *sample.Error, got %T", err)
	}
}

func TestScatteringAngleRange(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 10000; i++ {
		a := ScatteringAngle(r)
		if a < 0 || a > math.Pi {
			t.Fatalf("angle %f outside [0, π]", a)
		}
	}
}

func TestScatteringAngleIsotropy(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	n := 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += math.Cos(ScatteringAngle(r))
	}
	mean := sum / float64(n)
	if math.Abs(mean) > 0.02 {
		t.Errorf("cosine of isotropic angles should average near 0, got %f", mean)
	}
}

func TestSphericalMomentumMagnitude(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		v := SphericalMomentum(r, 2.5)
		if math.Abs(v.Mag()-2.5) > 1e-9 {
			t.Fatalf("magnitude %f != 2.5", v.Mag())
		}
	}
}

func TestBackgroundEnergiesWithinRange(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	energies := BackgroundEnergies(r, 0, 100, 0.5, 365)
	for _, e := range energies {
		if e < 0 || e > 100 {
			t.Fatalf("energy %f outside [0, 100]", e)
		}
	}
}

func TestBackgroundEnergiesZeroRate(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	if got := BackgroundEnergies(r, 0, 100, 0, 365); len(got) != 0 {
		t.Errorf("expected no events for zero rate, got %d", len(got))
	}
}

func TestBackgroundEnergySingle(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	for i := 0; i < 1000; i++ {
		e := BackgroundEnergy(r, 0, 100)
		if e < 0 || e > 100 {
			t.Fatalf("energy %f outside [0, 100]", e)
		}
	}
}

func TestPoisson(t *testing.T) {
	tests := []struct {
		name string
		mean float64
	}{
		{"small", 3.0},
		{"moderate", 20.0},
		{"large", 500.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rand.New(rand.NewSource(9))
			n := 5000
			sum := 0.0
			for i := 0; i < n; i++ {
				sum += float64(Poisson(r, tt.mean))
			}
			mean := sum / float64(n)
			tol := 4 * math.Sqrt(tt.mean/float64(n))
			if math.Abs(mean-tt.mean) > tol {
				t.Errorf("sample mean %f too far from %f", mean, tt.mean)
			}
		})
	}
}

func TestPoissonZeroMean(t *testing.T) {
	r := rand.New(rand.NewSource(10))
	if n := Poisson(r, 0); n != 0 {
		t.Errorf("expected 0 for zero mean, got %d", n)
	}
	if n := Poisson(r, -1); n != 0 {
		t.Errorf("expected 0 for negative mean, got %d", n)
	}
}

func TestUniformPositionInCube(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		p := UniformPosition(r)
		for j, c := range p {
			if c < -1 || c > 1 {
				t.Fatalf("component %d = %f outside [-1, 1]", j, c)
			}
		}
	}
}
