// Package scan sweeps WIMP mass hypotheses over independent simulation
// runs. Each grid point runs with its own seeded generator, so points can
// execute concurrently without sharing random state.
package scan

import (
	"context"
	"sync"

	"github.com/xivix/darksim/internal/detector"
	"github.com/xivix/darksim/internal/sim"
	"github.com/xivix/darksim/internal/stats"
)

// Point is the outcome for one mass hypothesis.
type Point struct {
	WIMPMass        float64 `json:"wimp_mass_gev"`
	SignalCount     int     `json:"signal_count"`
	BackgroundCount int     `json:"background_count"`
	Significance    float64 `json:"significance_sigma"`
}

type Scan struct {
	cfg         detector.Config
	src         sim.Source
	masses      []float64
	nSignal     int
	nBackground int
	seedStart   int64
}

func New(cfg detector.Config, masses []float64, nSignal, nBackground int, seedStart int64) *Scan {
	return &Scan{
		cfg:         cfg,
		src:         sim.DefaultSource(),
		masses:      masses,
		nSignal:     nSignal,
		nBackground: nBackground,
		seedStart:   seedStart,
	}
}

// Grid builds a linear mass grid in GeV.
func Grid(minMass, maxMass float64, steps int) []float64 {
	if steps < 1 {
		return nil
	}
	if steps == 1 {
		return []float64{minMass}
	}
	out := make([]float64, steps)
	width := (maxMass - minMass) / float64(steps-1)
	for i := range out {
		out[i] = minMass + float64(i)*width
	}
	return out
}

// Run executes one simulation per mass point, concurrently. Point i uses
// seed seedStart+i so the whole scan is reproducible.
func (s *Scan) Run(ctx context.Context) ([]Point, error) {
	points := make([]Point, len(s.masses))
	errs := make([]error, len(s.masses))

	var wg sync.WaitGroup
	for i, mass := range s.masses {
		wg.Add(1)
		go func(idx int, m float64) {
			defer wg.Done()

			if ctx.Err() != nil {
				errs[idx] = ctx.Err()
				return
			}

			src := s.src
			src.WIMPMass = m
			res, err := sim.Simulate(s.cfg, s.nSignal, s.nBackground,
				sim.WithSeed(s.seedStart+int64(idx)),
				sim.WithSource(src),
			)
			if err != nil {
				errs[idx] = err
				return
			}
			points[idx] = Point{
				WIMPMass:        m,
				SignalCount:     res.Stats.SignalCount,
				BackgroundCount: res.Stats.BackgroundCount,
				Significance:    stats.Significance(res.Stats.SignalCount, res.Stats.BackgroundCount),
			}
		}(i, mass)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

// Best returns the point with the highest significance.
func Best(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.Significance > best.Significance {
			best = p
		}
	}
	return best, true
}
