// Package sim orchestrates one Monte Carlo simulation run: galactic
// velocity sampling, recoil kinematics, detector response, and event
// bookkeeping. A run owns its event collection and its random stream, so
// concurrent runs never share mutable state.
package sim

import (
	"math/rand"

	"github.com/xivix/darksim/internal/detector"
	"github.com/xivix/darksim/internal/particle"
	"github.com/xivix/darksim/internal/phys"
	"github.com/xivix/darksim/internal/sample"
	"github.com/xivix/darksim/internal/stats"
)

// Background energies are drawn over this window (keV).
const backgroundMaxKeV = 100.0

// Default histogram binning, matching the aggregate result shape.
const (
	DefaultEnergyBins = 100
	DefaultTimeBins   = 50
)

// Source describes the dark-matter halo and candidate particle.
type Source struct {
	WIMPMass     float64 `json:"wimp_mass_gev"`
	CrossSection float64 `json:"cross_section_cm2"`
	V0           float64 `json:"v0_ms"`
	VEscape      float64 `json:"v_escape_ms"`
}

// DefaultSource returns the standard halo model parameters.
func DefaultSource() Source {
	return Source{
		WIMPMass:     phys.WIMPMass,
		CrossSection: phys.WIMPCrossSection,
		V0:           phys.MostProbableVelocity,
		VEscape:      phys.EscapeVelocity,
	}
}

// Run drives a single simulation against one detector configuration.
type Run struct {
	cfg        detector.Config
	src        Source
	seed       int64
	rng        *rand.Rand
	mix        bool
	energyBins int
	timeBins   int
}

type Option func(*Run)

// WithSeed fixes the run's random stream. Runs with equal seeds and equal
// configurations produce identical results.
func WithSeed(seed int64) Option {
	return func(r *Run) { r.seed = seed }
}

func WithSource(src Source) Option {
	return func(r *Run) { r.src = src }
}

// WithArrivalMix controls whether the combined signal and background
// sequence is shuffled before identifiers are assigned. When mixed,
// identifiers reflect processed order rather than generation order.
func WithArrivalMix(mix bool) Option {
	return func(r *Run) { r.mix = mix }
}

func WithBins(energy, timeBins int) Option {
	return func(r *Run) {
		r.energyBins = energy
		r.timeBins = timeBins
	}
}

// New validates the configuration and prepares a run. The returned error
// is always a *detector.ConfigurationError; no sampling happens before it
// is checked.
func New(cfg detector.Config, opts ...Option) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Run{
		cfg:        cfg,
		src:        DefaultSource(),
		seed:       1,
		mix:        true,
		energyBins: DefaultEnergyBins,
		timeBins:   DefaultTimeBins,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.src.WIMPMass <= 0 {
		return nil, &detector.ConfigurationError{Field: "wimp_mass", Reason: "must be positive"}
	}
	if r.src.V0 <= 0 || r.src.VEscape <= 0 {
		return nil, &detector.ConfigurationError{Field: "halo_velocity", Reason: "must be positive"}
	}
	r.rng = rand.New(rand.NewSource(r.seed))
	return r, nil
}

// Events generates nSignal candidate WIMP scatters and nBackground
// background events and returns the populated collection. Signal events
// below threshold or missed by the detector are dropped; background events
// are always recorded, falling back to the true energy when undetected.
func (r *Run) Events(nSignal, nBackground int) (*particle.Collection, error) {
	pending := make([]particle.DetectionEvent, 0, nSignal+nBackground)

	for i := 0; i < nSignal; i++ {
		ev, ok, err := r.signalEvent()
		if err != nil {
			return nil, err
		}
		if ok {
			pending = append(pending, ev)
		}
	}
	for i := 0; i < nBackground; i++ {
		pending = append(pending, r.backgroundEvent())
	}

	if r.mix {
		r.rng.Shuffle(len(pending), func(i, j int) {
			pending[i], pending[j] = pending[j], pending[i]
		})
	}

	coll := particle.NewCollection()
	for _, ev := range pending {
		coll.Append(ev)
	}
	return coll, nil
}

// EventsFunc streams events in generation order to fn, stopping early when
// fn returns false. No arrival mixing is applied; this is the incremental
// path used by live views.
func (r *Run) EventsFunc(nSignal, nBackground int, fn func(particle.DetectionEvent) bool) error {
	id := 0
	for i := 0; i < nSignal; i++ {
		ev, ok, err := r.signalEvent()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		ev.ID = id
		id++
		if !fn(ev) {
			return nil
		}
	}
	for i := 0; i < nBackground; i++ {
		ev := r.backgroundEvent()
		ev.ID = id
		id++
		if !fn(ev) {
			return nil
		}
	}
	return nil
}

func (r *Run) signalEvent() (particle.DetectionEvent, bool, error) {
	vel, err := sample.GalacticVelocity(r.rng, r.src.V0, r.src.VEscape)
	if err != nil {
		return particle.DetectionEvent{}, false, err
	}
	angle := sample.ScatteringAngle(r.rng)
	speed := vel.Mag()

	recoil := phys.RecoilEnergy(r.src.WIMPMass, speed, r.cfg.NucleusMass(), angle)

	observed, detected := detector.Respond(r.rng, recoil, r.cfg)
	if !detected || observed < r.cfg.ThresholdKeV {
		return particle.DetectionEvent{}, false, nil
	}

	return particle.DetectionEvent{
		Time:           r.rng.Float64() * r.cfg.ExposureDays * phys.SecondsPerDay,
		TrueEnergy:     recoil,
		ObservedEnergy: observed,
		Signal:         true,
		Position:       sample.UniformPosition(r.rng),
		Meta: map[string]float64{
			"scattering_angle": angle,
			"wimp_velocity":    speed,
			"wimp_mass":        r.src.WIMPMass,
		},
	}, true, nil
}

func (r *Run) backgroundEvent() particle.DetectionEvent {
	energy := sample.BackgroundEnergy(r.rng, 0, backgroundMaxKeV)

	observed, detected := detector.Respond(r.rng, energy, r.cfg)
	if !detected {
		// Background is kept for bookkeeping; only the measured
		// value differs when the detector misses it.
		observed = energy
	}

	return particle.DetectionEvent{
		Time:           r.rng.Float64() * r.cfg.ExposureDays * phys.SecondsPerDay,
		TrueEnergy:     energy,
		ObservedEnergy: observed,
		Signal:         false,
		Position:       sample.UniformPosition(r.rng),
	}
}

// Result is the immutable, serializable outcome of one completed run.
type Result struct {
	Seed                int64           `json:"seed"`
	Config              detector.Config `json:"detector_config"`
	Source              Source          `json:"source"`
	RequestedSignal     int             `json:"requested_signal"`
	RequestedBackground int             `json:"requested_background"`
	Stats               stats.Summary   `json:"statistics"`
	Spectrum            stats.Histogram `json:"energy_spectrum"`
	Temporal            stats.Histogram `json:"temporal_distribution"`
	ExpectedRatePerDay  float64         `json:"expected_rate_per_day"`
}

// Result runs the full pipeline and aggregates the outcome. The run is
// atomic: either a complete result is returned or an error with no
// partial state.
func (r *Run) Result(nSignal, nBackground int) (*Result, error) {
	coll, err := r.Events(nSignal, nBackground)
	if err != nil {
		return nil, err
	}

	coherent := phys.CrossSection(0, r.cfg.MassNumber, r.src.CrossSection)
	rate := phys.InteractionRate(coherent, r.src.V0, r.cfg.MassKg,
		r.cfg.NucleusMass(), r.src.WIMPMass, phys.LocalDMDensity)

	return &Result{
		Seed:                r.seed,
		Config:              r.cfg,
		Source:              r.src,
		RequestedSignal:     nSignal,
		RequestedBackground: nBackground,
		Stats:               stats.Statistics(coll, nSignal, r.cfg.ExposureKgDays()),
		Spectrum:            stats.EnergySpectrum(coll, r.energyBins),
		Temporal:            stats.TemporalDistribution(coll, r.timeBins),
		ExpectedRatePerDay:  rate,
	}, nil
}

// Simulate is the single-call entry point used by the serving layer.
func Simulate(cfg detector.Config, nSignal, nBackground int, opts ...Option) (*Result, error) {
	r, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return r.Result(nSignal, nBackground)
}
