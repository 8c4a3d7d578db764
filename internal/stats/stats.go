// Package stats turns a finished run's events into aggregate statistics,
// histograms and derived significance metrics.
package stats

import (
	"math"

	"github.com/xivix/darksim/internal/particle"
)

// Summary holds the aggregate statistics of one event collection. Energy
// fields are nil when the collection is empty; an empty collection is a
// well-defined result, not an error.
type Summary struct {
	Total           int      `json:"total_events"`
	SignalCount     int      `json:"dark_matter_candidates"`
	BackgroundCount int      `json:"background_events"`
	MeanEnergy      *float64 `json:"mean_energy_kev,omitempty"`
	MaxEnergy       *float64 `json:"max_energy_kev,omitempty"`
	MinEnergy       *float64 `json:"min_energy_kev,omitempty"`
	ExposureKgDays  float64  `json:"exposure_kg_days"`
	Efficiency      float64  `json:"efficiency"`
}

// Statistics summarizes a collection. Efficiency is signal count over the
// caller-provided requested signal count, since rejected signal events are
// never recorded.
func Statistics(c *particle.Collection, nSignalRequested int, exposureKgDays float64) Summary {
	s := Summary{
		Total:           c.Len(),
		SignalCount:     c.SignalCount(),
		BackgroundCount: c.BackgroundCount(),
		ExposureKgDays:  exposureKgDays,
	}
	if nSignalRequested > 0 {
		s.Efficiency = float64(c.SignalCount()) / float64(nSignalRequested)
	}
	if c.Len() == 0 {
		return s
	}

	sum := 0.0
	minE := math.Inf(1)
	maxE := math.Inf(-1)
	for _, ev := range c.Events() {
		e := ev.ObservedEnergy
		sum += e
		minE = math.Min(minE, e)
		maxE = math.Max(maxE, e)
	}
	mean := sum / float64(c.Len())
	s.MeanEnergy = &mean
	s.MinEnergy = &minE
	s.MaxEnergy = &maxE
	return s
}

// Histogram is an equal-width binning: len(Edges) == len(Counts)+1 for any
// non-empty histogram, and both are empty for an empty collection.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// EnergySpectrum bins observed energies into nBins equal-width bins over
// [0, max(observed)).
func EnergySpectrum(c *particle.Collection, nBins int) Histogram {
	if c.Len() == 0 || nBins < 1 {
		return Histogram{Edges: []float64{}, Counts: []int{}}
	}
	maxE := 0.0
	for _, ev := range c.Events() {
		maxE = math.Max(maxE, ev.ObservedEnergy)
	}
	values := make([]float64, 0, c.Len())
	for _, ev := range c.Events() {
		values = append(values, ev.ObservedEnergy)
	}
	return bin(values, nBins, 0, maxE)
}

// TemporalDistribution bins event timestamps, in absolute seconds since
// exposure start, into nBins equal-width bins.
func TemporalDistribution(c *particle.Collection, nBins int) Histogram {
	if c.Len() == 0 || nBins < 1 {
		return Histogram{Edges: []float64{}, Counts: []int{}}
	}
	maxT := 0.0
	for _, ev := range c.Events() {
		maxT = math.Max(maxT, ev.Time)
	}
	values := make([]float64, 0, c.Len())
	for _, ev := range c.Events() {
		values = append(values, ev.Time)
	}
	return bin(values, nBins, 0, maxT)
}

func bin(values []float64, nBins int, lo, hi float64) Histogram {
	h := Histogram{
		Edges:  make([]float64, nBins+1),
		Counts: make([]int, nBins),
	}
	width := (hi - lo) / float64(nBins)
	for i := 0; i <= nBins; i++ {
		h.Edges[i] = lo + float64(i)*width
	}
	if width <= 0 {
		// All values identical; everything lands in the first bin.
		h.Counts[0] = len(values)
		return h
	}
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= nBins {
			idx = nBins - 1
		}
		if idx < 0 {
			idx = 0
		}
		h.Counts[idx]++
	}
	return h
}

// Significance is the simple Poisson approximation s/√(s+b). It is not a
// profile-likelihood statistic; treat it as a rough discovery metric.
// Both counts zero yields 0; zero background with signal yields +Inf.
func Significance(signal, background int) float64 {
	if signal == 0 && background == 0 {
		return 0
	}
	if background == 0 && signal > 0 {
		return math.Inf(1)
	}
	return float64(signal) / math.Sqrt(float64(signal+background))
}
