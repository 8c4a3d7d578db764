package stats_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/xivix/darksim/internal/particle"
	"github.com/xivix/darksim/internal/stats"
)

func collect(events ...particle.DetectionEvent) *particle.Collection {
	c := particle.NewCollection()
	for _, ev := range events {
		c.Append(ev)
	}
	return c
}

var _ = Describe("Statistics", func() {
	It("treats an empty collection as a valid result", func() {
		s := stats.Statistics(particle.NewCollection(), 0, 365)

		Expect(s.Total).To(BeZero())
		Expect(s.SignalCount).To(BeZero())
		Expect(s.BackgroundCount).To(BeZero())
		Expect(s.MeanEnergy).To(BeNil())
		Expect(s.MinEnergy).To(BeNil())
		Expect(s.MaxEnergy).To(BeNil())
		Expect(s.Efficiency).To(BeZero())
		Expect(s.ExposureKgDays).To(Equal(365.0))
	})

	It("computes energy extrema and mean over observed energies", func() {
		c := collect(
			particle.DetectionEvent{ObservedEnergy: 2, Signal: true},
			particle.DetectionEvent{ObservedEnergy: 4, Signal: false},
			particle.DetectionEvent{ObservedEnergy: 9, Signal: true},
		)
		s := stats.Statistics(c, 4, 100)

		Expect(s.Total).To(Equal(3))
		Expect(s.SignalCount).To(Equal(2))
		Expect(s.BackgroundCount).To(Equal(1))
		Expect(*s.MeanEnergy).To(BeNumerically("~", 5.0, 1e-12))
		Expect(*s.MinEnergy).To(Equal(2.0))
		Expect(*s.MaxEnergy).To(Equal(9.0))
		Expect(s.Efficiency).To(Equal(0.5))
	})

	It("leaves efficiency at zero when no signal was requested", func() {
		c := collect(particle.DetectionEvent{ObservedEnergy: 1})
		Expect(stats.Statistics(c, 0, 1).Efficiency).To(BeZero())
	})
})

var _ = Describe("EnergySpectrum", func() {
	It("returns empty histograms for an empty collection", func() {
		h := stats.EnergySpectrum(particle.NewCollection(), 10)
		Expect(h.Edges).To(BeEmpty())
		Expect(h.Counts).To(BeEmpty())
	})

	It("produces nBins counts and nBins+1 edges", func() {
		c := collect(
			particle.DetectionEvent{ObservedEnergy: 1},
			particle.DetectionEvent{ObservedEnergy: 5},
			particle.DetectionEvent{ObservedEnergy: 9.9},
		)
		h := stats.EnergySpectrum(c, 10)

		Expect(h.Counts).To(HaveLen(10))
		Expect(h.Edges).To(HaveLen(11))
		Expect(h.Edges[0]).To(BeZero())
	})

	It("conserves the event count across bins", func() {
		c := particle.NewCollection()
		for i := 0; i < 137; i++ {
			c.Append(particle.DetectionEvent{ObservedEnergy: float64(i%50) + 0.5})
		}
		h := stats.EnergySpectrum(c, 20)

		total := 0
		for _, n := range h.Counts {
			total += n
		}
		Expect(total).To(Equal(137))
	})

	It("places identical values in the first bin", func() {
		c := collect(
			particle.DetectionEvent{ObservedEnergy: 0},
			particle.DetectionEvent{ObservedEnergy: 0},
		)
		h := stats.EnergySpectrum(c, 5)
		Expect(h.Counts[0]).To(Equal(2))
	})
})

var _ = Describe("TemporalDistribution", func() {
	It("bins timestamps over [0, max]", func() {
		c := collect(
			particle.DetectionEvent{Time: 10},
			particle.DetectionEvent{Time: 90},
			particle.DetectionEvent{Time: 100},
		)
		h := stats.TemporalDistribution(c, 4)

		Expect(h.Counts).To(HaveLen(4))
		Expect(h.Edges).To(HaveLen(5))
		Expect(h.Edges[4]).To(Equal(100.0))
		Expect(h.Counts[0]).To(Equal(1))
		Expect(h.Counts[3]).To(Equal(2))
	})
})

var _ = Describe("Significance", func() {
	It("is zero when nothing was observed", func() {
		Expect(stats.Significance(0, 0)).To(BeZero())
	})

	It("is infinite for background-free signal", func() {
		Expect(math.IsInf(stats.Significance(10, 0), 1)).To(BeTrue())
	})

	It("follows s/sqrt(s+b)", func() {
		Expect(stats.Significance(100, 100)).To(BeNumerically("~", 100/math.Sqrt(200), 1e-12))
	})

	It("grows with signal at fixed background", func() {
		Expect(stats.Significance(50, 20)).To(BeNumerically(">", stats.Significance(10, 20)))
	})
})
