package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/xivix/darksim/internal/detector"
	"github.com/xivix/darksim/internal/phys"
	"github.com/xivix/darksim/internal/sim"
	"github.com/xivix/darksim/internal/stats"
)

type simulateRequest struct {
	DetectorType     string  `json:"detector_type"`
	MassKg           float64 `json:"mass_kg"`
	TemperatureMK    float64 `json:"temperature_mk"`
	ThresholdKeV     float64 `json:"threshold_kev"`
	BackgroundRate   float64 `json:"background_rate"`
	ExposureTimeDays float64 `json:"exposure_time_days"`
	DarkMatterEvents *int    `json:"dark_matter_events"`
	BackgroundEvents *int    `json:"background_events"`
	Seed             *int64  `json:"seed"`
	WIMPMassGeV      float64 `json:"wimp_mass_gev"`
}

type simulateResponse struct {
	SimulationID int         `json:"simulation_id"`
	Status       string      `json:"status"`
	Timestamp    time.Time   `json:"timestamp"`
	Result       *sim.Result `json:"results"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	req := simulateRequest{
		DetectorType:     s.defaults.Detector,
		MassKg:           s.defaults.MassKg,
		ExposureTimeDays: s.defaults.ExposureDays,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	nSignal := s.defaults.SignalEvents
	if req.DarkMatterEvents != nil {
		nSignal = *req.DarkMatterEvents
	}
	nBackground := s.defaults.BackgroundEvents
	if req.BackgroundEvents != nil {
		nBackground = *req.BackgroundEvents
	}
	if nSignal < 0 || nBackground < 0 {
		writeError(w, http.StatusBadRequest, "event counts must be non-negative")
		return
	}
	if nSignal > MaxEvents || nBackground > MaxEvents {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("event counts capped at %d", MaxEvents))
		return
	}

	cfg, err := detector.NewConfig(detector.Kind(req.DetectorType),
		req.MassKg, req.TemperatureMK, req.ThresholdKeV,
		req.BackgroundRate, req.ExposureTimeDays)
	if err != nil {
		s.metrics.ObserveRunFailure()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	opts := []sim.Option{sim.WithSeed(seed)}
	if req.WIMPMassGeV > 0 {
		src := sim.DefaultSource()
		src.WIMPMass = req.WIMPMassGeV
		opts = append(opts, sim.WithSource(src))
	}

	started := time.Now()
	res, err := s.run(cfg, nSignal, nBackground, opts...)
	if err != nil {
		s.metrics.ObserveRunFailure()
		s.log.Error("simulation failed", "detector", req.DetectorType, "err", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.ObserveRun(res.Stats.Total, time.Since(started))

	entry := s.store.Append(res)
	s.metrics.SetHistorySize(s.store.Len())
	s.log.Info("simulation completed",
		"id", entry.ID,
		"detector", string(cfg.Kind),
		"events", res.Stats.Total,
		"elapsed", time.Since(started))

	writeJSON(w, http.StatusOK, simulateResponse{
		SimulationID: entry.ID,
		Status:       "completed",
		Timestamp:    entry.CreatedAt,
		Result:       res,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	entry, ok := s.store.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no simulations have been run yet")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, s.store.List())
}

type parametersResponse struct {
	DetectorTypes     []detector.Kind            `json:"detector_types"`
	DetectorConfigs   map[string]detector.Params `json:"detector_configs"`
	DefaultParameters map[string]any             `json:"default_parameters"`
	WIMPParameters    map[string]float64         `json:"wimp_parameters"`
}

func (s *Server) handleParameters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}

	configs := make(map[string]detector.Params)
	for _, kind := range detector.Kinds() {
		p, _ := detector.Lookup(kind)
		configs[string(kind)] = p
	}

	writeJSON(w, http.StatusOK, parametersResponse{
		DetectorTypes:   detector.Kinds(),
		DetectorConfigs: configs,
		DefaultParameters: map[string]any{
			"mass_kg":            s.defaults.MassKg,
			"exposure_time_days": s.defaults.ExposureDays,
			"dark_matter_events": s.defaults.SignalEvents,
			"background_events":  s.defaults.BackgroundEvents,
		},
		WIMPParameters: map[string]float64{
			"mass_gev":          phys.WIMPMass,
			"cross_section_cm2": phys.WIMPCrossSection,
		},
	})
}

type statisticsRequest struct {
	SignalThreshold float64 `json:"signal_threshold"`
}

type statisticsResponse struct {
	TotalEvents            int       `json:"total_events"`
	SignalEvents           int       `json:"signal_events"`
	BackgroundEvents       int       `json:"background_events"`
	SignalBackgroundRatio  jsonFloat `json:"signal_to_background_ratio"`
	SignificanceSigma      jsonFloat `json:"significance_sigma"`
	DiscoveryThresholdMet  bool      `json:"discovery_threshold_met"`
	SignificanceDefinition string    `json:"significance_definition"`
}

// handleStatistics recomputes derived metrics for the latest run, for
// callers wanting an alternate discovery threshold.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	req := statisticsRequest{SignalThreshold: SignificanceThreshold}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	entry, ok := s.store.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no simulations have been run yet")
		return
	}

	sc := entry.Result.Stats.SignalCount
	bc := entry.Result.Stats.BackgroundCount
	sigma := stats.Significance(sc, bc)

	ratio := 0.0
	if bc > 0 {
		ratio = float64(sc) / float64(bc)
	} else if sc > 0 {
		ratio = math.Inf(1)
	}

	writeJSON(w, http.StatusOK, statisticsResponse{
		TotalEvents:            entry.Result.Stats.Total,
		SignalEvents:           sc,
		BackgroundEvents:       bc,
		SignalBackgroundRatio:  jsonFloat(ratio),
		SignificanceSigma:      jsonFloat(sigma),
		DiscoveryThresholdMet:  sigma >= req.SignalThreshold,
		SignificanceDefinition: "s/sqrt(s+b), simple Poisson approximation",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
