// Package api is the thin JSON-over-HTTP layer around the simulation
// core: request validation and response shaping only, no physics.
package api

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"github.com/xivix/darksim/internal/config"
	"github.com/xivix/darksim/internal/detector"
	"github.com/xivix/darksim/internal/history"
	"github.com/xivix/darksim/internal/metrics"
	"github.com/xivix/darksim/internal/sim"
)

// MaxEvents caps per-request event counts to keep a single run bounded.
const MaxEvents = 100000

// SignificanceThreshold is the default discovery threshold in sigma.
const SignificanceThreshold = 3.0

type Server struct {
	store    *history.Store
	metrics  *metrics.Manager
	log      *slog.Logger
	defaults *config.Config

	// run is swappable in tests.
	run func(cfg detector.Config, nSignal, nBackground int, opts ...sim.Option) (*sim.Result, error)
}

func NewServer(store *history.Store, m *metrics.Manager, log *slog.Logger, defaults *config.Config) *Server {
	if defaults == nil {
		defaults = config.DefaultConfig()
	}
	return &Server{
		store:    store,
		metrics:  m,
		log:      log,
		defaults: defaults,
		run:      sim.Simulate,
	}
}

// Register attaches all routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.withMetrics("healthz", s.handleHealth))
	mux.HandleFunc("/api/simulate", s.withMetrics("simulate", s.handleSimulate))
	mux.HandleFunc("/api/results", s.withMetrics("results", s.handleResults))
	mux.HandleFunc("/api/history", s.withMetrics("history", s.handleHistory))
	mux.HandleFunc("/api/parameters", s.withMetrics("parameters", s.handleParameters))
	mux.HandleFunc("/api/statistics", s.withMetrics("statistics", s.handleStatistics))
	mux.Handle("/metrics", s.metrics.Handler())
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Status: "error", Message: msg})
}

// jsonFloat marshals non-finite values as strings so responses stay valid
// JSON when significance is infinite.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-inf"`), nil
	case math.IsNaN(v):
		return []byte(`"nan"`), nil
	}
	return json.Marshal(v)
}
