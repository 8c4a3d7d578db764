// Package storage persists completed simulation results for the CLI. Only
// the aggregate result is written; raw events live and die with their run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/xivix/darksim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes the result under a fresh run directory and returns the run
// identifier.
func (s *Store) Save(res *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", res.Config.Kind, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, "result.json"))
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) Load(runID string) (*sim.Result, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "result.json"))
	if err != nil {
		return nil, err
	}
	var res sim.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns the stored run identifiers, oldest first.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	runs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.baseDir, entry.Name(), "result.json")); err != nil {
			continue
		}
		runs = append(runs, entry.Name())
	}
	sort.Strings(runs)
	return runs, nil
}

// ExportCSV writes the energy spectrum and temporal distribution of a
// stored run as CSV rows: section, bin_low, bin_high, count.
func (s *Store) ExportCSV(runID string, w io.Writer) error {
	res, err := s.Load(runID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"section", "bin_low", "bin_high", "count"}); err != nil {
		return err
	}
	write := func(section string, edges []float64, counts []int) error {
		for i, c := range counts {
			row := []string{
				section,
				strconv.FormatFloat(edges[i], 'f', 6, 64),
				strconv.FormatFloat(edges[i+1], 'f', 6, 64),
				strconv.Itoa(c),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write("energy_kev", res.Spectrum.Edges, res.Spectrum.Counts); err != nil {
		return err
	}
	return write("time_s", res.Temporal.Edges, res.Temporal.Counts)
}
