package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/sph"
)

const (
	metadataFile  = "metadata.json"
	framesFile    = "frames.csv"
	telemetryFile = "telemetry.csv"
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

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Particles  int                `json:"particles"`
	Steps      int                `json:"steps"`
	StepsTaken int                `json:"steps_taken"`
	Backend    string             `json:"backend"`
	Reflection string             `json:"reflection"`
	Params     map[string]float64 `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// RunInfo is what the caller knows about a run beyond its result.
type RunInfo struct {
	Scene   string
	Preset  string
	Seed    int64
	Steps   int
	Backend string
	Params  sph.Params
}

// FrameRow is one particle in one sampled frame.
type FrameRow struct {
	Step     int     `csv:"step"`
	Time     float64 `csv:"time"`
	ID       int     `csv:"id"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	VX       float64 `csv:"vx"`
	VY       float64 `csv:"vy"`
	Density  float64 `csv:"density"`
	Pressure float64 `csv:"pressure"`
	Mass     float64 `csv:"mass"`
}

type TelemetryRow struct {
	Step               int     `csv:"step"`
	Time               float64 `csv:"time"`
	KineticEnergy      float64 `csv:"kinetic_energy"`
	Overflows          uint64  `csv:"overflows"`
	ZeroDensitySkips   uint64  `csv:"zero_density_skips"`
	DegenerateContacts uint64  `csv:"degenerate_contacts"`
	MaxNeighbors       int     `csv:"max_neighbors"`
}

// Save writes a run directory and returns its id.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", info.Scene, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	particles := 0
	if len(result.Frames) > 0 {
		particles = len(result.Frames[0].Particles)
	}
	meta := RunMetadata{
		ID:         runID,
		Scene:      info.Scene,
		Preset:     info.Preset,
		Timestamp:  now,
		Seed:       info.Seed,
		Particles:  particles,
		Steps:      info.Steps,
		StepsTaken: result.StepsTaken,
		Backend:    info.Backend,
		Reflection: info.Params.Reflection.String(),
		Params:     info.Params.Fields(),
		Metrics:    result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, framesFile), frameRows(result.Frames)); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, telemetryFile), telemetryRows(result.Telemetry)); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []T
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

func frameRows(frames []sim.Frame) []FrameRow {
	n := 0
	for _, f := range frames {
		n += len(f.Particles)
	}
	rows := make([]FrameRow, 0, n)
	for _, f := range frames {
		for i, p := range f.Particles {
			rows = append(rows, FrameRow{
				Step:     f.Step,
				Time:     f.Time,
				ID:       i,
				X:        p.Position.X,
				Y:        p.Position.Y,
				VX:       p.Velocity.X,
				VY:       p.Velocity.Y,
				Density:  p.Density,
				Pressure: p.Pressure,
				Mass:     p.Mass,
			})
		}
	}
	return rows
}

func telemetryRows(samples []sim.Sample) []TelemetryRow {
	rows := make([]TelemetryRow, len(samples))
	for i, s := range samples {
		rows[i] = TelemetryRow{
			Step:               s.Step,
			Time:               s.Time,
			KineticEnergy:      s.KineticEnergy,
			Overflows:          s.Overflows,
			ZeroDensitySkips:   s.ZeroDensitySkips,
			DegenerateContacts: s.DegenerateContacts,
			MaxNeighbors:       s.MaxNeighbors,
		}
	}
	return rows
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadFrames rebuilds the sampled frames of a run. Force fields are not
// persisted and come back zero.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	rows, err := readCSV[FrameRow](filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	for _, r := range rows {
		if len(frames) == 0 || frames[len(frames)-1].Step != r.Step {
			frames = append(frames, sim.Frame{Step: r.Step, Time: r.Time})
		}
		f := &frames[len(frames)-1]
		f.Particles = append(f.Particles, sph.Particle{
			Position: sph.Vec2{X: r.X, Y: r.Y},
			Velocity: sph.Vec2{X: r.VX, Y: r.VY},
			Density:  r.Density,
			Pressure: r.Pressure,
			Mass:     r.Mass,
		})
	}
	return frames, nil
}

func (s *Store) LoadTelemetry(runID string) ([]TelemetryRow, error) {
	return readCSV[TelemetryRow](filepath.Join(s.baseDir, runID, telemetryFile))
}

// RunDir returns the directory holding a run's files.
func (s *Store) RunDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}
