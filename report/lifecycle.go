package report

// lifecycle.go contains the orchestration of one report generation around
// the external render step.

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultArtifactName is the report directory created under the output
// directory by the renderer.
const DefaultArtifactName = "allure-report"

// State is a step of the generation sequence
type State uint8

const (
	StateIdle State = iota
	StateHistoryMerged
	StateArchived
	StateEnvironmentEmitted
	StateRendered
	StateTitlePatched
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHistoryMerged:
		return "history-merged"
	case StateArchived:
		return "archived"
	case StateEnvironmentEmitted:
		return "environment-emitted"
	case StateRendered:
		return "rendered"
	case StateTitlePatched:
		return "title-patched"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Request describes one report generation. Build it with NewRequest so the
// defaults are applied.
type Request struct {
	// Directory the report directory is rendered into (required)
	OutputDir string
	// Directory holding the raw results read by the renderer (required)
	ResultsDir string
	// Carry the previous report's trend history into the results
	KeepHistory bool
	// Archive the previous report before it is overwritten
	KeepSnapshots bool
	// Where archived reports go; empty means next to the report directory
	ArchiveDir string
	// Display title patched into the summary; empty keeps the renderer's
	Title string
	// Parameters shown in the report's environment panel
	Environment map[string]string
	// Name of the report directory under OutputDir
	ArtifactName string
	// Report whose history is merged; empty means the report in OutputDir
	PreviousReportDir string
}

// NewRequest returns a request with history kept and snapshots disabled.
func NewRequest(outputDir, resultsDir string) Request {
	return Request{
		OutputDir:    outputDir,
		ResultsDir:   resultsDir,
		KeepHistory:  true,
		ArtifactName: DefaultArtifactName,
	}
}

// Validate checks that the required paths are set.
func (r Request) Validate() error {
	if r.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if r.ResultsDir == "" {
		return errors.New("results directory is required")
	}
	return nil
}

// ArtifactDir returns the report directory the renderer writes.
func (r Request) ArtifactDir() string {
	name := r.ArtifactName
	if name == "" {
		name = DefaultArtifactName
	}
	return filepath.Join(r.OutputDir, name)
}

// PreviousHistoryDir returns the history directory merged into the results.
func (r Request) PreviousHistoryDir() string {
	if r.PreviousReportDir != "" {
		return filepath.Join(r.PreviousReportDir, HistoryDirName)
	}
	return filepath.Join(r.ArtifactDir(), HistoryDirName)
}

// Manager runs the generation sequence. It holds no lock: callers must not
// run two generations against the same directories at once.
type Manager struct {
	logger   zerolog.Logger
	renderer Renderer
	archiver *Archiver
	state    State
}

// NewManager creates a manager rendering with renderer.
func NewManager(logger zerolog.Logger, renderer Renderer) *Manager {
	return &Manager{
		logger:   logger,
		renderer: renderer,
		archiver: NewArchiver(logger),
	}
}

// Archiver returns the archiver used for snapshots, so callers can replace
// its clock.
func (m *Manager) Archiver() *Archiver {
	return m.archiver
}

// State returns the last state reached by the most recent Generate.
func (m *Manager) State() State {
	return m.state
}

func (m *Manager) transition(s State) {
	m.state = s
	m.logger.Debug().Stringer("state", s).Msg("Report lifecycle transition")
}

// Generate merges history, archives the previous report, writes the
// environment, renders and patches the title, skipping the steps req does
// not ask for. It stops at the first failure and returns that error as is;
// steps that already completed are not undone.
func (m *Manager) Generate(req Request) error {
	m.state = StateIdle
	if err := req.Validate(); err != nil {
		return err
	}

	startTime := time.Now()
	artifactDir := req.ArtifactDir()

	m.logger.Info().
		Str("results", req.ResultsDir).
		Str("report", artifactDir).
		Msg("Generating report")

	if req.KeepHistory {
		historyDir := req.PreviousHistoryDir()
		if err := MergeHistoryInto(historyDir, req.ResultsDir); err != nil {
			return err
		}
		m.logger.Debug().Str("history", historyDir).Msg("Merged previous history")
		m.transition(StateHistoryMerged)
	}

	if req.KeepSnapshots {
		snapshot, err := m.archiver.Archive(artifactDir, req.ArchiveDir)
		if err != nil {
			return err
		}
		if snapshot != "" {
			m.logger.Info().Str("snapshot", snapshot).Msg("Archived previous report")
		}
		m.transition(StateArchived)
	}

	if len(req.Environment) > 0 {
		if err := EmitEnvironment(req.Environment, req.ResultsDir); err != nil {
			return err
		}
		m.logger.Debug().Int("parameters", len(req.Environment)).Msg("Wrote environment")
		m.transition(StateEnvironmentEmitted)
	}

	if err := m.renderer.Render(artifactDir, req.ResultsDir); err != nil {
		return err
	}
	m.transition(StateRendered)

	if req.Title != "" {
		if err := SetTitle(SummaryPath(artifactDir), req.Title); err != nil {
			return err
		}
		m.transition(StateTitlePatched)
	}

	m.transition(StateDone)
	m.logger.Info().
		Str("report", artifactDir).
		Dur("duration", time.Since(startTime)).
		Msg("Report generated")
	return nil
}
