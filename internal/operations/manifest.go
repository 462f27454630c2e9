package operations

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"incomecli/pkg/contracts/domain"
)

// Run statuses recorded in the manifest.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
)

// Manifest is the record of one pipeline run: what each step did and the
// shape of every sheet written.
type Manifest struct {
	mu sync.RWMutex

	RunID     string    `json:"run_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`

	Steps  []StepExecution       `json:"steps"`
	Sheets []domain.SheetSummary `json:"sheets,omitempty"`
}

// StepExecution tracks the execution of a single step
type StepExecution struct {
	StepID    string                 `json:"step_id"`
	StepName  string                 `json:"step_name"`
	StartTime time.Time              `json:"start_time,omitempty"`
	EndTime   time.Time              `json:"end_time,omitempty"`
	Duration  time.Duration          `json:"duration"`
	Status    StepStatus             `json:"status"`
	Rows      int                    `json:"rows"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewManifest creates a pending manifest listing steps in run order
func NewManifest(runID string, steps []Step) *Manifest {
	m := &Manifest{
		RunID:     runID,
		StartTime: time.Now(),
		Status:    RunStatusPending,
		Steps:     make([]StepExecution, 0, len(steps)),
	}
	for _, s := range steps {
		m.Steps = append(m.Steps, StepExecution{
			StepID:   s.ID(),
			StepName: s.Name(),
			Status:   StepStatusPending,
		})
	}
	return m
}

// Start marks the run as running
func (m *Manifest) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartTime = time.Now()
	m.Status = RunStatusRunning
}

// RecordStep copies a step's final state into the manifest
func (m *Manifest) RecordStep(st *StepState) {
	st.mu.RLock()
	exec := StepExecution{
		StepID:   st.ID,
		StepName: st.Name,
		Status:   st.Status,
		Rows:     st.Rows,
	}
	if st.StartTime != nil {
		exec.StartTime = *st.StartTime
	}
	if st.EndTime != nil {
		exec.EndTime = *st.EndTime
	}
	if st.StartTime != nil && st.EndTime != nil {
		exec.Duration = st.EndTime.Sub(*st.StartTime)
	}
	if st.Error != nil {
		exec.Error = st.Error.Error()
	}
	if len(st.Metadata) > 0 {
		exec.Metadata = make(map[string]interface{}, len(st.Metadata))
		for k, v := range st.Metadata {
			exec.Metadata[k] = v
		}
	}
	st.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Steps {
		if m.Steps[i].StepID == exec.StepID {
			m.Steps[i] = exec
			return
		}
	}
	m.Steps = append(m.Steps, exec)
}

// RecordSkipped marks a step that never ran
func (m *Manifest) RecordSkipped(stepID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Steps {
		if m.Steps[i].StepID == stepID {
			m.Steps[i].Status = StepStatusSkipped
			m.Steps[i].Error = reason
			return
		}
	}
}

// Complete marks the run as completed with the written sheets
func (m *Manifest) Complete(sheets []domain.SheetSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndTime = time.Now()
	m.Status = RunStatusCompleted
	m.Sheets = append([]domain.SheetSummary(nil), sheets...)
}

// Fail marks the run as failed, or cancelled when cancelled is set
func (m *Manifest) Fail(err error, cancelled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndTime = time.Now()
	m.Status = RunStatusFailed
	if cancelled {
		m.Status = RunStatusCancelled
	}
	if err != nil {
		m.Error = err.Error()
	}
}

// Step returns the execution record of a step
func (m *Manifest) Step(stepID string) (StepExecution, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.Steps {
		if s.StepID == stepID {
			return s, true
		}
	}
	return StepExecution{}, false
}

// Duration returns the wall time of the run
func (m *Manifest) Duration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// Log writes one record per step and per sheet, then a run summary.
func (m *Manifest) Log(ctx context.Context, logger *slog.Logger) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.Steps {
		attrs := []any{
			slog.String("step", s.StepID),
			slog.String("status", string(s.Status)),
			slog.Int("rows", s.Rows),
			slog.Duration("duration", s.Duration),
		}
		if len(s.Metadata) > 0 {
			attrs = append(attrs, slog.Any("metadata", s.Metadata))
		}
		logger.InfoContext(ctx, "Manifest step", attrs...)
	}
	for _, sh := range m.Sheets {
		logger.InfoContext(ctx, "Manifest sheet",
			slog.String("sheet", sh.Name),
			slog.Int("rows", sh.Rows),
			slog.Int("columns", sh.Columns))
	}

	end := m.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	logger.InfoContext(ctx, "Run manifest",
		slog.String("status", m.Status),
		slog.Int("sheets", len(m.Sheets)),
		slog.Duration("duration", end.Sub(m.StartTime)))
}

// SaveToFile saves the manifest to a JSON file
func (m *Manifest) SaveToFile(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}

// LoadManifestFromFile loads a manifest from a JSON file
func LoadManifestFromFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	return &manifest, nil
}
