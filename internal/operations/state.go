package operations

import (
	"sync"

	"github.com/go-gota/gota/dataframe"

	"incomecli/internal/dataprocessing"
	"incomecli/pkg/contracts/domain"
)

// RunState carries the tables handed from one step to the next. Each field
// is nil until the step producing it has completed.
type RunState struct {
	mu sync.RWMutex

	RunID string

	Raw      *dataframe.DataFrame
	Cleaned  *dataframe.DataFrame
	Filtered *dataframe.DataFrame
	Report   *dataprocessing.Report
	Sheets   []domain.SheetSummary

	steps map[string]*StepState
}

// NewRunState creates an empty run state
func NewRunState(runID string) *RunState {
	return &RunState{
		RunID: runID,
		steps: make(map[string]*StepState),
	}
}

// SetStep stores the state of a Step
func (s *RunState) SetStep(state *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[state.ID] = state
}

// GetStep returns the state of a Step, or nil if it is unknown
func (s *RunState) GetStep(id string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.steps[id]
}

// stepState returns the state of a Step, creating it when a Step runs
// outside a Manager.
func (s *RunState) stepState(id string) *StepState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.steps[id]
	if !ok {
		st = NewStepState(id, id)
		s.steps[id] = st
	}
	return st
}
