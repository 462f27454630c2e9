package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStep records its calls and returns canned results.
type fakeStep struct {
	BaseStep
	calls       *[]string
	rows        int
	meta        map[string]interface{}
	err         error
	validateErr error
	execute     func(ctx context.Context, state *RunState) error
}

func newFakeStep(id string, calls *[]string) *fakeStep {
	return &fakeStep{BaseStep: NewBaseStep(id, "Fake "+id), calls: calls}
}

func (s *fakeStep) Validate(state *RunState) error {
	return s.validateErr
}

func (s *fakeStep) Execute(ctx context.Context, state *RunState) error {
	if s.calls != nil {
		*s.calls = append(*s.calls, s.ID())
	}
	if s.execute != nil {
		if err := s.execute(ctx, state); err != nil {
			return err
		}
	}
	if s.err != nil {
		return s.err
	}
	st := state.stepState(s.ID())
	st.SetRows(s.rows)
	for k, v := range s.meta {
		st.SetMetadata(k, v)
	}
	return nil
}

func TestStepState_Lifecycle(t *testing.T) {
	st := NewStepState("clean", "Cleaner")
	assert.Equal(t, StepStatusPending, st.GetStatus())
	assert.Zero(t, st.Duration())

	st.Start()
	assert.Equal(t, StepStatusActive, st.GetStatus())
	require.NotNil(t, st.StartTime)
	assert.Nil(t, st.EndTime)

	time.Sleep(time.Millisecond)
	st.SetRows(12)
	st.SetMetadata(MetaDuplicatesRemoved, 3)
	st.Complete()

	assert.Equal(t, StepStatusCompleted, st.GetStatus())
	require.NotNil(t, st.EndTime)
	assert.Positive(t, st.Duration())
	assert.Equal(t, 12, st.GetRows())
	assert.Equal(t, map[string]interface{}{MetaDuplicatesRemoved: 3}, st.MetadataCopy())
}

func TestStepState_FailAndSkip(t *testing.T) {
	boom := errors.New("boom")

	failed := NewStepState("load", "Loader")
	failed.Start()
	failed.Fail(boom)
	assert.Equal(t, StepStatusFailed, failed.GetStatus())
	assert.Same(t, boom, failed.Error)

	skipped := NewStepState("export", "Exporter")
	skipped.Skip("step reshape failed")
	assert.Equal(t, StepStatusSkipped, skipped.GetStatus())
	assert.Equal(t, "step reshape failed", skipped.Message)
	assert.Zero(t, skipped.Duration())
}

func TestStepState_MetadataCopyIsIndependent(t *testing.T) {
	st := NewStepState("filter", "Filter")
	st.SetMetadata(MetaRowsIn, 10)

	meta := st.MetadataCopy()
	meta[MetaRowsIn] = 99

	assert.Equal(t, 10, st.MetadataCopy()[MetaRowsIn])
}

func TestBaseStep(t *testing.T) {
	b := NewBaseStep("load", "Loader")
	assert.Equal(t, "load", b.ID())
	assert.Equal(t, "Loader", b.Name())
	assert.NoError(t, b.Validate(NewRunState("run")))

	var nilStep *BaseStep
	assert.Empty(t, nilStep.ID())
	assert.Empty(t, nilStep.Name())
	assert.Error(t, nilStep.Validate(nil))
}

func TestRunState_StepState(t *testing.T) {
	state := NewRunState("run-1")
	assert.Nil(t, state.GetStep("load"))

	created := state.stepState("load")
	require.NotNil(t, created)
	assert.Same(t, created, state.GetStep("load"))

	existing := NewStepState("clean", "Cleaner")
	state.SetStep(existing)
	assert.Same(t, existing, state.stepState("clean"))
}
