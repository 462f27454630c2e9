package operations

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	apperrors "incomecli/internal/errors"
	"incomecli/internal/infrastructure"
)

// Manager runs the registered steps strictly in order. The first failing
// step aborts the run and every later step is skipped.
type Manager struct {
	registry *Registry
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
}

// Option configures a Manager
type Option func(*Manager)

// WithTracer sets the tracer used for run and step spans
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Manager) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// WithMetrics sets the instruments recorded by each step
func WithMetrics(metrics *infrastructure.PipelineMetrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a manager over registry
func NewManager(registry *Registry, logger *slog.Logger, opts ...Option) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		registry: registry,
		logger:   logger,
		tracer:   noop.NewTracerProvider().Tracer(infrastructure.InstrumentationName),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GetRegistry returns the registry for accessing registered steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Run executes every step and returns the run manifest. The manifest is
// returned on failure too, with the failing step marked.
func (m *Manager) Run(ctx context.Context) (*Manifest, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	steps := m.registry.List()
	state := NewRunState(runID)
	for _, step := range steps {
		state.SetStep(NewStepState(step.ID(), step.Name()))
	}
	manifest := NewManifest(runID, steps)

	ctx, span := m.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.step_count", len(steps)),
		),
	)
	defer span.End()

	manifest.Start()
	startAttrs := []any{slog.Int("steps", len(steps))}
	if traceID := infrastructure.TraceIDFromContext(ctx); traceID != "" {
		startAttrs = append(startAttrs, slog.String("trace_id", traceID))
	}
	m.logger.InfoContext(ctx, "Pipeline started", startAttrs...)

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("run cancelled before step %s: %w", step.ID(), err)
			m.skipRemaining(state, manifest, steps[i:], "run cancelled")
			return m.finishFailed(ctx, span, manifest, err)
		}

		if err := m.executeStep(ctx, state, step); err != nil {
			manifest.RecordStep(state.GetStep(step.ID()))
			m.skipRemaining(state, manifest, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return m.finishFailed(ctx, span, manifest, err)
		}
		manifest.RecordStep(state.GetStep(step.ID()))
	}

	manifest.Complete(state.Sheets)
	span.SetAttributes(attribute.Int("run.sheets", len(state.Sheets)))
	span.SetStatus(codes.Ok, "pipeline completed")
	m.logger.InfoContext(ctx, "Pipeline completed",
		slog.Duration("duration", manifest.Duration()))
	manifest.Log(ctx, m.logger)

	return manifest, nil
}

// executeStep runs one step under its own span with the stage set on the
// context, so every record it logs carries the stage.
func (m *Manager) executeStep(ctx context.Context, state *RunState, step Step) error {
	ctx = infrastructure.WithStage(ctx, step.ID())
	ctx, span := m.tracer.Start(ctx, "pipeline.step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
	defer span.End()

	st := state.GetStep(step.ID())
	if st == nil {
		st = NewStepState(step.ID(), step.Name())
		state.SetStep(st)
	}

	if err := step.Validate(state); err != nil {
		st.Fail(err)
		m.recordFailure(ctx, span, st, err)
		return err
	}

	st.Start()
	m.logger.InfoContext(ctx, "Step started",
		slog.String("step_name", step.Name()))

	err := step.Execute(ctx, state)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !stderrors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", err, ctxErr)
		}
		st.Fail(err)
		m.recordFailure(ctx, span, st, err)
		return err
	}

	st.Complete()
	m.recordSuccess(ctx, span, st)
	return nil
}

func (m *Manager) recordSuccess(ctx context.Context, span trace.Span, st *StepState) {
	duration := st.Duration()
	rows := st.GetRows()
	meta := st.MetadataCopy()

	span.SetAttributes(
		attribute.Int("step.rows", rows),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	span.SetStatus(codes.Ok, "step completed")

	if m.metrics != nil {
		stageAttr := metric.WithAttributes(attribute.String("stage", st.ID))
		m.metrics.StepExecutions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", st.ID),
			attribute.String("status", string(StepStatusCompleted)),
		))
		m.metrics.StepDuration.Record(ctx, duration.Seconds(), stageAttr)
		m.metrics.RowsOut.Add(ctx, int64(rows), stageAttr)
		m.recordDomainMetrics(ctx, meta)
	}

	attrs := []any{
		slog.Int("rows", rows),
		slog.Duration("duration", duration),
	}
	for _, key := range slices.Sorted(maps.Keys(meta)) {
		attrs = append(attrs, slog.Any(key, meta[key]))
	}
	m.logger.InfoContext(ctx, "Step completed", attrs...)
}

// recordDomainMetrics adds the step statistics that have a dedicated
// counter.
func (m *Manager) recordDomainMetrics(ctx context.Context, meta map[string]interface{}) {
	counters := []struct {
		key     string
		counter metric.Int64Counter
	}{
		{MetaDuplicatesRemoved, m.metrics.DuplicatesRemoved},
		{MetaIncomeFilled, m.metrics.IncomeFilled},
		{MetaRowsUnclassified, m.metrics.RowsUnclassified},
		{MetaSheetsWritten, m.metrics.SheetsWritten},
	}
	for _, c := range counters {
		if v, ok := meta[c.key].(int); ok {
			c.counter.Add(ctx, int64(v))
		}
	}
}

func (m *Manager) recordFailure(ctx context.Context, span trace.Span, st *StepState, err error) {
	errType := errorType(err)

	span.RecordError(err, trace.WithAttributes(attribute.String("error.type", errType)))
	span.SetStatus(codes.Error, err.Error())

	if m.metrics != nil {
		m.metrics.StepExecutions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", st.ID),
			attribute.String("status", string(StepStatusFailed)),
		))
		m.metrics.StepErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("stage", st.ID),
			attribute.String("error_type", errType),
		))
	}

	m.logger.ErrorContext(ctx, "Step failed",
		slog.String("error", err.Error()),
		slog.String("error_type", errType),
		slog.Duration("duration", st.Duration()))
}

func (m *Manager) skipRemaining(state *RunState, manifest *Manifest, steps []Step, reason string) {
	for _, step := range steps {
		if st := state.GetStep(step.ID()); st != nil {
			st.Skip(reason)
		}
		manifest.RecordSkipped(step.ID(), reason)
	}
}

func (m *Manager) finishFailed(ctx context.Context, span trace.Span, manifest *Manifest, err error) (*Manifest, error) {
	cancelled := stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
	manifest.Fail(err, cancelled)

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	m.logger.ErrorContext(ctx, "Pipeline failed",
		slog.String("error", err.Error()),
		slog.String("error_type", errorType(err)),
		slog.String("failed_stage", apperrors.StageOf(err)),
		slog.Duration("duration", manifest.Duration()))
	manifest.Log(ctx, m.logger)

	return manifest, err
}

// errorType names the taxonomy type of err, or UNKNOWN for errors raised
// outside the pipeline packages.
func errorType(err error) string {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return string(appErr.Type)
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return "CANCELLED"
	}
	return "UNKNOWN"
}
