package infrastructure

import (
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by a pipeline run
type PipelineMetrics struct {
	StepExecutions    metric.Int64Counter
	StepDuration      metric.Float64Histogram
	StepErrors        metric.Int64Counter
	RowsOut           metric.Int64Counter
	DuplicatesRemoved metric.Int64Counter
	IncomeFilled      metric.Int64Counter
	RowsUnclassified  metric.Int64Counter
	SheetsWritten     metric.Int64Counter
}

// CreatePipelineMetrics creates the pipeline instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	stepExecutions, err := meter.Int64Counter(
		"pipeline_step_executions_total",
		metric.WithDescription("Total number of pipeline step executions"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"pipeline_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stepErrors, err := meter.Int64Counter(
		"pipeline_step_errors_total",
		metric.WithDescription("Total number of failed pipeline steps"),
	)
	if err != nil {
		return nil, err
	}

	rowsOut, err := meter.Int64Counter(
		"pipeline_rows_total",
		metric.WithDescription("Rows produced by each pipeline step"),
	)
	if err != nil {
		return nil, err
	}

	duplicatesRemoved, err := meter.Int64Counter(
		"clean_duplicates_removed_total",
		metric.WithDescription("Exact duplicate rows dropped while cleaning"),
	)
	if err != nil {
		return nil, err
	}

	incomeFilled, err := meter.Int64Counter(
		"clean_income_filled_total",
		metric.WithDescription("Missing income values replaced with zero"),
	)
	if err != nil {
		return nil, err
	}

	rowsUnclassified, err := meter.Int64Counter(
		"reshape_rows_unclassified_total",
		metric.WithDescription("Rows whose statistic was neither average nor median"),
	)
	if err != nil {
		return nil, err
	}

	sheetsWritten, err := meter.Int64Counter(
		"export_sheets_written_total",
		metric.WithDescription("Worksheets written to the workbook"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		StepExecutions:    stepExecutions,
		StepDuration:      stepDuration,
		StepErrors:        stepErrors,
		RowsOut:           rowsOut,
		DuplicatesRemoved: duplicatesRemoved,
		IncomeFilled:      incomeFilled,
		RowsUnclassified:  rowsUnclassified,
		SheetsWritten:     sheetsWritten,
	}, nil
}
