package operations

import (
	"context"
	"log/slog"

	"incomecli/internal/dataprocessing"
	"incomecli/internal/errors"
	"incomecli/internal/exporter"
	"incomecli/pkg/contracts/domain"
)

// Metadata keys recorded on step states and copied into the manifest.
const (
	MetaColumns           = "columns"
	MetaDuplicatesRemoved = "duplicates_removed"
	MetaIncomeFilled      = "income_filled"
	MetaRowsIn            = "rows_in"
	MetaAverageRows       = "average_rows"
	MetaMedianRows        = "median_rows"
	MetaRowsUnclassified  = "rows_unclassified"
	MetaSheetsWritten     = "sheets_written"
	MetaOutputPath        = "output_path"
)

// LoadStep reads the input CSV.
type LoadStep struct {
	BaseStep
	path string
	opts dataprocessing.LoadOptions
}

// NewLoadStep creates the step reading path.
func NewLoadStep(path string, opts dataprocessing.LoadOptions) *LoadStep {
	return &LoadStep{
		BaseStep: NewBaseStep(domain.StageLoad, "Loader"),
		path:     path,
		opts:     opts,
	}
}

// Execute loads the file into state.Raw.
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	df, err := dataprocessing.Load(ctx, s.path, s.opts)
	if err != nil {
		return err
	}

	st := state.stepState(s.ID())
	st.SetRows(df.Nrow())
	st.SetMetadata(MetaColumns, df.Ncol())
	state.Raw = &df
	return nil
}

// CleanStep deduplicates, renames and coerces the raw table.
type CleanStep struct {
	BaseStep
}

// NewCleanStep creates the cleaning step.
func NewCleanStep() *CleanStep {
	return &CleanStep{BaseStep: NewBaseStep(domain.StageClean, "Cleaner")}
}

// Validate requires a loaded table.
func (s *CleanStep) Validate(state *RunState) error {
	if state.Raw == nil {
		return errors.NewValidationError(s.ID(), "no loaded table to clean")
	}
	return nil
}

// Execute cleans state.Raw into state.Cleaned.
func (s *CleanStep) Execute(ctx context.Context, state *RunState) error {
	res, err := dataprocessing.Clean(*state.Raw)
	if err != nil {
		return err
	}

	st := state.stepState(s.ID())
	st.SetRows(res.Frame.Nrow())
	st.SetMetadata(MetaRowsIn, state.Raw.Nrow())
	st.SetMetadata(MetaDuplicatesRemoved, res.DuplicatesRemoved)
	st.SetMetadata(MetaIncomeFilled, res.IncomeFilled)
	state.Cleaned = &res.Frame
	return nil
}

// FilterStep keeps the rows matching the configured criteria.
type FilterStep struct {
	BaseStep
	criteria dataprocessing.FilterCriteria
}

// NewFilterStep creates the filter step.
func NewFilterStep(criteria dataprocessing.FilterCriteria) *FilterStep {
	return &FilterStep{
		BaseStep: NewBaseStep(domain.StageFilter, "Filter"),
		criteria: criteria,
	}
}

// Validate requires a cleaned table.
func (s *FilterStep) Validate(state *RunState) error {
	if state.Cleaned == nil {
		return errors.NewValidationError(s.ID(), "no cleaned table to filter")
	}
	return nil
}

// Execute filters state.Cleaned into state.Filtered.
func (s *FilterStep) Execute(ctx context.Context, state *RunState) error {
	df, err := dataprocessing.ApplyFilter(*state.Cleaned, s.criteria)
	if err != nil {
		return err
	}

	st := state.stepState(s.ID())
	st.SetRows(df.Nrow())
	st.SetMetadata(MetaRowsIn, state.Cleaned.Nrow())
	state.Filtered = &df
	return nil
}

// ReshapeStep builds the report tables and checks their invariants.
type ReshapeStep struct {
	BaseStep
	opts   dataprocessing.ReshapeOptions
	logger *slog.Logger
}

// NewReshapeStep creates the reshape step.
func NewReshapeStep(opts dataprocessing.ReshapeOptions, logger *slog.Logger) *ReshapeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReshapeStep{
		BaseStep: NewBaseStep(domain.StageReshape, "Reshaper"),
		opts:     opts,
		logger:   logger,
	}
}

// Validate requires a filtered table.
func (s *ReshapeStep) Validate(state *RunState) error {
	if state.Filtered == nil {
		return errors.NewValidationError(s.ID(), "no filtered table to reshape")
	}
	return nil
}

// Execute reshapes state.Filtered into state.Report.
func (s *ReshapeStep) Execute(ctx context.Context, state *RunState) error {
	report, err := dataprocessing.Reshape(*state.Filtered, s.opts)
	if err != nil {
		return err
	}
	if err := report.Validate(); err != nil {
		return err
	}

	for _, d := range report.Dropped {
		level := slog.LevelDebug
		if d.Ambiguous {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "Statistic not classified",
			slog.String("statistic", d.Statistic),
			slog.Int("rows", d.Rows),
			slog.Bool("ambiguous", d.Ambiguous))
	}

	dropped := 0
	for _, d := range report.Dropped {
		dropped += d.Rows
	}

	st := state.stepState(s.ID())
	st.SetRows(report.AveragePivot.Nrow() + report.MedianPivot.Nrow())
	st.SetMetadata(MetaRowsIn, state.Filtered.Nrow())
	st.SetMetadata(MetaAverageRows, report.AverageRows)
	st.SetMetadata(MetaMedianRows, report.MedianRows)
	st.SetMetadata(MetaRowsUnclassified, dropped)
	state.Report = report
	return nil
}

// ExportStep writes the report tables to the workbook.
type ExportStep struct {
	BaseStep
	path   string
	writer *exporter.WorkbookWriter
}

// NewExportStep creates the export step writing to path.
func NewExportStep(path string, writer *exporter.WorkbookWriter) *ExportStep {
	if writer == nil {
		writer = exporter.NewWorkbookWriter(nil)
	}
	return &ExportStep{
		BaseStep: NewBaseStep(domain.StageExport, "Exporter"),
		path:     path,
		writer:   writer,
	}
}

// Validate requires a report.
func (s *ExportStep) Validate(state *RunState) error {
	if state.Report == nil {
		return errors.NewValidationError(s.ID(), "no report to export")
	}
	return nil
}

// Execute writes the workbook and records the sheet summaries.
func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	summaries, err := s.writer.Write(ctx, s.path, state.Report.Sheets())
	if err != nil {
		return err
	}

	rows := 0
	for _, sum := range summaries {
		rows += sum.Rows
	}

	st := state.stepState(s.ID())
	st.SetRows(rows)
	st.SetMetadata(MetaSheetsWritten, len(summaries))
	st.SetMetadata(MetaOutputPath, s.path)
	state.Sheets = summaries
	return nil
}
