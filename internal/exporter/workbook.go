package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

const defaultSheet = "Sheet1"

// WorkbookWriter writes tables as worksheets of one xlsx workbook.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write creates the workbook at path with one sheet per spec, in order, and
// returns the shape of each sheet. The parent directory is created and an
// existing file is replaced. The first sheet is active. Any failure is an
// IO error.
func (w *WorkbookWriter) Write(ctx context.Context, path string, sheets []domain.SheetSpec) ([]domain.SheetSummary, error) {
	if len(sheets) == 0 {
		return nil, errors.NewIOError(domain.StageExport, "no sheets to write", nil)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewIOError(domain.StageExport, "failed to create output directory", err).
			WithContext("path", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.NewIOError(domain.StageExport, "failed to create header style", err)
	}

	seen := make(map[string]bool, len(sheets))
	for _, spec := range sheets {
		if seen[spec.Name] {
			return nil, errors.NewIOError(domain.StageExport, fmt.Sprintf("duplicate sheet name %q", spec.Name), nil)
		}
		seen[spec.Name] = true
	}

	summaries := make([]domain.SheetSummary, 0, len(sheets))
	for _, spec := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary, err := w.writeSheet(f, spec, headerStyle)
		if err != nil {
			return nil, errors.NewIOError(domain.StageExport, fmt.Sprintf("failed to write sheet %q", spec.Name), err).
				WithContext("sheet", spec.Name)
		}
		summaries = append(summaries, summary)

		w.logger.DebugContext(ctx, "Sheet written",
			slog.String("sheet", spec.Name),
			slog.Int("rows", summary.Rows),
			slog.Int("columns", summary.Columns))
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return nil, errors.NewIOError(domain.StageExport, "failed to remove default sheet", err)
	}
	first, err := f.GetSheetIndex(sheets[0].Name)
	if err != nil {
		return nil, errors.NewIOError(domain.StageExport, "failed to locate first sheet", err)
	}
	f.SetActiveSheet(first)

	if err := f.SaveAs(path); err != nil {
		return nil, errors.NewIOError(domain.StageExport, "failed to save workbook", err).
			WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(summaries)))

	return summaries, nil
}

// writeSheet streams one table into a new sheet: a bold header row followed
// by the data rows.
func (w *WorkbookWriter) writeSheet(f *excelize.File, spec domain.SheetSpec, headerStyle int) (domain.SheetSummary, error) {
	if spec.Name == defaultSheet {
		return domain.SheetSummary{}, fmt.Errorf("sheet name %q is reserved", defaultSheet)
	}
	if _, err := f.NewSheet(spec.Name); err != nil {
		return domain.SheetSummary{}, err
	}

	sw, err := f.NewStreamWriter(spec.Name)
	if err != nil {
		return domain.SheetSummary{}, err
	}

	header := headerRow(spec.Frame, spec.WithIndex)
	headerCells := make([]interface{}, len(header))
	for i, name := range header {
		headerCells[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		return domain.SheetSummary{}, err
	}

	rows := tableRows(spec.Frame, spec.WithIndex)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return domain.SheetSummary{}, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return domain.SheetSummary{}, err
		}
	}

	if err := sw.Flush(); err != nil {
		return domain.SheetSummary{}, err
	}

	return domain.SheetSummary{
		Name:    spec.Name,
		Rows:    len(rows),
		Columns: len(header),
	}, nil
}
