// Package exporter writes the income report tables to an xlsx workbook.
//
// WorkbookWriter turns each domain.SheetSpec into one worksheet, in the
// order given: a bold header row with the column names, then one row per
// table row. Integer and float columns are written as numbers, NaN as an
// empty cell. A spec with WithIndex gets a leading positional index column
// (0..n-1) under an empty header cell.
//
// Example usage:
//
//	writer := exporter.NewWorkbookWriter(logger)
//	summaries, err := writer.Write(ctx, "income_analysis.xlsx", report.Sheets())
//
// The default "Sheet1" of a new workbook is removed and the first written
// sheet is made active. Failures are returned as IO errors tagged with the
// export stage.
package exporter
