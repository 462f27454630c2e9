package domain

import "github.com/go-gota/gota/dataframe"

// Sheet names of the exported workbook, in workbook order.
const (
	SheetAverageIncome = "Average Income"
	SheetMedianIncome  = "Median Income"
	SheetAvgTrend      = "Avg Trend"
	SheetMedTrend      = "Med Trend"
	SheetAvgGender     = "Avg Gender"
	SheetMedGender     = "Med Gender"
	SheetAvgAge        = "Avg Age"
	SheetMedAge        = "Med Age"
	SheetGovTransfers  = "Gov Transfers"
)

// SheetOrder is the fixed order in which sheets are written.
var SheetOrder = []string{
	SheetAverageIncome,
	SheetMedianIncome,
	SheetAvgTrend,
	SheetMedTrend,
	SheetAvgGender,
	SheetMedGender,
	SheetAvgAge,
	SheetMedAge,
	SheetGovTransfers,
}

// SheetSpec describes one table to be written as a worksheet.
type SheetSpec struct {
	Name string
	// WithIndex prepends a positional row index column with an empty header.
	WithIndex bool
	Frame     dataframe.DataFrame
}

// SheetSummary is the shape of a written sheet.
type SheetSummary struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}
