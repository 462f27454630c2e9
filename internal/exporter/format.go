package exporter

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// columnValues converts a series to cell values. NaN becomes nil, which is
// written as an empty cell.
func columnValues(s series.Series) []interface{} {
	out := make([]interface{}, s.Len())
	switch s.Type() {
	case series.Int:
		for i := 0; i < s.Len(); i++ {
			e := s.Elem(i)
			if e.IsNA() {
				continue
			}
			v, err := e.Int()
			if err != nil {
				continue
			}
			out[i] = v
		}
	case series.Float:
		for i, f := range s.Float() {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				continue
			}
			out[i] = f
		}
	case series.Bool:
		for i := 0; i < s.Len(); i++ {
			e := s.Elem(i)
			if e.IsNA() {
				continue
			}
			v, err := e.Bool()
			if err != nil {
				continue
			}
			out[i] = v
		}
	default:
		for i, r := range s.Records() {
			out[i] = r
		}
	}
	return out
}

// tableRows lays out df as rows of cell values, header excluded. With
// withIndex a positional 0-based index is prepended to every row.
func tableRows(df dataframe.DataFrame, withIndex bool) [][]interface{} {
	names := df.Names()
	columns := make([][]interface{}, len(names))
	for i, name := range names {
		columns[i] = columnValues(df.Col(name))
	}

	offset := 0
	if withIndex {
		offset = 1
	}

	rows := make([][]interface{}, df.Nrow())
	for r := range rows {
		row := make([]interface{}, len(names)+offset)
		if withIndex {
			row[0] = r
		}
		for c := range columns {
			row[c+offset] = columns[c][r]
		}
		rows[r] = row
	}
	return rows
}

// headerRow returns the column names, preceded by an empty cell for the
// index column.
func headerRow(df dataframe.DataFrame, withIndex bool) []string {
	names := df.Names()
	if !withIndex {
		return names
	}
	return append([]string{""}, names...)
}
