package dataprocessing

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"incomecli/internal/errors"
)

// hasColumn reports whether df has a column called name.
func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// requireColumns returns a SCHEMA error naming the first missing column.
func requireColumns(df dataframe.DataFrame, stage string, columns ...string) error {
	for _, c := range columns {
		if !hasColumn(df, c) {
			return errors.NewSchemaError(stage, c)
		}
	}
	return nil
}

// subsetRows keeps the rows at idx, in idx order. An empty idx yields a
// zero-row frame with the same columns and types.
func subsetRows(df dataframe.DataFrame, idx []int) dataframe.DataFrame {
	if len(idx) == 0 {
		return emptyLike(df)
	}
	if len(idx) == df.Nrow() {
		identity := true
		for i, v := range idx {
			if i != v {
				identity = false
				break
			}
		}
		if identity {
			return df
		}
	}
	return df.Subset(idx)
}

// emptyLike returns a zero-row frame with df's columns and types.
func emptyLike(df dataframe.DataFrame) dataframe.DataFrame {
	columns := make([]series.Series, 0, df.Ncol())
	for _, name := range df.Names() {
		columns = append(columns, series.New([]string{}, df.Col(name).Type(), name))
	}
	return dataframe.New(columns...)
}
