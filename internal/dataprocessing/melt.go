package dataprocessing

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

// Melt turns a wide frame back into long form: one row per non-NaN cell of
// every column outside idVars. The result has the idVars columns followed
// by varName (the former column name) and valueName.
func Melt(df dataframe.DataFrame, idVars []string, varName, valueName string) (dataframe.DataFrame, error) {
	if err := requireColumns(df, domain.StageReshape, idVars...); err != nil {
		return dataframe.DataFrame{}, err
	}

	ids := make([]keyColumn, len(idVars))
	isID := make(map[string]bool, len(idVars))
	for i, name := range idVars {
		kc, err := readKeyColumn(df, name)
		if err != nil {
			return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeSchema, "cannot read id column", err).
				WithStage(domain.StageReshape)
		}
		ids[i] = kc
		isID[name] = true
	}

	var valueColumns []string
	valuesByColumn := make(map[string][]float64)
	for _, name := range df.Names() {
		if isID[name] {
			continue
		}
		valueColumns = append(valueColumns, name)
		valuesByColumn[name] = df.Col(name).Float()
	}

	var rows []int
	var vars []string
	var values []float64
	for r := 0; r < df.Nrow(); r++ {
		for _, name := range valueColumns {
			v := valuesByColumn[name][r]
			if math.IsNaN(v) {
				continue
			}
			rows = append(rows, r)
			vars = append(vars, name)
			values = append(values, v)
		}
	}

	columns := make([]series.Series, 0, len(ids)+2)
	for _, kc := range ids {
		columns = append(columns, kc.take(rows))
	}
	columns = append(columns,
		series.New(vars, series.String, varName),
		series.New(values, series.Float, valueName),
	)

	out := dataframe.New(columns...)
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeSchema, "cannot build melted frame", out.Err).
			WithStage(domain.StageReshape)
	}
	return out, nil
}
