package dataprocessing

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

// Aggregate groups df by keys and collapses every numeric non-key column
// with fn. Non-numeric columns outside keys are dropped. Groups are sorted
// by key. NaN values are ignored; a group with no value yields NaN for mean
// and median and 0 for sum.
func Aggregate(df dataframe.DataFrame, keys []string, fn domain.AggregateFunc) (dataframe.DataFrame, error) {
	if err := requireColumns(df, domain.StageReshape, keys...); err != nil {
		return dataframe.DataFrame{}, err
	}

	reduce, err := reducer(fn)
	if err != nil {
		return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeValidation, "cannot aggregate", err).
			WithStage(domain.StageReshape)
	}

	g, err := groupRows(df, keys)
	if err != nil {
		return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeSchema, "cannot read group keys", err).
			WithStage(domain.StageReshape)
	}

	isKey := make(map[string]bool, len(keys))
	for _, k := range keys {
		isKey[k] = true
	}

	columns := g.keySeries()
	for _, name := range df.Names() {
		col := df.Col(name)
		if isKey[name] || (col.Type() != series.Float && col.Type() != series.Int) {
			continue
		}
		values := col.Float()
		out := make([]float64, len(g.groups))
		buf := make([]float64, 0, 8)
		for gi, rows := range g.groups {
			buf = buf[:0]
			for _, r := range rows {
				if !math.IsNaN(values[r]) {
					buf = append(buf, values[r])
				}
			}
			out[gi] = reduce(buf)
		}
		columns = append(columns, series.New(out, series.Float, name))
	}

	result := dataframe.New(columns...)
	if result.Err != nil {
		return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeSchema, "cannot build aggregate", result.Err).
			WithStage(domain.StageReshape)
	}
	return result, nil
}

func reducer(fn domain.AggregateFunc) (func([]float64) float64, error) {
	switch fn {
	case domain.AggregateMean:
		return mean, nil
	case domain.AggregateMedian:
		return median, nil
	case domain.AggregateSum:
		return floats.Sum, nil
	default:
		return nil, fmt.Errorf("unknown aggregate function %q", fn)
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// median returns the middle value, or the mean of the two middle values
// for an even count.
func median(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// GovernmentTransfers sums the given income source columns of an average
// pivot by Year, treating missing cells as zero. Every source must be a
// column of pivot.
func GovernmentTransfers(pivot dataframe.DataFrame, sources []string) (dataframe.DataFrame, error) {
	if err := requireColumns(pivot, domain.StageReshape, domain.ColumnYear); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := requireColumns(pivot, domain.StageReshape, sources...); err != nil {
		return dataframe.DataFrame{}, err
	}

	selected := pivot.Select(append([]string{domain.ColumnYear}, sources...))
	if selected.Err != nil {
		return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeSchema, "cannot select transfer sources", selected.Err).
			WithStage(domain.StageReshape)
	}
	return Aggregate(selected, []string{domain.ColumnYear}, domain.AggregateSum)
}
