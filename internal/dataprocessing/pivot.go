package dataprocessing

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

// PivotOptions describes a long-to-wide reshape.
type PivotOptions struct {
	// Index columns form the row key of the result.
	Index []string
	// Columns holds the values that become result columns.
	Columns string
	// Values holds the numbers placed in the cells.
	Values string
	// Policy resolves several values landing on one cell.
	Policy domain.ConflictPolicy
}

// IncomePivotOptions pivots income by source over (Year, Sex, Age group).
func IncomePivotOptions(policy domain.ConflictPolicy) PivotOptions {
	return PivotOptions{
		Index:   domain.PivotIndex,
		Columns: domain.ColumnIncomeSource,
		Values:  domain.ColumnIncome,
		Policy:  policy,
	}
}

// Pivot reshapes df so that each distinct index key is one row and each
// distinct value of the Columns column is one float column. Result columns
// are the index columns followed by the pivoted columns sorted
// alphabetically; rows are sorted by key. Cells with no source row are NaN.
func Pivot(df dataframe.DataFrame, opts PivotOptions) (dataframe.DataFrame, error) {
	required := append(append([]string{}, opts.Index...), opts.Columns, opts.Values)
	if err := requireColumns(df, domain.StageReshape, required...); err != nil {
		return dataframe.DataFrame{}, err
	}

	policy := opts.Policy
	if policy == "" {
		policy = domain.ConflictMean
	}

	g, err := groupRows(df, opts.Index)
	if err != nil {
		return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeSchema, "cannot read pivot index", err).
			WithStage(domain.StageReshape)
	}

	names := df.Col(opts.Columns).Records()
	values := df.Col(opts.Values).Float()

	var pivoted []string
	seen := make(map[string]bool)
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			pivoted = append(pivoted, n)
		}
	}
	sort.Strings(pivoted)

	cells := make(map[string][]float64, len(pivoted))
	for _, n := range pivoted {
		col := make([]float64, len(g.groups))
		for i := range col {
			col[i] = math.NaN()
		}
		cells[n] = col
	}

	for gi, rows := range g.groups {
		byName := make(map[string][]float64)
		var order []string
		for _, r := range rows {
			if math.IsNaN(values[r]) {
				continue
			}
			if _, ok := byName[names[r]]; !ok {
				order = append(order, names[r])
			}
			byName[names[r]] = append(byName[names[r]], values[r])
		}
		for _, n := range order {
			v, ok := resolveCell(byName[n], policy)
			if !ok {
				return dataframe.DataFrame{}, errors.NewConflictError(domain.StageReshape, g.groupLabel(gi), n)
			}
			cells[n][gi] = v
		}
	}

	columns := g.keySeries()
	for _, n := range pivoted {
		columns = append(columns, series.New(cells[n], series.Float, n))
	}

	out := dataframe.New(columns...)
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeSchema, "cannot build pivot", out.Err).
			WithStage(domain.StageReshape)
	}
	return out, nil
}

// resolveCell collapses the values of one cell. vals is never empty. It
// returns false when the policy forbids more than one value.
func resolveCell(vals []float64, policy domain.ConflictPolicy) (float64, bool) {
	if len(vals) == 1 {
		return vals[0], true
	}
	switch policy {
	case domain.ConflictFirst:
		return vals[0], true
	case domain.ConflictLast:
		return vals[len(vals)-1], true
	case domain.ConflictError:
		return 0, false
	default:
		return stat.Mean(vals, nil), true
	}
}
