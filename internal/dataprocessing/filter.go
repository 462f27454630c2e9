package dataprocessing

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

// FilterCriteria selects the rows kept for reshaping. All conditions must
// hold for a row to be kept.
type FilterCriteria struct {
	Region            string
	MinYear           int
	ExcludedSexes     []string
	ExcludedAgeGroups []string
}

// filters converts the criteria to gota row filters.
func (c FilterCriteria) filters() []dataframe.F {
	fs := []dataframe.F{
		{Colname: domain.ColumnRegion, Comparator: series.Eq, Comparando: c.Region},
		{Colname: domain.ColumnYear, Comparator: series.GreaterEq, Comparando: c.MinYear},
	}
	for _, sex := range c.ExcludedSexes {
		fs = append(fs, dataframe.F{Colname: domain.ColumnSex, Comparator: series.Neq, Comparando: sex})
	}
	for _, age := range c.ExcludedAgeGroups {
		fs = append(fs, dataframe.F{Colname: domain.ColumnAgeGroup, Comparator: series.Neq, Comparando: age})
	}
	return fs
}

// Matches reports whether a single row satisfies the criteria.
func (c FilterCriteria) Matches(region string, year int, sex, ageGroup string) bool {
	if region != c.Region || year < c.MinYear {
		return false
	}
	for _, s := range c.ExcludedSexes {
		if sex == s {
			return false
		}
	}
	for _, a := range c.ExcludedAgeGroups {
		if ageGroup == a {
			return false
		}
	}
	return true
}

// ApplyFilter keeps the rows matching c and projects the result to
// domain.ProjectedColumns, in that order.
func ApplyFilter(df dataframe.DataFrame, c FilterCriteria) (dataframe.DataFrame, error) {
	if err := requireColumns(df, domain.StageFilter, domain.ProjectedColumns...); err != nil {
		return dataframe.DataFrame{}, err
	}

	filtered := df
	if df.Nrow() > 0 {
		filtered = df.FilterAggregation(dataframe.And, c.filters()...)
		if filtered.Err != nil {
			return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeSchema, "cannot apply row filter", filtered.Err).
				WithStage(domain.StageFilter)
		}
	}
	if filtered.Nrow() == 0 {
		filtered = emptyLike(df)
	}

	projected := filtered.Select(domain.ProjectedColumns)
	if projected.Err != nil {
		return dataframe.DataFrame{}, errors.NewAppError(errors.ErrTypeSchema, "cannot project columns", projected.Err).
			WithStage(domain.StageFilter)
	}
	return projected, nil
}
