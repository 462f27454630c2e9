package dataprocessing

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

// ReshapeOptions configures Reshape.
type ReshapeOptions struct {
	Classifier                Classifier
	Policy                    domain.ConflictPolicy
	GovernmentTransferSources []string
}

// Report holds the nine analytical tables derived from the filtered rows.
type Report struct {
	AveragePivot        dataframe.DataFrame
	MedianPivot         dataframe.DataFrame
	AverageTrend        dataframe.DataFrame
	MedianTrend         dataframe.DataFrame
	AverageGender       dataframe.DataFrame
	MedianGender        dataframe.DataFrame
	AverageAge          dataframe.DataFrame
	MedianAge           dataframe.DataFrame
	GovernmentTransfers dataframe.DataFrame

	// AverageRows and MedianRows are the row counts of the split partitions
	// the pivots were built from.
	AverageRows int
	MedianRows  int
	Dropped     []DroppedStatistic
}

// Reshape splits the filtered rows by statistic, pivots each partition and
// derives the trend, gender, age and government transfer tables.
func Reshape(df dataframe.DataFrame, opts ReshapeOptions) (*Report, error) {
	split, err := Split(df, opts.Classifier)
	if err != nil {
		return nil, err
	}

	pivotOpts := IncomePivotOptions(opts.Policy)
	avgPivot, err := Pivot(split.Average, pivotOpts)
	if err != nil {
		return nil, err
	}
	medPivot, err := Pivot(split.Median, pivotOpts)
	if err != nil {
		return nil, err
	}

	r := &Report{
		AveragePivot: avgPivot,
		MedianPivot:  medPivot,
		AverageRows:  split.Average.Nrow(),
		MedianRows:   split.Median.Nrow(),
		Dropped:      split.Dropped,
	}

	byYear := []string{domain.ColumnYear}
	byYearSex := []string{domain.ColumnYear, domain.ColumnSex}
	byYearAge := []string{domain.ColumnYear, domain.ColumnAgeGroup}

	aggregates := []struct {
		dst   *dataframe.DataFrame
		pivot dataframe.DataFrame
		keys  []string
		fn    domain.AggregateFunc
	}{
		{&r.AverageTrend, avgPivot, byYear, domain.AggregateMean},
		{&r.MedianTrend, medPivot, byYear, domain.AggregateMedian},
		{&r.AverageGender, avgPivot, byYearSex, domain.AggregateMean},
		{&r.MedianGender, medPivot, byYearSex, domain.AggregateMean},
		{&r.AverageAge, avgPivot, byYearAge, domain.AggregateMean},
		{&r.MedianAge, medPivot, byYearAge, domain.AggregateMean},
	}
	for _, a := range aggregates {
		out, err := Aggregate(a.pivot, a.keys, a.fn)
		if err != nil {
			return nil, err
		}
		*a.dst = out
	}

	r.GovernmentTransfers, err = GovernmentTransfers(avgPivot, opts.GovernmentTransferSources)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks the invariants that tie the tables together: each trend
// has one row per pivot year, and melting a pivot never yields more cells
// than its partition had rows.
func (r *Report) Validate() error {
	checks := []struct {
		name  string
		pivot dataframe.DataFrame
		trend dataframe.DataFrame
		rows  int
	}{
		{"average", r.AveragePivot, r.AverageTrend, r.AverageRows},
		{"median", r.MedianPivot, r.MedianTrend, r.MedianRows},
	}

	for _, c := range checks {
		years, err := distinctYears(c.pivot)
		if err != nil {
			return err
		}
		if c.trend.Nrow() != years {
			return errors.NewValidationError(domain.StageReshape,
				fmt.Sprintf("%s trend has %d rows for %d distinct years", c.name, c.trend.Nrow(), years))
		}

		melted, err := Melt(c.pivot, domain.PivotIndex, domain.ColumnIncomeSource, domain.ColumnIncome)
		if err != nil {
			return err
		}
		if melted.Nrow() > c.rows {
			return errors.NewValidationError(domain.StageReshape,
				fmt.Sprintf("%s pivot holds %d cells from %d rows", c.name, melted.Nrow(), c.rows))
		}
	}

	years, err := distinctYears(r.AveragePivot)
	if err != nil {
		return err
	}
	if r.GovernmentTransfers.Nrow() != years {
		return errors.NewValidationError(domain.StageReshape,
			fmt.Sprintf("government transfers have %d rows for %d distinct years", r.GovernmentTransfers.Nrow(), years))
	}

	return nil
}

// Sheets returns the tables in workbook order.
func (r *Report) Sheets() []domain.SheetSpec {
	return []domain.SheetSpec{
		{Name: domain.SheetAverageIncome, WithIndex: true, Frame: r.AveragePivot},
		{Name: domain.SheetMedianIncome, WithIndex: true, Frame: r.MedianPivot},
		{Name: domain.SheetAvgTrend, Frame: r.AverageTrend},
		{Name: domain.SheetMedTrend, Frame: r.MedianTrend},
		{Name: domain.SheetAvgGender, Frame: r.AverageGender},
		{Name: domain.SheetMedGender, Frame: r.MedianGender},
		{Name: domain.SheetAvgAge, Frame: r.AverageAge},
		{Name: domain.SheetMedAge, Frame: r.MedianAge},
		{Name: domain.SheetGovTransfers, Frame: r.GovernmentTransfers},
	}
}

func distinctYears(df dataframe.DataFrame) (int, error) {
	if err := requireColumns(df, domain.StageReshape, domain.ColumnYear); err != nil {
		return 0, err
	}
	seen := make(map[string]struct{})
	for _, y := range df.Col(domain.ColumnYear).Records() {
		seen[y] = struct{}{}
	}
	return len(seen), nil
}
