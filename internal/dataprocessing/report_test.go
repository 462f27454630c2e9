package dataprocessing

import (
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

func TestReshape_MalesAndFemalesScenario(t *testing.T) {
	df := filteredFrame(t,
		ontario("2019", "Males", "35 to 44 years", "Market income", "45000"),
		ontario("2019", "Females", "35 to 44 years", "Market income", "38000"),
	)

	opts := defaultReshapeOptions()
	opts.GovernmentTransferSources = []string{"Market income"}

	report, err := Reshape(df, opts)
	require.NoError(t, err)
	require.NoError(t, report.Validate())

	pivot := report.AveragePivot
	require.Equal(t, 2, pivot.Nrow())
	income := map[string]float64{}
	sexes := stringCol(t, pivot, domain.ColumnSex)
	for i, v := range floatCol(t, pivot, "Market income") {
		income[sexes[i]] = v
	}
	assert.Equal(t, map[string]float64{"Males": 45000, "Females": 38000}, income)

	assert.Equal(t, []int{2019}, intCol(t, report.AverageTrend, domain.ColumnYear))
	assert.Equal(t, []float64{41500}, floatCol(t, report.AverageTrend, "Market income"))

	assert.Equal(t, 0, report.MedianPivot.Nrow())
	assert.Equal(t, 0, report.MedianTrend.Nrow())
}

func TestReshape_Extract(t *testing.T) {
	df := filteredFrame(t, extractRows()...)

	report, err := Reshape(df, defaultReshapeOptions())
	require.NoError(t, err)
	require.NoError(t, report.Validate())

	assert.Equal(t, 72, report.AverageRows)
	assert.Equal(t, 72, report.MedianRows)
	assert.Equal(t, []DroppedStatistic{{Statistic: "Number of persons", Rows: 72}}, report.Dropped)

	// 2 years x 2 sexes x 2 age groups
	assert.Equal(t, 8, report.AveragePivot.Nrow())
	assert.Equal(t, 3+9, report.AveragePivot.Ncol())

	assert.Equal(t, 2, report.AverageTrend.Nrow())
	assert.Equal(t, 2, report.MedianTrend.Nrow())
	assert.Equal(t, 4, report.AverageGender.Nrow())
	assert.Equal(t, 4, report.MedianGender.Nrow())
	assert.Equal(t, 4, report.AverageAge.Nrow())
	assert.Equal(t, 4, report.MedianAge.Nrow())
	assert.Equal(t, 2, report.GovernmentTransfers.Nrow())
	assert.Equal(t, append([]string{"Year"}, domain.DefaultGovernmentTransferSources...), report.GovernmentTransfers.Names())

	for _, sheet := range report.Sheets() {
		if hasColumn(sheet.Frame, domain.ColumnAgeGroup) {
			for _, age := range sheet.Frame.Col(domain.ColumnAgeGroup).Records() {
				assert.NotEqual(t, "25 to 54 years", age, sheet.Name)
				assert.NotEqual(t, "15 years and over", age, sheet.Name)
			}
		}
		if hasColumn(sheet.Frame, domain.ColumnYear) {
			assert.Equal(t, series.Int, sheet.Frame.Col(domain.ColumnYear).Type(), sheet.Name)
		}
	}
}

func TestReshape_Deterministic(t *testing.T) {
	first, err := Reshape(filteredFrame(t, extractRows()...), defaultReshapeOptions())
	require.NoError(t, err)
	second, err := Reshape(filteredFrame(t, extractRows()...), defaultReshapeOptions())
	require.NoError(t, err)

	a, b := first.Sheets(), second.Sheets()
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Frame.Records(), b[i].Frame.Records(), a[i].Name)
	}
}

func TestReshape_MissingTransferSource(t *testing.T) {
	df := filteredFrame(t, ontario("2019", "Males", "35 to 44 years", "Market income", "1"))

	_, err := Reshape(df, defaultReshapeOptions())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchema))
	assert.Equal(t, domain.StageReshape, errors.StageOf(err))
}

func TestReport_Sheets(t *testing.T) {
	report, err := Reshape(filteredFrame(t, extractRows()...), defaultReshapeOptions())
	require.NoError(t, err)

	sheets := report.Sheets()
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
		assert.Equal(t, i < 2, s.WithIndex, s.Name)
	}
	assert.Equal(t, domain.SheetOrder, names)
}

func TestReport_Validate(t *testing.T) {
	build := func(t *testing.T) *Report {
		report, err := Reshape(filteredFrame(t, extractRows()...), defaultReshapeOptions())
		require.NoError(t, err)
		return report
	}

	tests := []struct {
		name   string
		mutate func(r *Report)
	}{
		{"trend row missing", func(r *Report) { r.AverageTrend = r.AverageTrend.Subset([]int{0}) }},
		{"median trend row missing", func(r *Report) { r.MedianTrend = r.MedianTrend.Subset([]int{1}) }},
		{"more cells than rows", func(r *Report) { r.AverageRows = 10 }},
		{"transfer row missing", func(r *Report) { r.GovernmentTransfers = r.GovernmentTransfers.Subset([]int{0}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := build(t)
			tt.mutate(report)

			err := report.Validate()
			require.Error(t, err)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ErrTypeValidation, appErr.Type)
			assert.Equal(t, domain.StageReshape, appErr.Stage)
		})
	}
}
