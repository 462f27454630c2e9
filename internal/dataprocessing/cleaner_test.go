package dataprocessing

import (
	"strings"
	"testing"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

func TestDeduplicate(t *testing.T) {
	a := ontario("2019", "Males", "35 to 44 years", "Market income", "45000")
	b := ontario("2019", "Females", "35 to 44 years", "Market income", "38000")
	c := a.withValue("45000.0")

	df := rawFrame(t, a, b, a, c, b, a)

	out, removed := Deduplicate(df)
	assert.Equal(t, 3, removed)
	assert.Equal(t, []string{"45000", "38000", "45000.0"}, out.Col("VALUE").Records(), "first occurrence wins, order kept")
	assert.Equal(t, 6, df.Nrow(), "input is not modified")
}

func TestDeduplicate_Idempotent(t *testing.T) {
	rows := extractRows()
	rows = append(rows, rows[:40]...)
	df := rawFrame(t, rows...)

	once, removed := Deduplicate(df)
	assert.Equal(t, 40, removed)

	twice, removedAgain := Deduplicate(once)
	assert.Zero(t, removedAgain)
	assert.Equal(t, once.Records(), twice.Records())
}

func TestDeduplicate_SmallFrames(t *testing.T) {
	empty := rawFrame(t)
	out, removed := Deduplicate(empty)
	assert.Zero(t, removed)
	assert.Equal(t, 0, out.Nrow())

	single := rawFrame(t, ontario("2019", "Males", "35 to 44 years", "Market income", "1"))
	out, removed = Deduplicate(single)
	assert.Zero(t, removed)
	assert.Equal(t, 1, out.Nrow())
}

func TestClean(t *testing.T) {
	df := rawFrame(t,
		ontario("2019", "Males", "35 to 44 years", "Market income", "45000"),
		ontario("2019", "Males", "35 to 44 years", "Market income", "45000"),
		ontario("2020.0", "Females", "35 to 44 years", "Market income", ""),
		ontario(" 2021 ", "Females", "35 to 44 years", "Child benefits", "NA"),
		ontario("2021", "Females", "35 to 44 years", "Social assistance", " 12.5 "),
	)

	res, err := Clean(df)
	require.NoError(t, err)

	assert.Equal(t, 1, res.DuplicatesRemoved)
	assert.Equal(t, 2, res.IncomeFilled)

	out := res.Frame
	assert.Contains(t, out.Names(), domain.ColumnYear)
	assert.Contains(t, out.Names(), domain.ColumnRegion)
	assert.Contains(t, out.Names(), domain.ColumnIncome)
	assert.NotContains(t, out.Names(), "REF_DATE")
	assert.NotContains(t, out.Names(), "GEO")
	assert.NotContains(t, out.Names(), "VALUE")

	assert.Equal(t, series.Int, out.Col(domain.ColumnYear).Type())
	assert.Equal(t, series.Float, out.Col(domain.ColumnIncome).Type())
	assert.Equal(t, series.String, out.Col(domain.ColumnSex).Type())
	assert.Equal(t, series.String, out.Col(domain.ColumnAgeGroup).Type())

	assert.Equal(t, []int{2019, 2020, 2021, 2021}, intCol(t, out, domain.ColumnYear))
	assert.Equal(t, []float64{45000, 0, 0, 12.5}, floatCol(t, out, domain.ColumnIncome))
	assert.Equal(t, "DGUID", out.Names()[2], "unrelated columns keep their place")
}

func TestClean_MissingTokens(t *testing.T) {
	var rows []inputRow
	for _, token := range MissingTokens {
		rows = append(rows, ontario("2019", "Males", token, "Market income", token))
	}

	res, err := Clean(rawFrame(t, rows...))
	require.NoError(t, err)

	assert.Equal(t, len(MissingTokens), res.IncomeFilled)
	for _, v := range floatCol(t, res.Frame, domain.ColumnIncome) {
		assert.Zero(t, v)
	}
}

func TestClean_CoercionErrors(t *testing.T) {
	tests := []struct {
		name   string
		rows   []inputRow
		column string
		row    int
		value  string
	}{
		{
			name: "non numeric year",
			rows: []inputRow{
				ontario("2019", "Males", "35 to 44 years", "Market income", "1"),
				ontario("20x9", "Males", "35 to 44 years", "Market income", "1"),
			},
			column: domain.ColumnYear,
			row:    2,
			value:  "20x9",
		},
		{
			name:   "fractional year",
			rows:   []inputRow{ontario("2019.5", "Males", "35 to 44 years", "Market income", "1")},
			column: domain.ColumnYear,
			row:    1,
			value:  "2019.5",
		},
		{
			name:   "empty year",
			rows:   []inputRow{ontario("", "Males", "35 to 44 years", "Market income", "1")},
			column: domain.ColumnYear,
			row:    1,
			value:  "",
		},
		{
			name: "non numeric income after a duplicate",
			rows: []inputRow{
				ontario("2019", "Males", "35 to 44 years", "Market income", "1"),
				ontario("2019", "Males", "35 to 44 years", "Market income", "1"),
				ontario("2019", "Males", "35 to 44 years", "Market income", "abc"),
			},
			column: domain.ColumnIncome,
			row:    3,
			value:  "abc",
		},
		{
			name:   "infinite income",
			rows:   []inputRow{ontario("2019", "Males", "35 to 44 years", "Market income", "Inf")},
			column: domain.ColumnIncome,
			row:    1,
			value:  "Inf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Clean(rawFrame(t, tt.rows...))
			require.Error(t, err)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ErrTypeCoercion, appErr.Type)
			assert.Equal(t, domain.StageClean, appErr.Stage)
			assert.Equal(t, tt.column, appErr.Context["column"])
			assert.Equal(t, tt.row, appErr.Context["row"])
			assert.Equal(t, tt.value, appErr.Context["value"])
		})
	}
}

func TestClean_MissingColumns(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		column string
	}{
		{"no REF_DATE", "GEO,Age group,Sex,VALUE\nOntario,a,Males,1\n", domain.ColumnYear},
		{"no VALUE", "REF_DATE,GEO,Age group,Sex\n2019,Ontario,a,Males\n", domain.ColumnIncome},
		{"no Sex", "REF_DATE,GEO,Age group,VALUE\n2019,Ontario,a,1\n", domain.ColumnSex},
		{"no Age group", "REF_DATE,GEO,Sex,VALUE\n2019,Ontario,Males,1\n", domain.ColumnAgeGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df, err := Read(strings.NewReader(tt.csv), LoadOptions{})
			require.NoError(t, err)

			_, err = Clean(df)
			require.Error(t, err)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ErrTypeSchema, appErr.Type)
			assert.Equal(t, domain.StageClean, appErr.Stage)
			assert.Equal(t, tt.column, appErr.Context["column"])
		})
	}
}

func TestClean_EmptyFrame(t *testing.T) {
	res, err := Clean(rawFrame(t))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Frame.Nrow())
	assert.Contains(t, res.Frame.Names(), domain.ColumnIncome)
}
