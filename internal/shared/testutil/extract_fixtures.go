package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"incomecli/pkg/contracts/domain"
)

// ExtractHeader is the header of a StatCan table 11-10-0239 extract, trimmed
// to the columns the pipeline reads plus DGUID.
var ExtractHeader = []string{
	"REF_DATE", "GEO", "DGUID", "Age group", "Sex", "Income source",
	"Statistics", "SCALAR_FACTOR", "VALUE",
}

// Statistics values as they appear in the extract.
const (
	AverageStatistic = "Average income (excluding zeros)"
	MedianStatistic  = "Median income (excluding zeros)"
	CountStatistic   = "Number of persons"
)

// ExtractRow is one line of an extract.
type ExtractRow struct {
	Year      string
	Region    string
	AgeGroup  string
	Sex       string
	Source    string
	Statistic string
	Value     string
}

// Record returns the row in ExtractHeader order.
func (r ExtractRow) Record() []string {
	return []string{r.Year, r.Region, "2016A000235", r.AgeGroup, r.Sex, r.Source, r.Statistic, "units", r.Value}
}

// OntarioAverage returns an Ontario average-income row.
func OntarioAverage(year, sex, age, source, value string) ExtractRow {
	return ExtractRow{
		Year:      year,
		Region:    "Ontario",
		AgeGroup:  age,
		Sex:       sex,
		Source:    source,
		Statistic: AverageStatistic,
		Value:     value,
	}
}

// Median returns a copy of r reporting the median statistic.
func (r ExtractRow) Median() ExtractRow {
	r.Statistic = MedianStatistic
	return r
}

// WithValue returns a copy of r with VALUE set to v.
func (r ExtractRow) WithValue(v string) ExtractRow {
	r.Value = v
	return r
}

// StandardExtract covers 2018 to 2020, three sexes, kept and excluded age
// groups, Market income plus every government transfer source, average,
// median and count statistics, and one Quebec row. After the default filter
// 72 average and 72 median rows remain, spread over 8 pivot rows per
// statistic.
func StandardExtract() []ExtractRow {
	sources := append([]string{"Market income"}, domain.DefaultGovernmentTransferSources...)
	var rows []ExtractRow
	for _, year := range []string{"2018", "2019", "2020"} {
		for _, sex := range []string{"Both sexes", "Males", "Females"} {
			for _, age := range []string{"15 years and over", "25 to 54 years", "35 to 44 years", "65 years and over"} {
				for i, source := range sources {
					base := 1000*(i+1) + len(sex)*10 + len(age)
					avg := OntarioAverage(year, sex, age, source, fmt.Sprint(base))
					count := avg
					count.Statistic = CountStatistic
					rows = append(rows, avg, avg.Median().WithValue(fmt.Sprint(base-100)), count.WithValue("5000"))
				}
			}
		}
	}
	quebec := OntarioAverage("2020", "Males", "35 to 44 years", "Market income", "99999")
	quebec.Region = "Quebec"
	return append(rows, quebec)
}

// WriteExtract writes rows as a comma-separated extract under dir and
// returns its path.
func WriteExtract(t *testing.T, dir string, rows ...ExtractRow) string {
	t.Helper()

	path := filepath.Join(dir, "11100239.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(ExtractHeader))
	for _, r := range rows {
		require.NoError(t, w.Write(r.Record()))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return path
}
