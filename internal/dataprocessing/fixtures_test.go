package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/require"

	"incomecli/pkg/contracts/domain"
)

var statcanHeader = []string{
	"REF_DATE", "GEO", "DGUID", "Age group", "Sex", "Income source",
	"Statistics", "SCALAR_FACTOR", "VALUE",
}

// inputRow is one line of the StatCan extract.
type inputRow struct {
	Year      string
	Region    string
	AgeGroup  string
	Sex       string
	Source    string
	Statistic string
	Value     string
}

func (r inputRow) record() []string {
	return []string{r.Year, r.Region, "2016A000235", r.AgeGroup, r.Sex, r.Source, r.Statistic, "units", r.Value}
}

// ontario returns an Ontario average-income row.
func ontario(year, sex, age, source, value string) inputRow {
	return inputRow{
		Year:      year,
		Region:    "Ontario",
		AgeGroup:  age,
		Sex:       sex,
		Source:    source,
		Statistic: "Average income (excluding zeros)",
		Value:     value,
	}
}

func (r inputRow) median() inputRow {
	r.Statistic = "Median income (excluding zeros)"
	return r
}

func (r inputRow) withStatistic(s string) inputRow {
	r.Statistic = s
	return r
}

func (r inputRow) in(region string) inputRow {
	r.Region = region
	return r
}

func csvText(t *testing.T, rows ...inputRow) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(statcanHeader))
	for _, r := range rows {
		require.NoError(t, w.Write(r.record()))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return buf.String()
}

func rawFrame(t *testing.T, rows ...inputRow) dataframe.DataFrame {
	t.Helper()
	df, err := Read(strings.NewReader(csvText(t, rows...)), LoadOptions{})
	require.NoError(t, err)
	return df
}

func cleanFrame(t *testing.T, rows ...inputRow) dataframe.DataFrame {
	t.Helper()
	res, err := Clean(rawFrame(t, rows...))
	require.NoError(t, err)
	return res.Frame
}

func defaultCriteria() FilterCriteria {
	return FilterCriteria{
		Region:            "Ontario",
		MinYear:           2019,
		ExcludedSexes:     []string{"Both sexes"},
		ExcludedAgeGroups: []string{"15 years and over", "25 to 54 years"},
	}
}

func filteredFrame(t *testing.T, rows ...inputRow) dataframe.DataFrame {
	t.Helper()
	df, err := ApplyFilter(cleanFrame(t, rows...), defaultCriteria())
	require.NoError(t, err)
	return df
}

func defaultReshapeOptions() ReshapeOptions {
	return ReshapeOptions{
		Classifier:                NewClassifier("Average income", "Median income"),
		Policy:                    domain.ConflictMean,
		GovernmentTransferSources: domain.DefaultGovernmentTransferSources,
	}
}

// extractRows builds a realistic extract: two years kept by the filter and
// one dropped, three sexes, kept and excluded age groups, Market income plus
// every government transfer source, average, median and a count statistic,
// and one row outside Ontario.
func extractRows() []inputRow {
	sources := append([]string{"Market income"}, domain.DefaultGovernmentTransferSources...)
	var rows []inputRow
	for _, year := range []string{"2018", "2019", "2020"} {
		for _, sex := range []string{"Both sexes", "Males", "Females"} {
			for _, age := range []string{"15 years and over", "25 to 54 years", "35 to 44 years", "65 years and over"} {
				for i, source := range sources {
					base := 1000*(i+1) + len(sex)*10 + len(age)
					avg := ontario(year, sex, age, source, fmt.Sprint(base))
					rows = append(rows,
						avg,
						avg.median().withValue(fmt.Sprint(base-100)),
						avg.withStatistic("Number of persons").withValue("5000"),
					)
				}
			}
		}
	}
	rows = append(rows, ontario("2020", "Males", "35 to 44 years", "Market income", "99999").in("Quebec"))
	return rows
}

func (r inputRow) withValue(v string) inputRow {
	r.Value = v
	return r
}

func floatCol(t *testing.T, df dataframe.DataFrame, name string) []float64 {
	t.Helper()
	require.Contains(t, df.Names(), name)
	return df.Col(name).Float()
}

func intCol(t *testing.T, df dataframe.DataFrame, name string) []int {
	t.Helper()
	require.Contains(t, df.Names(), name)
	vals, err := df.Col(name).Int()
	require.NoError(t, err)
	return vals
}

func stringCol(t *testing.T, df dataframe.DataFrame, name string) []string {
	t.Helper()
	require.Contains(t, df.Names(), name)
	return df.Col(name).Records()
}

func (r inputRow) withSource(s string) inputRow {
	r.Source = s
	return r
}
