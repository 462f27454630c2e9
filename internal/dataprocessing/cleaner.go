package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/zeebo/xxh3"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

// MissingTokens are the cell values read as a missing income, besides the
// empty string.
var MissingTokens = []string{
	"NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
	"null", "NULL", "None", "<NA>", "#N/A",
}

// CleanResult is the cleaned frame plus what cleaning changed.
type CleanResult struct {
	Frame             dataframe.DataFrame
	DuplicatesRemoved int
	IncomeFilled      int
}

// Clean removes exact duplicate rows, renames the source columns, fills
// missing income with zero and coerces Year, Income, Age group and Sex.
func Clean(df dataframe.DataFrame) (CleanResult, error) {
	deduped, kept := deduplicate(df)
	removed := df.Nrow() - len(kept)

	// Coercion errors report the row number in the loaded file.
	rowOf := func(i int) int { return kept[i] + 1 }

	renamed := deduped
	for _, r := range domain.ColumnRenames {
		if hasColumn(renamed, r.From) {
			renamed = renamed.Rename(r.To, r.From)
		}
	}
	if renamed.Err != nil {
		return CleanResult{}, errors.NewAppError(errors.ErrTypeSchema, "cannot rename columns", renamed.Err).
			WithStage(domain.StageClean)
	}

	if err := requireColumns(renamed, domain.StageClean,
		domain.ColumnYear, domain.ColumnIncome, domain.ColumnAgeGroup, domain.ColumnSex); err != nil {
		return CleanResult{}, err
	}

	years, err := coerceYears(renamed.Col(domain.ColumnYear).Records(), rowOf)
	if err != nil {
		return CleanResult{}, err
	}

	incomes, filled, err := coerceIncome(renamed.Col(domain.ColumnIncome).Records(), rowOf)
	if err != nil {
		return CleanResult{}, err
	}

	out := renamed.
		Mutate(series.New(years, series.Int, domain.ColumnYear)).
		Mutate(series.New(incomes, series.Float, domain.ColumnIncome)).
		Mutate(series.New(renamed.Col(domain.ColumnAgeGroup).Records(), series.String, domain.ColumnAgeGroup)).
		Mutate(series.New(renamed.Col(domain.ColumnSex).Records(), series.String, domain.ColumnSex))
	if out.Err != nil {
		return CleanResult{}, errors.NewAppError(errors.ErrTypeCoercion, "cannot replace coerced columns", out.Err).
			WithStage(domain.StageClean)
	}

	return CleanResult{
		Frame:             out,
		DuplicatesRemoved: removed,
		IncomeFilled:      filled,
	}, nil
}

// Deduplicate drops every row equal on all columns to an earlier row and
// reports how many were dropped. Row order is preserved.
func Deduplicate(df dataframe.DataFrame) (dataframe.DataFrame, int) {
	out, kept := deduplicate(df)
	return out, df.Nrow() - len(kept)
}

// deduplicate also returns the input index of every kept row.
func deduplicate(df dataframe.DataFrame) (dataframe.DataFrame, []int) {
	n := df.Nrow()
	if n < 2 {
		keep := make([]int, n)
		for i := range keep {
			keep[i] = i
		}
		return df, keep
	}

	rows := df.Records()[1:]
	buckets := make(map[uint64][]int, len(rows))
	keep := make([]int, 0, len(rows))

	for i, row := range rows {
		h := hashRecord(row)
		duplicate := false
		for _, j := range buckets[h] {
			if equalRecords(rows[j], row) {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}
		buckets[h] = append(buckets[h], i)
		keep = append(keep, i)
	}

	return subsetRows(df, keep), keep
}

func hashRecord(row []string) uint64 {
	h := xxh3.New()
	var sep [1]byte
	for _, field := range row {
		h.WriteString(field)
		h.Write(sep[:])
	}
	return h.Sum64()
}

func equalRecords(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isMissing reports whether a raw cell stands for a missing value.
func isMissing(raw string) bool {
	if raw == "" {
		return true
	}
	for _, token := range MissingTokens {
		if raw == token {
			return true
		}
	}
	return false
}

// coerceYears parses Year cells. Integral float literals such as "2019.0"
// are accepted.
func coerceYears(raw []string, rowOf func(int) int) ([]int, error) {
	years := make([]int, len(raw))
	for i, cell := range raw {
		v := strings.TrimSpace(cell)
		year, err := strconv.Atoi(v)
		if err != nil {
			f, ferr := strconv.ParseFloat(v, 64)
			if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
				return nil, errors.NewCoercionError(domain.StageClean, domain.ColumnYear, rowOf(i), cell, err)
			}
			year = int(f)
		}
		years[i] = year
	}
	return years, nil
}

// coerceIncome parses Income cells, replacing missing values with zero.
func coerceIncome(raw []string, rowOf func(int) int) ([]float64, int, error) {
	incomes := make([]float64, len(raw))
	filled := 0
	for i, cell := range raw {
		v := strings.TrimSpace(cell)
		if isMissing(v) {
			filled++
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, 0, errors.NewCoercionError(domain.StageClean, domain.ColumnIncome, rowOf(i), cell, err)
		}
		incomes[i] = f
	}
	return incomes, filled, nil
}
