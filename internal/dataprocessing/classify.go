package dataprocessing

import (
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"incomecli/pkg/contracts/domain"
)

// Classifier assigns each Statistics value to exactly one StatisticKind.
type Classifier struct {
	AveragePattern string
	MedianPattern  string
}

// NewClassifier creates a classifier matching the given substrings.
func NewClassifier(averagePattern, medianPattern string) Classifier {
	return Classifier{AveragePattern: averagePattern, MedianPattern: medianPattern}
}

// Classify returns the kind of a Statistics value. A value containing both
// patterns is ambiguous and classified as StatisticOther.
func (c Classifier) Classify(statistic string) domain.StatisticKind {
	avg := c.AveragePattern != "" && strings.Contains(statistic, c.AveragePattern)
	med := c.MedianPattern != "" && strings.Contains(statistic, c.MedianPattern)
	switch {
	case avg && !med:
		return domain.StatisticAverage
	case med && !avg:
		return domain.StatisticMedian
	default:
		return domain.StatisticOther
	}
}

// Ambiguous reports whether statistic matches both patterns.
func (c Classifier) Ambiguous(statistic string) bool {
	return c.AveragePattern != "" && c.MedianPattern != "" &&
		strings.Contains(statistic, c.AveragePattern) &&
		strings.Contains(statistic, c.MedianPattern)
}

// DroppedStatistic counts rows of one Statistics value that were neither
// average nor median.
type DroppedStatistic struct {
	Statistic string
	Rows      int
	Ambiguous bool
}

// SplitResult holds the average and median partitions of a frame.
type SplitResult struct {
	Average dataframe.DataFrame
	Median  dataframe.DataFrame
	// Dropped is sorted by Statistic.
	Dropped []DroppedStatistic
}

// DroppedRows returns the total number of rows in Dropped.
func (r SplitResult) DroppedRows() int {
	total := 0
	for _, d := range r.Dropped {
		total += d.Rows
	}
	return total
}

// Split partitions df by classifying its Statistics column. Rows classified
// as StatisticOther are dropped and counted.
func Split(df dataframe.DataFrame, c Classifier) (SplitResult, error) {
	if err := requireColumns(df, domain.StageReshape, domain.ColumnStatistics); err != nil {
		return SplitResult{}, err
	}

	var avgIdx, medIdx []int
	dropped := make(map[string]*DroppedStatistic)

	for i, stat := range df.Col(domain.ColumnStatistics).Records() {
		switch c.Classify(stat) {
		case domain.StatisticAverage:
			avgIdx = append(avgIdx, i)
		case domain.StatisticMedian:
			medIdx = append(medIdx, i)
		default:
			d, ok := dropped[stat]
			if !ok {
				d = &DroppedStatistic{Statistic: stat, Ambiguous: c.Ambiguous(stat)}
				dropped[stat] = d
			}
			d.Rows++
		}
	}

	result := SplitResult{
		Average: subsetRows(df, avgIdx),
		Median:  subsetRows(df, medIdx),
		Dropped: make([]DroppedStatistic, 0, len(dropped)),
	}
	for _, d := range dropped {
		result.Dropped = append(result.Dropped, *d)
	}
	sort.Slice(result.Dropped, func(i, j int) bool {
		return result.Dropped[i].Statistic < result.Dropped[j].Statistic
	})

	return result, nil
}
