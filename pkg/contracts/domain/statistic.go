package domain

import "fmt"

// StatisticKind classifies the Statistics field of an input row.
type StatisticKind string

const (
	StatisticAverage StatisticKind = "average"
	StatisticMedian  StatisticKind = "median"
	StatisticOther   StatisticKind = "other"
)

// ConflictPolicy decides how the pivot collapses several rows that land on
// the same (key, income source) cell.
type ConflictPolicy string

const (
	ConflictMean  ConflictPolicy = "mean"
	ConflictFirst ConflictPolicy = "first"
	ConflictLast  ConflictPolicy = "last"
	ConflictError ConflictPolicy = "error"
)

// ParseConflictPolicy converts a configuration string to a ConflictPolicy.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(s); p {
	case ConflictMean, ConflictFirst, ConflictLast, ConflictError:
		return p, nil
	case "":
		return ConflictMean, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q", s)
	}
}

// AggregateFunc names the function used to collapse a group of values.
type AggregateFunc string

const (
	AggregateMean   AggregateFunc = "mean"
	AggregateMedian AggregateFunc = "median"
	AggregateSum    AggregateFunc = "sum"
)
