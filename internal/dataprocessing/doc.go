// Package dataprocessing turns the StatCan income extract (table
// 11-10-0239) into the tables of the income report.
//
// Every step takes and returns gota frames and never mutates its input:
//
//	Load → Clean → ApplyFilter → Reshape (Split, Pivot, Aggregate,
//	GovernmentTransfers) → Report
//
// Load reads every column as a string. Clean drops exact duplicate rows,
// renames REF_DATE, GEO and VALUE to Year, Region and Income, fills missing
// income with zero and coerces Year to int and Income to float.
// ApplyFilter keeps one region from a minimum year on, minus the excluded
// sexes and age groups, and projects to domain.ProjectedColumns.
//
// Reshape classifies each row's Statistics value as average, median or
// other, pivots both partitions over (Year, Sex, Age group) with one column
// per income source, and aggregates the pivots:
//
//	report, err := dataprocessing.Reshape(filtered, dataprocessing.ReshapeOptions{
//	    Classifier:                dataprocessing.NewClassifier("Average income", "Median income"),
//	    Policy:                    domain.ConflictMean,
//	    GovernmentTransferSources: domain.DefaultGovernmentTransferSources,
//	})
//
// Missing pivot cells are NaN. Mean and median skip NaN; the government
// transfer sum counts NaN as zero.
//
// # Errors
//
// Failures are *errors.AppError values tagged with the stage that raised
// them: SCHEMA for a missing column, COERCION for an unparseable Year or
// Income (with the 1-based row and raw value), CONFLICT when the pivot
// policy forbids duplicate cells and VALIDATION when Report.Validate finds
// inconsistent tables.
package dataprocessing
