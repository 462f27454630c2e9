// Package config provides configuration management for the income report.
// It loads configuration from multiple sources, validates it, and exposes
// typed values for every constant the pipeline depends on: file paths, the
// row filter, statistic classification patterns, the pivot conflict policy
// and the government transfer source list.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags applied by the caller (highest priority)
//	2. Environment variables (INCOME_*)
//	3. YAML configuration file
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// Environment variables are namespaced with INCOME_ and follow the nesting
// of the Config struct:
//
//	INCOME_INPUT_PATH=data/11100239.csv
//	INCOME_OUTPUT_PATH=out/income_analysis.xlsx
//	INCOME_FILTER_MIN_YEAR=2020
//	INCOME_FILTER_EXCLUDED_AGE_GROUPS="15 years and over,25 to 54 years"
//	INCOME_RESHAPE_CONFLICT_POLICY=error
//	INCOME_LOGGING_LEVEL=debug
//
// # Validation
//
// Load validates the merged configuration with struct tags and returns a
// CONFIG error naming every invalid field.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
