package config

// Application constants
const (
	// Application Info
	AppName = "income-report"

	// EnvPrefix namespaces environment overrides, e.g. INCOME_INPUT_PATH.
	EnvPrefix = "INCOME"

	// Input / output
	DefaultInputPath  = "11100239.csv"
	DefaultOutputPath = "income_analysis.xlsx"
	DefaultDelimiter  = ','

	// Filter
	DefaultRegion  = "Ontario"
	DefaultMinYear = 2019

	// Statistic classification
	DefaultAveragePattern = "Average income"
	DefaultMedianPattern  = "Median income"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/income-report.log"
)

// ConfigFileLocations are searched in order when no config file is given.
var ConfigFileLocations = []string{
	"income.yaml",
	"configs/income.yaml",
}
