package domain

// Source column names as published in the StatCan 11-10-0239 extract.
const (
	SourceYearColumn   = "REF_DATE"
	SourceRegionColumn = "GEO"
	SourceIncomeColumn = "VALUE"
)

// Canonical column names used after cleaning.
const (
	ColumnYear         = "Year"
	ColumnRegion       = "Region"
	ColumnAgeGroup     = "Age group"
	ColumnSex          = "Sex"
	ColumnIncomeSource = "Income source"
	ColumnStatistics   = "Statistics"
	ColumnScalarFactor = "SCALAR_FACTOR"
	ColumnIncome       = "Income"
)

// ColumnRenames maps source column names to their canonical names.
var ColumnRenames = []struct {
	From string
	To   string
}{
	{From: SourceYearColumn, To: ColumnYear},
	{From: SourceRegionColumn, To: ColumnRegion},
	{From: SourceIncomeColumn, To: ColumnIncome},
}

// ProjectedColumns is the column set kept after filtering, in output order.
var ProjectedColumns = []string{
	ColumnYear,
	ColumnRegion,
	ColumnAgeGroup,
	ColumnSex,
	ColumnIncomeSource,
	ColumnStatistics,
	ColumnScalarFactor,
	ColumnIncome,
}

// PivotIndex is the row key of the pivoted tables.
var PivotIndex = []string{ColumnYear, ColumnSex, ColumnAgeGroup}

// DefaultGovernmentTransferSources lists the income sources summed into the
// government transfer trend.
var DefaultGovernmentTransferSources = []string{
	"COVID-19 benefits",
	"Canada Pension Plan (CPP) and Quebec Pension Plan (QPP) benefits",
	"Child benefits",
	"Employment Insurance (EI) benefits",
	"Government transfers",
	"Old Age Security (OAS) and Guaranteed Income Supplement (GIS)",
	"Other government transfers",
	"Social assistance",
}
