// Package constants provides shared constants for the city-budget application.
package constants

// Ledger file constants
const (
	// DefaultDelimiter separates fields in the expense and revenue files.
	DefaultDelimiter = ";"

	// LevelColumn holds the hierarchy depth of a row.
	LevelColumn = "level"

	// Level1Column holds the department or category display name.
	Level1Column = "level1"

	// TotalSuffix is appended to department names in the source files.
	TotalSuffix = " Total"

	// GrandTotalLevel is the level of the single grand total row.
	GrandTotalLevel = 0

	// DepartmentLevel is the level of the per-department total rows.
	DepartmentLevel = 1
)

// Ledger names
const (
	// ExpenseLedger names the expense ledger and its chart series.
	ExpenseLedger = "Expense"

	// RevenueLedger names the revenue ledger and its chart series.
	RevenueLedger = "Revenue"
)

// Chart presentation constants
const (
	// AmountAxisTitle labels axes carrying unscaled currency amounts.
	AmountAxisTitle = "USD"

	// YearAxisTitle labels axes carrying fiscal years.
	YearAxisTitle = "Fiscal Year"

	// PieHole is the donut hole size of split charts.
	PieHole = 0.4

	// BarGap is the gap between bar groups of the trend chart.
	BarGap = 0.15

	// BarGroupGap is the gap between bars within a group of the trend chart.
	BarGroupGap = 0.1
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON emits the chart spec unmodified.
	OutputFormatJSON = "json"

	// OutputFormatHTML is a standalone page that renders the chart.
	OutputFormatHTML = "html"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. CITYBUDGET_DATA_EXPENSEFILE.
	EnvPrefix = "CITYBUDGET"

	// DefaultExpenseFile is the default location of the expense ledger.
	DefaultExpenseFile = "data/city-expenses-2005-2017.csv"

	// DefaultRevenueFile is the default location of the revenue ledger.
	DefaultRevenueFile = "data/city-revenues-2005-2017.csv"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8050"

	// DefaultReadTimeout bounds how long a request may take to arrive.
	DefaultReadTimeout = "10s"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "5s"
)

// Validation constants
const (
	// ReconciliationTolerance is the allowed gap between the grand total and the
	// sum of department totals before a warning is raised.
	ReconciliationTolerance = 1.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
