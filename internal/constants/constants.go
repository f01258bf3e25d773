package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "crabscore"

	// ConfigFileName is the default config file name
	ConfigFileName = "crabscore.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "CRABSCORE"
)

// Rust project layout
const (
	// SourceExtension is the extension of analyzed source files
	SourceExtension = ".rs"

	// ManifestFileName is the project manifest holding the dependency table
	ManifestFileName = "Cargo.toml"

	// BuildTool is the command used to build projects
	BuildTool = "cargo"

	// ExamplesDir holds example targets
	ExamplesDir = "examples"
)

// Report file names
const (
	ReportJSONFile = "crabscore_report.json"
	ReportHTMLFile = "crabscore_report.html"
	ReportCSRDFile = "report_csrd.json"
)

// Default external collaborator settings
const (
	DefaultCostFile      = "cost.json"
	DefaultDashboardPort = 8080
	DefaultHistoryFile   = ".crabscore/history.db"
)

// Default directories skipped while walking a project
var DefaultExcludePatterns = []string{"target", ".git"}
