package ir

// Version constants for the symbol-table format and the tool.
const (
	// SchemaVersion is the symbol-table record schema version. It changes
	// whenever a field is added, renamed or re-encoded.
	SchemaVersion = "1"

	// ToolVersion is the owlsym release version.
	ToolVersion = "0.1.0"
)
