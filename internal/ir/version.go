package ir

// Version constants for the scenario schema and engine.
const (
	// SchemaVersion is the scenario document schema version.
	SchemaVersion = "1"

	// EngineVersion is the siglist engine version.
	EngineVersion = "0.1.0"
)
