package ir

// Version constants for the record format and engine.
const (
	// RecordVersion is the record schema version written by sinks.
	RecordVersion = "1"

	// EngineVersion is the emit engine version.
	EngineVersion = "0.1.0"
)
