package cli

import (
	"errors"

	"github.com/roach88/emit/internal/ir"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeInvalidFlag = "E002" // Malformed flag value
	ErrCodeConfig      = "E003" // Config load or sink open failed
	ErrCodeStore       = "E004" // Store read failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error

	// Record construction errors, one per ir.ErrorKind.
	ErrCodeParse          = "E101" // Malformed template or declaration
	ErrCodeConflict       = "E102" // Hole and extra field both supply a value
	ErrCodeUnresolvedHole = "E103" // Hole with no value source
	ErrCodeDuplicateKey   = "E104" // Two fields share a name
	ErrCodeCapture        = "E105" // Value not capturable by its strategy
)

// MapKindToErrorCode maps a record construction error kind to an error code.
func MapKindToErrorCode(kind ir.ErrorKind) string {
	switch kind {
	case ir.ErrParse:
		return ErrCodeParse
	case ir.ErrConflict:
		return ErrCodeConflict
	case ir.ErrUnresolvedHole:
		return ErrCodeUnresolvedHole
	case ir.ErrDuplicateKey:
		return ErrCodeDuplicateKey
	case ir.ErrCapture:
		return ErrCodeCapture
	default:
		return ErrCodeGeneric
	}
}

// pipelineDetails returns the structured parts of a record construction
// error for JSON output, or nil.
func pipelineDetails(err error) map[string]any {
	var e *ir.Error
	if !errors.As(err, &e) {
		return nil
	}
	details := map[string]any{"kind": string(e.Kind)}
	if e.Name != "" {
		details["field"] = e.Name
	}
	if e.Offset >= 0 {
		details["offset"] = e.Offset
	}
	return details
}

// failPipeline reports a record construction error. These are input errors,
// so they exit with ExitFailure.
func failPipeline(f *OutputFormatter, err error) error {
	return f.Fail(ExitFailure, MapKindToErrorCode(ir.KindOf(err)), err.Error(), pipelineDetails(err))
}
