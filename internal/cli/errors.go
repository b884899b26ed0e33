package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// Catalogue errors
	ErrCatalogInvalid  = "CATALOG_INVALID"
	ErrCatalogNotFound = "CATALOG_NOT_FOUND"
	ErrCommandNotFound = "COMMAND_NOT_FOUND"
	ErrExampleMismatch = "EXAMPLE_MISMATCH"

	// Resolution errors
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrChainFailed      = "CHAIN_FAILED"
	ErrRiskThreshold    = "RISK_THRESHOLD"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileExists     = "FILE_EXISTS"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Search index errors
	ErrDatabaseError = "DATABASE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal             = "INTERNAL_ERROR"
	ErrConfirmationRequired = "CONFIRMATION_REQUIRED"
)

// Warning codes for non-fatal issues.
const (
	WarnArgument     = "ARGUMENT_WARNING"
	WarnRisk         = "RISK_SEVERITY"
	WarnIndexRebuilt = "INDEX_REBUILT"
)

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
	ExitRisk       = 3
)

// exitCodeFor maps an error code to a process exit status.
func exitCodeFor(code string) int {
	switch code {
	case ErrValidationFailed, ErrChainFailed, ErrCommandNotFound:
		return ExitValidation
	case ErrRiskThreshold:
		return ExitRisk
	default:
		return ExitFailure
	}
}
