package errors

// ErrorCode represents a specific filesystem error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Lookup errors.

	// CodeNoSuchFile indicates the requested path does not exist.
	CodeNoSuchFile ErrorCode = "NO_SUCH_FILE"

	// CodeNoSuchDirectory indicates a listing target does not exist or is
	// not a directory.
	CodeNoSuchDirectory ErrorCode = "NO_SUCH_DIRECTORY"

	// CodeIsADirectory indicates a file operation was applied to a directory.
	CodeIsADirectory ErrorCode = "IS_A_DIRECTORY"

	// CodeNotADirectory indicates a directory operation was applied to a file.
	CodeNotADirectory ErrorCode = "NOT_A_DIRECTORY"

	// Contract errors.

	// CodeUnsupported indicates the backend does not implement the capability.
	CodeUnsupported ErrorCode = "UNSUPPORTED"

	// CodeNotReady indicates the backend has not finished initializing and
	// its pre-readiness policy rejected the call.
	CodeNotReady ErrorCode = "NOT_READY"

	// CodeClosed indicates the backend has been closed or failed to initialize.
	CodeClosed ErrorCode = "CLOSED"

	// Transport errors.

	// CodeIOFailure indicates a backend-specific transport or media error.
	CodeIOFailure ErrorCode = "IO_FAILURE"

	// Write-side errors.

	// CodeConflict indicates the target already exists or is in a state
	// that prevents the write.
	CodeConflict ErrorCode = "CONFLICT"

	// CodeNotWritable indicates the target cannot be written.
	CodeNotWritable ErrorCode = "NOT_WRITABLE"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a backend configuration error.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
