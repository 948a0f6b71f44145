package errors

// Error extends the standard error interface with the structured fields
// every filesystem failure carries.
type Error interface {
	error

	// Code returns the taxonomy code identifying the kind of failure.
	Code() ErrorCode

	// Op returns the operation that failed (e.g. "stat", "readdir").
	// Empty if the error was not attributed to an operation.
	Op() string

	// Path returns the normalized path the operation was acting on.
	// Empty if the error was not attributed to a path.
	Path() string

	// Classification returns whether the error is retryable or permanent.
	Classification() ErrorClassification

	// Message returns the human-readable error message.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped error for errors.Is and errors.As compatibility.
	Unwrap() error
}
