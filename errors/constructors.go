package errors

import "fmt"

// New creates a new Error with the given code and message.
// The classification is determined by the error code.
//
// Example:
//
//	err := errors.New(errors.CodeNoSuchFile, "no such file")
func New(code ErrorCode, message string) Error {
	return &vfsError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a new Error with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidInput, "unknown sort key %q", key)
func Newf(code ErrorCode, format string, args ...interface{}) Error {
	return New(code, fmt.Sprintf(format, args...))
}

// PathError creates a new Error attributed to an operation and path.
//
// Example:
//
//	return errors.PathError(errors.CodeIsADirectory, "readfile", "/lib", "is a directory")
func PathError(code ErrorCode, op, path, message string) Error {
	return &vfsError{
		code:           code,
		classification: getDefaultClassification(code),
		op:             op,
		path:           path,
		message:        message,
	}
}
