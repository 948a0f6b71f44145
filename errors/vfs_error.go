package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
)

// vfsError is the concrete implementation of Error.
// It is private to enforce construction through package functions.
type vfsError struct {
	code           ErrorCode
	classification ErrorClassification
	op             string
	path           string
	message        string
	context        map[string]interface{}
	cause          error
}

// Error returns the string representation of the error.
// Format: "[CODE] op path: message: cause", omitting empty parts.
func (e *vfsError) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.code))
	b.WriteString("] ")
	if e.op != "" {
		b.WriteString(e.op)
		b.WriteString(" ")
	}
	if e.path != "" {
		b.WriteString(e.path)
		b.WriteString(": ")
	} else if e.op != "" {
		b.WriteString(": ")
	}
	b.WriteString(e.message)
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

// Code returns the error code.
func (e *vfsError) Code() ErrorCode { return e.code }

// Op returns the failed operation.
func (e *vfsError) Op() string { return e.op }

// Path returns the path the operation was acting on.
func (e *vfsError) Path() string { return e.path }

// Classification returns the error classification.
func (e *vfsError) Classification() ErrorClassification { return e.classification }

// Message returns the error message.
func (e *vfsError) Message() string { return e.message }

// Context returns a copy of the context map, or nil if none was attached.
func (e *vfsError) Context() map[string]interface{} {
	return copyContext(e.context)
}

// Unwrap returns the wrapped error for standard library compatibility.
func (e *vfsError) Unwrap() error { return e.cause }

// Is matches errors of the same code and the io/fs sentinel equivalent of
// the code. It lets a code sentinel stand in for every error of that kind.
func (e *vfsError) Is(target error) bool {
	if other, ok := target.(*vfsError); ok {
		return other.code == e.code
	}
	switch e.code {
	case CodeNoSuchFile, CodeNoSuchDirectory:
		return target == fs.ErrNotExist
	case CodeConflict:
		return target == fs.ErrExist
	case CodeNotWritable:
		return target == fs.ErrPermission
	case CodeClosed:
		return target == fs.ErrClosed
	case CodeUnsupported:
		return target == stderrors.ErrUnsupported
	case CodeInvalidInput:
		return target == fs.ErrInvalid
	}
	return false
}

func copyContext(ctx map[string]interface{}) map[string]interface{} {
	if ctx == nil {
		return nil
	}
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
