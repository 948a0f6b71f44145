package errors

import "errors"

// asError returns err as an Error, converting foreign errors to CodeUnknown.
func asError(err error) Error {
	var vErr Error
	if errors.As(err, &vErr) {
		return vErr
	}
	return &vfsError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}

// clone copies the fields of an Error into a new vfsError.
func clone(vErr Error) *vfsError {
	return &vfsError{
		code:           vErr.Code(),
		classification: vErr.Classification(),
		op:             vErr.Op(),
		path:           vErr.Path(),
		message:        vErr.Message(),
		context:        vErr.Context(),
		cause:          vErr.Unwrap(),
	}
}

// WithContext adds a single context field to an error.
// Returns a new Error with the context field added; existing fields are preserved.
//
// If err is not an Error, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "scheme", "s3")
func WithContext(err error, key string, value interface{}) Error {
	if err == nil {
		return nil
	}

	out := clone(asError(err))
	if out.context == nil {
		out.context = make(map[string]interface{}, 1)
	}
	out.context[key] = value
	return out
}

// WithContextMap adds multiple context fields to an error.
// New fields override existing ones with the same key.
//
// Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]interface{}) Error {
	if err == nil {
		return nil
	}

	out := clone(asError(err))
	if out.context == nil {
		out.context = make(map[string]interface{}, len(ctx))
	}
	for k, v := range ctx {
		out.context[k] = v
	}
	return out
}

// WithPath attributes an error to an operation and path.
// Returns nil if err is nil.
//
// Example:
//
//	return errors.WithPath(ErrNoSuchFile, "stat", "/missing")
func WithPath(err error, op, path string) Error {
	if err == nil {
		return nil
	}

	out := clone(asError(err))
	out.op = op
	out.path = path
	return out
}
