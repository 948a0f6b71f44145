// Package errs translates MinIO client errors into the vfs error taxonomy.
package errs

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/go/vfs/errors"
)

// Translate converts a MinIO error for op on name into a vfs error.
// Errors already in the taxonomy pass through unchanged.
func Translate(err error, op, name string) error {
	if err == nil {
		return nil
	}
	var vErr errors.Error
	if errors.As(err, &vErr) {
		return err
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.WrapPath(err, errors.CodeIOFailure, op, name, "request cancelled")
	}

	resp := minio.ToErrorResponse(err)
	var wrapped errors.Error
	switch {
	case resp.Code == "NoSuchKey":
		wrapped = errors.WrapPath(err, errors.CodeNoSuchFile, op, name, "no such file")
	case resp.Code == "NoSuchBucket":
		wrapped = errors.WrapPath(err, errors.CodeNoSuchDirectory, op, name, "no such bucket")
	case resp.Code == "AccessDenied":
		wrapped = errors.WrapPath(err, errors.CodeNotWritable, op, name, "access denied")
	case resp.StatusCode == http.StatusNotFound:
		wrapped = errors.WrapPath(err, errors.CodeNoSuchFile, op, name, "not found")
	default:
		wrapped = errors.WrapPath(err, errors.CodeIOFailure, op, name, "minio request failed")
	}
	if resp.Code != "" {
		wrapped = errors.WithContext(wrapped, "s3_code", resp.Code)
	}
	return wrapped
}

// IsNotFound reports whether err names a missing key.
func IsNotFound(err error) bool {
	if errors.GetCode(err) == errors.CodeNoSuchFile {
		return true
	}
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || (resp.Code == "" && resp.StatusCode == http.StatusNotFound)
}
