// Package validate checks archive entry names before they are admitted into
// an archive index. It rejects names that escape the archive root or that
// carry characters no backend path can represent.
package validate

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"github.com/jmgilman/go/vfs/errors"
)

// EntryValidator validates archive entry names.
type EntryValidator struct {
	// AllowHiddenFiles determines whether entries with a component starting
	// with "." are admitted.
	AllowHiddenFiles bool
}

// NewEntryValidator creates an EntryValidator that admits hidden files.
func NewEntryValidator() *EntryValidator {
	return &EntryValidator{AllowHiddenFiles: true}
}

// Normalize validates name and returns it as an absolute slash path.
// A leading "./" and a trailing "/" are accepted and stripped.
func (v *EntryValidator) Normalize(name string) (string, error) {
	if err := v.ValidatePath(name); err != nil {
		return "", err
	}
	trimmed := strings.TrimPrefix(name, "./")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" || trimmed == "." {
		return "/", nil
	}
	return "/" + path.Clean(trimmed), nil
}

// ValidatePath returns an INVALID_INPUT error when name is unsafe.
func (v *EntryValidator) ValidatePath(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid(name, "empty entry name")
	}
	if isAbsolutePath(name) {
		return invalid(name, "absolute entry name")
	}
	if hasEncodedTraversal(name) {
		return invalid(name, "encoded path traversal")
	}
	if containsTraversal(name) {
		return invalid(name, "path traversal")
	}
	if err := detectProblematicCharacters(name); err != nil {
		return err
	}
	if !v.AllowHiddenFiles && isHidden(name) {
		return invalid(name, "hidden entry not allowed")
	}
	return nil
}

// IsPathSafe reports whether name passes ValidatePath.
func (v *EntryValidator) IsPathSafe(name string) bool {
	return v.ValidatePath(name) == nil
}

func invalid(name, msg string) error {
	return errors.PathError(errors.CodeInvalidInput, "index", name, msg)
}

func hasEncodedTraversal(name string) bool {
	lower := strings.ToLower(name)
	for _, variant := range []string{
		"..%2f", "..%5c",
		"%2e%2e%2f", "%2e%2e%5c",
		"%2e%2e/", "%2e%2e\\",
		"..%c0%af", "..%c1%9c",
	} {
		if strings.Contains(lower, variant) {
			return true
		}
	}
	return false
}

// containsTraversal reports a ".." component under either separator.
func containsTraversal(name string) bool {
	if !strings.Contains(name, "..") {
		return false
	}
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return true
		}
	}
	return false
}

func detectProblematicCharacters(name string) error {
	for _, r := range name {
		if r == 0 {
			return invalid(name, "NUL byte in entry name")
		}
		if r == '\\' {
			return invalid(name, "backslash in entry name")
		}
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return invalid(name, fmt.Sprintf("control character U+%04X in entry name", r))
		}
	}
	return nil
}

func isHidden(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// isAbsolutePath detects Unix, Windows drive and UNC absolute paths.
func isAbsolutePath(name string) bool {
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\\\") {
		return true
	}
	if len(name) >= 3 && name[1] == ':' && (name[2] == '\\' || name[2] == '/') {
		drive := name[0]
		return (drive >= 'A' && drive <= 'Z') || (drive >= 'a' && drive <= 'z')
	}
	return false
}
