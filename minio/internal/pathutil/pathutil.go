// Package pathutil maps backend paths onto MinIO/S3 object keys.
package pathutil

import (
	"path"
	"strings"
)

// NormalizePrefix normalizes a key prefix:
// - Converts backslashes to forward slashes
// - Resolves . and .. components
// - Removes leading and trailing slashes
// It returns the empty string for an empty or root prefix.
func NormalizePrefix(prefix string) string {
	prefix = strings.ReplaceAll(prefix, "\\", "/")
	prefix = strings.Trim(path.Clean("/"+prefix), "/")
	return prefix
}

// Key returns the object key for the absolute, clean path p under prefix.
// The root maps to the prefix itself.
func Key(prefix, p string) string {
	rel := strings.TrimPrefix(p, "/")
	switch {
	case rel == "":
		return prefix
	case prefix == "":
		return rel
	default:
		return prefix + "/" + rel
	}
}

// DirPrefix returns the listing prefix for the directory with key. The root
// of an unprefixed bucket lists with the empty prefix.
func DirPrefix(key string) string {
	if key == "" || strings.HasSuffix(key, "/") {
		return key
	}
	return key + "/"
}

// ChildName returns the name of a listed key relative to its directory's
// listing prefix, and whether the key is a common prefix (a subdirectory).
// It returns the empty name for the directory marker itself.
func ChildName(dirPrefix, key string) (string, bool) {
	rel := strings.TrimPrefix(key, dirPrefix)
	isDir := strings.HasSuffix(rel, "/")
	return strings.TrimSuffix(rel, "/"), isDir
}

// Ancestors returns the keys of every proper ancestor of key below prefix,
// nearest first. Ancestors("p", "p/a/b/c") returns ["p/a/b", "p/a"].
func Ancestors(prefix, key string) []string {
	var out []string
	for {
		i := strings.LastIndex(key, "/")
		if i < 0 {
			return out
		}
		key = key[:i]
		if key == prefix || key == "" {
			return out
		}
		out = append(out, key)
	}
}
