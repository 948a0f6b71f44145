package core

import (
	"path"
	"strings"
)

// RootPath is the normalized path of a backend's root directory.
const RootPath = "/"

// CleanPath normalizes a path the way every backend must before acting on
// it: backslashes become forward slashes, the path is made absolute, "." and
// ".." segments are resolved lexically (never above the root) and trailing
// slashes are removed. The empty path is the root.
func CleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return path.Clean(RootPath + p)
}

// JoinPath joins a directory path and a child name into a normalized path.
func JoinPath(dir, name string) string {
	return CleanPath(dir + "/" + name)
}

// ParentPath returns the normalized parent directory of p.
// The parent of the root is the root.
func ParentPath(p string) string {
	return path.Dir(CleanPath(p))
}

// RelativePath returns the normalized path without its leading slash.
// The root maps to the empty string. Backends that address entries by
// relative keys (object stores, archive members) use it.
func RelativePath(p string) string {
	return strings.TrimPrefix(CleanPath(p), RootPath)
}
