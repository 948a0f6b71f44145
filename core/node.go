package core

import (
	"io/fs"
	"path"
	"time"
)

// Node describes one filesystem entry.
//
// Nodes are immutable snapshots: a backend never retains or mutates a Node it
// has returned, and a Node may be shared freely between goroutines.
type Node struct {
	// Path is the normalized absolute path of the entry (see CleanPath).
	Path string

	// Size is the length of a file in bytes. Directories report 0.
	Size int64

	// IsDir reports whether the entry is a directory. Entries that are not
	// directories are regular files.
	IsDir bool

	// ModTime is the last modification time as reported by the backend.
	ModTime time.Time
}

// Name returns the final element of the node's path, or "/" for the root.
func (n Node) Name() string {
	return path.Base(n.Path)
}

// IsFile reports whether the node is a regular file.
func (n Node) IsFile() bool {
	return !n.IsDir
}

// NodeFromInfo builds a Node for the entry at p from an fs.FileInfo.
func NodeFromInfo(p string, info fs.FileInfo) Node {
	n := Node{
		Path:    CleanPath(p),
		IsDir:   info.IsDir(),
		ModTime: info.ModTime(),
	}
	if !n.IsDir && info.Size() > 0 {
		n.Size = info.Size()
	}
	return n
}
