package core

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/jmgilman/go/vfs/errors"
)

// SortKey selects the node attribute GetDir sorts by.
type SortKey int

const (
	// SortNone keeps ReadDir order.
	SortNone SortKey = iota
	// SortByPath orders by full path.
	SortByPath
	// SortByName orders by base name.
	SortByName
	// SortBySize orders by size in bytes.
	SortBySize
	// SortByMtime orders by modification time.
	SortByMtime
	// SortByKind orders directories before files.
	SortByKind
)

// String returns the key's name as accepted by ParseSortKey.
func (k SortKey) String() string {
	switch k {
	case SortNone:
		return "none"
	case SortByPath:
		return "path"
	case SortByName:
		return "name"
	case SortBySize:
		return "size"
	case SortByMtime:
		return "mtime"
	case SortByKind:
		return "kind"
	default:
		return "unknown"
	}
}

// ParseSortKey parses a sort key name. The empty string and "none" select
// SortNone.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "path":
		return SortByPath, nil
	case "name":
		return SortByName, nil
	case "size":
		return SortBySize, nil
	case "mtime", "modtime":
		return SortByMtime, nil
	case "kind", "type":
		return SortByKind, nil
	default:
		return SortNone, errors.Newf(errors.CodeInvalidInput, "unknown sort key %q", s)
	}
}

// SortDirection is the order GetDir sorts in.
type SortDirection int

const (
	// Ascending sorts from smallest to largest.
	Ascending SortDirection = 1
	// Descending sorts from largest to smallest.
	Descending SortDirection = -1
)

// GetDirOptions controls GetDir.
type GetDirOptions struct {
	// SortBy is the attribute to sort by. SortNone keeps ReadDir order.
	SortBy SortKey

	// SortDir is the direction. The zero value means Ascending.
	SortDir SortDirection
}

var comparators = map[SortKey]func(a, b Node) int{
	SortByPath: func(a, b Node) int {
		return strings.Compare(a.Path, b.Path)
	},
	SortByName: func(a, b Node) int {
		return strings.Compare(a.Name(), b.Name())
	},
	SortBySize: func(a, b Node) int {
		return cmp.Compare(a.Size, b.Size)
	},
	SortByMtime: func(a, b Node) int {
		return a.ModTime.Compare(b.ModTime)
	},
	SortByKind: func(a, b Node) int {
		// Directories first.
		switch {
		case a.IsDir == b.IsDir:
			return 0
		case a.IsDir:
			return -1
		default:
			return 1
		}
	},
}

// SortNodes sorts nodes in place by key and direction. The sort is stable in
// both directions: nodes that compare equal keep their relative order.
func SortNodes(nodes []Node, key SortKey, dir SortDirection) error {
	if dir == 0 {
		dir = Ascending
	}
	if dir != Ascending && dir != Descending {
		return errors.Newf(errors.CodeInvalidInput, "invalid sort direction %d", dir)
	}
	if key == SortNone {
		return nil
	}
	compare, ok := comparators[key]
	if !ok {
		return errors.Newf(errors.CodeInvalidInput, "invalid sort key %d", key)
	}

	slices.SortStableFunc(nodes, func(a, b Node) int {
		return int(dir) * compare(a, b)
	})
	return nil
}

// GetDir lists the directory at name like ReadDir and sorts the result as
// requested. With nil options the result is identical to ReadDir.
//
// A missing path or a path that is not a directory yields NO_SUCH_DIRECTORY
// wrapping the backend's error. Other failures are returned unchanged.
func GetDir(ctx context.Context, b Backend, name string, opts *GetDirOptions) ([]Node, error) {
	if !Supports(b, CapGetDir) {
		return nil, Unsupported(b.Scheme(), CapGetDir)
	}
	if opts == nil {
		opts = &GetDirOptions{}
	}

	nodes, err := b.ReadDir(ctx, name)
	if err != nil {
		switch errors.GetCode(err) {
		case errors.CodeNoSuchFile, errors.CodeNotADirectory:
			return nil, errors.WrapPath(err, errors.CodeNoSuchDirectory, "getdir", CleanPath(name), "not a directory")
		default:
			return nil, err
		}
	}

	if err := SortNodes(nodes, opts.SortBy, opts.SortDir); err != nil {
		return nil, errors.WithPath(err, "getdir", CleanPath(name))
	}
	return nodes, nil
}
