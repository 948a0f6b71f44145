package archive

import (
	"bytes"
	"io"
	"slices"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/jmgilman/go/vfs/archive/internal/validate"
	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

// Limits bounds what an archive may contain. Zero disables a limit.
type Limits struct {
	// MaxFiles is the maximum number of file entries.
	MaxFiles int
	// MaxSize is the maximum total uncompressed size of all files.
	MaxSize int64
	// MaxFileSize is the maximum uncompressed size of a single file.
	MaxFileSize int64
}

// DefaultLimits guards against archive bombs while admitting ordinary
// bundles.
var DefaultLimits = Limits{
	MaxFiles:    10000,
	MaxSize:     1 * 1024 * 1024 * 1024, // 1GB
	MaxFileSize: 100 * 1024 * 1024,      // 100MB
}

type entry struct {
	node core.Node

	// Exactly one of data and zf backs a file entry.
	data []byte
	zf   *zip.File
}

// index is the immutable tree built at Init.
type index struct {
	limits    Limits
	validator *validate.EntryValidator
	// dirTime stamps synthesised directories.
	dirTime time.Time

	entries  map[string]*entry
	children map[string][]string
	files    int
	size     int64
	skipped  int
}

func newIndex(limits Limits, dirTime time.Time) *index {
	ix := &index{
		limits:    limits,
		validator: validate.NewEntryValidator(),
		dirTime:   dirTime,
		entries:   make(map[string]*entry),
		children:  make(map[string][]string),
	}
	ix.entries[core.RootPath] = &entry{node: core.Node{Path: core.RootPath, IsDir: true, ModTime: dirTime}}
	return ix
}

// checkFile enforces the per-file and aggregate limits before an entry's
// content is read.
func (ix *index) checkFile(name string, size int64) error {
	if ix.limits.MaxFileSize > 0 && size > ix.limits.MaxFileSize {
		return limitError(name, "file exceeds maximum size", "max_file_size", ix.limits.MaxFileSize)
	}
	if ix.limits.MaxSize > 0 && ix.size+size > ix.limits.MaxSize {
		return limitError(name, "archive exceeds maximum total size", "max_size", ix.limits.MaxSize)
	}
	if ix.limits.MaxFiles > 0 && ix.files+1 > ix.limits.MaxFiles {
		return limitError(name, "archive exceeds maximum file count", "max_files", int64(ix.limits.MaxFiles))
	}
	return nil
}

func (ix *index) addDir(name string, mtime time.Time) error {
	p, err := ix.validator.Normalize(name)
	if err != nil {
		return err
	}
	if p == core.RootPath {
		ix.entries[p].node.ModTime = mtime
		return nil
	}
	if err := ix.ensureParents(p); err != nil {
		return err
	}
	if e, ok := ix.entries[p]; ok {
		if !e.node.IsDir {
			return conflict(name, "directory entry shadows a file")
		}
		e.node.ModTime = mtime
		return nil
	}
	ix.insert(&entry{node: core.Node{Path: p, IsDir: true, ModTime: mtime}})
	return nil
}

// addFile adds a file entry. A later entry with the same name replaces an
// earlier one, as tar extraction would.
func (ix *index) addFile(name string, mtime time.Time, size int64, data []byte, zf *zip.File) error {
	p, err := ix.validator.Normalize(name)
	if err != nil {
		return err
	}
	if p == core.RootPath {
		return conflict(name, "file entry names the archive root")
	}
	if err := ix.ensureParents(p); err != nil {
		return err
	}

	e := &entry{
		node: core.Node{Path: p, Size: size, ModTime: mtime},
		data: data,
		zf:   zf,
	}
	if prev, ok := ix.entries[p]; ok {
		if prev.node.IsDir {
			return conflict(name, "file entry shadows a directory")
		}
		ix.size -= prev.node.Size
		ix.files--
		ix.entries[p] = e
	} else {
		ix.insert(e)
	}
	ix.size += size
	ix.files++
	return nil
}

// ensureParents synthesises the missing ancestors of p.
func (ix *index) ensureParents(p string) error {
	parent := core.ParentPath(p)
	if e, ok := ix.entries[parent]; ok {
		if !e.node.IsDir {
			return conflict(p, "parent is a file")
		}
		return nil
	}
	if err := ix.ensureParents(parent); err != nil {
		return err
	}
	ix.insert(&entry{node: core.Node{Path: parent, IsDir: true, ModTime: ix.dirTime}})
	return nil
}

func (ix *index) insert(e *entry) {
	ix.entries[e.node.Path] = e
	parent := core.ParentPath(e.node.Path)
	ix.children[parent] = append(ix.children[parent], e.node.Path)
}

// seal orders every directory's children by name.
func (ix *index) seal() {
	for _, kids := range ix.children {
		slices.Sort(kids)
	}
}

func (ix *index) lookup(p string) (*entry, bool) {
	e, ok := ix.entries[p]
	return e, ok
}

// list returns fresh nodes for the children of dir.
func (ix *index) list(dir string) []core.Node {
	kids := ix.children[dir]
	nodes := make([]core.Node, 0, len(kids))
	for _, k := range kids {
		nodes = append(nodes, ix.entries[k].node)
	}
	return nodes
}

// content returns a copy of a file entry's data, decompressing zip members
// on demand.
func (e *entry) content(limit int64) ([]byte, error) {
	if e.zf == nil {
		return bytes.Clone(e.data), nil
	}
	rc, err := e.zf.Open()
	if err != nil {
		return nil, corrupt(err, FormatZip)
	}
	defer rc.Close()

	r := io.Reader(rc)
	if limit > 0 {
		r = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, corrupt(err, FormatZip)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, limitError(e.node.Path, "file exceeds maximum size", "max_file_size", limit)
	}
	return data, nil
}

func limitError(name, msg, limit string, value int64) error {
	return errors.WithContextMap(
		errors.PathError(errors.CodeInvalidInput, "index", name, msg),
		map[string]interface{}{"limit": limit, "value": value},
	)
}

func conflict(name, msg string) error {
	return errors.PathError(errors.CodeConflict, "index", name, msg)
}
