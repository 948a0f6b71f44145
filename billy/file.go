package billy

import (
	"io"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/jmgilman/go/vfs/core"
)

// file wraps billy.File for streaming. It stores the filename since
// billy.File.Name() may return different formats depending on the backend
// implementation, and translates read errors into the taxonomy.
type file struct {
	file billy.File
	name string
}

// Read implements io.Reader.
func (f *file) Read(p []byte) (int, error) {
	n, err := f.file.Read(p)
	if err != nil && err != io.EOF {
		err = core.TranslateError(err, "read", f.name)
	}
	return n, err
}

// Close implements io.Closer.
func (f *file) Close() error {
	return f.file.Close()
}

func openStream(bfs billy.Basic, name string, chunkSize int) (*core.Stream, error) {
	f, err := bfs.Open(name)
	if err != nil {
		return nil, core.TranslateError(err, "createreadstream", name)
	}
	return core.NewStream(&file{file: f, name: name}, name, chunkSize), nil
}

func readFile(bfs billy.Basic, name string) ([]byte, error) {
	data, err := util.ReadFile(bfs, name)
	if err != nil {
		return nil, core.TranslateError(err, "readfile", name)
	}
	return data, nil
}

// writeFile creates or truncates name. Both osfs and memfs create missing
// parent directories on O_CREATE.
func writeFile(bfs billy.Basic, name string, data []byte) error {
	if err := util.WriteFile(bfs, name, data, 0o644); err != nil {
		return core.TranslateError(err, "writefile", name)
	}
	return nil
}

// Compile-time interface checks.
var _ io.ReadCloser = (*file)(nil)

