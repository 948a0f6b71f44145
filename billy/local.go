package billy

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

// LocalFS is a backend rooted at a directory on the local disk, built on
// billy's osfs.
type LocalFS struct {
	*backend
}

// NewLocal creates a local backend rooted at cfg.Location. The directory is
// checked at Init.
func NewLocal(cfg core.Config, opts ...Option) (*LocalFS, error) {
	if cfg.Location == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "local backend requires a location")
	}
	c, err := newConfig(cfg, opts)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(cfg.Location)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "resolve location")
	}
	cfg.Location = abs
	return &LocalFS{backend: newBackend(SchemeLocal, cfg, c)}, nil
}

// Init verifies that the location is an existing directory.
func (l *LocalFS) Init(ctx context.Context) error {
	return l.start(ctx, func(context.Context) error {
		if err := requireDir(l.location); err != nil {
			return err
		}
		l.mu.Lock()
		l.bfs = osfs.New(l.location)
		l.mu.Unlock()
		return nil
	})
}

// Chtimes sets the modification time of the entry at name.
func (l *LocalFS) Chtimes(ctx context.Context, name string, mtime time.Time) error {
	name = core.CleanPath(name)
	if err := l.life.Await(ctx, "chtimes", name); err != nil {
		return err
	}
	osPath := filepath.Join(l.location, filepath.FromSlash(core.RelativePath(name)))
	if err := os.Chtimes(osPath, mtime, mtime); err != nil {
		return core.TranslateError(err, "chtimes", name)
	}
	return nil
}

// requireDir fails with NO_SUCH_DIRECTORY unless location is a directory.
func requireDir(location string) error {
	info, err := os.Stat(location)
	if err != nil {
		return errors.WrapPath(err, errors.CodeNoSuchDirectory, "init", location, "location does not exist")
	}
	if !info.IsDir() {
		return errors.PathError(errors.CodeNoSuchDirectory, "init", location, "location is not a directory")
	}
	return nil
}

// Compile-time interface checks.
var (
	_ core.Backend  = (*LocalFS)(nil)
	_ core.Streamer = (*LocalFS)(nil)
	_ core.Writer   = (*LocalFS)(nil)
	_ core.Copier   = (*LocalFS)(nil)
	_ core.Unlinker = (*LocalFS)(nil)
	_ core.Toucher  = (*LocalFS)(nil)
)
