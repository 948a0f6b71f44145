package billy

import (
	"context"
	"io/fs"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/logging"
)

const (
	// SchemeLocal identifies the local-disk backend.
	SchemeLocal = "file"
	// SchemeMemory identifies the in-memory backend.
	SchemeMemory = "mem"
)

// Capabilities is shared by both backends: they support every operation.
var Capabilities = core.NewCapabilities(
	core.CapStat,
	core.CapReadDir,
	core.CapGetDir,
	core.CapFind,
	core.CapCreateReadStream,
	core.CapReadFile,
	core.CapWriteFile,
	core.CapCopyFile,
	core.CapUnlink,
)

// Option configures backend creation.
type Option func(*config)

type config struct {
	clock     func() time.Time
	chunkSize int
}

// WithClock sets the clock the memory backend stamps modification times
// with. It has no effect on the local backend, whose times come from disk.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithChunkSize sets the chunk size of streams. It overrides the
// "chunk_size" option.
func WithChunkSize(n int) Option {
	return func(c *config) {
		c.chunkSize = n
	}
}

func newConfig(cfg core.Config, opts []Option) (config, error) {
	chunkSize, err := cfg.Options.Int64("chunk_size", core.DefaultChunkSize)
	if err != nil {
		return config{}, err
	}
	c := config{
		clock:     time.Now,
		chunkSize: int(chunkSize),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c, nil
}

// backend implements the operations shared by LocalFS and MemoryFS on top of
// a billy.Filesystem.
type backend struct {
	scheme    string
	location  string
	chunkSize int
	life      *core.Lifecycle
	logger    *logging.Logger

	// mu serializes mutations; memfs keeps its tree in plain maps.
	mu  sync.RWMutex
	bfs billy.Filesystem

	// times overrides modification times when non-nil.
	times *mtimeTable
}

func newBackend(scheme string, cfg core.Config, c config) *backend {
	return &backend{
		scheme:    scheme,
		location:  cfg.Location,
		chunkSize: c.chunkSize,
		life:      core.NewLifecycle(),
		logger:    logging.FromSlog(cfg.Logger).WithScheme(scheme).WithLocation(cfg.Location),
	}
}

// Scheme returns the backend's scheme.
func (b *backend) Scheme() string { return b.scheme }

// Capabilities returns Capabilities.
func (b *backend) Capabilities() core.Capabilities { return Capabilities }

// State returns the lifecycle state.
func (b *backend) State() core.State { return b.life.State() }

// Ready returns a channel closed once the backend is ready.
func (b *backend) Ready() <-chan struct{} { return b.life.Ready() }

// Unwrap returns the underlying billy.Filesystem. For the local backend it
// is nil until Init succeeds.
func (b *backend) Unwrap() billy.Filesystem {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bfs
}

func (b *backend) start(ctx context.Context, setup func(ctx context.Context) error) error {
	started := time.Now()
	err := b.life.Start(ctx, setup)
	logging.LogOperation(ctx, b.logger, logging.OpInit, b.location, time.Since(started), err)
	logging.LogStateChange(ctx, b.logger, core.StateInitializing, b.life.State(), err)
	return err
}

// finish logs an operation and passes its error through.
func (b *backend) finish(ctx context.Context, op logging.Operation, name string, started time.Time, err error) error {
	logging.LogOperation(ctx, b.logger, op, name, time.Since(started), err)
	return err
}

// Stat returns the node at name.
func (b *backend) Stat(ctx context.Context, name string) (core.Node, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := b.life.Await(ctx, "stat", name); err != nil {
		return core.Node{}, err
	}

	n, err := b.stat(name)
	return n, b.finish(ctx, logging.OpStat, name, started, err)
}

func (b *backend) stat(name string) (core.Node, error) {
	b.mu.RLock()
	info, err := b.bfs.Stat(name)
	b.mu.RUnlock()
	if err != nil {
		return core.Node{}, core.TranslateError(err, "stat", name)
	}
	return b.node(name, info), nil
}

func (b *backend) node(name string, info fs.FileInfo) core.Node {
	n := core.NodeFromInfo(name, info)
	if b.times != nil {
		n.ModTime = b.times.get(n.Path)
	}
	return n
}

// ReadDir returns the children of the directory at name in name order.
func (b *backend) ReadDir(ctx context.Context, name string) ([]core.Node, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := b.life.Await(ctx, "readdir", name); err != nil {
		return nil, err
	}

	nodes, err := b.readDir(name)
	return nodes, b.finish(ctx, logging.OpReadDir, name, started, err)
}

func (b *backend) readDir(name string) ([]core.Node, error) {
	dir, err := b.stat(name)
	if err != nil {
		if errors.GetCode(err) == errors.CodeNoSuchFile {
			return nil, core.NoSuchDirectory("readdir", name)
		}
		return nil, err
	}
	if !dir.IsDir {
		return nil, core.NotADirectory("readdir", name)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	infos, err := b.bfs.ReadDir(name)
	if err != nil {
		return nil, core.TranslateError(err, "readdir", name)
	}

	nodes := make([]core.Node, 0, len(infos))
	for _, info := range infos {
		child := core.JoinPath(name, info.Name())
		if info.Mode()&fs.ModeSymlink != 0 {
			// Listings report the target, like Stat does. Links to
			// directories are left out so that walks cannot cycle.
			info, err = b.bfs.Stat(child)
			if err != nil {
				return nil, core.IOFailure(err, "readdir", child)
			}
			if info.IsDir() {
				continue
			}
		}
		nodes = append(nodes, b.node(child, info))
	}
	slices.SortFunc(nodes, func(x, y core.Node) int {
		return strings.Compare(x.Name(), y.Name())
	})
	return nodes, nil
}

// ReadFile returns the content of the file at name.
func (b *backend) ReadFile(ctx context.Context, name string) ([]byte, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := b.life.Await(ctx, "readfile", name); err != nil {
		return nil, err
	}

	data, err := b.readFile(name)
	return data, b.finish(ctx, logging.OpReadFile, name, started, err)
}

func (b *backend) readFile(name string) ([]byte, error) {
	if err := b.requireFile("readfile", name); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return readFile(b.bfs, name)
}

// CreateReadStream opens the file at name for chunked reading.
func (b *backend) CreateReadStream(ctx context.Context, name string) (*core.Stream, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := b.life.Await(ctx, "createreadstream", name); err != nil {
		return nil, err
	}

	s, err := b.openStream(name)
	return s, b.finish(ctx, logging.OpReadStream, name, started, err)
}

func (b *backend) openStream(name string) (*core.Stream, error) {
	if err := b.requireFile("createreadstream", name); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return openStream(b.bfs, name, b.chunkSize)
}

// WriteFile creates or replaces the file at name, creating parents.
func (b *backend) WriteFile(ctx context.Context, name string, data []byte) error {
	name = core.CleanPath(name)
	started := time.Now()
	if err := b.life.Await(ctx, "writefile", name); err != nil {
		return err
	}
	return b.finish(ctx, logging.OpWriteFile, name, started, b.writeFile(name, data))
}

func (b *backend) writeFile(name string, data []byte) error {
	if name == core.RootPath {
		return core.IsADirectory("writefile", name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Every existing ancestor must be a directory.
	var created []string
	for dir := core.ParentPath(name); ; dir = core.ParentPath(dir) {
		info, err := b.bfs.Stat(dir)
		switch {
		case err == nil && !info.IsDir():
			return core.NotADirectory("writefile", dir)
		case err != nil && errors.GetCode(core.TranslateError(err, "writefile", dir)) == errors.CodeNoSuchFile:
			created = append(created, dir)
		case err != nil:
			return core.TranslateError(err, "writefile", dir)
		}
		if dir == core.RootPath {
			break
		}
	}
	if info, err := b.bfs.Stat(name); err == nil && info.IsDir() {
		return core.IsADirectory("writefile", name)
	}

	if err := writeFile(b.bfs, name, data); err != nil {
		return err
	}
	if b.times != nil {
		b.times.touch(name, created...)
	}
	return nil
}

// CopyFile copies the file at src to dst, replacing dst.
func (b *backend) CopyFile(ctx context.Context, src, dst string) error {
	src, dst = core.CleanPath(src), core.CleanPath(dst)
	started := time.Now()
	if err := b.life.Await(ctx, "copyfile", dst); err != nil {
		return err
	}

	data, err := b.readFile(src)
	if err == nil {
		err = b.writeFile(dst, data)
	}
	return b.finish(ctx, logging.OpCopyFile, src+" -> "+dst, started, err)
}

// Unlink removes the file at name.
func (b *backend) Unlink(ctx context.Context, name string) error {
	name = core.CleanPath(name)
	started := time.Now()
	if err := b.life.Await(ctx, "unlink", name); err != nil {
		return err
	}
	return b.finish(ctx, logging.OpUnlink, name, started, b.unlink(name))
}

func (b *backend) unlink(name string) error {
	if err := b.requireFile("unlink", name); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.bfs.Remove(name); err != nil {
		return core.TranslateError(err, "unlink", name)
	}
	if b.times != nil {
		b.times.remove(name)
	}
	return nil
}

// requireFile fails unless name is an existing regular file.
func (b *backend) requireFile(op, name string) error {
	n, err := b.stat(name)
	if err != nil {
		return errors.WithPath(err, op, name)
	}
	if n.IsDir {
		return core.IsADirectory(op, name)
	}
	return nil
}

// Close moves the backend to the Closed state. It is idempotent.
func (b *backend) Close() error {
	ctx := context.Background()
	if !b.life.Close() {
		return nil
	}
	logging.LogStateChange(ctx, b.logger, core.StateReady, core.StateClosed, nil)
	return nil
}
