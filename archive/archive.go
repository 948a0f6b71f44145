package archive

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmgilman/go/vfs/billy"
	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/logging"
)

// Scheme identifies the archive backend.
const Scheme = "archive"

// Capabilities lists the read-only operations the backend supports.
var Capabilities = core.NewCapabilities(
	core.CapStat,
	core.CapReadDir,
	core.CapGetDir,
	core.CapFind,
	core.CapReadFile,
)

// Config holds the archive backend configuration.
type Config struct {
	// Location is the path of the archive, on the local disk or within the
	// source backend.
	Location string

	// Format overrides detection from Location's extension.
	Format Format

	Limits Limits
}

// validate checks the configuration and fills in the detected format.
func (c *Config) validate() error {
	if c.Location == "" {
		return errors.New(errors.CodeInvalidConfig, "archive backend requires a location")
	}
	if c.Format == "" {
		f, err := DetectFormat(c.Location)
		if err != nil {
			return err
		}
		c.Format = f
	}
	if c.Limits.MaxFiles < 0 || c.Limits.MaxSize < 0 || c.Limits.MaxFileSize < 0 {
		return errors.New(errors.CodeInvalidConfig, "archive limits must not be negative")
	}
	return nil
}

// FromConfig decodes the generic configuration. It recognises the options
// "format", "max_files", "max_size" and "max_file_size"; other keys are
// ignored.
func FromConfig(cfg core.Config) (Config, error) {
	c := Config{Location: cfg.Location, Limits: DefaultLimits}

	format, err := cfg.Options.String("format", "")
	if err != nil {
		return Config{}, err
	}
	if format != "" {
		if c.Format, err = ParseFormat(format); err != nil {
			return Config{}, err
		}
	}

	maxFiles, err := cfg.Options.Int64("max_files", int64(c.Limits.MaxFiles))
	if err != nil {
		return Config{}, err
	}
	c.Limits.MaxFiles = int(maxFiles)
	if c.Limits.MaxSize, err = cfg.Options.Int64("max_size", c.Limits.MaxSize); err != nil {
		return Config{}, err
	}
	if c.Limits.MaxFileSize, err = cfg.Options.Int64("max_file_size", c.Limits.MaxFileSize); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Option configures backend creation.
type Option func(*FS)

// WithSource reads the archive from src instead of the local disk. The
// source must be initialised by the caller and outlive Init.
func WithSource(src core.Backend) Option {
	return func(a *FS) {
		a.source = src
	}
}

// FS is a read-only backend serving the contents of an archive.
type FS struct {
	cfg    Config
	source core.Backend
	life   *core.Lifecycle
	logger *logging.Logger

	// ix is written once during Init, before the backend becomes ready.
	ix *index
}

// New creates an archive backend from the generic configuration.
func New(cfg core.Config, opts ...Option) (*FS, error) {
	c, err := FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(c, cfg.Logger, opts...)
}

// NewWithConfig creates an archive backend from a typed configuration.
func NewWithConfig(c Config, logger *slog.Logger, opts ...Option) (*FS, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	a := &FS{
		cfg:    c,
		life:   core.NewLifecycle(),
		logger: logging.FromSlog(logger).WithScheme(Scheme).WithLocation(c.Location),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Scheme returns "archive".
func (a *FS) Scheme() string { return Scheme }

// Capabilities returns Capabilities.
func (a *FS) Capabilities() core.Capabilities { return Capabilities }

// State returns the lifecycle state.
func (a *FS) State() core.State { return a.life.State() }

// Ready returns a channel closed once the archive is indexed.
func (a *FS) Ready() <-chan struct{} { return a.life.Ready() }

// Format returns the archive format in use.
func (a *FS) Format() Format { return a.cfg.Format }

// Init reads and indexes the archive.
func (a *FS) Init(ctx context.Context) error {
	started := time.Now()
	err := a.life.Start(ctx, a.build)
	logging.LogOperation(ctx, a.logger, logging.OpInit, a.cfg.Location, time.Since(started), err)
	logging.LogStateChange(ctx, a.logger, core.StateInitializing, a.life.State(), err)
	return err
}

func (a *FS) build(ctx context.Context) error {
	data, mtime, err := a.read(ctx)
	if err != nil {
		return err
	}

	ix := newIndex(a.cfg.Limits, mtime)
	if err := load(ix, a.cfg.Format, data); err != nil {
		return errors.WithPath(err, "init", a.cfg.Location)
	}
	ix.seal()
	a.ix = ix

	a.logger.Debug(ctx, "archive indexed",
		"format", string(a.cfg.Format),
		"files", ix.files,
		"size", humanize.Bytes(uint64(ix.size)),
		"skipped", ix.skipped,
	)
	return nil
}

// read returns the raw archive and its modification time.
func (a *FS) read(ctx context.Context) ([]byte, time.Time, error) {
	src, name := a.source, a.cfg.Location
	if src == nil {
		abs, err := filepath.Abs(a.cfg.Location)
		if err != nil {
			return nil, time.Time{}, errors.Wrap(err, errors.CodeInvalidConfig, "resolve location")
		}
		local, err := billy.NewLocal(core.Config{Location: filepath.Dir(abs)})
		if err != nil {
			return nil, time.Time{}, err
		}
		if err := local.Init(ctx); err != nil {
			return nil, time.Time{}, err
		}
		defer local.Close()
		src, name = local, filepath.Base(abs)
	}

	n, err := src.Stat(ctx, name)
	if err != nil {
		return nil, time.Time{}, err
	}
	if n.IsDir {
		return nil, time.Time{}, core.IsADirectory("init", n.Path)
	}
	data, err := src.ReadFile(ctx, name)
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, n.ModTime, nil
}

// Stat returns the node at name.
func (a *FS) Stat(ctx context.Context, name string) (core.Node, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := a.life.Await(ctx, "stat", name); err != nil {
		return core.Node{}, err
	}

	e, ok := a.ix.lookup(name)
	if !ok {
		return core.Node{}, a.finish(ctx, logging.OpStat, name, started, core.NoSuchFile("stat", name))
	}
	return e.node, a.finish(ctx, logging.OpStat, name, started, nil)
}

// ReadDir returns the children of the directory at name in name order.
func (a *FS) ReadDir(ctx context.Context, name string) ([]core.Node, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := a.life.Await(ctx, "readdir", name); err != nil {
		return nil, err
	}

	e, ok := a.ix.lookup(name)
	switch {
	case !ok:
		return nil, a.finish(ctx, logging.OpReadDir, name, started, core.NoSuchDirectory("readdir", name))
	case !e.node.IsDir:
		return nil, a.finish(ctx, logging.OpReadDir, name, started, core.NotADirectory("readdir", name))
	}
	return a.ix.list(name), a.finish(ctx, logging.OpReadDir, name, started, nil)
}

// ReadFile returns the content of the file at name.
func (a *FS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := a.life.Await(ctx, "readfile", name); err != nil {
		return nil, err
	}

	e, ok := a.ix.lookup(name)
	switch {
	case !ok:
		return nil, a.finish(ctx, logging.OpReadFile, name, started, core.NoSuchFile("readfile", name))
	case e.node.IsDir:
		return nil, a.finish(ctx, logging.OpReadFile, name, started, core.IsADirectory("readfile", name))
	}

	data, err := e.content(a.cfg.Limits.MaxFileSize)
	if err != nil {
		err = errors.WithPath(err, "readfile", name)
	}
	return data, a.finish(ctx, logging.OpReadFile, name, started, err)
}

// Close moves the backend to the Closed state. It does not close a source
// backend supplied with WithSource.
func (a *FS) Close() error {
	if a.life.Close() {
		logging.LogStateChange(context.Background(), a.logger, core.StateReady, core.StateClosed, nil)
	}
	return nil
}

func (a *FS) finish(ctx context.Context, op logging.Operation, name string, started time.Time, err error) error {
	logging.LogOperation(ctx, a.logger, op, name, time.Since(started), err)
	return err
}

var _ core.Backend = (*FS)(nil)
