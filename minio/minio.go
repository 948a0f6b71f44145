package minio

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/logging"
	"github.com/jmgilman/go/vfs/minio/internal/errs"
	"github.com/jmgilman/go/vfs/minio/internal/pathutil"
)

// Scheme identifies the MinIO backend.
const Scheme = "s3"

// Capabilities lists the operations the backend supports: all of them.
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

// MinioFS is a backend over a MinIO/S3-compatible bucket.
type MinioFS struct {
	client    *minio.Client
	bucket    string
	prefix    string // Optional prefix for all keys
	chunkSize int
	life      *core.Lifecycle
	logger    *logging.Logger
}

// New creates a MinIO backend from the generic configuration.
func New(cfg core.Config) (*MinioFS, error) {
	c, err := FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewMinIO(c, cfg.Logger)
}

// NewMinIO creates a MinIO backend from a typed configuration. No request is
// made until Init.
func NewMinIO(cfg Config, logger *slog.Logger) (*MinioFS, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create minio client")
		}
	}

	prefix := pathutil.NormalizePrefix(cfg.Prefix)
	location := cfg.Bucket
	if prefix != "" {
		location += "/" + prefix
	}

	return &MinioFS{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    prefix,
		chunkSize: cfg.ChunkSize,
		life:      core.NewLifecycle(),
		logger:    logging.FromSlog(logger).WithScheme(Scheme).WithLocation(location),
	}, nil
}

// Scheme returns "s3".
func (m *MinioFS) Scheme() string { return Scheme }

// Capabilities returns Capabilities.
func (m *MinioFS) Capabilities() core.Capabilities { return Capabilities }

// State returns the lifecycle state.
func (m *MinioFS) State() core.State { return m.life.State() }

// Ready returns a channel closed once the bucket has been verified.
func (m *MinioFS) Ready() <-chan struct{} { return m.life.Ready() }

// Client returns the underlying MinIO client.
func (m *MinioFS) Client() *minio.Client { return m.client }

// Bucket returns the bucket name.
func (m *MinioFS) Bucket() string { return m.bucket }

// Prefix returns the normalized key prefix.
func (m *MinioFS) Prefix() string { return m.prefix }

// Init verifies that the bucket exists.
func (m *MinioFS) Init(ctx context.Context) error {
	started := time.Now()
	err := m.life.Start(ctx, func(ctx context.Context) error {
		exists, err := m.client.BucketExists(ctx, m.bucket)
		if err != nil {
			return errs.Translate(err, "init", m.bucket)
		}
		if !exists {
			return errors.PathError(errors.CodeNoSuchDirectory, "init", m.bucket, "bucket does not exist")
		}
		return nil
	})
	logging.LogOperation(ctx, m.logger, logging.OpInit, m.bucket, time.Since(started), err)
	logging.LogStateChange(ctx, m.logger, core.StateInitializing, m.life.State(), err)
	return err
}

func (m *MinioFS) key(p string) string {
	return pathutil.Key(m.prefix, p)
}

func (m *MinioFS) finish(ctx context.Context, op logging.Operation, name string, started time.Time, err error) error {
	logging.LogOperation(ctx, m.logger, op, name, time.Since(started), err)
	return err
}

// Stat returns the node at name. Virtual directories have a zero ModTime.
func (m *MinioFS) Stat(ctx context.Context, name string) (core.Node, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := m.life.Await(ctx, "stat", name); err != nil {
		return core.Node{}, err
	}

	n, err := m.stat(ctx, "stat", name)
	return n, m.finish(ctx, logging.OpStat, name, started, err)
}

func (m *MinioFS) stat(ctx context.Context, op, name string) (core.Node, error) {
	if name == core.RootPath {
		return core.Node{Path: core.RootPath, IsDir: true}, nil
	}

	key := m.key(name)
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return core.Node{Path: name, Size: info.Size, ModTime: info.LastModified}, nil
	}
	if !errs.IsNotFound(err) {
		return core.Node{}, errs.Translate(err, op, name)
	}

	isDir, err := m.isDir(ctx, key)
	if err != nil {
		return core.Node{}, errs.Translate(err, op, name)
	}
	if !isDir {
		return core.Node{}, core.NoSuchFile(op, name)
	}
	return core.Node{Path: name, IsDir: true}, nil
}

// isDir reports whether any object lives below key.
func (m *MinioFS) isDir(ctx context.Context, key string) (bool, error) {
	// Cancelling stops the listing goroutine once the first result is in.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:  pathutil.DirPrefix(key),
		MaxKeys: 1,
	}) {
		if object.Err != nil {
			return false, object.Err
		}
		return true, nil
	}
	return false, nil
}

// ReadDir returns the children of the directory at name in name order.
func (m *MinioFS) ReadDir(ctx context.Context, name string) ([]core.Node, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := m.life.Await(ctx, "readdir", name); err != nil {
		return nil, err
	}

	nodes, err := m.readDir(ctx, name)
	return nodes, m.finish(ctx, logging.OpReadDir, name, started, err)
}

func (m *MinioFS) readDir(ctx context.Context, name string) ([]core.Node, error) {
	prefix := pathutil.DirPrefix(m.key(name))

	var nodes []core.Node
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false, // Use delimiter for directory-like listing
	}) {
		if object.Err != nil {
			return nil, errs.Translate(object.Err, "readdir", name)
		}

		child, isDir := pathutil.ChildName(prefix, object.Key)
		if child == "" {
			continue
		}
		n := core.Node{Path: core.JoinPath(name, child), IsDir: isDir}
		if !isDir {
			n.Size = object.Size
			n.ModTime = object.LastModified
		}
		nodes = append(nodes, n)
	}

	if len(nodes) == 0 && name != core.RootPath {
		dir, err := m.stat(ctx, "readdir", name)
		if err != nil {
			if errors.GetCode(err) == errors.CodeNoSuchFile {
				return nil, core.NoSuchDirectory("readdir", name)
			}
			return nil, err
		}
		if !dir.IsDir {
			return nil, core.NotADirectory("readdir", name)
		}
	}

	// MinIO returns keys in lexical order, but a common prefix such as
	// "a/" sorts after "a.txt" by key and before it by name.
	slices.SortFunc(nodes, func(x, y core.Node) int {
		return strings.Compare(x.Name(), y.Name())
	})
	return nodes, nil
}

// ReadFile returns the content of the file at name.
func (m *MinioFS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := m.life.Await(ctx, "readfile", name); err != nil {
		return nil, err
	}

	data, err := m.readFile(ctx, name)
	return data, m.finish(ctx, logging.OpReadFile, name, started, err)
}

func (m *MinioFS) readFile(ctx context.Context, name string) ([]byte, error) {
	if name == core.RootPath {
		return nil, core.IsADirectory("readfile", name)
	}

	obj, err := m.client.GetObject(ctx, m.bucket, m.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, errs.Translate(err, "readfile", name)
	}
	defer func() {
		_ = obj.Close()
	}()

	// Size and body come from the same response.
	info, err := obj.Stat()
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, m.missing(ctx, "readfile", name)
		}
		return nil, errs.Translate(err, "readfile", name)
	}

	buf := make([]byte, info.Size)
	if _, err := io.ReadFull(obj, buf); err != nil {
		return nil, errs.Translate(err, "readfile", name)
	}
	return buf, nil
}

// CreateReadStream opens the object at name for chunked reading. The
// object is fetched lazily as chunks are consumed.
func (m *MinioFS) CreateReadStream(ctx context.Context, name string) (*core.Stream, error) {
	name = core.CleanPath(name)
	started := time.Now()
	if err := m.life.Await(ctx, "createreadstream", name); err != nil {
		return nil, err
	}

	s, err := m.openStream(ctx, name)
	return s, m.finish(ctx, logging.OpReadStream, name, started, err)
}

func (m *MinioFS) openStream(ctx context.Context, name string) (*core.Stream, error) {
	if name == core.RootPath {
		return nil, core.IsADirectory("createreadstream", name)
	}

	obj, err := m.client.GetObject(ctx, m.bucket, m.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, errs.Translate(err, "createreadstream", name)
	}
	// GetObject is lazy; Stat issues the request and surfaces missing keys.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if errs.IsNotFound(err) {
			return nil, m.missing(ctx, "createreadstream", name)
		}
		return nil, errs.Translate(err, "createreadstream", name)
	}
	return core.NewStream(&objectReader{obj: obj, name: name}, name, m.chunkSize), nil
}

// missing explains why no object exists at name: it is either a virtual
// directory or absent.
func (m *MinioFS) missing(ctx context.Context, op, name string) error {
	isDir, err := m.isDir(ctx, m.key(name))
	if err != nil {
		return errs.Translate(err, op, name)
	}
	if isDir {
		return core.IsADirectory(op, name)
	}
	return core.NoSuchFile(op, name)
}

// WriteFile uploads data as the object at name, replacing any existing
// object.
func (m *MinioFS) WriteFile(ctx context.Context, name string, data []byte) error {
	name = core.CleanPath(name)
	started := time.Now()
	if err := m.life.Await(ctx, "writefile", name); err != nil {
		return err
	}

	err := m.writeFile(ctx, name, data)
	return m.finish(ctx, logging.OpWriteFile, name, started, err)
}

func (m *MinioFS) writeFile(ctx context.Context, name string, data []byte) error {
	if err := m.checkTarget(ctx, "writefile", name); err != nil {
		return err
	}

	_, err := m.client.PutObject(
		ctx,
		m.bucket,
		m.key(name),
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"},
	)
	return errs.Translate(err, "writefile", name)
}

// checkTarget fails unless name can hold a file: it must not be a virtual
// directory and none of its ancestors may be an object.
func (m *MinioFS) checkTarget(ctx context.Context, op, name string) error {
	if name == core.RootPath {
		return core.IsADirectory(op, name)
	}

	key := m.key(name)
	isDir, err := m.isDir(ctx, key)
	if err != nil {
		return errs.Translate(err, op, name)
	}
	if isDir {
		return core.IsADirectory(op, name)
	}

	for _, ancestor := range pathutil.Ancestors(m.prefix, key) {
		_, err := m.client.StatObject(ctx, m.bucket, ancestor, minio.StatObjectOptions{})
		switch {
		case err == nil:
			return errors.WithContext(core.NotADirectory(op, name), "ancestor", ancestor)
		case !errs.IsNotFound(err):
			return errs.Translate(err, op, name)
		}
	}
	return nil
}

// CopyFile copies the object at src to dst server-side.
func (m *MinioFS) CopyFile(ctx context.Context, src, dst string) error {
	src, dst = core.CleanPath(src), core.CleanPath(dst)
	started := time.Now()
	if err := m.life.Await(ctx, "copyfile", src); err != nil {
		return err
	}

	err := m.copyFile(ctx, src, dst)
	return m.finish(ctx, logging.OpCopyFile, src, started, err)
}

func (m *MinioFS) copyFile(ctx context.Context, src, dst string) error {
	n, err := m.stat(ctx, "copyfile", src)
	if err != nil {
		return err
	}
	if n.IsDir {
		return core.IsADirectory("copyfile", src)
	}
	if err := m.checkTarget(ctx, "copyfile", dst); err != nil {
		return err
	}

	_, err = m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucket, Object: m.key(dst)},
		minio.CopySrcOptions{Bucket: m.bucket, Object: m.key(src)},
	)
	return errs.Translate(err, "copyfile", src)
}

// Unlink removes the object at name.
func (m *MinioFS) Unlink(ctx context.Context, name string) error {
	name = core.CleanPath(name)
	started := time.Now()
	if err := m.life.Await(ctx, "unlink", name); err != nil {
		return err
	}

	err := m.unlink(ctx, name)
	return m.finish(ctx, logging.OpUnlink, name, started, err)
}

func (m *MinioFS) unlink(ctx context.Context, name string) error {
	// RemoveObject succeeds for missing keys, so existence is checked first.
	n, err := m.stat(ctx, "unlink", name)
	if err != nil {
		return err
	}
	if n.IsDir {
		return core.IsADirectory("unlink", name)
	}

	err = m.client.RemoveObject(ctx, m.bucket, m.key(name), minio.RemoveObjectOptions{})
	return errs.Translate(err, "unlink", name)
}

// Close moves the backend to the Closed state. The client holds no
// resources that need releasing.
func (m *MinioFS) Close() error {
	if m.life.Close() {
		logging.LogStateChange(context.Background(), m.logger, core.StateReady, core.StateClosed, nil)
	}
	return nil
}

// objectReader translates read errors of a streamed object.
type objectReader struct {
	obj  *minio.Object
	name string
}

func (r *objectReader) Read(p []byte) (int, error) {
	n, err := r.obj.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = errs.Translate(err, "read", r.name)
	}
	return n, err
}

func (r *objectReader) Close() error {
	return r.obj.Close()
}

// Compile-time interface checks.
var (
	_ core.Backend  = (*MinioFS)(nil)
	_ core.Streamer = (*MinioFS)(nil)
	_ core.Writer   = (*MinioFS)(nil)
	_ core.Copier   = (*MinioFS)(nil)
	_ core.Unlinker = (*MinioFS)(nil)
)
