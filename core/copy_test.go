package core

import (
	"context"
	stderrors "errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFile_AcrossBackends(t *testing.T) {
	ctx := context.Background()
	src := &streamingFake{fakeBackend: newFixture(t, CapReadDir, CapReadFile, CapCreateReadStream), chunkSize: 3}
	dst := newFake()
	require.NoError(t, dst.Init(ctx))

	require.NoError(t, CopyFile(ctx, src, "/lib/file2.txt", dst, "/copied/file2.txt", nil))

	data, err := dst.ReadFile(ctx, "/copied/file2.txt")
	require.NoError(t, err)
	assert.Equal(t, "ÜÄ✓✗\n", string(data))
}

func TestCopyFile_Overwrite(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t)
	dst := newFixture(t)

	err := CopyFile(ctx, src, "/lib/file1.txt", dst, "/README.md", nil)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrConflict))

	require.NoError(t, CopyFile(ctx, src, "/lib/file1.txt", dst, "/README.md", &CopyOptions{Overwrite: true}))
	data, err := dst.ReadFile(ctx, "/README.md")
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(data))
}

func TestCopyFile_Errors(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t)

	readOnly := newFixture(t, CapReadDir, CapReadFile)
	err := CopyFile(ctx, src, "/README.md", readOnly, "/x", nil)
	assert.True(t, stderrors.Is(err, ErrUnsupported))

	dst := newFixture(t)
	err = CopyFile(ctx, src, "/missing", dst, "/x", nil)
	assert.True(t, stderrors.Is(err, ErrNoSuchFile))
}

func TestCopyFromFS(t *testing.T) {
	ctx := context.Background()
	mtime := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	src := fstest.MapFS{
		"seed/README.md":      {Data: []byte("# seed\n"), ModTime: mtime},
		"seed/lib/file1.txt":  {Data: []byte("one\n"), ModTime: mtime},
		"other/ignored.txt":   {Data: []byte("no\n")},
		"seed/lib/nested/x.y": {Data: []byte("x"), ModTime: mtime},
	}
	dst := newFake()
	require.NoError(t, dst.Init(ctx))

	require.NoError(t, CopyFromFS(ctx, src, dst, "seed"))

	got, err := Find(ctx, dst, "/", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/README.md", "/lib/file1.txt", "/lib/nested/x.y"}, paths(got))

	err = CopyFromFS(ctx, src, dst, "absent")
	assert.True(t, stderrors.Is(err, ErrNoSuchFile))
}

func TestCopyFromFS_PreservesModTime(t *testing.T) {
	ctx := context.Background()
	mtime := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	src := fstest.MapFS{"a.txt": {Data: []byte("a"), ModTime: mtime}}
	dst := &touchingFake{fakeBackend: newFake()}
	require.NoError(t, dst.Init(ctx))

	require.NoError(t, CopyFromFS(ctx, src, dst, "."))
	n, err := dst.Stat(ctx, "/a.txt")
	require.NoError(t, err)
	assert.True(t, mtime.Equal(n.ModTime))
}

type touchingFake struct {
	*fakeBackend
}

func (f *touchingFake) Chtimes(_ context.Context, name string, mtime time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.nodes[CleanPath(name)]
	n.ModTime = mtime
	f.nodes[n.Path] = n
	return nil
}
