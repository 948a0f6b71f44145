package core

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixtureEpoch = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// fakeBackend is an in-memory Backend used to exercise the derived
// operations without depending on a real backend package.
type fakeBackend struct {
	life *Lifecycle
	caps Capabilities

	mu    sync.Mutex
	nodes map[string]Node
	data  map[string][]byte

	readDirHook  func(name string) ([]Node, error)
	readDirDelay time.Duration
	active       atomic.Int32
	maxActive    atomic.Int32
}

func newFake(caps ...Capability) *fakeBackend {
	if len(caps) == 0 {
		caps = []Capability{CapReadDir, CapGetDir, CapFind, CapReadFile, CapWriteFile}
	}
	return &fakeBackend{
		life:  NewLifecycle(),
		caps:  NewCapabilities(caps...),
		nodes: map[string]Node{RootPath: {Path: RootPath, IsDir: true, ModTime: fixtureEpoch}},
		data:  make(map[string][]byte),
	}
}

// newFixture returns a ready fake holding the standard four-file tree.
func newFixture(t *testing.T, caps ...Capability) *fakeBackend {
	t.Helper()
	f := newFake(caps...)
	f.addFile("/README.md", "# vfs\n", fixtureEpoch)
	f.addFile("/lib/file1.txt", "one\n", fixtureEpoch.Add(1*time.Second))
	f.addFile("/lib/file2.txt", "ÜÄ✓✗\n", fixtureEpoch.Add(2*time.Second))
	f.addFile("/lib/file3.txt", "three\n", fixtureEpoch.Add(3*time.Second))
	require.NoError(t, f.Init(context.Background()))
	return f
}

func (f *fakeBackend) addFile(p, content string, mtime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p = CleanPath(p)
	for dir := ParentPath(p); dir != RootPath; dir = ParentPath(dir) {
		if _, ok := f.nodes[dir]; !ok {
			f.nodes[dir] = Node{Path: dir, IsDir: true, ModTime: mtime}
		}
	}
	f.nodes[p] = Node{Path: p, Size: int64(len(content)), ModTime: mtime}
	f.data[p] = []byte(content)
}

func (f *fakeBackend) Scheme() string             { return "fake" }
func (f *fakeBackend) Capabilities() Capabilities { return f.caps }
func (f *fakeBackend) State() State               { return f.life.State() }
func (f *fakeBackend) Ready() <-chan struct{}     { return f.life.Ready() }

func (f *fakeBackend) Init(ctx context.Context) error {
	return f.life.Start(ctx, func(context.Context) error { return nil })
}

func (f *fakeBackend) Close() error {
	f.life.Close()
	return nil
}

func (f *fakeBackend) Stat(ctx context.Context, name string) (Node, error) {
	name = CleanPath(name)
	if err := f.life.Await(ctx, "stat", name); err != nil {
		return Node{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[name]
	if !ok {
		return Node{}, NoSuchFile("stat", name)
	}
	return n, nil
}

func (f *fakeBackend) ReadDir(ctx context.Context, name string) ([]Node, error) {
	name = CleanPath(name)
	if err := f.life.Await(ctx, "readdir", name); err != nil {
		return nil, err
	}

	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		peak := f.maxActive.Load()
		if n <= peak || f.maxActive.CompareAndSwap(peak, n) {
			break
		}
	}
	if f.readDirDelay > 0 {
		time.Sleep(f.readDirDelay)
	}
	if f.readDirHook != nil {
		return f.readDirHook(name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	dir, ok := f.nodes[name]
	if !ok {
		return nil, NoSuchDirectory("readdir", name)
	}
	if !dir.IsDir {
		return nil, NotADirectory("readdir", name)
	}
	var out []Node
	for p, node := range f.nodes {
		if p != RootPath && ParentPath(p) == name {
			out = append(out, node)
		}
	}
	slices.SortFunc(out, func(a, b Node) int { return strings.Compare(a.Name(), b.Name()) })
	return out, nil
}

func (f *fakeBackend) ReadFile(ctx context.Context, name string) ([]byte, error) {
	name = CleanPath(name)
	if err := f.life.Await(ctx, "readfile", name); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.nodes[name]
	if !ok {
		return nil, NoSuchFile("readfile", name)
	}
	if n.IsDir {
		return nil, IsADirectory("readfile", name)
	}
	return slices.Clone(f.data[name]), nil
}

func (f *fakeBackend) WriteFile(ctx context.Context, name string, data []byte) error {
	name = CleanPath(name)
	if err := f.life.Await(ctx, "writefile", name); err != nil {
		return err
	}
	f.addFile(name, string(data), fixtureEpoch)
	return nil
}

// streamingFake adds CreateReadStream with a tiny chunk size.
type streamingFake struct {
	*fakeBackend
	chunkSize int
}

func (s *streamingFake) CreateReadStream(ctx context.Context, name string) (*Stream, error) {
	data, err := s.ReadFile(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewStream(io.NopCloser(bytes.NewReader(data)), name, s.chunkSize), nil
}

func paths(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path
	}
	return out
}
