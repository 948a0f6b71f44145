package billy

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5/memfs"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

// MemoryFS is an in-memory backend built on billy's memfs.
type MemoryFS struct {
	*backend
}

// NewMemory creates an in-memory backend. If cfg.Location names a local
// directory, its tree is copied in at Init; otherwise the backend starts
// empty.
func NewMemory(cfg core.Config, opts ...Option) (*MemoryFS, error) {
	c, err := newConfig(cfg, opts)
	if err != nil {
		return nil, err
	}

	b := newBackend(SchemeMemory, cfg, c)
	b.bfs = memfs.New()
	b.times = newMTimeTable(c.clock)
	return &MemoryFS{backend: b}, nil
}

// Init seeds the tree from Location, if set, and makes the backend ready.
func (m *MemoryFS) Init(ctx context.Context) error {
	return m.start(ctx, func(ctx context.Context) error {
		if m.location == "" {
			return nil
		}
		if err := requireDir(m.location); err != nil {
			return err
		}
		return core.CopyFromFS(ctx, os.DirFS(m.location), seeder{m.backend}, ".")
	})
}

// Chtimes sets the modification time of the entry at name.
func (m *MemoryFS) Chtimes(ctx context.Context, name string, mtime time.Time) error {
	name = core.CleanPath(name)
	if err := m.life.Await(ctx, "chtimes", name); err != nil {
		return err
	}
	if _, err := m.stat(name); err != nil {
		return errors.WithPath(err, "chtimes", name)
	}
	m.times.set(name, mtime)
	return nil
}

// seeder writes into a backend that is still initializing.
type seeder struct {
	b *backend
}

func (s seeder) WriteFile(_ context.Context, name string, data []byte) error {
	return s.b.writeFile(core.CleanPath(name), data)
}

func (s seeder) Chtimes(_ context.Context, name string, mtime time.Time) error {
	s.b.times.set(core.CleanPath(name), mtime)
	return nil
}

// mtimeTable records modification times for memfs, which reports the
// current time for every entry.
type mtimeTable struct {
	mu      sync.Mutex
	clock   func() time.Time
	created time.Time
	times   map[string]time.Time
}

func newMTimeTable(clock func() time.Time) *mtimeTable {
	return &mtimeTable{
		clock:   clock,
		created: clock(),
		times:   make(map[string]time.Time),
	}
}

// get returns the recorded time for p, or the table's creation time for
// entries that were never stamped (the root).
func (t *mtimeTable) get(p string) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if mtime, ok := t.times[p]; ok {
		return mtime
	}
	return t.created
}

// touch stamps p and any directories created for it with the clock.
func (t *mtimeTable) touch(p string, createdDirs ...string) {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.times[p] = now
	for _, dir := range createdDirs {
		t.times[dir] = now
	}
}

func (t *mtimeTable) set(p string, mtime time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.times[p] = mtime
}

func (t *mtimeTable) remove(p string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.times, p)
}

// Compile-time interface checks.
var (
	_ core.Backend  = (*MemoryFS)(nil)
	_ core.Streamer = (*MemoryFS)(nil)
	_ core.Writer   = (*MemoryFS)(nil)
	_ core.Copier   = (*MemoryFS)(nil)
	_ core.Unlinker = (*MemoryFS)(nil)
	_ core.Toucher  = (*MemoryFS)(nil)
)
