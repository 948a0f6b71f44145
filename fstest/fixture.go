package fstest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmgilman/go/vfs/core"
)

// FixtureFile is one file of the standard fixture.
type FixtureFile struct {
	Path    string
	Content string
	ModTime time.Time
}

var fixtureEpoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// FixtureFiles returns the standard fixture: four files, three of them in
// /lib, with strictly increasing modification times in the order listed.
// /lib/file2.txt holds 11 bytes of UTF-8 text.
func FixtureFiles() []FixtureFile {
	return []FixtureFile{
		{Path: "/README.md", Content: "# fixture\n\nFiles used by the conformance suite.\n", ModTime: fixtureEpoch},
		{Path: "/lib/file1.txt", Content: "first\n", ModTime: fixtureEpoch.Add(1 * time.Minute)},
		{Path: "/lib/file2.txt", Content: "ÜÄ✓✗\n", ModTime: fixtureEpoch.Add(2 * time.Minute)},
		{Path: "/lib/file3.txt", Content: "the third and largest file of the fixture\n", ModTime: fixtureEpoch.Add(3 * time.Minute)},
	}
}

// WriteFixtureDir writes the fixture into a fresh temporary directory and
// returns its path.
func WriteFixtureDir(t testing.TB) string {
	t.Helper()

	dir := t.TempDir()
	for _, f := range FixtureFiles() {
		p := filepath.Join(dir, filepath.FromSlash(core.RelativePath(f.Path)))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(f.Content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", p, err)
		}
		if err := os.Chtimes(p, f.ModTime, f.ModTime); err != nil {
			t.Fatalf("Chtimes(%s): %v", p, err)
		}
	}
	return dir
}

// SeedFixture writes the fixture through w. If w implements core.Toucher
// the fixture's modification times are applied; otherwise SeedFixture waits
// pause between files so that the backend's own timestamps increase.
func SeedFixture(ctx context.Context, w core.Writer, pause time.Duration) error {
	toucher, _ := w.(core.Toucher)
	for i, f := range FixtureFiles() {
		if toucher == nil && i > 0 && pause > 0 {
			select {
			case <-time.After(pause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := w.WriteFile(ctx, f.Path, []byte(f.Content)); err != nil {
			return err
		}
		if toucher != nil {
			if err := toucher.Chtimes(ctx, f.Path, f.ModTime); err != nil {
				return err
			}
		}
	}
	return nil
}
