package fstest

import (
	"bytes"
	"testing"

	"github.com/jmgilman/go/vfs/core"
)

func testStat(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	for _, f := range FixtureFiles() {
		n, err := b.Stat(ctx, f.Path)
		if err != nil {
			t.Errorf("Stat(%s): %v", f.Path, err)
			continue
		}
		if n.Path != f.Path {
			t.Errorf("Stat(%s).Path = %q", f.Path, n.Path)
		}
		if n.IsDir {
			t.Errorf("Stat(%s).IsDir = true, want false", f.Path)
		}

		data, err := b.ReadFile(ctx, f.Path)
		if err != nil {
			t.Errorf("ReadFile(%s): %v", f.Path, err)
			continue
		}
		if n.Size != int64(len(data)) {
			t.Errorf("Stat(%s).Size = %d, ReadFile length = %d", f.Path, n.Size, len(data))
		}
	}

	for _, dir := range []string{"/", "/lib"} {
		n, err := b.Stat(ctx, dir)
		if err != nil {
			t.Errorf("Stat(%s): %v", dir, err)
			continue
		}
		if !n.IsDir {
			t.Errorf("Stat(%s).IsDir = false, want true", dir)
		}
		if n.Path != dir {
			t.Errorf("Stat(%s).Path = %q", dir, n.Path)
		}
		if !h.Config.VirtualDirectories && n.ModTime.IsZero() {
			t.Errorf("Stat(%s).ModTime is zero", dir)
		}
	}

	n, err := b.Stat(ctx, "/lib/file2.txt")
	if err != nil {
		t.Fatalf("Stat(/lib/file2.txt): %v", err)
	}
	if n.Size != 11 {
		t.Errorf("Stat(/lib/file2.txt).Size = %d, want 11", n.Size)
	}
}

func testStatNormalises(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	listed, err := b.ReadDir(ctx, "/lib")
	if err != nil {
		t.Fatalf("ReadDir(/lib): %v", err)
	}
	want := make(map[string]bool, len(listed))
	for _, n := range listed {
		want[n.Path] = true
	}

	for _, p := range []string{
		"lib/file1.txt",
		"/lib/./file2.txt",
		"/lib/../lib/file3.txt",
		"//lib//file1.txt",
	} {
		n, err := b.Stat(ctx, p)
		if err != nil {
			t.Errorf("Stat(%q): %v", p, err)
			continue
		}
		if !want[n.Path] {
			t.Errorf("Stat(%q).Path = %q, not among ReadDir(/lib) paths %v", p, n.Path, nodePaths(listed))
		}
	}

	n, err := b.Stat(ctx, "/lib/")
	if err != nil {
		t.Fatalf("Stat(/lib/): %v", err)
	}
	if n.Path != "/lib" {
		t.Errorf("Stat(/lib/).Path = %q, want /lib", n.Path)
	}
}

func testReadDir(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	lib, err := b.ReadDir(ctx, "/lib")
	if err != nil {
		t.Fatalf("ReadDir(/lib): %v", err)
	}
	if len(lib) != 3 {
		t.Fatalf("ReadDir(/lib) returned %d entries, want 3: %v", len(lib), nodePaths(lib))
	}
	for _, n := range lib {
		if n.IsDir {
			t.Errorf("ReadDir(/lib): %s is a directory", n.Path)
		}
		if core.ParentPath(n.Path) != "/lib" {
			t.Errorf("ReadDir(/lib): %s is not a child of /lib", n.Path)
		}
	}

	root, err := b.ReadDir(ctx, "/")
	if err != nil {
		t.Fatalf("ReadDir(/): %v", err)
	}
	found := map[string]bool{}
	for _, n := range root {
		found[n.Path] = n.IsDir
	}
	if isDir, ok := found["/lib"]; !ok || !isDir {
		t.Errorf("ReadDir(/) = %v, want directory /lib", nodePaths(root))
	}
	if isDir, ok := found["/README.md"]; !ok || isDir {
		t.Errorf("ReadDir(/) = %v, want file /README.md", nodePaths(root))
	}

	// Results are owned by the caller.
	lib[0].Path = "/mutated"
	again, err := b.ReadDir(ctx, "/lib")
	if err != nil {
		t.Fatalf("ReadDir(/lib): %v", err)
	}
	for _, n := range again {
		if n.Path == "/mutated" {
			t.Error("ReadDir() returned a slice shared with an earlier call")
		}
	}
}

func testReadFileText(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	text, err := core.ReadFileString(ctx, b, "/lib/file2.txt", "utf8")
	if err != nil {
		t.Fatalf("ReadFileString(/lib/file2.txt, utf8): %v", err)
	}
	if text != "ÜÄ✓✗\n" {
		t.Errorf("ReadFileString(/lib/file2.txt, utf8) = %q, want %q", text, "ÜÄ✓✗\n")
	}

	for _, f := range FixtureFiles() {
		data, err := b.ReadFile(ctx, f.Path)
		if err != nil {
			t.Errorf("ReadFile(%s): %v", f.Path, err)
			continue
		}
		content, err := core.ReadFile(ctx, b, f.Path, &core.ReadFileOptions{Encoding: "utf-8"})
		if err != nil {
			t.Errorf("core.ReadFile(%s, utf-8): %v", f.Path, err)
			continue
		}
		if content.Text != string(data) {
			t.Errorf("core.ReadFile(%s, utf-8) = %q, want %q", f.Path, content.Text, data)
		}
	}
}

func testReadFileBytes(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	for _, f := range FixtureFiles() {
		data, err := b.ReadFile(ctx, f.Path)
		if err != nil {
			t.Errorf("ReadFile(%s): %v", f.Path, err)
			continue
		}
		if !bytes.Equal(data, []byte(f.Content)) {
			t.Errorf("ReadFile(%s) = %q, want %q", f.Path, data, f.Content)
		}
	}

	data, err := b.ReadFile(ctx, "/lib/file2.txt")
	if err != nil {
		t.Fatalf("ReadFile(/lib/file2.txt): %v", err)
	}
	if len(data) != 11 {
		t.Errorf("ReadFile(/lib/file2.txt) returned %d bytes, want 11", len(data))
	}
}
