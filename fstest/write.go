package fstest

import (
	"testing"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

func testWrite(t *testing.T, h Harness) {
	ctx, b := open(t, h)
	caps := b.Capabilities()
	if !caps.Has(core.CapWriteFile) {
		t.Skip("backend does not declare writeFile")
	}

	const name = "/new/nested/file.txt"
	content := []byte("written by the suite\n")
	if err := core.WriteFile(ctx, b, name, content); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}

	n, err := b.Stat(ctx, name)
	if err != nil {
		t.Fatalf("Stat(%s): %v", name, err)
	}
	if n.Size != int64(len(content)) {
		t.Errorf("Stat(%s).Size = %d, want %d", name, n.Size, len(content))
	}
	parent, err := b.Stat(ctx, "/new/nested")
	if err != nil {
		t.Fatalf("Stat(/new/nested): %v", err)
	}
	if !parent.IsDir {
		t.Error("WriteFile() did not create parent directories")
	}

	// Replace.
	if err := core.WriteFile(ctx, b, name, []byte("short\n")); err != nil {
		t.Fatalf("WriteFile(%s) again: %v", name, err)
	}
	data, err := b.ReadFile(ctx, name)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", name, err)
	}
	if string(data) != "short\n" {
		t.Errorf("ReadFile(%s) after replace = %q", name, data)
	}

	expectCode(t, core.WriteFile(ctx, b, "/lib", []byte("x")), errors.CodeIsADirectory, "WriteFile(/lib)")
	expectCode(t, core.WriteFile(ctx, b, "/README.md/x/y.txt", []byte("x")), errors.CodeNotADirectory,
		"WriteFile(/README.md/x/y.txt)")

	// Cross-backend copy semantics apply within one backend too.
	err = core.CopyFile(ctx, b, "/lib/file1.txt", b, "/lib/file2.txt", nil)
	expectCode(t, err, errors.CodeConflict, "CopyFile() onto an existing file")

	if caps.Has(core.CapCopyFile) {
		if err := b.(core.Copier).CopyFile(ctx, "/lib/file2.txt", "/copy/file2.txt"); err != nil {
			t.Fatalf("CopyFile(): %v", err)
		}
		data, err := b.ReadFile(ctx, "/copy/file2.txt")
		if err != nil {
			t.Fatalf("ReadFile(/copy/file2.txt): %v", err)
		}
		if string(data) != "ÜÄ✓✗\n" {
			t.Errorf("copied content = %q", data)
		}
	}

	if caps.Has(core.CapUnlink) {
		if err := core.Unlink(ctx, b, name); err != nil {
			t.Fatalf("Unlink(%s): %v", name, err)
		}
		_, err := b.Stat(ctx, name)
		expectCode(t, err, errors.CodeNoSuchFile, "Stat() after Unlink")

		expectCode(t, core.Unlink(ctx, b, name), errors.CodeNoSuchFile, "Unlink() of a missing file")
		expectCode(t, core.Unlink(ctx, b, "/lib"), errors.CodeIsADirectory, "Unlink(/lib)")
	}
}
