package fstest

import (
	"testing"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

func testErrors(t *testing.T, h Harness) {
	ctx, b := open(t, h)

	_, err := b.Stat(ctx, "/missing.txt")
	expectCode(t, err, errors.CodeNoSuchFile, "Stat(/missing.txt)")

	_, err = b.ReadDir(ctx, "/missing")
	expectCode(t, err, errors.CodeNoSuchDirectory, "ReadDir(/missing)")

	_, err = b.ReadDir(ctx, "/README.md")
	expectCode(t, err, errors.CodeNotADirectory, "ReadDir(/README.md)")

	_, err = b.Stat(ctx, "/README.md/x")
	expectCode(t, err, errors.CodeNoSuchFile, "Stat(/README.md/x)")

	_, err = b.ReadFile(ctx, "/README.md/x")
	expectCode(t, err, errors.CodeNoSuchFile, "ReadFile(/README.md/x)")

	_, err = core.GetDir(ctx, b, "/README.md/x", nil)
	expectCode(t, err, errors.CodeNoSuchDirectory, "GetDir(/README.md/x)")

	_, err = b.ReadFile(ctx, "/missing.txt")
	expectCode(t, err, errors.CodeNoSuchFile, "ReadFile(/missing.txt)")

	_, err = b.ReadFile(ctx, "/lib")
	expectCode(t, err, errors.CodeIsADirectory, "ReadFile(/lib)")

	_, err = core.GetDir(ctx, b, "/missing", nil)
	expectCode(t, err, errors.CodeNoSuchDirectory, "GetDir(/missing)")

	_, err = core.GetDir(ctx, b, "/README.md", nil)
	expectCode(t, err, errors.CodeNoSuchDirectory, "GetDir(/README.md)")

	_, err = core.Find(ctx, b, "/README.md", nil)
	expectCode(t, err, errors.CodeNotADirectory, "Find(/README.md)")

	_, err = core.Find(ctx, b, "/missing", nil)
	expectCode(t, err, errors.CodeNoSuchDirectory, "Find(/missing)")

	_, err = core.ReadFile(ctx, b, "/README.md", &core.ReadFileOptions{Encoding: "no-such-encoding"})
	expectCode(t, err, errors.CodeInvalidInput, "ReadFile(encoding=no-such-encoding)")

	if err := b.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}
	_, err = b.ReadFile(ctx, "/README.md")
	expectCode(t, err, errors.CodeClosed, "ReadFile() after Close")
	_, err = b.ReadDir(ctx, "/")
	expectCode(t, err, errors.CodeClosed, "ReadDir() after Close")
}
