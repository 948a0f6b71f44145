package fstest

import (
	"bytes"
	"io"
	"testing"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

func testCreateReadStream(t *testing.T, h Harness) {
	ctx, b := open(t, h)
	if !b.Capabilities().Has(core.CapCreateReadStream) {
		t.Skip("backend does not declare createReadStream")
	}

	for _, f := range FixtureFiles() {
		want, err := b.ReadFile(ctx, f.Path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", f.Path, err)
		}

		s, err := core.CreateReadStream(ctx, b, f.Path)
		if err != nil {
			t.Fatalf("CreateReadStream(%s): %v", f.Path, err)
		}
		var got bytes.Buffer
		for {
			chunk, err := s.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("Next() on %s: %v", f.Path, err)
			}
			got.Write(chunk)
		}
		if !bytes.Equal(got.Bytes(), want) {
			t.Errorf("stream of %s = %q, ReadFile = %q", f.Path, got.Bytes(), want)
		}
		if _, err := s.Next(); err != io.EOF {
			t.Errorf("Next() after end of %s = %v, want io.EOF", f.Path, err)
		}
	}

	// Streams are independent and not restartable.
	first, err := core.CreateReadStream(ctx, b, "/lib/file2.txt")
	if err != nil {
		t.Fatalf("CreateReadStream(/lib/file2.txt): %v", err)
	}
	second, err := core.CreateReadStream(ctx, b, "/lib/file2.txt")
	if err != nil {
		t.Fatalf("CreateReadStream(/lib/file2.txt): %v", err)
	}
	var a, c bytes.Buffer
	if _, err := first.WriteTo(&a); err != nil {
		t.Fatalf("WriteTo(): %v", err)
	}
	if _, err := second.WriteTo(&c); err != nil {
		t.Fatalf("WriteTo(): %v", err)
	}
	if a.String() != "ÜÄ✓✗\n" || c.String() != "ÜÄ✓✗\n" {
		t.Errorf("independent streams = %q and %q", a.String(), c.String())
	}

	_, err = core.CreateReadStream(ctx, b, "/missing.txt")
	expectCode(t, err, errors.CodeNoSuchFile, "CreateReadStream(/missing.txt)")
	_, err = core.CreateReadStream(ctx, b, "/lib")
	expectCode(t, err, errors.CodeIsADirectory, "CreateReadStream(/lib)")
}
