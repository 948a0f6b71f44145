package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/fstest"
)

// testEntry describes one member of a generated archive. Names ending in
// "/" are directories.
type testEntry struct {
	name    string
	content string
	mtime   time.Time
	link    string
}

// fixtureEntries returns the standard fixture as archive members. When
// withDirs is set the archive lists /lib explicitly.
func fixtureEntries(withDirs bool) []testEntry {
	var entries []testEntry
	if withDirs {
		entries = append(entries, testEntry{name: "lib/", mtime: time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC)})
	}
	for _, f := range fstest.FixtureFiles() {
		entries = append(entries, testEntry{
			name:    core.RelativePath(f.Path),
			content: f.Content,
			mtime:   f.ModTime,
		})
	}
	return entries
}

// buildArchive encodes entries in format f.
func buildArchive(t testing.TB, f Format, entries []testEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	switch f {
	case FormatTar:
		writeTar(t, &buf, entries)
	case FormatTarGz:
		zw := pgzip.NewWriter(&buf)
		writeTar(t, zw, entries)
		require.NoError(t, zw.Close())
	case FormatTarZst:
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		writeTar(t, zw, entries)
		require.NoError(t, zw.Close())
	case FormatZip:
		writeZip(t, &buf, entries)
	default:
		t.Fatalf("unknown format %q", f)
	}
	return buf.Bytes()
}

func writeTar(t testing.TB, w io.Writer, entries []testEntry) {
	t.Helper()

	tw := tar.NewWriter(w)
	for _, e := range entries {
		hdr := &tar.Header{
			Name:    e.name,
			Mode:    0o644,
			ModTime: e.mtime,
		}
		switch {
		case e.link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.link
		case strings.HasSuffix(e.name, "/"):
			hdr.Typeflag = tar.TypeDir
			hdr.Mode = 0o755
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.content))
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if hdr.Typeflag == tar.TypeReg {
			_, err := io.WriteString(tw, e.content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
}

func writeZip(t testing.TB, w io.Writer, entries []testEntry) {
	t.Helper()

	zw := zip.NewWriter(w)
	for _, e := range entries {
		hdr := &zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: e.mtime}
		if strings.HasSuffix(e.name, "/") {
			hdr.Method = zip.Store
		}
		fw, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		if !strings.HasSuffix(e.name, "/") {
			_, err = io.WriteString(fw, e.content)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
}

// writeArchiveFile writes an archive into a temporary directory under name
// and returns its path.
func writeArchiveFile(t testing.TB, name string, data []byte) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

// extension returns the canonical file extension of f.
func extension(f Format) string {
	return "." + string(f)
}
