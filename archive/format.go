package archive

import (
	"archive/tar"
	"bytes"
	stderrors "errors"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"

	"github.com/jmgilman/go/vfs/errors"
)

// Format identifies an archive container format.
type Format string

const (
	// FormatTar is an uncompressed tar archive.
	FormatTar Format = "tar"
	// FormatTarGz is a gzip-compressed tar archive.
	FormatTarGz Format = "tar.gz"
	// FormatTarZst is a zstd-compressed tar archive.
	FormatTarZst Format = "tar.zst"
	// FormatZip is a zip archive.
	FormatZip Format = "zip"
)

var formatAliases = map[string]Format{
	"tar":      FormatTar,
	"tar.gz":   FormatTarGz,
	"tgz":      FormatTarGz,
	"gz":       FormatTarGz,
	"tar.zst":  FormatTarZst,
	"tar.zstd": FormatTarZst,
	"tzst":     FormatTarZst,
	"zst":      FormatTarZst,
	"zip":      FormatZip,
}

// ParseFormat returns the format named by s. Common aliases such as "tgz"
// are accepted.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimPrefix(s, "."))]; ok {
		return f, nil
	}
	return "", errors.WithContext(
		errors.Newf(errors.CodeInvalidConfig, "unknown archive format %q", s),
		"option", "format",
	)
}

// DetectFormat infers the format from the extension of name.
func DetectFormat(name string) (Format, error) {
	lower := strings.ToLower(name)
	for _, ext := range []string{".tar.gz", ".tar.zst", ".tar.zstd", ".tgz", ".tzst", ".tar", ".zip"} {
		if strings.HasSuffix(lower, ext) {
			return formatAliases[ext[1:]], nil
		}
	}
	return "", errors.Newf(errors.CodeInvalidConfig, "cannot infer archive format of %q; set the format option", name)
}

// load indexes data, which holds an archive in format f.
func load(ix *index, f Format, data []byte) error {
	switch f {
	case FormatTar:
		return loadTar(ix, bytes.NewReader(data))
	case FormatTarGz:
		zr, err := pgzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return corrupt(err, f)
		}
		defer zr.Close()
		return loadTar(ix, zr)
	case FormatTarZst:
		zr, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return corrupt(err, f)
		}
		defer zr.Close()
		return loadTar(ix, zr)
	case FormatZip:
		return loadZip(ix, data)
	default:
		return errors.Newf(errors.CodeInvalidConfig, "unknown archive format %q", f)
	}
}

func loadTar(ix *index, r io.Reader) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return corrupt(err, FormatTar)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := ix.addDir(hdr.Name, hdr.ModTime); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := ix.checkFile(hdr.Name, hdr.Size); err != nil {
				return err
			}
			data, err := io.ReadAll(io.LimitReader(tr, hdr.Size))
			if err != nil {
				return corrupt(err, FormatTar)
			}
			if err := ix.addFile(hdr.Name, hdr.ModTime, int64(len(data)), data, nil); err != nil {
				return err
			}
		default:
			// Links, devices and FIFOs have no node representation.
			ix.skipped++
		}
	}
}

func loadZip(ix *index, data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return corrupt(err, FormatZip)
	}
	for _, f := range zr.File {
		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := ix.addDir(f.Name, f.Modified); err != nil {
				return err
			}
		case mode.IsRegular():
			size := int64(f.UncompressedSize64)
			if err := ix.checkFile(f.Name, size); err != nil {
				return err
			}
			if err := ix.addFile(f.Name, f.Modified, size, nil, f); err != nil {
				return err
			}
		default:
			ix.skipped++
		}
	}
	return nil
}

func corrupt(err error, f Format) error {
	return errors.WithContext(errors.Wrap(err, errors.CodeIOFailure, "read archive"), "format", string(f))
}
