package core

import (
	"bytes"
	"context"
	"io/fs"
	"path"
	"strings"

	"github.com/jmgilman/go/vfs/errors"
)

// CopyOptions controls CopyFile.
type CopyOptions struct {
	// Overwrite allows replacing an existing destination file.
	Overwrite bool
}

// CopyFile copies the file at srcPath in src to dstPath in dst. The two
// backends may be of different types.
//
// When src and dst are the same backend and it supports copyFile, the copy
// is delegated to it. Otherwise the content is read with a stream when src
// supports one, or with ReadFile, and written with dst's WriteFile.
//
// Without Overwrite an existing destination yields CONFLICT. A destination
// backend without writeFile yields UNSUPPORTED.
func CopyFile(ctx context.Context, src Backend, srcPath string, dst Backend, dstPath string, opts *CopyOptions) error {
	w, ok := dst.(Writer)
	if !ok || !dst.Capabilities().Has(CapWriteFile) {
		return Unsupported(dst.Scheme(), CapWriteFile)
	}
	if opts == nil {
		opts = &CopyOptions{}
	}
	srcPath, dstPath = CleanPath(srcPath), CleanPath(dstPath)

	if !opts.Overwrite {
		exists, err := Exists(ctx, dst, dstPath)
		if err != nil {
			return err
		}
		if exists {
			return errors.PathError(errors.CodeConflict, "copyfile", dstPath, "destination already exists")
		}
	}

	if src == dst && Supports(src, CapCopyFile) {
		return src.(Copier).CopyFile(ctx, srcPath, dstPath)
	}

	data, err := readAll(ctx, src, srcPath)
	if err != nil {
		return err
	}
	return w.WriteFile(ctx, dstPath, data)
}

func readAll(ctx context.Context, b Backend, name string) ([]byte, error) {
	if !Supports(b, CapCreateReadStream) {
		return b.ReadFile(ctx, name)
	}

	stream, err := b.(Streamer).CreateReadStream(ctx, name)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := stream.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CopyFromFS copies all files below srcRoot in a read-only filesystem
// (typically an embed.FS or os.DirFS) into dst, preserving the directory
// structure. Use "." to copy the entire source filesystem.
//
// Directories are not copied on their own; WriteFile creates them for the
// files they contain. If dst implements Toucher, modification times are
// preserved.
//
// Example:
//
//	//go:embed testdata/*
//	var fixtures embed.FS
//
//	err := core.CopyFromFS(ctx, fixtures, mem, "testdata")
func CopyFromFS(ctx context.Context, src fs.FS, dst Writer, srcRoot string) error {
	toucher, _ := dst.(Toucher)

	return fs.WalkDir(src, srcRoot, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return TranslateError(err, "copyfromfs", filePath)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// Directories are created by WriteFile.
		if d.IsDir() {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// WalkDir does not descend into linked directories; skip them.
			if info, err := fs.Stat(src, filePath); err == nil && info.IsDir() {
				return nil
			}
		}

		data, err := fs.ReadFile(src, filePath)
		if err != nil {
			return TranslateError(err, "copyfromfs", filePath)
		}
		info, err := d.Info()
		if err != nil {
			return TranslateError(err, "copyfromfs", filePath)
		}

		dstPath := filePath
		if srcRoot != "." && srcRoot != "" {
			dstPath = strings.TrimPrefix(filePath, srcRoot)
		}
		dstPath = CleanPath(path.Clean("/" + dstPath))

		if err := dst.WriteFile(ctx, dstPath, data); err != nil {
			return err
		}
		if toucher != nil {
			return toucher.Chtimes(ctx, dstPath, info.ModTime())
		}
		return nil
	})
}
