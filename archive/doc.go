// Package archive provides a read-only backend over tar, tar.gz, tar.zst and
// zip archives.
//
// The archive is read once at Init and indexed into an in-memory tree.
// Directories that the archive does not list explicitly are synthesised from
// the entry names and carry the archive's own modification time. Entry names
// are validated before they are admitted, and the index enforces limits on
// the number of files and their sizes:
//
//	b, err := archive.New(core.Config{Location: "/tmp/site.tar.gz"})
//	if err != nil {
//	    return err
//	}
//	if err := b.Init(ctx); err != nil {
//	    return err
//	}
//	defer b.Close()
//
// By default the archive is read from the local disk. WithSource reads it
// through another backend instead, so an archive stored in a bucket or in
// memory can be mounted directly.
//
// The backend does not declare createReadStream: entries are served whole
// from the index.
package archive
