package core

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/jmgilman/go/vfs/errors"
)

// DefaultFindConcurrency is the number of concurrent ReadDir calls Find
// issues when FindOptions.Concurrency is not set.
const DefaultFindConcurrency = 4

// FindOptions controls Find.
type FindOptions struct {
	// IncludeDirectories adds every directory below the root to the result.
	// The root itself is never included.
	IncludeDirectories bool

	// Concurrency bounds the number of concurrent ReadDir calls.
	// Values below 1 select DefaultFindConcurrency.
	Concurrency int
}

// Find returns the nodes below root, depth first.
//
// The result is in pre-order: each directory's children appear in ReadDir
// order, with a subdirectory's descendants immediately after the
// subdirectory's position. By default only files are returned.
//
// The first failure cancels the traversal and is returned without partial
// results. A root that is a file yields NOT_A_DIRECTORY, a missing root
// yields NO_SUCH_DIRECTORY.
func Find(ctx context.Context, b Backend, root string, opts *FindOptions) ([]Node, error) {
	if !Supports(b, CapFind) {
		return nil, Unsupported(b.Scheme(), CapFind)
	}
	if opts == nil {
		opts = &FindOptions{}
	}
	root = CleanPath(root)

	node, err := b.Stat(ctx, root)
	if err != nil {
		if errors.GetCode(err) == errors.CodeNoSuchFile {
			return nil, errors.WrapPath(err, errors.CodeNoSuchDirectory, "find", root, "no such directory")
		}
		return nil, err
	}
	if !node.IsDir {
		return nil, NotADirectory("find", root)
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = DefaultFindConcurrency
	}

	f := &finder{
		backend:     b,
		includeDirs: opts.IncludeDirectories,
		sem:         semaphore.NewWeighted(int64(concurrency)),
		seen:        map[string]struct{}{root: {}},
	}

	nodes, err := f.walk(ctx, root)
	if err != nil {
		var vfsErr errors.Error
		if !errors.As(err, &vfsErr) {
			return nil, IOFailure(err, "find", root)
		}
		return nil, err
	}
	return nodes, nil
}

type finder struct {
	backend     Backend
	includeDirs bool
	sem         *semaphore.Weighted

	mu   sync.Mutex
	seen map[string]struct{}
}

// walk lists dir and recurses into its subdirectories concurrently. The
// semaphore is held only around ReadDir so that a deep tree cannot starve
// itself of slots.
func (f *finder) walk(ctx context.Context, dir string) ([]Node, error) {
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	children, err := f.backend.ReadDir(ctx, dir)
	f.sem.Release(1)
	if err != nil {
		return nil, err
	}

	for _, child := range children {
		if err := f.visit(dir, child.Path); err != nil {
			return nil, err
		}
	}

	parts := make([][]Node, len(children))
	g, gctx := errgroup.WithContext(ctx)
	for i, child := range children {
		if !child.IsDir {
			parts[i] = []Node{child}
			continue
		}
		g.Go(func() error {
			sub, err := f.walk(gctx, child.Path)
			if err != nil {
				return err
			}
			if f.includeDirs {
				parts[i] = append([]Node{child}, sub...)
			} else {
				parts[i] = sub
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(parts...), nil
}

// visit records p and rejects entries that were already seen or that do not
// belong to dir.
func (f *finder) visit(dir, p string) error {
	if ParentPath(p) != dir || p == dir {
		return errors.WithContext(
			errors.PathError(errors.CodeIOFailure, "find", p, "listing returned an entry outside its directory"),
			"dir", dir,
		)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.seen[p]; ok {
		return errors.PathError(errors.CodeIOFailure, "find", p, "path visited twice")
	}
	f.seen[p] = struct{}{}
	return nil
}
