package core

import (
	stderrors "errors"
	"io"
	"iter"
	"sync"

	"github.com/jmgilman/go/vfs/errors"
)

// DefaultChunkSize is the chunk size of streams created by the bundled
// backends.
const DefaultChunkSize = 64 * 1024

// maxEmptyReads bounds consecutive empty reads before a stream gives up.
const maxEmptyReads = 100

// Stream is a lazy, finite, non-restartable sequence of byte chunks read from
// a file. Concatenating every chunk yields the file's complete content.
//
// Next returns io.EOF once the content is exhausted. Any other error is
// terminal: it is returned by every later call and no further chunks are
// delivered. The underlying reader is closed on EOF, on failure and by
// Close.
//
// A Stream is not safe for concurrent reads; Close may be called from any
// goroutine.
type Stream struct {
	rc   io.ReadCloser
	path string
	buf  []byte
	err  error

	closeOnce sync.Once
	closeErr  error
	mu        sync.Mutex
	closed    bool
}

// NewStream returns a stream reading name from rc in chunks of at most
// chunkSize bytes. A chunkSize below 1 selects DefaultChunkSize.
func NewStream(rc io.ReadCloser, name string, chunkSize int) *Stream {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}
	return &Stream{
		rc:   rc,
		path: CleanPath(name),
		buf:  make([]byte, chunkSize),
	}
}

// Path returns the path of the file being streamed.
func (s *Stream) Path() string {
	return s.path
}

// Next returns the next chunk. The returned slice is owned by the caller.
func (s *Stream) Next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.isClosed() {
		s.err = errors.PathError(errors.CodeClosed, "read", s.path, "stream closed")
		return nil, s.err
	}

	for empty := 0; ; empty++ {
		n, err := s.rc.Read(s.buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, s.buf[:n])
			if err != nil {
				s.fail(err)
			}
			return chunk, nil
		}
		if err != nil {
			s.fail(err)
			return nil, s.err
		}
		if empty >= maxEmptyReads {
			s.fail(io.ErrNoProgress)
			return nil, s.err
		}
	}
}

// fail records the terminal error and releases the reader.
func (s *Stream) fail(err error) {
	if stderrors.Is(err, io.EOF) {
		s.err = io.EOF
	} else {
		s.err = TranslateError(err, "read", s.path)
	}
	_ = s.Close()
}

// All returns an iterator over the remaining chunks. Iteration stops at the
// end of the content, after yielding an error, or when the loop breaks; the
// stream is closed in every case.
//
//	for chunk, err := range stream.All() {
//	    if err != nil {
//	        return err
//	    }
//	    h.Write(chunk)
//	}
func (s *Stream) All() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		defer s.Close()
		for {
			chunk, err := s.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// WriteTo writes the remaining chunks to w. It implements io.WriterTo.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for chunk, err := range s.All() {
		if err != nil {
			return total, err
		}
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Close releases the underlying reader. It is idempotent.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.closeErr = s.rc.Close()
	})
	return s.closeErr
}

func (s *Stream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
