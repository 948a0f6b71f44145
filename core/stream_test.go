package core

import (
	"bytes"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/vfs/errors"
)

type trackingCloser struct {
	io.Reader
	closes int
}

func (c *trackingCloser) Close() error {
	c.closes++
	return nil
}

func TestStream_ChunksConcatenateToContent(t *testing.T) {
	content := "ÜÄ✓✗\n"
	rc := &trackingCloser{Reader: strings.NewReader(content)}
	s := NewStream(rc, "lib/file2.txt", 4)
	assert.Equal(t, "/lib/file2.txt", s.Path())

	var got bytes.Buffer
	var chunks int
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, len(chunk), 4)
		got.Write(chunk)
		chunks++
	}

	assert.Equal(t, content, got.String())
	assert.Equal(t, 3, chunks)
	assert.Equal(t, 1, rc.closes, "reader closed at end of content")

	// End of content is sticky.
	_, err := s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStream_ChunksAreOwnedByCaller(t *testing.T) {
	s := NewStream(io.NopCloser(strings.NewReader("aabb")), "/x", 2)
	first, err := s.Next()
	require.NoError(t, err)
	second, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "aa", string(first))
	assert.Equal(t, "bb", string(second))
}

func TestStream_FailureIsTerminal(t *testing.T) {
	cause := stderrors.New("connection reset")
	r := io.MultiReader(strings.NewReader("abc"), iotest.ErrReader(cause))
	rc := &trackingCloser{Reader: r}
	s := NewStream(rc, "/remote.bin", 16)

	chunk, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(chunk))

	_, err = s.Next()
	require.Error(t, err)
	assert.Equal(t, errors.CodeIOFailure, errors.GetCode(err))
	assert.True(t, stderrors.Is(err, cause))

	_, again := s.Next()
	assert.Equal(t, err, again)
	assert.Equal(t, 1, rc.closes)
}

func TestStream_DataAndErrorInOneRead(t *testing.T) {
	cause := stderrors.New("boom")
	s := NewStream(io.NopCloser(iotest.DataErrReader(iotest.ErrReader(cause))), "/x", 8)
	_, err := s.Next()
	assert.True(t, stderrors.Is(err, cause))

	s = NewStream(io.NopCloser(iotest.DataErrReader(strings.NewReader("hi"))), "/y", 8)
	chunk, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, "hi", string(chunk))
	_, err = s.Next()
	assert.Equal(t, io.EOF, err)
}

func TestStream_All(t *testing.T) {
	t.Run("drains", func(t *testing.T) {
		s := NewStream(io.NopCloser(strings.NewReader("hello world")), "/x", 3)
		var got []string
		for chunk, err := range s.All() {
			require.NoError(t, err)
			got = append(got, string(chunk))
		}
		assert.Equal(t, []string{"hel", "lo ", "wor", "ld"}, got)
	})

	t.Run("break closes", func(t *testing.T) {
		rc := &trackingCloser{Reader: strings.NewReader("hello world")}
		s := NewStream(rc, "/x", 3)
		for range s.All() {
			break
		}
		assert.Equal(t, 1, rc.closes)

		_, err := s.Next()
		assert.True(t, stderrors.Is(err, ErrClosed))
	})

	t.Run("yields error", func(t *testing.T) {
		s := NewStream(io.NopCloser(iotest.ErrReader(stderrors.New("nope"))), "/x", 3)
		var errs []error
		for _, err := range s.All() {
			errs = append(errs, err)
		}
		require.Len(t, errs, 1)
		assert.Equal(t, errors.CodeIOFailure, errors.GetCode(errs[0]))
	})
}

func TestStream_WriteTo(t *testing.T) {
	s := NewStream(io.NopCloser(strings.NewReader(strings.Repeat("x", 1000))), "/x", 7)
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), n)
	assert.Equal(t, 1000, buf.Len())
}

func TestStream_CloseIsIdempotent(t *testing.T) {
	rc := &trackingCloser{Reader: strings.NewReader("x")}
	s := NewStream(rc, "/x", 0)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, rc.closes)
	assert.Len(t, s.buf, DefaultChunkSize)
}

func TestStream_NoProgress(t *testing.T) {
	s := NewStream(io.NopCloser(emptyReader{}), "/x", 4)
	_, err := s.Next()
	assert.True(t, stderrors.Is(err, io.ErrNoProgress))
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, nil }
