package core

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/vfs/errors"
)

func fakeType() Type {
	return Type{
		Scheme:       "fake",
		Capabilities: NewCapabilities(CapReadDir, CapReadFile),
		New: func(cfg Config) (Backend, error) {
			if cfg.Location == "bad" {
				return nil, errors.New(errors.CodeInvalidConfig, "bad location")
			}
			return newFake(CapReadDir, CapReadFile), nil
		},
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(fakeType()))

	err := r.Register(fakeType())
	assert.True(t, stderrors.Is(err, ErrConflict))

	err = r.Register(Type{Scheme: "x"})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	assert.Equal(t, []string{"fake"}, r.Schemes())

	typ, ok := r.Lookup("fake")
	require.True(t, ok)
	assert.True(t, typ.Capabilities.Has(CapReadFile))

	_, ok = r.Lookup("nope")
	assert.False(t, ok)
}

func TestRegistry_Open(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	require.NoError(t, r.Register(fakeType()))

	b, err := r.Open(ctx, "fake", Config{})
	require.NoError(t, err)
	assert.Equal(t, StateReady, b.State())
	require.NoError(t, b.Close())

	_, err = r.Open(ctx, "fake", Config{Location: "bad"})
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

	_, err = r.New("nope", Config{})
	assert.True(t, stderrors.Is(err, ErrUnsupported))
}

func TestRegistry_SchemeMismatch(t *testing.T) {
	r := NewRegistry()
	typ := fakeType()
	typ.Scheme = "other"
	require.NoError(t, r.Register(typ))

	_, err := r.New("other", Config{})
	assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
}
