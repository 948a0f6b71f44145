package vfs

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jmgilman/go/vfs/archive"
	"github.com/jmgilman/go/vfs/billy"
	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/minio"
)

// Types returns the bundled backend types.
func Types() []core.Type {
	return []core.Type{
		{
			Scheme:       billy.SchemeLocal,
			Capabilities: billy.Capabilities,
			New: func(cfg core.Config) (core.Backend, error) {
				b, err := billy.NewLocal(cfg)
				if err != nil {
					return nil, err
				}
				return b, nil
			},
		},
		{
			Scheme:       billy.SchemeMemory,
			Capabilities: billy.Capabilities,
			New: func(cfg core.Config) (core.Backend, error) {
				b, err := billy.NewMemory(cfg)
				if err != nil {
					return nil, err
				}
				return b, nil
			},
		},
		{
			Scheme:       minio.Scheme,
			Capabilities: minio.Capabilities,
			New: func(cfg core.Config) (core.Backend, error) {
				b, err := minio.New(cfg)
				if err != nil {
					return nil, err
				}
				return b, nil
			},
		},
		{
			Scheme:       archive.Scheme,
			Capabilities: archive.Capabilities,
			New: func(cfg core.Config) (core.Backend, error) {
				b, err := archive.New(cfg)
				if err != nil {
					return nil, err
				}
				return b, nil
			},
		},
	}
}

// Register adds the bundled backend types to reg.
func Register(reg *core.Registry) error {
	for _, t := range Types() {
		if err := reg.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry with the bundled backends registered.
func NewRegistry() *core.Registry {
	reg := core.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}

// ParseURL splits a backend URL into a scheme and a configuration.
//
// The location is the URL's host and path joined, so "file:///srv/site"
// names /srv/site and "s3://bucket/prefix" names bucket/prefix. A host of
// "localhost" is dropped. Query parameters become options:
//
//	s3://bucket/prefix?endpoint=localhost:9000&access_key=k&secret_key=s
//	archive:///srv/bundle.bin?format=tar.gz&max_files=100
//	mem:
func ParseURL(rawURL string) (string, core.Config, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", core.Config{}, errors.Wrap(err, errors.CodeInvalidInput, "parse backend url")
	}
	if u.Scheme == "" {
		return "", core.Config{}, errors.Newf(errors.CodeInvalidInput, "backend url %q has no scheme", rawURL)
	}

	location := u.Opaque
	if location == "" {
		host := u.Host
		if strings.EqualFold(host, "localhost") {
			host = ""
		}
		location = host + u.Path
	}

	var options core.Options
	if q := u.Query(); len(q) > 0 {
		options = make(core.Options, len(q))
		for key, values := range q {
			options[key] = values[len(values)-1]
		}
	}

	return strings.ToLower(u.Scheme), core.Config{Location: location, Options: options}, nil
}

// OpenURL constructs and initializes the backend named by rawURL. See
// ParseURL for the URL forms.
func OpenURL(ctx context.Context, reg *core.Registry, rawURL string, logger *slog.Logger) (core.Backend, error) {
	scheme, cfg, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	cfg.Logger = logger
	return reg.Open(ctx, scheme, cfg)
}
