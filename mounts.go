package vfs

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/vfs/archive"
	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
	"github.com/jmgilman/go/vfs/internal/logging"
)

// Mount describes one backend of a mount table. A mount gives either URL or
// Scheme and Location; Options are merged over the URL's query parameters.
type Mount struct {
	Name     string         `yaml:"name"`
	URL      string         `yaml:"url,omitempty"`
	Scheme   string         `yaml:"scheme,omitempty"`
	Location string         `yaml:"location,omitempty"`
	Options  map[string]any `yaml:"options,omitempty"`

	// Source names an earlier mount that an archive mount reads its
	// archive from.
	Source string `yaml:"source,omitempty"`
}

// config resolves the mount's scheme and configuration.
func (m Mount) config() (string, core.Config, error) {
	scheme, cfg := m.Scheme, core.Config{Location: m.Location}
	if m.URL != "" {
		var err error
		if scheme, cfg, err = ParseURL(m.URL); err != nil {
			return "", core.Config{}, err
		}
	}
	if len(m.Options) > 0 && cfg.Options == nil {
		cfg.Options = make(core.Options, len(m.Options))
	}
	for k, v := range m.Options {
		cfg.Options[k] = v
	}
	return scheme, cfg, nil
}

// LogSettings configures the logger a mount table opens its backends with
// when the caller does not supply one.
type LogSettings struct {
	// Level is one of debug, info, warn or error. Defaults to info.
	Level string `yaml:"level,omitempty"`
	// Format is text or json. Defaults to text.
	Format string `yaml:"format,omitempty"`
}

// NewLogger builds a slog logger writing to w (stderr when nil).
func (s LogSettings) NewLogger(w io.Writer) (*slog.Logger, error) {
	cfg := logging.DefaultLogConfig()
	cfg.Output = w
	if s.Level != "" {
		level, err := logging.ParseLogLevel(s.Level)
		if err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "invalid log settings"),
				"level", s.Level,
			)
		}
		cfg.Level = level
	}
	switch s.Format {
	case "", "text":
	case "json":
		cfg.JSON = true
	default:
		return nil, errors.WithContext(
			errors.New(errors.CodeInvalidConfig, "invalid log settings: unknown format"),
			"format", s.Format,
		)
	}
	return logging.NewLogger(cfg).Slog(), nil
}

// Mounts is a mount table.
type Mounts struct {
	Log    *LogSettings `yaml:"log,omitempty"`
	Mounts []Mount      `yaml:"mounts"`
}

// LoadMounts parses a YAML mount table and validates it. Unknown fields are
// rejected.
func LoadMounts(r io.Reader) (*Mounts, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Mounts
	if err := dec.Decode(&m); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "decode mount table")
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Mounts) validate() error {
	if m.Log != nil {
		if _, err := m.Log.NewLogger(io.Discard); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(m.Mounts))
	for i, mount := range m.Mounts {
		invalid := func(msg string) error {
			return errors.WithContextMap(
				errors.New(errors.CodeInvalidConfig, msg),
				map[string]interface{}{"mount": mount.Name, "index": i},
			)
		}

		switch {
		case mount.Name == "":
			return invalid("mount has no name")
		case seen[mount.Name]:
			return invalid("duplicate mount name " + mount.Name)
		case mount.URL == "" && mount.Scheme == "":
			return invalid("mount needs a url or a scheme")
		case mount.URL != "" && (mount.Scheme != "" || mount.Location != ""):
			return invalid("mount sets both url and scheme/location")
		}

		if mount.Source != "" {
			scheme, _, err := mount.config()
			if err != nil {
				return errors.WithContext(err, "mount", mount.Name)
			}
			if scheme != archive.Scheme {
				return invalid("only archive mounts take a source")
			}
			if !seen[mount.Source] {
				return invalid("source " + mount.Source + " is not an earlier mount")
			}
		}
		seen[mount.Name] = true
	}
	return nil
}

// Open constructs and initializes every mount in order. If any mount fails,
// the mounts already opened are closed and the error is returned. A nil
// logger falls back to the table's log settings, if any.
func (m *Mounts) Open(ctx context.Context, reg *core.Registry, logger *slog.Logger) (*Table, error) {
	if logger == nil && m.Log != nil {
		var err error
		if logger, err = m.Log.NewLogger(nil); err != nil {
			return nil, err
		}
	}

	t := &Table{backends: make(map[string]core.Backend, len(m.Mounts))}
	for _, mount := range m.Mounts {
		b, err := t.open(ctx, reg, mount, logger)
		if err != nil {
			_ = t.Close()
			return nil, errors.WithContext(err, "mount", mount.Name)
		}
		t.backends[mount.Name] = b
		t.names = append(t.names, mount.Name)
	}
	return t, nil
}

// Table holds the opened backends of a mount table.
type Table struct {
	backends map[string]core.Backend
	names    []string
}

func (t *Table) open(ctx context.Context, reg *core.Registry, m Mount, logger *slog.Logger) (core.Backend, error) {
	scheme, cfg, err := m.config()
	if err != nil {
		return nil, err
	}
	if logger != nil {
		cfg.Logger = logger.With("mount", m.Name)
	}

	if m.Source == "" {
		return reg.Open(ctx, scheme, cfg)
	}

	src, ok := t.backends[m.Source]
	if !ok {
		return nil, errors.Newf(errors.CodeInvalidConfig, "source mount %q is not open", m.Source)
	}
	b, err := archive.New(cfg, archive.WithSource(src))
	if err != nil {
		return nil, err
	}
	if err := b.Init(ctx); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

// Get returns the backend mounted under name.
func (t *Table) Get(name string) (core.Backend, bool) {
	b, ok := t.backends[name]
	return b, ok
}

// Names returns the mount names in table order.
func (t *Table) Names() []string {
	return slices.Clone(t.names)
}

// Close closes every backend in reverse order and returns the joined errors.
func (t *Table) Close() error {
	var errs []error
	for _, name := range slices.Backward(t.names) {
		if err := t.backends[name].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
