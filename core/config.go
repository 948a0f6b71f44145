package core

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/jmgilman/go/vfs/errors"
)

// Config is the generic construction input for every backend type.
type Config struct {
	// Location is the root reference: a directory, an archive path or a
	// bucket and prefix, depending on the backend.
	Location string

	// Options holds backend-specific settings. Values come from code, URL
	// query strings or YAML documents, so accessors accept both native
	// values and their string forms.
	Options Options

	// Logger receives lifecycle and operation logs. Nil disables logging.
	Logger *slog.Logger
}

// Options is a set of backend-specific settings.
type Options map[string]any

// String returns the string option key, or def if it is unset.
func (o Options) String(key, def string) (string, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case fmt.Stringer:
		return t.String(), nil
	default:
		return "", invalidOption(key, v, "string")
	}
}

// Bool returns the boolean option key, or def if it is unset.
func (o Options) Bool(key string, def bool) (bool, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			return false, invalidOption(key, v, "bool")
		}
		return b, nil
	default:
		return false, invalidOption(key, v, "bool")
	}
}

// Int64 returns the integer option key, or def if it is unset.
func (o Options) Int64(key string, def int64) (int64, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint32:
		return int64(t), nil
	case float64:
		if t != float64(int64(t)) {
			return 0, invalidOption(key, v, "integer")
		}
		return int64(t), nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, invalidOption(key, v, "integer")
		}
		return n, nil
	default:
		return 0, invalidOption(key, v, "integer")
	}
}

// Unknown returns the option keys not listed in known, in lexical order.
func (o Options) Unknown(known ...string) []string {
	var out []string
	for key := range o {
		if !slices.Contains(known, key) {
			out = append(out, key)
		}
	}
	slices.Sort(out)
	return out
}

func invalidOption(key string, value any, want string) error {
	err := errors.Newf(errors.CodeInvalidConfig, "option %q: expected %s, got %T", key, want, value)
	return errors.WithContext(err, "option", key)
}
