package core

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/jmgilman/go/vfs/errors"
)

// ReadFileOptions controls ReadFile.
type ReadFileOptions struct {
	// Encoding names the text encoding to decode the content with. Empty
	// returns raw bytes only.
	Encoding string
}

// Content is the result of ReadFile.
type Content struct {
	// Data is the raw file content.
	Data []byte

	// Text is Data decoded with the requested encoding. It is empty when
	// no encoding was requested.
	Text string

	// Encoded reports whether Text holds decoded content.
	Encoded bool
}

// String returns the decoded text, or Data interpreted as UTF-8 when no
// encoding was requested.
func (c Content) String() string {
	if c.Encoded {
		return c.Text
	}
	return string(c.Data)
}

// ReadFile reads the file at name from b and optionally decodes it.
//
// Encodings are WHATWG labels ("utf-8", "latin1", "utf-16le", ...) plus the
// aliases "utf16le", "ucs2", "binary", "hex" and "base64". An unknown
// encoding yields INVALID_INPUT before the file is read.
func ReadFile(ctx context.Context, b Backend, name string, opts *ReadFileOptions) (Content, error) {
	if !Supports(b, CapReadFile) {
		return Content{}, Unsupported(b.Scheme(), CapReadFile)
	}
	if opts == nil {
		opts = &ReadFileOptions{}
	}

	var decode func([]byte) (string, error)
	if opts.Encoding != "" {
		fn, err := decoderFor(opts.Encoding)
		if err != nil {
			return Content{}, errors.WithPath(err, "readfile", CleanPath(name))
		}
		decode = fn
	}

	data, err := b.ReadFile(ctx, name)
	if err != nil {
		return Content{}, err
	}
	if decode == nil {
		return Content{Data: data}, nil
	}

	text, err := decode(data)
	if err != nil {
		return Content{}, errors.WrapPath(err, errors.CodeInvalidInput, "readfile", CleanPath(name), "decode content")
	}
	return Content{Data: data, Text: text, Encoded: true}, nil
}

// ReadFileString reads the file at name and decodes it with encoding.
func ReadFileString(ctx context.Context, b Backend, name, encoding string) (string, error) {
	content, err := ReadFile(ctx, b, name, &ReadFileOptions{Encoding: encoding})
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// Decode decodes data with the named encoding.
func Decode(data []byte, encoding string) (string, error) {
	decode, err := decoderFor(encoding)
	if err != nil {
		return "", err
	}
	return decode(data)
}

var aliases = map[string]encoding.Encoding{
	"utf16le": unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"ucs2":    unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"ucs-2":   unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"binary":  charmap.ISO8859_1,
	"latin1":  charmap.ISO8859_1,
}

func decoderFor(name string) (func([]byte) (string, error), error) {
	label := strings.ToLower(strings.TrimSpace(name))
	switch label {
	case "hex":
		return func(b []byte) (string, error) { return hex.EncodeToString(b), nil }, nil
	case "base64":
		return func(b []byte) (string, error) { return base64.StdEncoding.EncodeToString(b), nil }, nil
	}

	enc, ok := aliases[label]
	if !ok {
		var err error
		enc, err = htmlindex.Get(label)
		if err != nil {
			return nil, errors.WithContext(
				errors.Newf(errors.CodeInvalidInput, "unknown encoding %q", name),
				"encoding", name,
			)
		}
	}
	return func(b []byte) (string, error) {
		out, err := enc.NewDecoder().Bytes(b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}, nil
}
