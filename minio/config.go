package minio

import (
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

// Config holds MinIO backend configuration.
type Config struct {
	// Endpoint is the MinIO server address (e.g., "localhost:9000")
	Endpoint string

	// Bucket is the S3 bucket name
	Bucket string

	// AccessKey is the access key ID for authentication
	AccessKey string

	// SecretKey is the secret access key for authentication
	SecretKey string

	// UseSSL enables HTTPS connections
	UseSSL bool

	// Region pins the bucket region and skips location lookups
	Region string

	// Prefix is an optional prefix for all object keys (for namespacing)
	Prefix string

	// ChunkSize is the chunk size of streams. Zero selects
	// core.DefaultChunkSize.
	ChunkSize int

	// Client is an optional pre-configured MinIO client
	// If provided, Endpoint/AccessKey/SecretKey/UseSSL/Region are ignored
	Client *minio.Client
}

// validate checks if the configuration is valid.
// Either Client OR (Endpoint + Bucket + AccessKey + SecretKey) must be provided.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return invalidConfig("bucket is required")
	}
	if c.ChunkSize < 0 {
		return invalidConfig("chunk size must not be negative")
	}

	if c.Client != nil {
		return nil
	}

	if c.Endpoint == "" {
		return invalidConfig("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return invalidConfig("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return invalidConfig("secret key is required when client is not provided")
	}
	return nil
}

// knownOptions lists the generic options FromConfig understands.
var knownOptions = []string{"endpoint", "access_key", "secret_key", "use_ssl", "region", "chunk_size"}

// FromConfig decodes the generic configuration. Location is "bucket" or
// "bucket/prefix"; the options "endpoint", "access_key", "secret_key",
// "use_ssl", "region" and "chunk_size" supply the rest. Unknown options are
// rejected.
func FromConfig(cfg core.Config) (Config, error) {
	if unknown := cfg.Options.Unknown(knownOptions...); len(unknown) > 0 {
		return Config{}, errors.WithContext(
			invalidConfig("unknown options: "+strings.Join(unknown, ", ")),
			"options", unknown,
		)
	}

	location := strings.Trim(strings.ReplaceAll(cfg.Location, "\\", "/"), "/")
	bucket, prefix, _ := strings.Cut(location, "/")
	c := Config{Bucket: bucket, Prefix: prefix}

	var err error
	if c.Endpoint, err = cfg.Options.String("endpoint", ""); err != nil {
		return Config{}, err
	}
	if c.AccessKey, err = cfg.Options.String("access_key", ""); err != nil {
		return Config{}, err
	}
	if c.SecretKey, err = cfg.Options.String("secret_key", ""); err != nil {
		return Config{}, err
	}
	if c.UseSSL, err = cfg.Options.Bool("use_ssl", false); err != nil {
		return Config{}, err
	}
	if c.Region, err = cfg.Options.String("region", ""); err != nil {
		return Config{}, err
	}
	chunkSize, err := cfg.Options.Int64("chunk_size", 0)
	if err != nil {
		return Config{}, err
	}
	c.ChunkSize = int(chunkSize)
	return c, nil
}

func invalidConfig(msg string) errors.Error {
	return errors.New(errors.CodeInvalidConfig, "invalid config: "+msg)
}
