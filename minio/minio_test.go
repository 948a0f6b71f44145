package minio

import (
	"bytes"
	"context"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

// TestConfigValidation tests Config.validate() with various scenarios.
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config with credentials",
			config: Config{
				Endpoint:  "localhost:9000",
				Bucket:    "test-bucket",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
		},
		{
			name: "valid config with client",
			config: Config{
				Client: &minio.Client{},
				Bucket: "test-bucket",
			},
		},
		{
			name: "missing bucket",
			config: Config{
				Endpoint:  "localhost:9000",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "bucket is required",
		},
		{
			name: "missing endpoint without client",
			config: Config{
				Bucket:    "test-bucket",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "endpoint is required when client is not provided",
		},
		{
			name: "missing access key without client",
			config: Config{
				Endpoint:  "localhost:9000",
				Bucket:    "test-bucket",
				SecretKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "access key is required when client is not provided",
		},
		{
			name: "missing secret key without client",
			config: Config{
				Endpoint:  "localhost:9000",
				Bucket:    "test-bucket",
				AccessKey: "minioadmin",
			},
			wantErr: true,
			errMsg:  "secret key is required when client is not provided",
		},
		{
			name: "negative chunk size",
			config: Config{
				Client:    &minio.Client{},
				Bucket:    "test-bucket",
				ChunkSize: -1,
			},
			wantErr: true,
			errMsg:  "chunk size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	t.Run("bucket and prefix from location", func(t *testing.T) {
		c, err := FromConfig(core.Config{
			Location: "/my-bucket/site/assets/",
			Options: core.Options{
				"endpoint":   "localhost:9000",
				"access_key": "ak",
				"secret_key": "sk",
				"use_ssl":    "true",
				"region":     "eu-west-1",
				"chunk_size": 4096,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, Config{
			Endpoint:  "localhost:9000",
			Bucket:    "my-bucket",
			AccessKey: "ak",
			SecretKey: "sk",
			UseSSL:    true,
			Region:    "eu-west-1",
			Prefix:    "site/assets",
			ChunkSize: 4096,
		}, c)
	})

	t.Run("bucket only", func(t *testing.T) {
		c, err := FromConfig(core.Config{Location: "my-bucket"})
		require.NoError(t, err)
		assert.Equal(t, "my-bucket", c.Bucket)
		assert.Empty(t, c.Prefix)
	})

	t.Run("unknown options are rejected", func(t *testing.T) {
		_, err := FromConfig(core.Config{
			Location: "my-bucket",
			Options:  core.Options{"endpoint": "x", "zone": "a", "acl": "private"},
		})
		require.Error(t, err)
		assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
		assert.Contains(t, err.Error(), "acl, zone")
	})

	t.Run("mistyped option", func(t *testing.T) {
		_, err := FromConfig(core.Config{Location: "b", Options: core.Options{"use_ssl": 3.5}})
		assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
	})
}

// TestNewMinIO tests the NewMinIO constructor.
func TestNewMinIO(t *testing.T) {
	t.Run("invalid config returns error", func(t *testing.T) {
		fs, err := NewMinIO(Config{Endpoint: "localhost:9000"}, nil)
		require.Error(t, err)
		assert.Nil(t, fs)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("creates client from credentials", func(t *testing.T) {
		fs, err := NewMinIO(Config{
			Endpoint:  "localhost:9000",
			Bucket:    "test-bucket",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Prefix:    "/data/",
		}, nil)
		require.NoError(t, err)
		assert.NotNil(t, fs.Client())
		assert.Equal(t, "test-bucket", fs.Bucket())
		assert.Equal(t, "data", fs.Prefix())
		assert.Equal(t, Scheme, fs.Scheme())
		assert.Equal(t, core.StateUninitialized, fs.State())
	})

	t.Run("uses provided client", func(t *testing.T) {
		client := &minio.Client{}
		fs, err := NewMinIO(Config{Client: client, Bucket: "b"}, nil)
		require.NoError(t, err)
		assert.Same(t, client, fs.Client())
	})

	t.Run("generic config", func(t *testing.T) {
		fs, err := New(core.Config{
			Location: "b/p",
			Options:  core.Options{"endpoint": "localhost:9000", "access_key": "a", "secret_key": "s"},
		})
		require.NoError(t, err)
		assert.Equal(t, "p", fs.Prefix())
	})
}

// TestInterfaceCompliance verifies every declared capability is implemented.
func TestInterfaceCompliance(t *testing.T) {
	assert.Empty(t, core.VerifyCapabilities(&MinioFS{}))
	assert.Equal(t, len(core.AllCapabilities), Capabilities.Len())
}

func newTestFS(t *testing.T, endpoint, bucket string) *MinioFS {
	t.Helper()

	fs, err := NewMinIO(Config{
		Endpoint:  endpoint,
		Bucket:    bucket,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
	}, nil)
	require.NoError(t, err)
	return fs
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	endpoint := fakeBucketServer(t, "present")

	t.Run("existing bucket", func(t *testing.T) {
		fs := newTestFS(t, endpoint, "present")
		require.NoError(t, fs.Init(ctx))
		assert.Equal(t, core.StateReady, fs.State())

		select {
		case <-fs.Ready():
		default:
			t.Fatal("Ready() not closed after Init")
		}

		root, err := fs.Stat(ctx, "/")
		require.NoError(t, err)
		assert.True(t, root.IsDir)

		require.NoError(t, fs.Close())
		_, err = fs.Stat(ctx, "/")
		assert.Equal(t, errors.CodeClosed, errors.GetCode(err))
	})

	t.Run("missing bucket", func(t *testing.T) {
		fs := newTestFS(t, endpoint, "absent")
		err := fs.Init(ctx)
		assert.Equal(t, errors.CodeNoSuchDirectory, errors.GetCode(err))
		assert.Equal(t, core.StateClosed, fs.State())

		_, err = fs.ReadFile(ctx, "/x")
		assert.Equal(t, errors.CodeClosed, errors.GetCode(err))
	})

	t.Run("second init conflicts", func(t *testing.T) {
		fs := newTestFS(t, endpoint, "present")
		require.NoError(t, fs.Init(ctx))
		defer fs.Close()
		assert.Equal(t, errors.CodeConflict, errors.GetCode(fs.Init(ctx)))
	})
}

func TestRootIsADirectory(t *testing.T) {
	ctx := context.Background()
	fs := newTestFS(t, fakeBucketServer(t, "present"), "present")
	require.NoError(t, fs.Init(ctx))
	defer fs.Close()

	_, err := fs.CreateReadStream(ctx, "/")
	assert.Equal(t, errors.CodeIsADirectory, errors.GetCode(err))
	assert.Equal(t, errors.CodeIsADirectory, errors.GetCode(fs.WriteFile(ctx, "/", []byte("x"))))
}

func newFakeFS(t *testing.T, prefix string, objects map[string]string) (*MinioFS, *fakeS3) {
	t.Helper()

	endpoint, fake := newFakeS3(t, "bucket", objects)
	fs, err := NewMinIO(Config{
		Endpoint:  endpoint,
		Bucket:    "bucket",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
		Prefix:    prefix,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, fs.Init(context.Background()))
	t.Cleanup(func() { _ = fs.Close() })
	return fs, fake
}

var treeObjects = map[string]string{
	"a.txt":     "hello",
	"a/b.txt":   "b",
	"a/c/d.txt": "d",
}

func TestReadDir_MergesCommonPrefixes(t *testing.T) {
	ctx := context.Background()
	fs, _ := newFakeFS(t, "", treeObjects)

	nodes, err := fs.ReadDir(ctx, "/")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, core.Node{Path: "/a", IsDir: true}, nodes[0])
	assert.Equal(t, "/a.txt", nodes[1].Path)
	assert.False(t, nodes[1].IsDir)
	assert.Equal(t, int64(5), nodes[1].Size)
	assert.True(t, fakeModTime.Equal(nodes[1].ModTime))

	nodes, err = fs.ReadDir(ctx, "/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/b.txt", "/a/c"}, paths(nodes))

	_, err = fs.ReadDir(ctx, "/a.txt")
	assert.Equal(t, errors.CodeNotADirectory, errors.GetCode(err))
	_, err = fs.ReadDir(ctx, "/missing")
	assert.Equal(t, errors.CodeNoSuchDirectory, errors.GetCode(err))

	dir, err := fs.Stat(ctx, "/a/c")
	require.NoError(t, err)
	assert.True(t, dir.IsDir)
	assert.True(t, dir.ModTime.IsZero())
}

func TestFind_OverVirtualDirectories(t *testing.T) {
	ctx := context.Background()
	fs, _ := newFakeFS(t, "", treeObjects)

	nodes, err := core.Find(ctx, fs, "/", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/b.txt", "/a/c/d.txt", "/a.txt"}, paths(nodes))
}

func TestWriteFile_CheckTarget(t *testing.T) {
	ctx := context.Background()
	fs, fake := newFakeFS(t, "", treeObjects)

	err := fs.WriteFile(ctx, "/a.txt/x/y.txt", []byte("x"))
	assert.Equal(t, errors.CodeNotADirectory, errors.GetCode(err))
	var vErr errors.Error
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "a.txt", vErr.Context()["ancestor"])

	err = fs.WriteFile(ctx, "/a/c", []byte("x"))
	assert.Equal(t, errors.CodeIsADirectory, errors.GetCode(err))

	err = fs.CopyFile(ctx, "/a.txt", "/a")
	assert.Equal(t, errors.CodeIsADirectory, errors.GetCode(err))

	assert.Empty(t, fake.rejectedRequests(), "rejected targets must not reach PutObject or CopyObject")
}

func TestCreateReadStream_Targets(t *testing.T) {
	ctx := context.Background()
	fs, _ := newFakeFS(t, "", treeObjects)

	_, err := fs.CreateReadStream(ctx, "/a")
	assert.Equal(t, errors.CodeIsADirectory, errors.GetCode(err))
	_, err = fs.CreateReadStream(ctx, "/missing.txt")
	assert.Equal(t, errors.CodeNoSuchFile, errors.GetCode(err))

	s, err := fs.CreateReadStream(ctx, "/a.txt")
	require.NoError(t, err)
	defer s.Close()
	var buf bytes.Buffer
	_, err = s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}

func TestReadFile(t *testing.T) {
	ctx := context.Background()

	t.Run("targets", func(t *testing.T) {
		fs, _ := newFakeFS(t, "", treeObjects)

		data, err := fs.ReadFile(ctx, "/a/b.txt")
		require.NoError(t, err)
		assert.Equal(t, "b", string(data))

		_, err = fs.ReadFile(ctx, "/a")
		assert.Equal(t, errors.CodeIsADirectory, errors.GetCode(err))
		_, err = fs.ReadFile(ctx, "/")
		assert.Equal(t, errors.CodeIsADirectory, errors.GetCode(err))
		_, err = fs.ReadFile(ctx, "/a.txt/x")
		assert.Equal(t, errors.CodeNoSuchFile, errors.GetCode(err))
	})

	t.Run("size matches the body read", func(t *testing.T) {
		fs, fake := newFakeFS(t, "", map[string]string{"doc.txt": "a replacement that is longer than before"})
		fake.setStale("doc.txt", "the before.")

		data, err := fs.ReadFile(ctx, "/doc.txt")
		require.NoError(t, err)
		assert.Equal(t, "a replacement that is longer than before", string(data))
	})
}

func TestPrefixRoot(t *testing.T) {
	ctx := context.Background()
	fs, _ := newFakeFS(t, "/root/", map[string]string{
		"root/x.txt":     "inside",
		"root/sub/y.txt": "nested",
		"other.txt":      "outside",
		"rootless.txt":   "outside",
	})
	assert.Equal(t, "root", fs.Prefix())

	nodes, err := fs.ReadDir(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"/sub", "/x.txt"}, paths(nodes))

	data, err := fs.ReadFile(ctx, "/sub/y.txt")
	require.NoError(t, err)
	assert.Equal(t, "nested", string(data))

	_, err = fs.Stat(ctx, "/other.txt")
	assert.Equal(t, errors.CodeNoSuchFile, errors.GetCode(err))
}

func paths(nodes []core.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path
	}
	return out
}
