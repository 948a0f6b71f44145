// Package fstest provides a conformance test suite for validating backend
// implementations against the core.Backend contract.
//
// Backend packages run the suite from their own tests, supplying a Harness
// that builds a fresh, uninitialized backend rooted at the standard fixture
// (see FixtureFiles):
//
//	func TestConformance(t *testing.T) {
//	    fstest.TestSuite(t, fstest.Harness{
//	        New: func(t *testing.T) core.Backend {
//	            b, err := mybackend.New(core.Config{Location: fstest.WriteFixtureDir(t)})
//	            if err != nil {
//	                t.Fatal(err)
//	            }
//	            return b
//	        },
//	    })
//	}
//
// The suite validates interface contracts, not backend-specific behavior.
// Optional operations are only exercised when the backend declares the
// matching capability, and are otherwise checked to fail with UNSUPPORTED.
package fstest

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

// Config configures the suite to match backend behavior characteristics.
type Config struct {
	// VirtualDirectories indicates directories are virtual (e.g., S3
	// prefixes) and have no modification time of their own.
	VirtualDirectories bool

	// SkipTests lists subtest names to skip (e.g. "Write").
	SkipTests []string

	// Timeout bounds each subtest's context. Defaults to one minute.
	Timeout time.Duration
}

// Harness supplies backends to the suite.
type Harness struct {
	// New returns a fresh, uninitialized backend rooted at the standard
	// fixture. It is called once per subtest.
	New func(t *testing.T) core.Backend

	Config Config
}

// TestSuite runs all applicable conformance tests.
func TestSuite(t *testing.T, h Harness) {
	if h.New == nil {
		t.Fatal("fstest: Harness.New is nil")
	}

	tests := []struct {
		name string
		fn   func(t *testing.T, h Harness)
	}{
		{"Scheme", testScheme},
		{"Readiness", testReadiness},
		{"Stat", testStat},
		{"StatNormalises", testStatNormalises},
		{"ReadDir", testReadDir},
		{"GetDir", testGetDir},
		{"GetDirSort", testGetDirSort},
		{"Find", testFind},
		{"FindCount", testFindCount},
		{"CreateReadStream", testCreateReadStream},
		{"ReadFileText", testReadFileText},
		{"ReadFileBytes", testReadFileBytes},
		{"Errors", testErrors},
		{"Capabilities", testCapabilities},
		{"Write", testWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if slices.Contains(h.Config.SkipTests, tt.name) {
				t.Skip("Skipped by backend configuration")
			}
			tt.fn(t, h)
		})
	}
}

// open builds and initializes a backend, closing it when the test ends.
func open(t *testing.T, h Harness) (context.Context, core.Backend) {
	t.Helper()

	timeout := h.Config.Timeout
	if timeout == 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	b := h.New(t)
	if err := b.Init(ctx); err != nil {
		t.Fatalf("Init(): %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return ctx, b
}

// expectCode fails the test unless err carries code.
func expectCode(t *testing.T, err error, code errors.ErrorCode, what string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected %s error, got nil", what, code)
		return
	}
	if got := errors.GetCode(err); got != code {
		t.Errorf("%s: expected %s error, got %s (%v)", what, code, got, err)
	}
}

func nodePaths(nodes []core.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path
	}
	return out
}
