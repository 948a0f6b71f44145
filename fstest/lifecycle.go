package fstest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmgilman/go/vfs/core"
	"github.com/jmgilman/go/vfs/errors"
)

func testScheme(t *testing.T, h Harness) {
	first := h.New(t)
	second := h.New(t)
	defer func() { _ = first.Close() }()
	defer func() { _ = second.Close() }()

	if first.Scheme() == "" {
		t.Error("Scheme() is empty")
	}
	if first.Scheme() != second.Scheme() {
		t.Errorf("Scheme() differs between instances: %q vs %q", first.Scheme(), second.Scheme())
	}
	if first.Capabilities().String() != second.Capabilities().String() {
		t.Errorf("Capabilities() differ between instances: %s vs %s",
			first.Capabilities(), second.Capabilities())
	}
	if !first.Capabilities().Has(core.CapStat) {
		t.Error("Capabilities() does not include stat")
	}
}

func testReadiness(t *testing.T, h Harness) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	b := h.New(t)
	defer func() { _ = b.Close() }()

	if got := b.State(); got != core.StateUninitialized {
		t.Errorf("State() before Init = %s, want %s", got, core.StateUninitialized)
	}

	// Subscribers registered before Init.
	var notified atomic.Int32
	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-b.Ready()
			notified.Add(1)
		}()
	}

	// An operation issued before readiness waits for it.
	early := make(chan error, 1)
	go func() {
		_, err := b.Stat(ctx, "/README.md")
		early <- err
	}()

	if err := b.Init(ctx); err != nil {
		t.Fatalf("Init(): %v", err)
	}
	wg.Wait()

	if got := notified.Load(); got != 3 {
		t.Errorf("readiness observed by %d subscribers, want 3", got)
	}
	select {
	case <-b.Ready():
	default:
		t.Error("Ready() not closed for a late subscriber")
	}
	if got := b.State(); got != core.StateReady {
		t.Errorf("State() after Init = %s, want %s", got, core.StateReady)
	}

	// The early caller was either queued (and succeeded) or rejected as
	// not ready; it must not fail any other way.
	if err := <-early; err != nil && errors.GetCode(err) != errors.CodeNotReady {
		t.Errorf("Stat() issued before Init: %v", err)
	}

	expectCode(t, b.Init(ctx), errors.CodeConflict, "second Init()")

	if err := b.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}
	if got := b.State(); got != core.StateClosed {
		t.Errorf("State() after Close = %s, want %s", got, core.StateClosed)
	}
	_, err := b.Stat(ctx, "/README.md")
	expectCode(t, err, errors.CodeClosed, "Stat() after Close")
	if err := b.Close(); err != nil {
		t.Errorf("second Close(): %v", err)
	}
}

func testCapabilities(t *testing.T, h Harness) {
	ctx, b := open(t, h)
	caps := b.Capabilities()

	if missing := core.VerifyCapabilities(b); len(missing) > 0 {
		t.Errorf("declared but not implemented: %v", missing)
	}

	// Undeclared optional operations fail fast with UNSUPPORTED.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if !caps.Has(core.CapCreateReadStream) {
			_, err := core.CreateReadStream(ctx, b, "/README.md")
			expectCode(t, err, errors.CodeUnsupported, "CreateReadStream()")
		}
		if !caps.Has(core.CapWriteFile) {
			expectCode(t, core.WriteFile(ctx, b, "/new.txt", []byte("x")), errors.CodeUnsupported, "WriteFile()")
		}
		if !caps.Has(core.CapUnlink) {
			expectCode(t, core.Unlink(ctx, b, "/README.md"), errors.CodeUnsupported, "Unlink()")
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("unsupported operation did not return")
	}
}
