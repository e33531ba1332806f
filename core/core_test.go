package core

import (
	"testing"
	"time"

	"github.com/friendup/friendcore/config"
	"github.com/friendup/friendcore/connection"
	"github.com/friendup/friendcore/httpproto"
)

func TestNewFormatsIDAndBindsListener(t *testing.T) {
	cfg := config.Config{Port: 0, Listen: "127.0.0.1:0", BufferSize: 4096, MaxWorkers: 4}

	inst, err := New(cfg, httpproto.HandlerFunc(func(conn *connection.Connection, buffer []byte, length int) *httpproto.Response {
		return nil
	}))
	if err != nil {
		t.Fatalf("unexpected error constructing Instance: %v", err)
	}

	if len(inst.ID()) != 32 {
		t.Fatalf("expected 32-byte core id, got %q (%d bytes)", inst.ID(), len(inst.ID()))
	}

	if inst.Registry() == nil {
		t.Fatalf("expected a non-nil plugin registry")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Config{Port: 0}
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected validation error for port 0")
	}
}

func TestNewRequiresCertWhenTLSEnabled(t *testing.T) {
	cfg := config.Config{Port: 8443, Listen: "127.0.0.1:0", TLSEnabled: true}
	if _, err := New(cfg, nil); err == nil {
		t.Fatalf("expected error when TLS enabled without cert/key files")
	}
}

func TestRunAndShutdownLifecycle(t *testing.T) {
	cfg := config.Config{Port: 0, Listen: "127.0.0.1:0", BufferSize: 4096, MaxWorkers: 4}

	inst, err := New(cfg, httpproto.HandlerFunc(func(conn *connection.Connection, buffer []byte, length int) *httpproto.Response {
		return nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := make(chan struct{})
	go func() {
		inst.Run()
		close(done)
	}()

	// give the reactor goroutine a moment to reach Running before we ask it
	// to stop again.
	time.Sleep(20 * time.Millisecond)
	inst.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected Run to return after Shutdown")
	}

	if !inst.Closed() {
		t.Fatalf("expected instance to report Closed() true")
	}

	read, written := inst.Stats()
	if read < 0 || written < 0 {
		t.Fatalf("expected non-negative stats")
	}
}
