package reactor

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/friendup/friendcore/connection"
	"github.com/friendup/friendcore/internal/wpool"
	"github.com/friendup/friendcore/listener"
)

func TestRunDispatchesAcceptedConnections(t *testing.T) {
	l, ferr := listener.New("127.0.0.1:0", nil)
	if ferr != nil {
		t.Fatalf("failed to listen: %v", ferr)
	}

	pool := wpool.New(4)

	var mu sync.Mutex
	var dispatched []net.Addr

	r := New(l, pool, func(conn *connection.Connection) {
		mu.Lock()
		dispatched = append(dispatched, conn.PeerAddr())
		mu.Unlock()
		_ = conn.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)

	if r.State() == Closed {
		t.Fatalf("reactor should not be closed immediately after start")
	}

	c, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer c.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(dispatched)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	n := len(dispatched)
	mu.Unlock()
	if n == 0 {
		t.Fatalf("expected at least one dispatched connection")
	}

	cancel()
	// Accept() only unblocks on a closed listener or a new peer — closing
	// the listener here stands in for the Shutdown Controller's
	// AddCloser(l.Close) (spec §4.F.2), which is what actually drives this
	// transition in the composed core.Instance.
	_ = l.Close()

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) && r.State() != Closed {
		time.Sleep(5 * time.Millisecond)
	}
	if r.State() != Closed {
		t.Fatalf("expected reactor state Closed after shutdown, got %v", r.State())
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Initializing: "initializing",
		Running:      "running",
		Draining:     "draining",
		Closed:       "closed",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("state %d: expected %q, got %q", s, want, got)
		}
	}
}
