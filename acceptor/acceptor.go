// Package acceptor implements the Acceptor component (spec §4.C): for one
// Listener, it accepts peers and — for TLS listeners — drives the
// handshake to completion, recognizing both a clean TLS session and a
// plaintext request arriving on the TLS port. It always runs inline on the
// Reactor's goroutine (SPEC_FULL.md §2 resolves the source's
// thread-driven/inline choice in favor of inline, since net.Listener.Accept
// already parks on the Go runtime's netpoller).
package acceptor

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/friendup/friendcore/connection"
	"github.com/friendup/friendcore/httpproto"
	"github.com/friendup/friendcore/internal/ferr"
	"github.com/friendup/friendcore/internal/flog"
	"github.com/friendup/friendcore/internal/tlsctx"
	"github.com/friendup/friendcore/listener"
)

func init() {
	ferr.RegisterMessage(ferr.MinPkgAcceptor, getMessage)
}

const (
	ErrorAccept ferr.CodeError = ferr.MinPkgAcceptor + iota
)

func getMessage(code ferr.CodeError) string {
	switch code {
	case ErrorAccept:
		return "accept failed"
	}
	return ""
}

// Result is the sum-type spec.md §9 asks for in place of out-parameters and
// goto-based cleanup: every accept attempt ends in exactly one of these.
type Result int

const (
	// Rejected means no Connection was produced and nothing else needs to
	// happen — the caller should simply keep draining.
	Rejected Result = iota
	// Accepted means Conn is a live, handshake-complete Connection ready
	// for a Worker.
	Accepted
	// Redirected means the plaintext-on-TLS path ran to completion; the fd
	// is already closed.
	Redirected
)

// Outcome bundles a Result with the Connection it produced, if any.
type Outcome struct {
	Result Result
	Conn   *connection.Connection
}

// HandshakeState names the TLS handshake's current disposition, per
// spec.md §9's call for an explicit state machine instead of an inline
// while(1) with mixed break/continue/goto.
type HandshakeState int

const (
	WantRead HandshakeState = iota
	WantWrite
	Done
	Failed
)

// Acceptor drains a single Listener's accept queue.
type Acceptor struct {
	l *listener.Listener
}

func New(l *listener.Listener) *Acceptor {
	return &Acceptor{l: l}
}

// AcceptOne performs exactly one accept() plus (for TLS listeners) the
// full handshake, returning a sum-typed Outcome. shutdown is observed
// during the handshake retry loop so a shutdown mid-handshake cannot hang
// the Reactor (spec §4.C "Tie-breaks").
func (a *Acceptor) AcceptOne(shutdown context.Context) (Outcome, ferr.Error) {
	raw, err := a.l.Accept()
	if err != nil {
		if isTransientAcceptError(err) {
			return Outcome{Result: Rejected}, nil
		}
		return Outcome{Result: Rejected}, ErrorAccept.ErrorParent(err)
	}

	if !a.l.IsTLS() {
		return Outcome{Result: Accepted, Conn: connection.New(raw)}, nil
	}

	return a.handshake(shutdown, raw)
}

// handshake drives the TLS handshake to completion, racing it against the
// shutdown context so the loop "observes the global shutdown flag and
// aborts early if set" (spec §4.C.3). On success it returns Accepted; on a
// plaintext ClientHello it runs the redirect path and returns Redirected;
// on any other failure the fd is closed and Rejected is returned.
func (a *Acceptor) handshake(shutdown context.Context, raw net.Conn) (Outcome, ferr.Error) {
	tconn := tls.Server(raw, a.l.TLSConfig(""))

	hsCtx, cancel := context.WithCancel(shutdown)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- tconn.HandshakeContext(hsCtx)
	}()

	select {
	case <-shutdown.Done():
		_ = raw.Close()
		return Outcome{Result: Rejected}, nil

	case err := <-errCh:
		if err == nil {
			return Outcome{Result: Accepted, Conn: connection.NewTLS(tconn)}, nil
		}

		if tlsctx.IsPlaintextOnTLS(err) {
			a.readPlaintextRedirect(raw)
			return Outcome{Result: Redirected}, nil
		}

		flog.WarnLevel.Logf("TLS handshake failed from %s: %v", raw.RemoteAddr(), err)
		_ = raw.Close()
		return Outcome{Result: Rejected}, nil
	}
}

// readPlaintextRedirect implements moveToHttp (spec §4.C): read up to one
// buffer of plaintext request, pull the Host header, and write back the
// fixed 307 redirect, then close. raw is never wrapped in TLS — this path
// is explicitly "uses the raw fd (no TLS)".
func (a *Acceptor) readPlaintextRedirect(raw net.Conn) string {
	defer func() { _ = raw.Close() }()

	_ = raw.SetReadDeadline(time.Now().Add(2 * time.Second))

	buf := make([]byte, 4096)
	reader := bufio.NewReader(raw)

	n, _ := reader.Read(buf)
	if n <= 0 {
		return ""
	}

	host := extractHost(string(buf[:n]))
	if host == "" {
		host = raw.RemoteAddr().String()
	}

	resp := httpproto.BuildPlaintextRedirect(host)
	_, _ = raw.Write(resp)

	return host
}

func extractHost(request string) string {
	for _, line := range strings.Split(request, "\r\n") {
		const prefix = "Host:"
		if len(line) > len(prefix) && strings.EqualFold(line[:len(prefix)], prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	return ""
}

// isTransientAcceptError reports the spurious-EAGAIN-equivalent case the
// Go runtime surfaces as a net.Error whose Timeout() is true — spec
// §4.C's "stop draining" vs "ignore and retry" split collapses in Go
// because a non-blocking accept() retry loop has no analogue: Accept
// already blocks the calling goroutine until a peer or a hard error.
func isTransientAcceptError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
