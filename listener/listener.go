// Package listener implements the Listener component (spec §4.A): it owns
// the bound listening socket and exposes it to the Reactor. Binding is
// IPv6-capable by using "tcp" (not "tcp6"), matching net.Listen's default
// dual-stack behavior on most platforms, and failure to bind/listen is
// fatal to the caller, exactly as §4.A requires.
package listener

import (
	"crypto/tls"
	"net"

	"github.com/friendup/friendcore/internal/ferr"
	"github.com/friendup/friendcore/internal/tlsctx"
)

func init() {
	ferr.RegisterMessage(ferr.MinPkgListener, getMessage)
}

const (
	ErrorBind ferr.CodeError = ferr.MinPkgListener + iota
)

func getMessage(code ferr.CodeError) string {
	switch code {
	case ErrorBind:
		return "could not bind/listen on the configured address"
	}
	return ""
}

// Listener is the bound socket handed to the Reactor. It is safe to Close
// concurrently with an in-progress Accept — Accept will return an error
// that the Reactor treats as "listener closed, stop the loop".
type Listener struct {
	net.Listener
	tls *tlsctx.Context
}

// New binds and starts listening on addr (e.g. ":8443"). When tlsCtx is
// non-nil every Accept returns a raw TCP net.Conn — TLS is handled by the
// Acceptor, not here, because the Acceptor needs to distinguish a genuine
// TLS ClientHello from a plaintext request (spec §4.C) before committing to
// the handshake.
func New(addr string, tlsCtx *tlsctx.Context) (*Listener, ferr.Error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, ErrorBind.ErrorParent(err)
	}

	return &Listener{Listener: l, tls: tlsCtx}, nil
}

func (l *Listener) IsTLS() bool { return l.tls != nil }

// TLSConfig renders the *tls.Config for this listener's server name, or nil
// when the listener is plaintext-only.
func (l *Listener) TLSConfig(serverName string) *tls.Config {
	if l.tls == nil {
		return nil
	}
	return l.tls.TLSConfig(serverName)
}
