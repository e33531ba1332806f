// Package tlsctx builds the *tls.Config shared by every TLS-enabled
// Listener, adapted from nabbar-golib/certificates' cert/cipher/curve
// builder down to what the TLS Context component (spec §4.B) needs:
// certificate pairs, an optional client CA pool, cipher/curve preference,
// and a session-ticket policy. No read-ahead setting is configured.
package tlsctx

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"strings"

	"github.com/friendup/friendcore/internal/ferr"
)

func init() {
	ferr.RegisterMessage(ferr.MinPkgTLS, getMessage)
}

const (
	ErrorParamsEmpty ferr.CodeError = ferr.MinPkgTLS + iota
	ErrorFileRead
	ErrorFileEmpty
	ErrorCertKeyPairParse
	ErrorCertKeyPairLoad
	ErrorCertAppend
	ErrorNoCertificate
)

func getMessage(code ferr.CodeError) string {
	switch code {
	case ErrorParamsEmpty:
		return "a required certificate parameter was empty"
	case ErrorFileRead:
		return "could not read certificate file"
	case ErrorFileEmpty:
		return "certificate file is empty"
	case ErrorCertKeyPairParse:
		return "could not parse certificate/key pair"
	case ErrorCertKeyPairLoad:
		return "could not load certificate/key pair from file"
	case ErrorCertAppend:
		return "could not append certificate to pool"
	case ErrorNoCertificate:
		return "TLS context has no server certificate configured"
	}
	return ""
}

// Context holds the built TLS material for one Listener (§4.B). Unlike the
// teacher's mutable config builder, it is built once via Builder and then
// only read from — the Acceptor never mutates a live Context.
type Context struct {
	certs      []tls.Certificate
	clientCA   *x509.CertPool
	clientAuth tls.ClientAuthType
	cipherList []uint16
	curveList  []tls.CurveID
	minVersion uint16
	maxVersion uint16

	// SessionCacheDisabled keeps the TLS Context from resuming client
	// sessions across reconnects — the spec's TLS data model only ever
	// stores the handshake state for the lifetime of one Connection.
	sessionCacheDisabled bool
}

// Builder accumulates certificate material before Build freezes it into a
// Context, mirroring certificates.config's Add* methods.
type Builder struct {
	cert                  []tls.Certificate
	clientCA              *x509.CertPool
	clientAuth            tls.ClientAuthType
	cipherList            []uint16
	curveList             []tls.CurveID
	minVersion            uint16
	maxVersion            uint16
	sessionCacheDisabled  bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddCertificatePairFile(crtFile, keyFile string) ferr.Error {
	if crtFile == "" || keyFile == "" {
		return ErrorParamsEmpty.Error(nil)
	}

	p, err := tls.LoadX509KeyPair(crtFile, keyFile)
	if err != nil {
		return ErrorCertKeyPairLoad.ErrorParent(err)
	}

	b.cert = append(b.cert, p)
	return nil
}

func (b *Builder) AddCertificatePairString(crt, key string) ferr.Error {
	crt = strings.TrimSpace(crt)
	key = strings.TrimSpace(key)

	if crt == "" || key == "" {
		return ErrorParamsEmpty.Error(nil)
	}

	p, err := tls.X509KeyPair([]byte(crt), []byte(key))
	if err != nil {
		return ErrorCertKeyPairParse.ErrorParent(err)
	}

	b.cert = append(b.cert, p)
	return nil
}

func (b *Builder) AddClientCAFile(pemFile string) ferr.Error {
	if pemFile == "" {
		return ErrorParamsEmpty.Error(nil)
	}

	buf, err := os.ReadFile(pemFile)
	if err != nil {
		return ErrorFileRead.ErrorParent(err)
	}
	if len(strings.TrimSpace(string(buf))) < 1 {
		return ErrorFileEmpty.Error(nil)
	}

	if b.clientCA == nil {
		b.clientCA = x509.NewCertPool()
	}
	if !b.clientCA.AppendCertsFromPEM(buf) {
		return ErrorCertAppend.Error(nil)
	}

	return nil
}

func (b *Builder) SetClientAuth(auth tls.ClientAuthType) *Builder {
	b.clientAuth = auth
	return b
}

func (b *Builder) SetCipherList(ciphers []uint16) *Builder {
	b.cipherList = ciphers
	return b
}

func (b *Builder) SetCurveList(curves []tls.CurveID) *Builder {
	b.curveList = curves
	return b
}

func (b *Builder) SetVersionRange(min, max uint16) *Builder {
	b.minVersion = min
	b.maxVersion = max
	return b
}

func (b *Builder) SetSessionCacheDisabled(flag bool) *Builder {
	b.sessionCacheDisabled = flag
	return b
}

func (b *Builder) Build() (*Context, ferr.Error) {
	if len(b.cert) == 0 {
		return nil, ErrorNoCertificate.Error(nil)
	}

	return &Context{
		certs:                append(make([]tls.Certificate, 0, len(b.cert)), b.cert...),
		clientCA:             b.clientCA,
		clientAuth:           b.clientAuth,
		cipherList:           append(make([]uint16, 0, len(b.cipherList)), b.cipherList...),
		curveList:            append(make([]tls.CurveID, 0, len(b.curveList)), b.curveList...),
		minVersion:           b.minVersion,
		maxVersion:           b.maxVersion,
		sessionCacheDisabled: b.sessionCacheDisabled,
	}, nil
}

// TLSConfig renders a fresh *tls.Config for one Listener. A fresh value is
// returned on every call so the caller (Listener) never shares a mutable
// *tls.Config with another Listener instance.
func (c *Context) TLSConfig(serverName string) *tls.Config {
	/* #nosec */
	cfg := &tls.Config{
		InsecureSkipVerify: false,
		Certificates:       c.certs,
		NextProtos:         []string{"h2", "http/1.1"},
	}

	if serverName != "" {
		cfg.ServerName = serverName
	}

	if c.minVersion != 0 {
		cfg.MinVersion = c.minVersion
	}
	if c.maxVersion != 0 {
		cfg.MaxVersion = c.maxVersion
	}

	if len(c.cipherList) > 0 {
		cfg.CipherSuites = c.cipherList
	}

	if len(c.curveList) > 0 {
		cfg.CurvePreferences = c.curveList
	}

	if c.clientAuth != tls.NoClientCert {
		cfg.ClientAuth = c.clientAuth
		if c.clientCA != nil {
			cfg.ClientCAs = c.clientCA
		}
	}

	if c.sessionCacheDisabled {
		cfg.SessionTicketsDisabled = true
	}

	return cfg
}
