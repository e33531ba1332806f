package tlsctx

import (
	"crypto/tls"
	"errors"
)

// IsPlaintextOnTLS reports whether err is crypto/tls's signal that the first
// bytes on a TLS listener's connection were not a TLS record at all — the Go
// equivalent of the source's SSL_ERROR_SSL / error-code-336027804 branch,
// replaced here with a named predicate instead of a magic number (see
// SPEC_FULL.md §2).
func IsPlaintextOnTLS(err error) bool {
	var rhe *tls.RecordHeaderError
	return errors.As(err, &rhe)
}
