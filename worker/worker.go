// Package worker implements the Worker component (spec §4.E): given one
// Connection, it reads a complete HTTP request (honoring a declared
// Content-Length), invokes the pluggable httpproto.Handler, writes back
// the response, and always destroys the Connection on the way out.
package worker

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/friendup/friendcore/connection"
	"github.com/friendup/friendcore/httpproto"
	"github.com/friendup/friendcore/internal/ferr"
	"github.com/friendup/friendcore/internal/flog"
)

func init() {
	ferr.RegisterMessage(ferr.MinPkgWorker, getMessage)
}

func getMessage(code ferr.CodeError) string {
	return ""
}

const (
	headerTerminator = "\r\n\r\n"
	contentLenHeader = "Content-Length:"

	// maxRetries and the sleep schedule below replace the source's
	// 500-attempt retry loop with raised per-attempt timeouts on retry #1
	// and thereafter (spec §4.E.2).
	maxRetries = 500
)

func retryDelay(attempt int) time.Duration {
	switch {
	case attempt == 0:
		return 2 * time.Millisecond
	case attempt == 1:
		return 100 * time.Millisecond
	default:
		return 250 * time.Millisecond
	}
}

// Worker services exactly one Connection, from its first read to its
// teardown.
type Worker struct {
	scratchSize int
	handler     httpproto.Handler
}

func New(scratchSize int, handler httpproto.Handler) *Worker {
	if scratchSize <= 0 {
		scratchSize = 4096
	}
	return &Worker{scratchSize: scratchSize, handler: handler}
}

// Run executes the full per-connection task described in spec §4.E,
// unconditionally closing conn before returning — callers must not touch
// conn again afterward. It returns the bytes read from and written to conn,
// for the composition root's per-instance counters (SPEC_FULL.md §5).
func (w *Worker) Run(conn *connection.Connection) (read, written int64) {
	defer func() { _ = conn.Close() }()

	buf, err := w.readRequest(conn)
	if err != nil {
		flog.WarnLevel.LogErrorCtxf(flog.NilLevel, "worker read failed", err)
		return 0, 0
	}

	read = int64(buf.Len())

	if buf.Len() == 0 {
		return read, 0
	}

	resp := w.handler.ProtocolHttp(conn, buf.Bytes(), buf.Len())
	if resp == nil || resp.Disposition == httpproto.FreeOnly {
		return read, 0
	}

	if err := httpproto.HttpWriteAndFree(resp, conn); err != nil {
		flog.WarnLevel.LogErrorCtxf(flog.NilLevel, "worker write failed", err)
		return read, 0
	}

	return read, int64(len(resp.Body))
}

// readRequest implements the growable-buffer read loop of spec §4.E.1-2:
// read into a fixed scratch buffer, append to a growable request buffer,
// and on the first read locate the header terminator and any declared
// Content-Length to compute the expected total length.
func (w *Worker) readRequest(conn *connection.Connection) (*bytes.Buffer, ferr.Error) {
	buf := &bytes.Buffer{}
	scratch := make([]byte, w.scratchSize)

	expected := -1 // unknown until the header terminator is seen
	retries := 0

	for {
		n, err := conn.Raw().Read(scratch)
		if n > 0 {
			buf.Write(scratch[:n])
			retries = 0

			if expected == -1 {
				if headerLen := bytes.Index(buf.Bytes(), []byte(headerTerminator)); headerLen >= 0 {
					total := headerLen + len(headerTerminator)
					if cl, ok := parseContentLength(buf.Bytes()[:total]); ok && cl > 0 {
						expected = total + cl
					} else {
						// header-only request: the terminator is already
						// the whole request, so dispatch now instead of
						// waiting for a second read to signal "no more
						// data" — a real client holds the connection open
						// awaiting the response and that second read would
						// otherwise block forever (spec §4.E.2).
						return buf, nil
					}
				}
			}
		}

		if expected > 0 && buf.Len() >= expected {
			return buf, nil
		}

		if err != nil || n == 0 {
			if expected <= 0 {
				// no Content-Length ever seen and the peer is done.
				return buf, nil
			}

			retries++
			if retries >= maxRetries {
				// budget exhausted: dispatch whatever was accumulated,
				// matching spec §4.E's "retry up to 500 times ... then
				// dispatch" testable property.
				return buf, nil
			}

			time.Sleep(retryDelay(retries))
			continue
		}
	}
}

// parseContentLength extracts the Content-Length value from a raw header
// block, tolerating case and surrounding whitespace the way real HTTP
// clients vary it.
func parseContentLength(header []byte) (int, bool) {
	for _, line := range strings.Split(string(header), "\r\n") {
		if len(line) <= len(contentLenHeader) {
			continue
		}
		if !strings.EqualFold(line[:len(contentLenHeader)], contentLenHeader) {
			continue
		}

		v := strings.TrimSpace(line[len(contentLenHeader):])
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return int(n), true
	}

	return 0, false
}
