package multipart

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"os"
	"time"
)

// ReadStatus reports the outcome of a single ReadUntil call. It exists
// because "not found" is not a failure: it means the delimiter wasn't in
// the bytes read so far and the caller should decide whether to refill or
// give up, a distinction a plain error can't carry cleanly.
type ReadStatus int

const (
	// StatusOK means delim was located in buf; buf holds bytes up to and
	// including the end of the match.
	StatusOK ReadStatus = iota
	// StatusNotFound means buf filled to capacity without a match.
	StatusNotFound
	// StatusTimeout means the configured deadline elapsed first.
	StatusTimeout
	// StatusClosed means the underlying connection was closed or reached EOF.
	StatusClosed
	// StatusIOError means some other transport-level failure occurred.
	StatusIOError
)

func (s ReadStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusTimeout:
		return "timeout"
	case StatusClosed:
		return "closed"
	case StatusIOError:
		return "io_error"
	default:
		return "unknown"
	}
}

// Stream is the read capability a Receiver depends on. It is the Go
// translation of the boost::asio::async_read_until / read_until pair: a
// single blocking primitive that either finds delim within buf's bound
// capacity or reports why it couldn't.
type Stream interface {
	// ReadUntil scans buf's currently held bytes for delim, reading more
	// from the underlying source and appending to buf (up to its capacity)
	// if not already present. deadline, when non-zero, bounds how long the
	// call may block; the zero Time means no deadline.
	//
	// n is the number of bytes scanned that the caller should consider
	// consumed: on StatusOK, the offset one past the end of the match; on
	// StatusNotFound, buf.Len().
	ReadUntil(delim []byte, buf *Buffer, deadline time.Time) (n int, status ReadStatus, err error)
}

// connStream adapts a deadline-capable connection (a hijacked HTTP
// connection, a TLS connection, anything satisfying net.Conn) to Stream.
type connStream struct {
	conn net.Conn
	r    *bufio.Reader
}

// NewConnStream builds a Stream over conn. r, if non-nil, is a bufio.Reader
// already positioned at the start of unread body data (as left behind by a
// framework that buffered the request line and headers); its buffered bytes
// are drained into the working Buffer lazily as ReadUntil needs them.
func NewConnStream(conn net.Conn, r *bufio.Reader) Stream {
	if r == nil {
		r = bufio.NewReader(conn)
	}
	return &connStream{conn: conn, r: r}
}

func (s *connStream) ReadUntil(delim []byte, buf *Buffer, deadline time.Time) (int, ReadStatus, error) {
	if idx := bytes.Index(buf.Bytes(), delim); idx >= 0 {
		return idx + len(delim), StatusOK, nil
	}

	if !deadline.IsZero() {
		if err := s.conn.SetReadDeadline(deadline); err != nil {
			return 0, StatusIOError, err
		}
		defer s.conn.SetReadDeadline(time.Time{})
	} else {
		defer s.conn.SetReadDeadline(time.Time{})
	}

	chunk := make([]byte, 4096)

	for {
		avail := buf.Available()
		if avail == 0 {
			return buf.Len(), StatusNotFound, nil
		}

		readLen := len(chunk)
		if avail < readLen {
			readLen = avail
		}

		n, err := s.r.Read(chunk[:readLen])
		if n > 0 {
			buf.Append(chunk[:n])
			if idx := bytes.Index(buf.Bytes(), delim); idx >= 0 {
				return idx + len(delim), StatusOK, nil
			}
		}

		if err != nil {
			return buf.Len(), classifyIOError(err), err
		}

		if n == 0 {
			return buf.Len(), StatusIOError, io.ErrNoProgress
		}
	}
}

func classifyIOError(err error) ReadStatus {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrClosedPipe), errors.Is(err, net.ErrClosed):
		return StatusClosed
	case errors.Is(err, os.ErrDeadlineExceeded):
		return StatusTimeout
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return StatusTimeout
		}
		return StatusIOError
	}
}
