// Package multipart implements a streaming, bounded-memory decoder for
// multipart/form-data request bodies. It never buffers an uploaded file in
// full: the working set is capped at Settings.ChunkCap regardless of how
// large any individual part is, by writing each part's body to disk as it
// arrives and only ever holding the tail end still being scanned for the
// next boundary.
package multipart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Receiver decodes a single multipart/form-data request body read from a
// Stream, writing each part's file data to the filesystem as it is read.
// A Receiver is single-use: construct a new one per request.
type Receiver struct {
	stream Stream
	fs     FileSystem
	carry  []byte
}

// New constructs a Receiver. carry holds any body bytes a caller already
// read off the connection before handing it to the Receiver (for example a
// framework that buffers headers and the start of the body together); it
// may be nil.
func New(stream Stream, fs FileSystem, carry []byte) *Receiver {
	return &Receiver{stream: stream, fs: fs, carry: carry}
}

// Download synchronously decodes the request body named by contentType,
// writing each part to disk per settings, and returns the paths written in
// arrival order. Settings.OperationsTimeout has no effect here: a blocking
// Download has no deadline beyond whatever the caller's own goroutine or
// context enforces.
func (r *Receiver) Download(ctx context.Context, contentType string, settings Settings) ([]string, error) {
	return r.run(ctx, contentType, settings, func() time.Time { return time.Time{} })
}

// DownloadAsync decodes the request body on a new goroutine and invokes
// onComplete exactly once with the result. Each read performed while
// decoding is bounded by settings.OperationsTimeout, re-armed before every
// read rather than set once for the whole operation.
func (r *Receiver) DownloadAsync(ctx context.Context, contentType string, settings Settings, onComplete func([]string, error)) {
	go func() {
		settings.applyDefaults()
		paths, err := r.run(ctx, contentType, settings, func() time.Time {
			return time.Now().Add(settings.OperationsTimeout)
		})
		onComplete(paths, err)
	}()
}

func (r *Receiver) run(ctx context.Context, contentType string, settings Settings, deadline func() time.Time) ([]string, error) {
	settings.applyDefaults()

	if !strings.Contains(contentType, "multipart/form-data") {
		return nil, ErrNotMultipartFormData
	}

	boundary, err := extractBoundary(contentType)
	if err != nil {
		return nil, err
	}
	if len(boundary)+8 > settings.ChunkCap {
		return nil, ErrChunkCapTooSmall
	}

	buf := NewBuffer(settings.ChunkCap)
	buf.Seed(r.carry)

	results := make([]string, 0)
	var currentFile io.WriteCloser
	var currentPath string

	fail := func(err error) ([]string, error) {
		if currentFile != nil {
			_ = currentFile.Close()
			_ = r.fs.Remove(currentPath)
			results = results[:len(results)-1]
			currentFile = nil
			currentPath = ""
		}
		return results, err
	}

	checkCtx := func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	// awaiting-first-boundary: discard everything up to and including the
	// opening boundary token; there is no meaningful preamble in this
	// protocol variant. The line break after the token stays in the buffer
	// and is read as the start of the first part's header.
	if err := checkCtx(); err != nil {
		return fail(err)
	}
	n, status, rerr := r.stream.ReadUntil([]byte(boundary), buf, deadline())
	if status != StatusOK {
		return fail(classifyFailure(status, rerr, ErrInvalidStructure))
	}
	buf.Consume(n)

	for {
		// reading-header
		if err := checkCtx(); err != nil {
			return fail(err)
		}
		n, status, rerr = r.stream.ReadUntil([]byte("\r\n\r\n"), buf, deadline())
		if status != StatusOK {
			return fail(classifyFailure(status, rerr, ErrInvalidStructure))
		}

		header := buf.Bytes()[:n]
		filename, ferr := parseFilename(header)
		if ferr != nil {
			return fail(ferr)
		}

		destPath, derr := resolveDestination(r.fs, settings, filename)
		if derr != nil {
			return fail(derr)
		}

		file, operr := r.fs.OpenFile(destPath)
		if operr != nil {
			return fail(fmt.Errorf("%w: %v", ErrInvalidFilePath, operr))
		}
		currentFile = file
		currentPath = destPath
		results = append(results, destPath)

		buf.Consume(n)

		// reading-body
		for {
			if err := checkCtx(); err != nil {
				return fail(err)
			}
			n, status, rerr = r.stream.ReadUntil([]byte(boundary), buf, deadline())

			if status == StatusNotFound {
				// Working buffer filled without finding the boundary: this
				// part's body is larger than ChunkCap. Flush everything
				// except the trailing bytes that could be the start of a
				// split delimiter (the "\r\n--" sentinel plus the boundary)
				// and keep reading.
				writable := buf.Len() - len(boundary) - 4
				if writable > 0 {
					if _, werr := currentFile.Write(buf.Bytes()[:writable]); werr != nil {
						return fail(werr)
					}
					buf.Consume(writable)
				}
				continue
			}

			if status != StatusOK {
				return fail(classifyFailure(status, rerr, ErrInvalidStructure))
			}

			break
		}

		// Body bytes exclude the trailing "\r\n--" immediately before the
		// boundary token itself, which belongs to the delimiter, not the
		// file's content.
		bodyLen := n - len(boundary) - 4
		if bodyLen < 0 {
			return fail(ErrInvalidStructure)
		}
		if _, werr := currentFile.Write(buf.Bytes()[:bodyLen]); werr != nil {
			return fail(werr)
		}
		if cerr := currentFile.Close(); cerr != nil {
			currentFile = nil
			return fail(cerr)
		}
		finishedPath := currentPath
		currentFile = nil
		currentPath = ""

		if settings.OnBody != nil {
			if cberr := settings.OnBody(finishedPath); cberr != nil {
				_ = r.fs.Remove(finishedPath)
				results = results[:len(results)-1]
				return results, ErrOperationAborted
			}
		}

		buf.Consume(n)

		// after-part: the protocol terminates with exactly "--\r\n" and
		// nothing else once the last part's boundary has been consumed.
		// Any other residue means more parts follow. If the match left
		// fewer than 4 bytes buffered, read on to the next line break
		// first so the decision sees the bytes that follow the boundary.
		if buf.Len() < 4 {
			if _, status, rerr = r.stream.ReadUntil([]byte("\r\n"), buf, deadline()); status != StatusOK {
				return fail(classifyFailure(status, rerr, ErrInvalidStructure))
			}
		}
		if buf.Len() == 4 && bytes.Equal(buf.Bytes(), []byte("--\r\n")) {
			return results, nil
		}
	}
}

// extractBoundary pulls the boundary token out of a Content-Type header
// value. The boundary runs to the end of the header value; callers are
// expected to have already stripped any trailing parameters a real HTTP
// stack wouldn't include here.
func extractBoundary(contentType string) (string, error) {
	idx := strings.Index(contentType, "boundary=")
	if idx < 0 {
		return "", ErrInvalidStructure
	}
	boundary := contentType[idx+len("boundary="):]
	if boundary == "" {
		return "", ErrInvalidStructure
	}
	return boundary, nil
}

// classifyFailure turns a non-OK ReadStatus into the error a Receiver
// should report. Transport failures pass their native error through
// untouched; a not-found outside of the body-reading loop (where it's
// handled separately) means the wire data never matched the grammar at
// all, which is a structural failure, not a transport one.
func classifyFailure(status ReadStatus, err error, notFoundErr error) error {
	switch status {
	case StatusTimeout, StatusClosed, StatusIOError:
		return err
	case StatusNotFound:
		return notFoundErr
	default:
		return err
	}
}
