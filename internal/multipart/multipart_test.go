package multipart

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"
)

// fakeStream replays a fixed byte slice in configurable chunk sizes,
// simulating a network connection that delivers the body piecemeal rather
// than all at once. It lets tests exercise the chunk-full refill path
// without needing real sockets.
type fakeStream struct {
	data      []byte
	pos       int
	chunkSize int

	// endStatus/endErr are returned once data is exhausted. Defaults to a
	// closed connection (EOF), matching a client that ends the request body.
	endStatus ReadStatus
	endErr    error
}

func newFakeStream(data []byte, chunkSize int) *fakeStream {
	if chunkSize <= 0 {
		chunkSize = len(data) + 1
	}
	return &fakeStream{
		data:      data,
		chunkSize: chunkSize,
		endStatus: StatusClosed,
		endErr:    io.EOF,
	}
}

func (s *fakeStream) ReadUntil(delim []byte, buf *Buffer, _ time.Time) (int, ReadStatus, error) {
	if idx := bytes.Index(buf.Bytes(), delim); idx >= 0 {
		return idx + len(delim), StatusOK, nil
	}

	for {
		avail := buf.Available()
		if avail == 0 {
			return buf.Len(), StatusNotFound, nil
		}

		if s.pos >= len(s.data) {
			return buf.Len(), s.endStatus, s.endErr
		}

		n := s.chunkSize
		if n > avail {
			n = avail
		}
		if remaining := len(s.data) - s.pos; n > remaining {
			n = remaining
		}

		buf.Append(s.data[s.pos : s.pos+n])
		s.pos += n

		if idx := bytes.Index(buf.Bytes(), delim); idx >= 0 {
			return idx + len(delim), StatusOK, nil
		}
	}
}

// memFileSystem is an in-memory FileSystem fake for tests.
type memFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
	// failOpen, when set, makes OpenFile fail for paths equal to this value.
	failOpen string
}

func newMemFileSystem() *memFileSystem {
	return &memFileSystem{files: make(map[string][]byte)}
}

func (m *memFileSystem) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

func (m *memFileSystem) OpenFile(path string) (io.WriteCloser, error) {
	if m.failOpen != "" && path == m.failOpen {
		return nil, errors.New("simulated open failure")
	}
	m.mu.Lock()
	m.files[path] = []byte{}
	m.mu.Unlock()
	return &memFile{fs: m, path: path}, nil
}

func (m *memFileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memFileSystem) contents(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[path]
	return b, ok
}

type memFile struct {
	fs   *memFileSystem
	path string
}

func (f *memFile) Write(p []byte) (int, error) {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.fs.files[f.path] = append(f.fs.files[f.path], p...)
	return len(p), nil
}

func (f *memFile) Close() error { return nil }

// buildPart renders one multipart/form-data part for a file field.
func buildPart(boundary, fieldName, filename string, body []byte) []byte {
	var b bytes.Buffer
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Disposition: form-data; name=\"" + fieldName + "\"; filename=\"" + filename + "\"\r\n")
	b.WriteString("Content-Type: application/octet-stream\r\n\r\n")
	b.Write(body)
	b.WriteString("\r\n")
	return b.Bytes()
}

// buildBody assembles a full multipart/form-data body from parts already
// rendered with buildPart, terminated with the closing boundary line.
func buildBody(boundary string, parts ...[]byte) []byte {
	var b bytes.Buffer
	for _, p := range parts {
		b.Write(p)
	}
	b.WriteString("--" + boundary + "--\r\n")
	return b.Bytes()
}
