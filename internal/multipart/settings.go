package multipart

import "time"

// Settings customizes a Receiver's behavior. The zero value is not usable
// directly; call DefaultSettings and override fields from there, or rely on
// Receiver.Download / DownloadAsync filling in zero fields via
// applyDefaults.
type Settings struct {
	// ChunkCap bounds the working buffer's size, and with it the receiver's
	// memory footprint regardless of upload size. Must be large enough to
	// hold the boundary token with room to spare.
	//
	// Default is 10 MiB.
	ChunkCap int

	// OperationsTimeout bounds each individual read performed by
	// DownloadAsync. It has no effect on Download, which blocks on the
	// caller's goroutine with no deadline of its own.
	//
	// Default is 30 seconds.
	OperationsTimeout time.Duration

	// OutputDirectory is where files land when OnHeader is nil or returns
	// an empty path.
	//
	// Default is the current working directory.
	OutputDirectory string

	// OnHeader is invoked once per part after its header is fully read,
	// with the filename parsed out of the Content-Disposition field. It
	// may return a destination path to write to; an empty string falls
	// back to OutputDirectory with collision-avoiding name generation. An
	// error aborts the whole download with ErrOperationAborted.
	OnHeader func(filename string) (destination string, err error)

	// OnBody is invoked once per part after its body has been fully
	// written to disk and the file closed, with the path it was written
	// to. An error aborts the whole download with ErrOperationAborted; the
	// file just written is removed and dropped from the result.
	OnBody func(destination string) error
}

// DefaultSettings returns Settings populated with the package defaults.
func DefaultSettings() Settings {
	return Settings{
		ChunkCap:          10 * 1024 * 1024,
		OperationsTimeout: 30 * time.Second,
		OutputDirectory:   ".",
	}
}

func (s *Settings) applyDefaults() {
	if s.ChunkCap <= 0 {
		s.ChunkCap = 10 * 1024 * 1024
	}
	if s.OperationsTimeout <= 0 {
		s.OperationsTimeout = 30 * time.Second
	}
	if s.OutputDirectory == "" {
		s.OutputDirectory = "."
	}
}
