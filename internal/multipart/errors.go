package multipart

import "errors"

// Sentinel errors returned by Receiver. Transport failures (timeout, closed
// connection, I/O error) are never remapped to these — they surface with
// their original kind intact so callers can distinguish "the request was
// malformed" from "the network went away".
var (
	// ErrNotMultipartFormData is returned when the request's Content-Type is
	// not multipart/form-data. A multipart/form-data Content-Type with no
	// boundary parameter yields ErrInvalidStructure instead.
	ErrNotMultipartFormData = errors.New("multipart: content-type is not multipart/form-data")

	// ErrInvalidStructure is returned when the body does not follow the
	// multipart/form-data grammar closely enough to locate a part's
	// filename, or a part header never terminates within the chunk cap.
	ErrInvalidStructure = errors.New("multipart: malformed multipart/form-data body")

	// ErrInvalidFilePath is returned when a destination path can't be
	// created or opened for writing. The header-supplied filename is
	// joined to the output directory as given; no check is made that the
	// result stays inside that directory.
	ErrInvalidFilePath = errors.New("multipart: invalid destination file path")

	// ErrOperationAborted is returned when OnHeader or OnBody declines a
	// part. Any file already opened for that part is closed and removed.
	ErrOperationAborted = errors.New("multipart: aborted by caller callback")

	// ErrChunkCapTooSmall is returned when Settings.ChunkCap cannot hold the
	// boundary token with room to spare, making the working buffer unable
	// to ever make forward progress.
	ErrChunkCapTooSmall = errors.New("multipart: chunk cap too small for boundary")
)
