package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/a1exx55/server-backend-sub000/internal/api/problem"
	"github.com/a1exx55/server-backend-sub000/internal/auth"
	"github.com/a1exx55/server-backend-sub000/internal/config"
	"github.com/a1exx55/server-backend-sub000/internal/logger"
	"github.com/a1exx55/server-backend-sub000/internal/metrics"
	"github.com/a1exx55/server-backend-sub000/internal/multipart"
	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

// UploadHandler is the sole caller of the multipart package: it hijacks the
// request connection, hands the carry-over buffer and content-type to a
// Receiver, and persists one UploadRecord per request.
type UploadHandler struct {
	store   store.Store
	cfg     config.UploadConfig
	fs      multipart.FileSystem
	metrics *metrics.Metrics
}

// NewUploadHandler creates an UploadHandler backed by st, writing files
// under cfg.OutputDirectory. m may be nil, in which case upload metrics are
// not recorded.
func NewUploadHandler(st store.Store, cfg config.UploadConfig, m *metrics.Metrics) *UploadHandler {
	return &UploadHandler{store: st, cfg: cfg, fs: multipart.NewOSFileSystem(), metrics: m}
}

// UploadedFile describes one part the receiver wrote to disk.
type UploadedFile struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// UploadResponse is the response body for POST /api/v1/files/upload.
type UploadResponse struct {
	Files []UploadedFile `json:"files"`
}

// Upload handles POST /api/v1/files/upload. The request must be
// multipart/form-data; each part becomes a file under
// <output_directory>/<username>/, named from its Content-Disposition
// filename with collision-avoiding suffixes.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetClaimsFromContext(r.Context())
	if claims == nil {
		problem.Unauthorized(w, "authentication required")
		return
	}

	userDir := filepath.Join(h.cfg.OutputDirectory, claims.Username)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		problem.InternalServerError(w, "failed to prepare upload directory")
		return
	}

	hijacker, ok := w.(http.Hijacker)
	if !ok {
		problem.InternalServerError(w, "server does not support streaming uploads")
		return
	}
	conn, rw, err := hijacker.Hijack()
	if err != nil {
		problem.InternalServerError(w, "failed to take over connection")
		return
	}
	defer conn.Close()

	settings := h.cfg.Settings()
	settings.OutputDirectory = userDir
	settings.OnBody = func(destination string) error {
		logger.DebugCtx(r.Context(), "upload part written", "path", destination, "username", claims.Username)
		return nil
	}

	stream := multipart.NewConnStream(conn, rw.Reader)
	receiver := multipart.New(stream, h.fs, nil)

	start := time.Now()
	paths, downloadErr := h.download(r, receiver, settings)

	record := &store.UploadRecord{
		UserID:      claims.UserID,
		ContentType: r.Header.Get("Content-Type"),
		Status:      store.UploadStatusComplete,
	}

	if downloadErr != nil {
		kind := classifyUploadError(downloadErr)
		record.Status = store.UploadStatusFailed
		record.FailureKind = kind
		if len(paths) > 0 {
			record.Path = paths[0]
		}
		if _, err := h.store.CreateUploadRecord(r.Context(), record); err != nil {
			logger.ErrorCtx(r.Context(), "failed to persist upload record", "error", err)
		}
		h.metrics.ObserveUpload("failed", time.Since(start).Seconds(), 0, kind)
		writeHijackedProblem(rw, uploadErrorStatus(downloadErr), uploadErrorTitle(downloadErr), downloadErr.Error())
		return
	}

	files := make([]UploadedFile, 0, len(paths))
	var totalSize int64
	for _, p := range paths {
		info, statErr := os.Stat(p)
		var size int64
		if statErr == nil {
			size = info.Size()
		}
		totalSize += size
		files = append(files, UploadedFile{Path: p, SizeBytes: size})
	}

	if len(paths) > 0 {
		record.Path = paths[0]
		record.SizeBytes = totalSize
	}
	if _, err := h.store.CreateUploadRecord(r.Context(), record); err != nil {
		logger.ErrorCtx(r.Context(), "failed to persist upload record", "error", err)
	}
	h.metrics.ObserveUpload("complete", time.Since(start).Seconds(), totalSize, "")

	logger.InfoCtx(r.Context(), "upload completed",
		"username", claims.Username,
		"files", len(files),
		"total_size", humanize.Bytes(uint64(totalSize)),
		"duration", time.Since(start).String(),
	)

	writeHijackedJSON(rw, http.StatusOK, UploadResponse{Files: files})
}

// downloadResult carries the outcome DownloadAsync's onComplete callback
// hands back across the goroutine boundary.
type downloadResult struct {
	paths []string
	err   error
}

// download runs the receiver via DownloadAsync and blocks until it
// completes, so settings.OperationsTimeout actually bounds each read
// instead of leaving the hijacked connection's goroutine free to hang
// forever on a stalled client, which is what calling the synchronous
// Download would do here.
func (h *UploadHandler) download(r *http.Request, receiver *multipart.Receiver, settings multipart.Settings) ([]string, error) {
	resultCh := make(chan downloadResult, 1)
	receiver.DownloadAsync(r.Context(), r.Header.Get("Content-Type"), settings, func(paths []string, err error) {
		resultCh <- downloadResult{paths: paths, err: err}
	})
	result := <-resultCh
	return result.paths, result.err
}

// classifyUploadError maps a multipart error to the error_kind persisted on
// a failed UploadRecord.
func classifyUploadError(err error) string {
	switch {
	case errors.Is(err, multipart.ErrNotMultipartFormData):
		return "not_multipart_form_data"
	case errors.Is(err, multipart.ErrInvalidStructure):
		return "invalid_structure"
	case errors.Is(err, multipart.ErrInvalidFilePath):
		return "invalid_file_path"
	case errors.Is(err, multipart.ErrOperationAborted):
		return "operation_aborted"
	case errors.Is(err, multipart.ErrChunkCapTooSmall):
		return "chunk_cap_too_small"
	default:
		return "transport_error"
	}
}

func uploadErrorStatus(err error) int {
	switch {
	case errors.Is(err, multipart.ErrNotMultipartFormData), errors.Is(err, multipart.ErrInvalidStructure):
		return http.StatusBadRequest
	case errors.Is(err, multipart.ErrInvalidFilePath):
		return http.StatusUnprocessableEntity
	case errors.Is(err, multipart.ErrOperationAborted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, multipart.ErrChunkCapTooSmall):
		return http.StatusInternalServerError
	default:
		return http.StatusRequestTimeout
	}
}

func uploadErrorTitle(err error) string {
	switch {
	case errors.Is(err, multipart.ErrNotMultipartFormData):
		return "Not Multipart Form Data"
	case errors.Is(err, multipart.ErrInvalidStructure):
		return "Invalid Structure"
	case errors.Is(err, multipart.ErrInvalidFilePath):
		return "Invalid File Path"
	case errors.Is(err, multipart.ErrOperationAborted):
		return "Operation Aborted"
	case errors.Is(err, multipart.ErrChunkCapTooSmall):
		return "Chunk Cap Too Small"
	default:
		return "Upload Failed"
	}
}

// writeHijackedJSON writes a raw HTTP/1.1 response over a hijacked
// connection, since the normal http.ResponseWriter is no longer usable
// once Hijack has been called.
func writeHijackedJSON(rw *bufio.ReadWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeHijackedProblem(rw, http.StatusInternalServerError, "Internal Server Error", "failed to encode response")
		return
	}
	writeHijackedResponse(rw, status, "application/json", body)
}

func writeHijackedProblem(rw *bufio.ReadWriter, status int, title, detail string) {
	body, _ := json.Marshal(problem.Problem{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
	writeHijackedResponse(rw, status, problem.ContentTypeProblemJSON, body)
}

func writeHijackedResponse(rw *bufio.ReadWriter, status int, contentType string, body []byte) {
	fmt.Fprintf(rw, "HTTP/1.1 %d %s\r\n", status, http.StatusText(status))
	fmt.Fprintf(rw, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(rw, "Content-Length: %d\r\n", len(body))
	fmt.Fprintf(rw, "Connection: close\r\n\r\n")
	rw.Write(body)
	rw.Flush()
}
