package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for request and upload operations.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Client/request attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"
	AttrMethod     = "http.method"
	AttrRoute      = "http.route"
	AttrStatusCode = "http.status_code"

	// ========================================================================
	// Auth attributes
	// ========================================================================
	AttrUserID   = "user.id"
	AttrUsername = "user.name"
	AttrRole     = "user.role"

	// ========================================================================
	// Multipart/upload attributes
	// ========================================================================
	AttrBoundary     = "multipart.boundary"
	AttrPath         = "upload.path"
	AttrFilename     = "upload.filename"
	AttrSize         = "upload.size"
	AttrBytesWritten = "upload.bytes_written"
	AttrChunk        = "upload.chunk"
	AttrErrorKind    = "upload.error_kind"

	// ========================================================================
	// Storage attributes
	// ========================================================================
	AttrStoreType = "store.type"
	AttrTable     = "store.table"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	// ========================================================================
	// HTTP request spans
	// ========================================================================
	SpanHTTPRequest = "http.request"

	// ========================================================================
	// Auth spans
	// ========================================================================
	SpanAuthLogin        = "auth.login"
	SpanAuthRefresh      = "auth.refresh"
	SpanAuthValidate     = "auth.validate"
	SpanAuthChangePasswd = "auth.change_password"

	// ========================================================================
	// Multipart receiver spans
	// ========================================================================
	SpanMultipartDownload    = "multipart.download"
	SpanMultipartHeader      = "multipart.process_header"
	SpanMultipartBody        = "multipart.process_body"
	SpanMultipartPostProcess = "multipart.post_process"

	// ========================================================================
	// Upload pipeline spans (archive/CSV post-processing)
	// ========================================================================
	SpanArchiveExtract = "archive.extract"
	SpanCSVParse       = "csv.parse"

	// ========================================================================
	// Store spans
	// ========================================================================
	SpanStoreCreateUser   = "store.create_user"
	SpanStoreGetUser      = "store.get_user"
	SpanStoreCreateUpload = "store.create_upload"
	SpanStoreListUploads  = "store.list_uploads"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// Method returns an attribute for HTTP method
func Method(m string) attribute.KeyValue {
	return attribute.String(AttrMethod, m)
}

// Route returns an attribute for the matched route pattern
func Route(r string) attribute.KeyValue {
	return attribute.String(AttrRoute, r)
}

// StatusCode returns an attribute for HTTP status code
func StatusCode(code int) attribute.KeyValue {
	return attribute.Int(AttrStatusCode, code)
}

// UserID returns an attribute for the authenticated user's ID
func UserID(id string) attribute.KeyValue {
	return attribute.String(AttrUserID, id)
}

// Username returns an attribute for username
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// Role returns an attribute for the authenticated user's role
func Role(role string) attribute.KeyValue {
	return attribute.String(AttrRole, role)
}

// Boundary returns an attribute for a multipart boundary token
func Boundary(b string) attribute.KeyValue {
	return attribute.String(AttrBoundary, b)
}

// Path returns an attribute for a destination file path
func Path(path string) attribute.KeyValue {
	return attribute.String(AttrPath, path)
}

// Filename returns an attribute for an uploaded file name
func Filename(name string) attribute.KeyValue {
	return attribute.String(AttrFilename, name)
}

// Size returns an attribute for file size
func Size(size int64) attribute.KeyValue {
	return attribute.Int64(AttrSize, size)
}

// BytesWritten returns an attribute for bytes written to a part
func BytesWritten(n int) attribute.KeyValue {
	return attribute.Int(AttrBytesWritten, n)
}

// Chunk returns an attribute for a chunk index
func Chunk(n int) attribute.KeyValue {
	return attribute.Int(AttrChunk, n)
}

// ErrorKind returns an attribute for a classified receiver failure kind
func ErrorKind(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}

// StoreType returns an attribute for store backend type
func StoreType(t string) attribute.KeyValue {
	return attribute.String(AttrStoreType, t)
}

// Table returns an attribute for a database table name
func Table(name string) attribute.KeyValue {
	return attribute.String(AttrTable, name)
}

// StartHTTPSpan starts a span for an HTTP request.
func StartHTTPSpan(ctx context.Context, method, route string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{Method(method), Route(route)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanHTTPRequest, trace.WithAttributes(allAttrs...))
}

// StartMultipartSpan starts a span for a multipart receiver operation.
func StartMultipartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, name, trace.WithAttributes(attrs...))
}

// StartStoreSpan starts a span for a database store operation.
func StartStoreSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, name, trace.WithAttributes(attrs...))
}
