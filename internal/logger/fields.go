package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// HTTP Request
	// ========================================================================
	KeyMethod    = "method"     // HTTP method
	KeyRoute     = "route"      // Matched route pattern
	KeyStatus    = "status"     // HTTP status code
	KeyRequestID = "request_id" // Request ID (chi middleware)

	// ========================================================================
	// Upload / Multipart Operations
	// ========================================================================
	KeyPath         = "path"         // Destination file path
	KeyFilename     = "filename"     // Uploaded file name
	KeyBoundary     = "boundary"     // Multipart boundary token
	KeySize         = "size"         // File size in bytes
	KeyBytesWritten = "bytes_written" // Bytes written for a single part
	KeyChunk        = "chunk"        // Chunk index within a streamed part
	KeyErrorKind    = "error_kind"   // Classified receiver failure kind

	// ========================================================================
	// Client Identification
	// ========================================================================
	KeyClientIP = "client_ip" // Client IP address
	KeyUsername = "username"  // Authenticated username
	KeyUserID   = "user_id"   // Authenticated user ID
	KeyRole     = "role"      // Authenticated user role

	// ========================================================================
	// Session & Connection
	// ========================================================================
	KeySessionID    = "session_id"    // Session identifier
	KeyConnectionID = "connection_id" // Connection identifier

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorCode  = "error_code"  // Numeric error code
	KeyOperation  = "operation"   // Sub-operation name
	KeyAttempt    = "attempt"     // Retry attempt number
	KeyMaxRetries = "max_retries" // Maximum retry attempts

	// ========================================================================
	// Storage / Database
	// ========================================================================
	KeyStoreType = "store_type" // Store backend: sqlite, postgres
	KeyTable     = "table"      // Database table name
)

// ----------------------------------------------------------------------------
// Distributed Tracing
// ----------------------------------------------------------------------------

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// ----------------------------------------------------------------------------
// HTTP Request
// ----------------------------------------------------------------------------

// Method returns a slog.Attr for HTTP method
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Route returns a slog.Attr for the matched route pattern
func Route(r string) slog.Attr {
	return slog.String(KeyRoute, r)
}

// Status returns a slog.Attr for HTTP status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// RequestID returns a slog.Attr for request ID
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// ----------------------------------------------------------------------------
// Upload / Multipart Operations
// ----------------------------------------------------------------------------

// Path returns a slog.Attr for a destination file path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Filename returns a slog.Attr for an uploaded file name
func Filename(name string) slog.Attr {
	return slog.String(KeyFilename, name)
}

// Boundary returns a slog.Attr for a multipart boundary token
func Boundary(b string) slog.Attr {
	return slog.String(KeyBoundary, b)
}

// Size returns a slog.Attr for file size
func Size(s int64) slog.Attr {
	return slog.Int64(KeySize, s)
}

// BytesWritten returns a slog.Attr for bytes written for a part
func BytesWritten(n int) slog.Attr {
	return slog.Int(KeyBytesWritten, n)
}

// Chunk returns a slog.Attr for a chunk index
func Chunk(n int) slog.Attr {
	return slog.Int(KeyChunk, n)
}

// ErrorKind returns a slog.Attr for a classified receiver failure kind
func ErrorKind(kind string) slog.Attr {
	return slog.String(KeyErrorKind, kind)
}

// ----------------------------------------------------------------------------
// Client Identification
// ----------------------------------------------------------------------------

// ClientIP returns a slog.Attr for client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Username returns a slog.Attr for username
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// UserID returns a slog.Attr for a user ID
func UserID(id string) slog.Attr {
	return slog.String(KeyUserID, id)
}

// Role returns a slog.Attr for a user role
func Role(role string) slog.Attr {
	return slog.String(KeyRole, role)
}

// ----------------------------------------------------------------------------
// Session & Connection
// ----------------------------------------------------------------------------

// SessionID returns a slog.Attr for session identifier
func SessionID(id string) slog.Attr {
	return slog.String(KeySessionID, id)
}

// ConnectionID returns a slog.Attr for connection identifier
func ConnectionID(id string) slog.Attr {
	return slog.String(KeyConnectionID, id)
}

// ----------------------------------------------------------------------------
// Operation Metadata
// ----------------------------------------------------------------------------

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorCode returns a slog.Attr for numeric error code
func ErrorCode(code int) slog.Attr {
	return slog.Int(KeyErrorCode, code)
}

// Operation returns a slog.Attr for a sub-operation name
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Attempt returns a slog.Attr for retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// MaxRetries returns a slog.Attr for maximum retry attempts
func MaxRetries(n int) slog.Attr {
	return slog.Int(KeyMaxRetries, n)
}

// ----------------------------------------------------------------------------
// Storage / Database
// ----------------------------------------------------------------------------

// StoreType returns a slog.Attr for the store backend type
func StoreType(t string) slog.Attr {
	return slog.String(KeyStoreType, t)
}

// Table returns a slog.Attr for a database table name
func Table(name string) slog.Attr {
	return slog.String(KeyTable, name)
}
