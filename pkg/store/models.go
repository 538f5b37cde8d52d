// Package store persists users and upload history behind a GORM-backed
// repository that runs on either SQLite or PostgreSQL.
package store

import "time"

// UserRole represents the role of a user in the system.
type UserRole string

const (
	// RoleUser is a regular user limited to uploading and listing their own files.
	RoleUser UserRole = "user"
	// RoleAdmin is an administrator with full access to user management.
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is a valid UserRole.
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account that can authenticate against the upload API.
type User struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	Username           string     `gorm:"uniqueIndex;not null;size:255" json:"username"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	Enabled            bool       `json:"enabled"`
	MustChangePassword bool       `gorm:"default:false" json:"must_change_password"`
	Role               string     `gorm:"default:user;size:50" json:"role"`
	DisplayName        string     `gorm:"size:255" json:"display_name,omitempty"`
	Email              string     `gorm:"size:255" json:"email,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLogin          *time.Time `json:"last_login,omitempty"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// GetDisplayName returns the display name, or username if display name is not set.
func (u *User) GetDisplayName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Validate checks if the user has valid configuration.
func (u *User) Validate() error {
	if u.Username == "" {
		return errUsernameRequired
	}
	if u.Role != "" && !UserRole(u.Role).IsValid() {
		return errInvalidRole
	}
	return nil
}

// IsAdmin checks if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}

// GetRole returns the user's role as a UserRole type.
func (u *User) GetRole() UserRole {
	return UserRole(u.Role)
}

// UploadStatus is the lifecycle state of an UploadRecord.
type UploadStatus string

const (
	// UploadStatusComplete means every part of the request was written.
	UploadStatusComplete UploadStatus = "complete"
	// UploadStatusFailed means the receiver aborted partway through;
	// FailureKind records the classified error.
	UploadStatusFailed UploadStatus = "failed"
)

// UploadRecord is a persisted audit entry for one multipart/form-data
// request handled by the upload endpoint, independent of the transient
// files the request produced on disk.
type UploadRecord struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	UserID      string       `gorm:"index;size:36" json:"user_id"`
	Filename    string       `gorm:"size:1024" json:"filename"`
	Path        string       `gorm:"size:2048" json:"path"`
	SizeBytes   int64        `json:"size_bytes"`
	ContentType string       `gorm:"size:255" json:"content_type"`
	Status      UploadStatus `gorm:"size:20" json:"status"`
	FailureKind string       `gorm:"size:100" json:"failure_kind,omitempty"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for UploadRecord.
func (UploadRecord) TableName() string {
	return "upload_records"
}

// AllModels returns all GORM models for auto-migration.
func AllModels() []any {
	return []any{
		&User{},
		&UploadRecord{},
	}
}
