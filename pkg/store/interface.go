package store

import (
	"context"
	"time"
)

// Store is the persistence surface the API layer depends on. GORMStore is
// the only implementation; the interface exists so internal/api and
// internal/auth depend on behavior, not on GORM directly.
type Store interface {
	GetUser(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CreateUser(ctx context.Context, user *User) (string, error)
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, username string) error
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	UpdateLastLogin(ctx context.Context, username string, timestamp time.Time) error
	ValidateCredentials(ctx context.Context, username, password string) (*User, error)

	IsAdminInitialized(ctx context.Context) (bool, error)
	EnsureAdminUser(ctx context.Context, passwordHash string) (bool, error)

	CreateUploadRecord(ctx context.Context, record *UploadRecord) (string, error)
	ListUploadRecords(ctx context.Context, userID string) ([]*UploadRecord, error)
	GetUploadRecord(ctx context.Context, id string) (*UploadRecord, error)
}

var _ Store = (*GORMStore)(nil)
