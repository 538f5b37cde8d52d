package handlers

import (
	"path/filepath"
	"testing"

	"github.com/a1exx55/server-backend-sub000/internal/auth"
	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

// newTestStore returns a SQLite-backed store.Store rooted in a temp dir, so
// handler tests exercise real CRUD/constraint behavior instead of a fake.
func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	})
	if err != nil {
		t.Fatalf("store.New() returned error: %v", err)
	}
	return st
}

// newTestJWTService returns a JWTService usable across handler tests.
func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret: "a-test-secret-that-is-at-least-32-bytes-long",
	})
	if err != nil {
		t.Fatalf("auth.NewJWTService() returned error: %v", err)
	}
	return svc
}
