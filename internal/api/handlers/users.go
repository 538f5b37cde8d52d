package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/a1exx55/server-backend-sub000/internal/api/problem"
	"github.com/a1exx55/server-backend-sub000/internal/auth"
	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

// UserHandler serves user management and self-service password change.
type UserHandler struct {
	store store.Store
}

// NewUserHandler creates a UserHandler backed by st.
func NewUserHandler(st store.Store) *UserHandler {
	return &UserHandler{store: st}
}

// CreateUserRequest is the request body for POST /api/v1/users.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"omitempty,oneof=user admin"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email" validate:"omitempty,email"`
}

// UpdateUserRequest is the request body for PUT /api/v1/users/{username}.
type UpdateUserRequest struct {
	Enabled            *bool  `json:"enabled"`
	MustChangePassword *bool  `json:"must_change_password"`
	Role               string `json:"role" validate:"omitempty,oneof=user admin"`
	DisplayName        string `json:"display_name"`
	Email              string `json:"email" validate:"omitempty,email"`
}

// ChangePasswordRequest is the request body for
// POST /api/v1/users/me/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Create handles POST /api/v1/users. Admin only.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.BadRequest(w, "invalid user payload: "+err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		problem.BadRequest(w, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = string(store.RoleUser)
	}

	user := &store.User{
		Username:     req.Username,
		PasswordHash: hash,
		Enabled:      true,
		Role:         role,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
	}

	if _, err := h.store.CreateUser(r.Context(), user); err != nil {
		handleStoreError(w, err)
		return
	}

	problem.WriteJSON(w, http.StatusCreated, userToResponse(user))
}

// List handles GET /api/v1/users. Admin only.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		problem.InternalServerError(w, "failed to list users")
		return
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = userToResponse(u)
	}
	problem.WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/users/{username}. A non-admin caller may only
// fetch their own record.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	claims := auth.GetClaimsFromContext(r.Context())
	if claims == nil {
		problem.Unauthorized(w, "authentication required")
		return
	}
	if !claims.IsAdmin() && claims.Username != username {
		problem.Forbidden(w, "cannot view another user's record")
		return
	}

	user, err := h.store.GetUser(r.Context(), username)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	problem.WriteJSON(w, http.StatusOK, userToResponse(user))
}

// Update handles PUT /api/v1/users/{username}. Admin only.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req UpdateUserRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.BadRequest(w, "invalid user payload: "+err.Error())
		return
	}

	existing, err := h.store.GetUser(r.Context(), username)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	if req.Enabled != nil {
		existing.Enabled = *req.Enabled
	}
	if req.MustChangePassword != nil {
		existing.MustChangePassword = *req.MustChangePassword
	}
	if req.Role != "" {
		existing.Role = req.Role
	}
	if req.DisplayName != "" {
		existing.DisplayName = req.DisplayName
	}
	if req.Email != "" {
		existing.Email = req.Email
	}

	if err := h.store.UpdateUser(r.Context(), existing); err != nil {
		handleStoreError(w, err)
		return
	}

	problem.WriteJSON(w, http.StatusOK, userToResponse(existing))
}

// Delete handles DELETE /api/v1/users/{username}. Admin only.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.store.DeleteUser(r.Context(), username); err != nil {
		handleStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeOwnPassword handles POST /api/v1/users/me/password. The caller must
// present their current password. Unlike the other /api/v1 user and file
// routes, it stays reachable for a user whose account carries
// MustChangePassword.
func (h *UserHandler) ChangeOwnPassword(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetClaimsFromContext(r.Context())
	if claims == nil {
		problem.Unauthorized(w, "authentication required")
		return
	}

	var req ChangePasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.BadRequest(w, "current and new password are required")
		return
	}

	if _, err := h.store.ValidateCredentials(r.Context(), claims.Username, req.CurrentPassword); err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			problem.Unauthorized(w, "current password is incorrect")
			return
		}
		handleStoreError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		problem.BadRequest(w, err.Error())
		return
	}

	if err := h.store.UpdatePassword(r.Context(), claims.Username, hash); err != nil {
		handleStoreError(w, err)
		return
	}

	if claims.MustChangePassword {
		user, err := h.store.GetUser(r.Context(), claims.Username)
		if err == nil {
			user.MustChangePassword = false
			_ = h.store.UpdateUser(r.Context(), user)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
