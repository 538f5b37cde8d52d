package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/a1exx55/server-backend-sub000/internal/api/problem"
)

type contextKey int

const claimsContextKey contextKey = iota

// GetClaimsFromContext retrieves the authenticated caller's Claims from ctx,
// or nil if the request carried no valid token.
func GetClaimsFromContext(ctx context.Context) *Claims {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// extractBearerToken pulls the token out of a request's Authorization
// header. The scheme is matched case-insensitively, and a scheme with no
// following space (e.g. "Bearerabc123") is rejected rather than treated as
// a malformed token.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	space := strings.IndexByte(header, ' ')
	if space < 0 {
		return "", false
	}

	scheme, token := header[:space], header[space+1:]
	if !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	if token == "" {
		return "", false
	}

	return token, true
}

// JWTAuth requires a valid access token, writing 401 and halting the chain
// otherwise. On success, the token's Claims are attached to the request
// context for downstream handlers.
func JWTAuth(jwtService *JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				problem.Unauthorized(w, "missing or malformed Authorization header")
				return
			}

			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				problem.Unauthorized(w, "invalid or expired access token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTAuth attaches Claims to the request context when a valid
// access token is present, but never rejects the request: it's meant for
// routes whose behavior only varies slightly when the caller is known.
func OptionalJWTAuth(jwtService *JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose Claims don't carry the admin role. It
// must run after JWTAuth.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				problem.Unauthorized(w, "authentication required")
				return
			}
			if !claims.IsAdmin() {
				problem.Forbidden(w, "admin role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePasswordChange blocks access everywhere except the listed
// allowedPaths when the caller's Claims carry MustChangePassword. It must
// run after JWTAuth. Trailing slashes on allowedPaths are ignored.
func RequirePasswordChange(allowedPaths ...string) func(http.Handler) http.Handler {
	normalized := make([]string, len(allowedPaths))
	for i, p := range allowedPaths {
		normalized[i] = strings.TrimSuffix(p, "/")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaimsFromContext(r.Context())
			if claims == nil {
				problem.Unauthorized(w, "authentication required")
				return
			}

			if claims.MustChangePassword {
				path := strings.TrimSuffix(r.URL.Path, "/")
				allowed := false
				for _, p := range normalized {
					if path == p {
						allowed = true
						break
					}
				}
				if !allowed {
					problem.Forbidden(w, "password change required before continuing")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
