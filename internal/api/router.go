package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/a1exx55/server-backend-sub000/internal/api/handlers"
	"github.com/a1exx55/server-backend-sub000/internal/auth"
	"github.com/a1exx55/server-backend-sub000/internal/config"
	"github.com/a1exx55/server-backend-sub000/internal/logger"
	"github.com/a1exx55/server-backend-sub000/internal/metrics"
	"github.com/a1exx55/server-backend-sub000/pkg/store"
)

// changePasswordPath is exempt from RequirePasswordChange so a user whose
// account requires a password change can still reach the endpoint that
// lets them change it.
const changePasswordPath = "/api/v1/users/me/password"

// NewRouter builds the chi router with the full middleware stack and route
// tree: health probes, authentication, user management and the multipart
// upload endpoint.
func NewRouter(jwtService *auth.JWTService, st store.Store, uploadCfg config.UploadConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	healthHandler := handlers.NewHealthHandler(st)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	authHandler := handlers.NewAuthHandler(st, jwtService)
	userHandler := handlers.NewUserHandler(st)
	uploadHandler := handlers.NewUploadHandler(st, uploadCfg, m)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(auth.JWTAuth(jwtService))
				r.Get("/me", authHandler.Me)
			})
		})

		// Password change is authenticated but exempt from the
		// must-change-password gate below, so a user who must change their
		// password can still reach the one endpoint that lets them.
		r.Route(strings.TrimPrefix(changePasswordPath, "/api/v1"), func(r chi.Router) {
			r.Use(auth.JWTAuth(jwtService))
			r.Post("/", userHandler.ChangeOwnPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.JWTAuth(jwtService))
			r.Use(auth.RequirePasswordChange(changePasswordPath))

			r.Route("/users", func(r chi.Router) {
				r.Get("/{username}", userHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireAdmin())
					r.Post("/", userHandler.Create)
					r.Get("/", userHandler.List)
					r.Put("/{username}", userHandler.Update)
					r.Delete("/{username}", userHandler.Delete)
				})
			})

			r.Route("/files", func(r chi.Router) {
				r.Post("/upload", uploadHandler.Upload)
			})
		})
	})

	return r
}

// isHealthPath reports whether path is a healthcheck endpoint, logged at
// DEBUG rather than INFO to avoid drowning real traffic in probe noise.
func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// requestLogger logs request start at DEBUG and completion at INFO (DEBUG
// for healthchecks), through internal/logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("API request started",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		logArgs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration.String(),
		}

		if isHealthPath(r.URL.Path) {
			logger.Debug("API request completed", logArgs...)
		} else {
			logger.Info("API request completed", logArgs...)
		}
	})
}
