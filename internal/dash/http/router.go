package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/datadash-io/datadash/internal/dash/domain"
	"github.com/datadash-io/datadash/internal/dash/service"
	"github.com/datadash-io/datadash/internal/dash/store"
	"github.com/datadash-io/datadash/pkg/httpx"
	"github.com/datadash-io/datadash/pkg/jwtx"
	"github.com/datadash-io/datadash/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	AccountService *service.AccountService
	UploadService  *service.UploadService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerUploads()
	r.registerCharts()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, AccountService: r.AccountService}

	// Credential endpoints are the brute-force surface; strict IP limits.
	r.Mux.Handle("POST /api/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{AccountService: r.AccountService}

	admin := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		)
	}

	// Admin-only management surface.
	r.Mux.Handle("GET /api/users", admin(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("POST /api/users", admin(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("PUT /api/users/{id}", admin(http.HandlerFunc(h.HandleUpdate)))
	r.Mux.Handle("DELETE /api/users/{id}", admin(http.HandlerFunc(h.HandleDelete)))

	// Per-account data entries: the owner or an admin.
	r.Mux.Handle("POST /api/users/{id}/upload",
		httpx.Chain(http.HandlerFunc(h.HandleAppendData),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireSelfOrRole("id", domain.RoleAdmin),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /api/users/{id}/data/{dataId}",
		httpx.Chain(http.HandlerFunc(h.HandleDeleteData),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireSelfOrRole("id", domain.RoleAdmin),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUploads() {
	h := &UploadsHandler{UploadService: r.UploadService}

	r.Mux.Handle("POST /upload",
		httpx.Chain(http.HandlerFunc(h.HandleUpload),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)

	// Stored blobs are served by their opaque ULID name.
	r.Mux.Handle("GET /uploads/{storedName}",
		httpx.Chain(http.HandlerFunc(h.HandleDownload),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerCharts() {
	h := &ChartsHandler{UploadService: r.UploadService}

	r.Mux.Handle("GET /api/charts/{storedName}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// genericErrorMessage is returned for any failure the handler does not map
// explicitly, so storage internals never leak to clients.
const genericErrorMessage = "something went wrong"

// writeServiceError maps service errors onto the response taxonomy. Anything
// unrecognized is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateAccount):
		httpx.WriteError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, service.ErrInvalidSignup):
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusBadRequest, "invalid credentials")
	case errors.Is(err, service.ErrInvalidRole):
		httpx.WriteError(w, http.StatusBadRequest, "invalid role")
	case errors.Is(err, service.ErrAccountNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrNoFile):
		httpx.WriteError(w, http.StatusBadRequest, "no file provided")
	case errors.Is(err, service.ErrFileNotFound), errors.Is(err, service.ErrInvalidName):
		httpx.WriteError(w, http.StatusNotFound, "file not found")
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, genericErrorMessage)
	}
}
