// Package httpapi binds the HTTP surface to the auth, lead and
// user-management services.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devang127/lead-management/internal/access"
	"github.com/devang127/lead-management/internal/auth"
	"github.com/devang127/lead-management/internal/crm"
	"github.com/devang127/lead-management/internal/obs"
	"github.com/devang127/lead-management/internal/users"
)

// Options carries the tunables the API layer needs from configuration.
type Options struct {
	Version      string
	CORSOrigin   string
	MaxBodyBytes int64
	RatePerSec   int
	RateBurst    int
	// ReadyProbe is consulted by /readyz, typically a database ping.
	ReadyProbe func(ctx context.Context) error
}

// API is the HTTP layer.
type API struct {
	router *chi.Mux
	auth   *auth.Service
	leads  *crm.Service
	users  *users.Service
	opts   Options
}

// New wires the routes.
func New(authSvc *auth.Service, leadSvc *crm.Service, userSvc *users.Service, opts Options) *API {
	a := &API{
		router: chi.NewRouter(),
		auth:   authSvc,
		leads:  leadSvc,
		users:  userSvc,
		opts:   opts,
	}

	r := a.router
	r.Use(RequestID)
	r.Use(instrument)
	r.Use(Logging)
	r.Use(SecurityHeaders)
	if opts.CORSOrigin != "" {
		r.Use(CORS(opts.CORSOrigin))
	}
	if opts.MaxBodyBytes > 0 {
		r.Use(MaxBodyBytes(opts.MaxBodyBytes))
	}
	if opts.RatePerSec > 0 {
		r.Use(RateLimit(opts.RatePerSec, opts.RateBurst))
	}

	r.Get("/healthz", a.handleHealthz)
	r.Get("/readyz", a.handleReadyz)
	r.Method(http.MethodGet, "/metrics", obs.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", a.handleLogin)
		r.Post("/auth/signup", a.handleSignup)

		r.Group(func(r chi.Router) {
			r.Use(a.withAuth)

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", a.handleListLeads)
				r.Post("/", a.handleCreateLead)
				r.Get("/tags", a.handleLeadTags)
				r.Get("/export", a.handleExportLeads)
				r.Put("/{id}", a.handleUpdateLead)
				r.Delete("/{id}", a.handleDeleteLead)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", a.handleListUsers)
				r.Post("/users", a.handleCreateUser)
				r.Get("/activity-logs", a.handleActivityLogs)
				r.Put("/{id}", a.handleUpdateUser)
				r.Delete("/{id}", a.handleDeleteUser)
			})

			r.Get("/dashboard/stats", a.handleDashboardStats)
		})
	})

	return a
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	return a.router
}

func instrument(next http.Handler) http.Handler {
	return obs.Instrument(next, func(r *http.Request) string {
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			return rctx.RoutePattern()
		}
		return ""
	})
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "lead-management-api",
		"version": a.opts.Version,
	})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if a.opts.ReadyProbe != nil {
		if err := a.opts.ReadyProbe(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// handleDomainError converts service errors into the error taxonomy:
// validation and duplicate email answer 400, role or ownership failures 403,
// unresolved ids 404, everything unexpected 500 with a generic message.
func (a *API) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, crm.ErrInvalidInput), errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrConflict):
		writeError(w, r, http.StatusBadRequest, "User already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, r, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, access.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "Forbidden")
	case errors.Is(err, crm.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Lead not found")
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "User not found")
	default:
		obs.Logger().Error().
			Str("request_id", RequestIDFromContext(r.Context())).
			Err(err).
			Msg("request_failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
