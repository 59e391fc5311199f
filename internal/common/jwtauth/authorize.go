package jwtauth

import (
	"net/http"

	commonhttp "github.com/nmoiseev/org-admin-backend/internal/common/http"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
	"github.com/nmoiseev/org-admin-backend/internal/observability/metrics"
)

// Authorizer gates routes by role allow-list. It is a pure gate: it mutates
// nothing and must run after the Authenticator in the pipeline.
type Authorizer struct {
	bypass bool
	log    *logger.Logger
	errors *commonhttp.ErrorHandler
}

func NewAuthorizer(bypass bool, log *logger.Logger) *Authorizer {
	return &Authorizer{
		bypass: bypass,
		log:    log,
		errors: commonhttp.NewErrorHandler(log),
	}
}

// RequireRoles builds middleware allowing only the given roles. The
// allow-list is fixed at route registration and never changes afterwards.
func (a *Authorizer) RequireRoles(allowedRoles ...string) func(next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a.bypass {
				a.log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "authorize_bypass",
				}).Warn("authorization disabled, all roles allowed")
				next.ServeHTTP(w, r)
				return
			}

			claims, ok := FromContext(r.Context())
			if !ok {
				a.log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "authorize_no_identity",
				}).Warn("identity context missing in authorizer, pipeline misordered")
				a.errors.HandleError(w, r, ErrUserNotFound)
				return
			}

			if _, ok := allowed[claims.Role]; !ok {
				a.log.WithFields(r.Context(), logger.Fields{
					"path":          r.URL.Path,
					"user_id":       claims.UserID,
					"user_role":     claims.Role,
					"allowed_roles": allowedRoles,
					"action":        "authorize_denied",
				}).Warn("role not authorized for resource")
				metrics.AuthorizationDenied.WithLabelValues(claims.Role).Inc()
				a.errors.HandleError(w, r, ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
