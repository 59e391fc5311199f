package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	commonerrors "github.com/nmoiseev/org-admin-backend/internal/common/errors"
	commonhttp "github.com/nmoiseev/org-admin-backend/internal/common/http"
	"github.com/nmoiseev/org-admin-backend/internal/common/jwtauth"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
	"github.com/nmoiseev/org-admin-backend/internal/user/domain"
	userrepo "github.com/nmoiseev/org-admin-backend/internal/user/repository"
)

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID int64  `json:"companyId"`
}

type Handler struct {
	users   userrepo.Repository
	log     *logger.Logger
	errors  *commonhttp.ErrorHandler
	timeout time.Duration
}

// NewHandler mounts the protected user routes behind the full
// authenticate-then-authorize pipeline. The list route is Admin-only and
// tenant-scoped; the profile route allows any authenticated role.
func NewHandler(
	users userrepo.Repository,
	authn *jwtauth.Authenticator,
	authz *jwtauth.Authorizer,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		users:   users,
		log:     log,
		errors:  commonhttp.NewErrorHandler(log),
		timeout: timeout,
	}

	adminOnly := authz.RequireRoles("Admin")

	mux := http.NewServeMux()
	mux.Handle("/api/users/me", authn.Middleware(http.HandlerFunc(h.me)))
	mux.Handle("/api/users", authn.Middleware(adminOnly(http.HandlerFunc(h.list))))
	return mux
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errors.HandleError(w, r, commonerrors.ErrMethodNotAllowed)
		return
	}

	claims, ok := jwtauth.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, jwtauth.ErrUserNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.users.FindByID(ctx, domain.UserID(claims.UserID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			// Token still valid but the account was deactivated or
			// deleted since it was issued.
			h.errors.HandleError(w, r, jwtauth.ErrUserNotFound)
			return
		}
		h.errors.HandleError(w, r, commonerrors.ErrDatabaseError.WithCause(err))
		return
	}

	commonhttp.WriteData(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.errors.HandleError(w, r, commonerrors.ErrMethodNotAllowed)
		return
	}

	claims, ok := jwtauth.FromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, jwtauth.ErrUserNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	users, err := h.users.ListByCompany(ctx, claims.CompanyID)
	if err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrDatabaseError.WithCause(err))
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}

	commonhttp.WriteData(w, http.StatusOK, out)
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:        int64(user.ID),
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	}
}
