package http

import (
	"context"
	"net/http"
	"time"

	"github.com/nmoiseev/org-admin-backend/internal/auth/service"
	commonerrors "github.com/nmoiseev/org-admin-backend/internal/common/errors"
	commonhttp "github.com/nmoiseev/org-admin-backend/internal/common/http"
	"github.com/nmoiseev/org-admin-backend/internal/common/jwtauth"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type Handler struct {
	auth    *service.AuthService
	log     *logger.Logger
	errors  *commonhttp.ErrorHandler
	timeout time.Duration
}

// NewHandler mounts the auth routes. Logout requires an authenticated
// caller, so it sits behind the authenticator middleware; login and refresh
// are the two unauthenticated entry points.
func NewHandler(auth *service.AuthService, authn *jwtauth.Authenticator, timeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:    auth,
		log:     log,
		errors:  commonhttp.NewErrorHandler(log),
		timeout: timeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/api/auth/login", h.login)
	mux.HandleFunc("/api/auth/refresh", h.refresh)
	mux.Handle("/api/auth/logout", authn.Middleware(http.HandlerFunc(h.logout)))
	return mux
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errors.HandleError(w, r, commonerrors.ErrMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrInvalidJSON.WithCause(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusOK, result)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errors.HandleError(w, r, commonerrors.ErrMethodNotAllowed)
		return
	}

	var req refreshRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrInvalidJSON.WithCause(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteData(w, http.StatusOK, result)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errors.HandleError(w, r, commonerrors.ErrMethodNotAllowed)
		return
	}

	var req logoutRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.errors.HandleError(w, r, commonerrors.ErrInvalidJSON.WithCause(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.auth.Logout(ctx, req.RefreshToken); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, "Logged out successfully")
}
