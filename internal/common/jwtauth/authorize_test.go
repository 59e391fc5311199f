package jwtauth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func runAuthorized(t *testing.T, authz *Authorizer, roles []string, claims *Claims) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	if claims != nil {
		req = req.WithContext(WithClaims(req.Context(), *claims))
	}
	rec := httptest.NewRecorder()
	authz.RequireRoles(roles...)(next).ServeHTTP(rec, req)
	return rec, reached
}

func TestAuthorizer_NoIdentity(t *testing.T) {
	authz := NewAuthorizer(false, newTestLogger(t))

	rec, reached := runAuthorized(t, authz, []string{"Admin"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if reached {
		t.Error("handler must not run without an identity")
	}
	if resp := decodeErrorBody(t, rec); resp.Error.Code != "USER_NOT_FOUND" {
		t.Errorf("expected code USER_NOT_FOUND, got %s", resp.Error.Code)
	}
}

func TestAuthorizer_InsufficientRole(t *testing.T) {
	authz := NewAuthorizer(false, newTestLogger(t))

	rec, reached := runAuthorized(t, authz, []string{"Admin"}, &Claims{UserID: 42, Role: "Viewer", CompanyID: 7})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
	if reached {
		t.Error("handler must not run with a disallowed role")
	}
	if resp := decodeErrorBody(t, rec); resp.Error.Code != "INSUFFICIENT_ROLE" {
		t.Errorf("expected code INSUFFICIENT_ROLE, got %s", resp.Error.Code)
	}
}

func TestAuthorizer_AllowedRole(t *testing.T) {
	authz := NewAuthorizer(false, newTestLogger(t))

	rec, reached := runAuthorized(t, authz, []string{"Admin", "Manager"}, &Claims{UserID: 42, Role: "Manager", CompanyID: 7})
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if !reached {
		t.Error("expected handler to run for an allowed role")
	}
}

func TestAuthorizer_RoleIsCaseSensitive(t *testing.T) {
	authz := NewAuthorizer(false, newTestLogger(t))

	rec, reached := runAuthorized(t, authz, []string{"Admin"}, &Claims{UserID: 42, Role: "admin", CompanyID: 7})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
	if reached {
		t.Error("role comparison must be exact")
	}
}

func TestAuthorizer_Bypass(t *testing.T) {
	authz := NewAuthorizer(true, newTestLogger(t))

	rec, reached := runAuthorized(t, authz, []string{"Admin"}, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if !reached {
		t.Error("bypass must let the request through without an identity")
	}
}
