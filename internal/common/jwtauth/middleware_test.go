package jwtauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonhttp "github.com/nmoiseev/org-admin-backend/internal/common/http"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
)

const testSecret = "access-secret-key-at-least-32-bytes-long"

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("", "test", "CRITICAL")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func validClaims(exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  "42",
		"role": "Admin",
		"cid":  float64(7),
		"exp":  exp.Unix(),
		"iat":  exp.Add(-time.Hour).Unix(),
	}
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) commonhttp.ErrorResponse {
	t.Helper()
	var resp commonhttp.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func runAuthenticated(t *testing.T, authn *Authenticator, authHeader string) (*httptest.ResponseRecorder, *Claims) {
	t.Helper()

	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := FromContext(r.Context()); ok {
			seen = &claims
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	authn.Middleware(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthenticator_MissingToken(t *testing.T) {
	authn := NewAuthenticator(testSecret, false, newTestLogger(t))

	rec, seen := runAuthenticated(t, authn, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if seen != nil {
		t.Error("handler must not run without a token")
	}

	resp := decodeErrorBody(t, rec)
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error.Code != "TOKEN_MISSING" {
		t.Errorf("expected code TOKEN_MISSING, got %s", resp.Error.Code)
	}
	if resp.Error.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected statusCode 401 in body, got %d", resp.Error.StatusCode)
	}
	if resp.Error.Timestamp == "" {
		t.Error("expected timestamp to be set")
	}
}

func TestAuthenticator_InvalidFormat(t *testing.T) {
	authn := NewAuthenticator(testSecret, false, newTestLogger(t))

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "some-raw-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"lowercase scheme", "bearer abc.def.ghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := runAuthenticated(t, authn, tt.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
			if resp := decodeErrorBody(t, rec); resp.Error.Code != "INVALID_TOKEN_FORMAT" {
				t.Errorf("expected code INVALID_TOKEN_FORMAT, got %s", resp.Error.Code)
			}
		})
	}
}

func TestAuthenticator_GarbageToken(t *testing.T) {
	authn := NewAuthenticator(testSecret, false, newTestLogger(t))

	rec, _ := runAuthenticated(t, authn, "Bearer not.a.jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if resp := decodeErrorBody(t, rec); resp.Error.Code != "INVALID_TOKEN" {
		t.Errorf("expected code INVALID_TOKEN, got %s", resp.Error.Code)
	}
}

func TestAuthenticator_WrongSecret(t *testing.T) {
	authn := NewAuthenticator(testSecret, false, newTestLogger(t))
	token := mintToken(t, "another-secret-key-also-32-bytes-long!!", validClaims(time.Now().Add(time.Hour)))

	rec, _ := runAuthenticated(t, authn, "Bearer "+token)
	if resp := decodeErrorBody(t, rec); resp.Error.Code != "INVALID_TOKEN" {
		t.Errorf("expected code INVALID_TOKEN, got %s", resp.Error.Code)
	}
}

func TestAuthenticator_ExpiredToken(t *testing.T) {
	authn := NewAuthenticator(testSecret, false, newTestLogger(t))
	token := mintToken(t, testSecret, validClaims(time.Now().Add(-time.Minute)))

	rec, seen := runAuthenticated(t, authn, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
	if seen != nil {
		t.Error("handler must not run with an expired token")
	}
	// Expired is its own code so clients know to refresh instead of
	// re-authenticating.
	if resp := decodeErrorBody(t, rec); resp.Error.Code != "TOKEN_EXPIRED" {
		t.Errorf("expected code TOKEN_EXPIRED, got %s", resp.Error.Code)
	}
}

func TestAuthenticator_ValidToken(t *testing.T) {
	authn := NewAuthenticator(testSecret, false, newTestLogger(t))
	token := mintToken(t, testSecret, validClaims(time.Now().Add(time.Hour)))

	rec, seen := runAuthenticated(t, authn, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if seen == nil {
		t.Fatal("expected claims in the handler context")
	}
	if seen.UserID != 42 || seen.Role != "Admin" || seen.CompanyID != 7 {
		t.Errorf("unexpected claims: %+v", *seen)
	}
}

func TestAuthenticator_TokenMissingRole(t *testing.T) {
	authn := NewAuthenticator(testSecret, false, newTestLogger(t))
	claims := validClaims(time.Now().Add(time.Hour))
	delete(claims, "role")
	token := mintToken(t, testSecret, claims)

	rec, _ := runAuthenticated(t, authn, "Bearer "+token)
	if resp := decodeErrorBody(t, rec); resp.Error.Code != "INVALID_TOKEN" {
		t.Errorf("expected code INVALID_TOKEN, got %s", resp.Error.Code)
	}
}

func TestAuthenticator_Bypass(t *testing.T) {
	authn := NewAuthenticator(testSecret, true, newTestLogger(t))

	rec, seen := runAuthenticated(t, authn, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if seen == nil {
		t.Fatal("expected mock claims in the handler context")
	}
	if *seen != mockIdentity {
		t.Errorf("expected mock identity %+v, got %+v", mockIdentity, *seen)
	}
}
