package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authdomain "github.com/nmoiseev/org-admin-backend/internal/auth/domain"
	"github.com/nmoiseev/org-admin-backend/internal/common/clock"
	commoncrypto "github.com/nmoiseev/org-admin-backend/internal/common/crypto"
	"github.com/nmoiseev/org-admin-backend/internal/common/jwtauth"
)

const (
	testAccessSecret  = "access-secret-key-at-least-32-bytes-long"
	testRefreshSecret = "refresh-secret-key-at-least-32-bytes-ok"
)

func newTestIssuer(clk clock.Clock) *TokenIssuer {
	return NewTokenIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour, commoncrypto.NewUUIDGenerator(), clk)
}

func TestTokenIssuer_AccessTokenRoundTrip(t *testing.T) {
	// ParseAccessToken validates expiry against the real clock, so the
	// issuing clock has to start at the present.
	mockClock := clock.NewMockClock(time.Now())
	issuer := newTestIssuer(mockClock)

	identity := authdomain.Identity{UserID: 42, Role: "Admin", CompanyID: 7}

	token, err := issuer.IssueAccessToken(identity)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == "" {
		t.Fatal("expected token to be set")
	}

	claims, err := jwtauth.ParseAccessToken(token, []byte(testAccessSecret))
	if err != nil {
		t.Fatalf("expected token to verify, got %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Role != "Admin" {
		t.Errorf("expected role Admin, got %s", claims.Role)
	}
	if claims.CompanyID != 7 {
		t.Errorf("expected company id 7, got %d", claims.CompanyID)
	}
}

func TestTokenIssuer_RefreshTokenClaimsOnlySubject(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(mockClock)

	identity := authdomain.Identity{UserID: 42, Role: "Admin", CompanyID: 7}

	token, expiresAt, err := issuer.IssueRefreshToken(identity)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantExpiry := mockClock.Now().Add(7 * 24 * time.Hour)
	if !expiresAt.Equal(wantExpiry) {
		t.Errorf("expected expiry %v, got %v", wantExpiry, expiresAt)
	}

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		return []byte(testRefreshSecret), nil
	}, jwt.WithTimeFunc(mockClock.Now))
	if err != nil {
		t.Fatalf("expected refresh token to parse, got %v", err)
	}

	mapClaims := parsed.Claims.(jwt.MapClaims)
	if sub, _ := mapClaims["sub"].(string); sub != "42" {
		t.Errorf("expected sub 42, got %v", mapClaims["sub"])
	}
	if _, hasRole := mapClaims["role"]; hasRole {
		t.Error("refresh token must not carry a role claim")
	}
	if _, hasCompany := mapClaims["cid"]; hasCompany {
		t.Error("refresh token must not carry a company claim")
	}
}

type stubIDGenerator struct {
	id  string
	err error
}

func (g *stubIDGenerator) NewID() (string, error) { return g.id, g.err }

func TestTokenIssuer_RefreshTokenCarriesGeneratedJTI(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour, &stubIDGenerator{id: "fixed-jti"}, mockClock)

	token, _, err := issuer.IssueRefreshToken(authdomain.Identity{UserID: 42})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		return []byte(testRefreshSecret), nil
	}, jwt.WithTimeFunc(mockClock.Now))
	if err != nil {
		t.Fatalf("expected refresh token to parse, got %v", err)
	}
	mapClaims := parsed.Claims.(jwt.MapClaims)
	if jti, _ := mapClaims["jti"].(string); jti != "fixed-jti" {
		t.Errorf("expected jti from the generator, got %v", mapClaims["jti"])
	}
}

func TestTokenIssuer_IDGeneratorFailure(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := NewTokenIssuer(testAccessSecret, testRefreshSecret, time.Hour, 7*24*time.Hour, &stubIDGenerator{err: errors.New("entropy exhausted")}, mockClock)

	if _, _, err := issuer.IssueRefreshToken(authdomain.Identity{UserID: 42}); !errors.Is(err, ErrTokenGeneration) {
		t.Errorf("expected ErrTokenGeneration, got %v", err)
	}
}

func TestTokenIssuer_RefreshTokensAreUniquePerIssue(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(mockClock)
	identity := authdomain.Identity{UserID: 42}

	// Same user, same frozen instant: the tokens must still differ so
	// concurrent sessions never share a store row.
	first, _, err := issuer.IssueRefreshToken(identity)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, _, err := issuer.IssueRefreshToken(identity)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first == second {
		t.Error("expected distinct refresh tokens for distinct logins")
	}
}

func TestTokenIssuer_InvalidUserID(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(mockClock)

	if _, err := issuer.IssueAccessToken(authdomain.Identity{UserID: 0, Role: "Admin"}); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("expected ErrInvalidUser, got %v", err)
	}
	if _, _, err := issuer.IssueRefreshToken(authdomain.Identity{UserID: -1}); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("expected ErrInvalidUser, got %v", err)
	}
}

func TestTokenIssuer_AccessTokenSignedWithAccessSecretOnly(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(mockClock)

	token, err := issuer.IssueAccessToken(authdomain.Identity{UserID: 1, Role: "Viewer", CompanyID: 1})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Verifying an access token with the refresh secret must fail.
	if _, err := jwtauth.ParseAccessToken(token, []byte(testRefreshSecret)); err == nil {
		t.Error("expected verification with the refresh secret to fail")
	}
}

func TestTokenIssuer_ParseRefreshToken(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(mockClock)

	token, _, err := issuer.IssueRefreshToken(authdomain.Identity{UserID: 42})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	userID, err := issuer.ParseRefreshToken(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if userID != 42 {
		t.Errorf("expected user id 42, got %d", userID)
	}
}

func TestTokenIssuer_ParseRefreshToken_Expired(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(mockClock)

	token, _, err := issuer.IssueRefreshToken(authdomain.Identity{UserID: 42})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	mockClock.Advance(8 * 24 * time.Hour)

	if _, err := issuer.ParseRefreshToken(token); !errors.Is(err, ErrRefreshTokenExpired) {
		t.Errorf("expected ErrRefreshTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_ParseRefreshToken_Garbage(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(mockClock)

	if _, err := issuer.ParseRefreshToken("not-a-token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
	}
}
