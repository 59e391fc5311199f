package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authdomain "github.com/nmoiseev/org-admin-backend/internal/auth/domain"
	"github.com/nmoiseev/org-admin-backend/internal/common/clock"
	commoncrypto "github.com/nmoiseev/org-admin-backend/internal/common/crypto"
)

// TokenIssuer signs the two token classes with distinct secrets, so a
// compromise of one class cannot forge the other.
//
// Access tokens carry the full identity {sub, role, cid}; refresh tokens
// carry only the subject, forcing every refresh to re-derive role and tenant
// from the current user record.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	idGenerator   commoncrypto.IDGenerator
	clock         clock.Clock
}

func NewTokenIssuer(
	accessSecret string,
	refreshSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		idGenerator:   idGenerator,
		clock:         clk,
	}
}

func (ti *TokenIssuer) IssueAccessToken(identity authdomain.Identity) (string, error) {
	if identity.UserID <= 0 {
		return "", ErrInvalidUser
	}

	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(identity.UserID, 10),
		"role": identity.Role,
		"cid":  identity.CompanyID,
		"exp":  now.Add(ti.accessTTL).Unix(),
		"iat":  now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.accessSecret)
	if err != nil {
		return "", ErrTokenGeneration.WithCause(err)
	}

	incrementAccessTokensIssued()
	return tokenString, nil
}

func (ti *TokenIssuer) IssueRefreshToken(identity authdomain.Identity) (string, time.Time, error) {
	if identity.UserID <= 0 {
		return "", time.Time{}, ErrInvalidUser
	}

	// The jti keeps concurrent logins distinct: without it two sessions
	// opened in the same second would mint byte-identical tokens and
	// collide in the store.
	jti, err := ti.idGenerator.NewID()
	if err != nil {
		return "", time.Time{}, ErrTokenGeneration.WithCause(err)
	}

	now := ti.clock.Now()
	expiresAt := now.Add(ti.refreshTTL)
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(identity.UserID, 10),
		"jti": jti,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.refreshSecret)
	if err != nil {
		return "", time.Time{}, ErrTokenGeneration.WithCause(err)
	}

	incrementRefreshTokensIssued()
	return tokenString, expiresAt, nil
}

// ParseRefreshToken verifies signature and expiry against the refresh
// secret and returns the subject user id.
func (ti *TokenIssuer) ParseRefreshToken(tokenString string) (int64, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return ti.refreshSecret, nil
	}, jwt.WithTimeFunc(ti.clock.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrRefreshTokenExpired.WithCause(err)
		}
		return 0, ErrInvalidRefreshToken.WithCause(err)
	}
	if !parsed.Valid {
		return 0, ErrInvalidRefreshToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidRefreshToken
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidRefreshToken
	}

	return userID, nil
}
