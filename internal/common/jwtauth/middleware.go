package jwtauth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonhttp "github.com/nmoiseev/org-admin-backend/internal/common/http"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
	"github.com/nmoiseev/org-admin-backend/internal/observability/metrics"
)

// Claims is the decoded identity attached to the request context. The
// authenticator middleware is the only writer.
type Claims struct {
	UserID    int64
	Role      string
	CompanyID int64
}

type contextKey string

const claimsKey contextKey = "auth_claims"

// mockIdentity is what the development bypass injects instead of a
// verified token.
var mockIdentity = Claims{UserID: 1, Role: "Admin", CompanyID: 1}

// Authenticator verifies bearer access tokens and populates the identity
// context. The bypass flag is fixed at construction; it is never read from
// the environment during request handling.
type Authenticator struct {
	secret []byte
	bypass bool
	log    *logger.Logger
	errors *commonhttp.ErrorHandler
}

func NewAuthenticator(secret string, bypass bool, log *logger.Logger) *Authenticator {
	if bypass {
		log.Warn("AUTHENTICATION DISABLED: requests will be served with a mock identity; never enable this outside local development")
	}
	return &Authenticator{
		secret: []byte(secret),
		bypass: bypass,
		log:    log,
		errors: commonhttp.NewErrorHandler(log),
	}
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.bypass {
			a.log.WithFields(r.Context(), logger.Fields{
				"path":   r.URL.Path,
				"action": "auth_bypass",
			}).Warn("authentication disabled, injecting mock identity")
			metrics.AuthBypassUsed.Inc()
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), mockIdentity)))
			return
		}

		raw := r.Header.Get("Authorization")
		if raw == "" {
			a.log.WithFields(r.Context(), logger.Fields{
				"path":   r.URL.Path,
				"ip":     commonhttp.GetClientIP(r),
				"action": "token_missing",
			}).Warn("missing authentication token")
			a.errors.HandleError(w, r, ErrTokenMissing)
			return
		}

		parts := strings.SplitN(raw, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			a.log.WithFields(r.Context(), logger.Fields{
				"path":   r.URL.Path,
				"ip":     commonhttp.GetClientIP(r),
				"action": "invalid_token_format",
			}).Warn("invalid authorization header format")
			a.errors.HandleError(w, r, ErrInvalidTokenFormat)
			return
		}

		claims, err := ParseAccessToken(parts[1], a.secret)
		if err != nil {
			a.log.WithFields(r.Context(), logger.Fields{
				"path":   r.URL.Path,
				"ip":     commonhttp.GetClientIP(r),
				"action": "token_verification_failed",
			}).Warnf("token verification failed: %v", err)
			a.errors.HandleError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

// ParseAccessToken verifies signature and expiry against the access secret.
// Expiry is reported as ErrTokenExpired, never as a structural failure.
func ParseAccessToken(tokenString string, secret []byte) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			metrics.JWTValidationsFailed.WithLabelValues("expired").Inc()
			return Claims{}, ErrTokenExpired.WithCause(err)
		}
		metrics.JWTValidationsFailed.WithLabelValues("invalid").Inc()
		return Claims{}, ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		metrics.JWTValidationsFailed.WithLabelValues("invalid").Inc()
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		metrics.JWTValidationsFailed.WithLabelValues("invalid").Inc()
		return Claims{}, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	userID, parseErr := strconv.ParseInt(sub, 10, 64)
	role, _ := mapClaims["role"].(string)
	if parseErr != nil || userID <= 0 || role == "" {
		metrics.JWTValidationsFailed.WithLabelValues("invalid").Inc()
		return Claims{}, ErrInvalidToken
	}

	var companyID int64
	if cid, ok := mapClaims["cid"].(float64); ok {
		companyID = int64(cid)
	}

	return Claims{
		UserID:    userID,
		Role:      role,
		CompanyID: companyID,
	}, nil
}
