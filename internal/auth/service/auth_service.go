package service

import (
	"context"
	"errors"

	authdomain "github.com/nmoiseev/org-admin-backend/internal/auth/domain"
	authrepo "github.com/nmoiseev/org-admin-backend/internal/auth/repository"
	"github.com/nmoiseev/org-admin-backend/internal/common/clock"
	commoncrypto "github.com/nmoiseev/org-admin-backend/internal/common/crypto"
	commonerrors "github.com/nmoiseev/org-admin-backend/internal/common/errors"
	"github.com/nmoiseev/org-admin-backend/internal/common/logger"
	userdomain "github.com/nmoiseev/org-admin-backend/internal/user/domain"
	userrepo "github.com/nmoiseev/org-admin-backend/internal/user/repository"
)

type AuthService struct {
	users         userrepo.Repository
	refreshTokens authrepo.RefreshTokenRepository
	hasher        commoncrypto.PasswordHasher
	issuer        *TokenIssuer
	clock         clock.Clock
	log           *logger.Logger
}

func NewAuthService(
	users userrepo.Repository,
	refreshTokens authrepo.RefreshTokenRepository,
	hasher commoncrypto.PasswordHasher,
	issuer *TokenIssuer,
	clk clock.Clock,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		hasher:        hasher,
		issuer:        issuer,
		clock:         clk,
		log:           log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type UserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResult struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         UserInfo `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := validateLoginInput(input.Email, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		recordLoginAttempt("validation_failed")
		return AuthResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: user not found")
			recordLoginAttempt("invalid_credentials")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		recordLoginAttempt("error")
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": int64(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		recordLoginAttempt("invalid_credentials")
		return AuthResult{}, ErrInvalidCredentials
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": int64(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		recordLoginAttempt("error")
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": int64(user.ID),
		"action":  "login_success",
	}).Info("login success")
	recordLoginAttempt("success")

	return result, nil
}

// Refresh exchanges a persisted, unexpired refresh token for a fresh access
// token. Claims are re-derived from the current user record, so role changes
// and deactivation take effect here. The refresh token itself is not rotated:
// one row per login, deleted only at logout or expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"action": "refresh_attempt",
	}).Info("refresh token attempt")

	if refreshToken == "" {
		return AuthResult{}, ErrMissingRefreshToken
	}

	userID, err := s.issuer.ParseRefreshToken(refreshToken)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "refresh_parse_failed",
		}).Warnf("refresh failed: %v", err)
		return AuthResult{}, err
	}

	stored, found, err := s.refreshTokens.Find(ctx, refreshToken)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "refresh_lookup_failed",
		}).Errorf("refresh token lookup failed: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	if !found {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "refresh_token_not_found",
		}).Warn("refresh failed: token not in store")
		return AuthResult{}, ErrInvalidRefreshToken
	}

	if s.clock.Now().After(stored.ExpiresAt) {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": stored.UserID,
			"action":  "refresh_token_expired",
		}).Warn("refresh failed: token expired")
		incrementRefreshTokensExpired()
		if err := s.refreshTokens.Delete(ctx, refreshToken); err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": stored.UserID,
				"action":  "refresh_delete_expired_failed",
			}).Errorf("failed to delete expired refresh token: %v", err)
		}
		return AuthResult{}, ErrRefreshTokenExpired
	}

	user, err := s.users.FindByID(ctx, userdomain.UserID(stored.UserID))
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			// Owner deleted or deactivated since login: the session dies
			// with the account.
			s.log.WithFields(ctx, logger.Fields{
				"user_id": stored.UserID,
				"action":  "refresh_user_gone",
			}).Warn("refresh failed: user no longer active")
			return AuthResult{}, ErrInvalidRefreshToken
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": stored.UserID,
			"action":  "refresh_user_lookup_failed",
		}).Errorf("refresh failed: user lookup error: %v", err)
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	accessToken, err := s.issuer.IssueAccessToken(authdomain.IdentityFromUser(user))
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": stored.UserID,
			"action":  "refresh_token_issue_failed",
		}).Errorf("refresh failed: token issue error: %v", err)
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": stored.UserID,
		"action":  "refresh_success",
	}).Info("refresh token used")
	incrementRefreshTokensUsed()

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserInfo{
			ID:    int64(user.ID),
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// Logout deletes the session row for the given refresh token. Deleting an
// absent token succeeds: logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrMissingRefreshToken
	}

	if err := s.refreshTokens.Delete(ctx, refreshToken); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "logout_delete_failed",
		}).Errorf("logout failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"action": "logout_success",
	}).Info("refresh token revoked")
	incrementRefreshTokensRevoked()

	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user userdomain.User) (AuthResult, error) {
	identity := authdomain.IdentityFromUser(user)

	accessToken, err := s.issuer.IssueAccessToken(identity)
	if err != nil {
		return AuthResult{}, err
	}

	refreshToken, expiresAt, err := s.issuer.IssueRefreshToken(identity)
	if err != nil {
		return AuthResult{}, err
	}

	stored := authdomain.RefreshToken{
		UserID:    identity.UserID,
		Token:     refreshToken,
		ExpiresAt: expiresAt,
		CreatedAt: s.clock.Now(),
	}
	if err := s.refreshTokens.Save(ctx, stored); err != nil {
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: UserInfo{
			ID:    identity.UserID,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}
