package jwtauth

import (
	"net/http"

	commonerrors "github.com/nmoiseev/org-admin-backend/internal/common/errors"
)

var (
	ErrTokenMissing = commonerrors.NewDomainError(
		"TOKEN_MISSING",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"token missing",
	)

	ErrInvalidTokenFormat = commonerrors.NewDomainError(
		"INVALID_TOKEN_FORMAT",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid token format",
	)

	ErrTokenExpired = commonerrors.NewDomainError(
		"TOKEN_EXPIRED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"token expired",
	)

	ErrInvalidToken = commonerrors.NewDomainError(
		"INVALID_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid token",
	)

	// Identity context absent in the authorizer: the pipeline ran the
	// authorizer before the authenticator.
	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"unauthorized",
	)

	ErrInsufficientRole = commonerrors.NewDomainError(
		"INSUFFICIENT_ROLE",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"you do not have permission to access this resource",
	)
)
