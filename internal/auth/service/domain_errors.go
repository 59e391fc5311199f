package service

import (
	"net/http"

	commonerrors "github.com/nmoiseev/org-admin-backend/internal/common/errors"
)

var (
	ErrMissingCredentials = commonerrors.NewDomainError(
		"MISSING_CREDENTIALS",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"email and password are required",
	)

	ErrInvalidEmail = commonerrors.NewDomainError(
		"INVALID_EMAIL",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"invalid email format",
	)

	// Returned identically for unknown email and wrong password so the
	// response never reveals which accounts exist.
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid credentials",
	)

	ErrInvalidUser = commonerrors.NewDomainError(
		"INVALID_USER",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"cannot issue token for invalid user",
	)

	ErrMissingRefreshToken = commonerrors.NewDomainError(
		"MISSING_REFRESH_TOKEN",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"refresh token is required",
	)

	ErrInvalidRefreshToken = commonerrors.NewDomainError(
		"INVALID_REFRESH_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid refresh token",
	)

	ErrRefreshTokenExpired = commonerrors.NewDomainError(
		"REFRESH_TOKEN_EXPIRED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"refresh token expired",
	)

	ErrTokenGeneration = commonerrors.NewDomainError(
		"TOKEN_GENERATION_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"failed to generate tokens",
	)
)
