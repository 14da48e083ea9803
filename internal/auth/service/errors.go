package service

import (
	commonerrors "github.com/fitgoals/backend/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		401,
		"invalid credentials",
	)

	// Login with an unknown email reports not found instead of folding
	// into invalid credentials.
	ErrUserNotFound = commonerrors.ErrUserNotFound

	ErrUsernameTaken = commonerrors.ErrUsernameAlreadyExists
	ErrEmailTaken    = commonerrors.ErrEmailAlreadyExists

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		400,
		"validation failed",
	)

	ErrUnauthorized = commonerrors.NewDomainError(
		"UNAUTHORIZED",
		commonerrors.CategoryUnauthorized,
		401,
		"unauthorized",
	)
)
