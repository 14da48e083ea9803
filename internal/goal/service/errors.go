package service

import (
	commonerrors "github.com/fitgoals/backend/internal/common/errors"
)

var (
	ErrGoalNotFound = commonerrors.ErrGoalNotFound
	ErrNotOwner     = commonerrors.ErrNotGoalOwner

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		400,
		"validation failed",
	)
)
