package service

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/credential-service/internal/common/errors"
)

var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid username or password",
	)

	ErrIdentityTaken = commonerrors.NewDomainError(
		"IDENTITY_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username or email already exists",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrInternal = commonerrors.NewDomainError(
		"INTERNAL_ERROR",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"internal error",
	)
)
