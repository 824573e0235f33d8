package service

import (
	"errors"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
	commonerrors "github.com/AlibekovAA/credential-service/internal/common/errors"
)

// OutcomeOf classifies an error returned by Register or Login.
func OutcomeOf(err error) domain.Outcome {
	switch {
	case err == nil:
		return domain.OutcomeSuccess
	case errors.Is(err, ErrValidation):
		return domain.OutcomeValidationFailure
	case errors.Is(err, ErrIdentityTaken):
		return domain.OutcomeConflict
	case errors.Is(err, ErrInvalidCredentials):
		return domain.OutcomeInvalidCredentials
	default:
		return domain.OutcomeInternalFailure
	}
}

// ReasonOf returns a caller-safe description of err.
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	if vErr, ok := AsValidationError(err); ok {
		return vErr.Error()
	}
	if de, ok := commonerrors.AsDomainError(err); ok && OutcomeOf(err) != domain.OutcomeInternalFailure {
		return de.Message()
	}
	return ErrInternal.Message()
}
