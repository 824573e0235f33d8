package domain

// Outcome is the result class of a registration or login attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInvalidCredentials
	OutcomeValidationFailure
	OutcomeConflict
	OutcomeInternalFailure
)

var outcomeNames = map[Outcome]string{
	OutcomeSuccess:            "success",
	OutcomeInvalidCredentials: "invalid_credentials",
	OutcomeValidationFailure:  "validation_failure",
	OutcomeConflict:           "conflict",
	OutcomeInternalFailure:    "internal_failure",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}
