package usecase

import (
	"errors"

	"github.com/secmon-lab/owasprisk/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	ErrSessionRequired = errors.New("session is required")
)

// Context keys for error values
const (
	SessionIDKey    = "session_id"
	AssessmentIDKey = "assessment_id"
)

// IsValidationError reports whether err was caused by a malformed input,
// as opposed to a failure of the server or its backends
func IsValidationError(err error) bool {
	for _, target := range []error{
		model.ErrMissingSelection,
		model.ErrInvalidOption,
		model.ErrInvalidWeight,
		model.ErrZeroWeight,
		model.ErrUnknownFactor,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
