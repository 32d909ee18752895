package problemgen

import (
	"fmt"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
)

// Validator checks a generated problem against one constraint.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error messages
	// and logging), e.g. "structural", "range", "divisibility".
	Name() string

	// Validate checks the problem and returns nil if it passes.
	// The tier supplies the numeric range the problem was generated for.
	Validate(p problem.Problem, tier difficulty.Tier) *ValidationError
}

// ValidationError describes why a problem failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// Check runs validators in order and returns the first failure, or nil.
func Check(p problem.Problem, tier difficulty.Tier, validators []Validator) *ValidationError {
	for _, v := range validators {
		if verr := v.Validate(p, tier); verr != nil {
			return verr
		}
	}
	return nil
}
