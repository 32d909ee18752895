package problemgen

import (
	"fmt"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
)

// StructuralValidator checks arity and operator validity. It does not
// enforce the tier's operator menu: both fallbacks are additions.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p problem.Problem, _ difficulty.Tier) *ValidationError {
	if p.IsZero() {
		return &ValidationError{Validator: v.Name(), Message: "problem is empty"}
	}
	if p.Arity() != 2 && p.Arity() != 3 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected 2 or 3 operands, got %d", p.Arity()),
		}
	}
	for _, op := range p.Operators() {
		if !op.Valid() {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("unknown operator %s", op)}
		}
	}
	for _, n := range p.Operands() {
		if n < 0 {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("negative operand %d", n)}
		}
	}
	return nil
}

// DivisibilityValidator checks that every division comes out even and
// never divides a value by itself.
type DivisibilityValidator struct{}

func (v *DivisibilityValidator) Name() string { return "divisibility" }

func (v *DivisibilityValidator) Validate(p problem.Problem, _ difficulty.Tier) *ValidationError {
	if err := p.Validate(); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	return nil
}

// RangeValidator checks that the answer lies in (0, UpperBound].
type RangeValidator struct{}

func (v *RangeValidator) Name() string { return "range" }

func (v *RangeValidator) Validate(p problem.Problem, tier difficulty.Tier) *ValidationError {
	if p.Answer() <= 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %d is not positive", p.Answer()),
		}
	}
	if p.Answer() > tier.UpperBound {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %d exceeds upper bound %d", p.Answer(), tier.UpperBound),
		}
	}
	return nil
}

// MinTierTwoMinuend is the smallest minuend of a two-operand subtraction
// from tier 2 upward.
const MinTierTwoMinuend = 10

// MinDifference is the smallest allowed two-operand subtraction result.
const MinDifference = 2

// SubtractionValidator rejects trivial two-operand subtractions: the
// difference must be at least MinDifference, and from tier 2 upward the
// minuend must be at least MinTierTwoMinuend.
type SubtractionValidator struct{}

func (v *SubtractionValidator) Name() string { return "subtraction" }

func (v *SubtractionValidator) Validate(p problem.Problem, tier difficulty.Tier) *ValidationError {
	if p.Arity() != 2 || p.Operator(0) != problem.Sub {
		return nil
	}
	minuend, subtrahend := p.Operand(0), p.Operand(1)
	if minuend == subtrahend || minuend-subtrahend < MinDifference {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("difference of %d - %d is below %d", minuend, subtrahend, MinDifference),
		}
	}
	if tier.ID >= 2 && minuend < max(MinTierTwoMinuend, difficulty.LowerBound) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("minuend %d is below %d", minuend, MinTierTwoMinuend),
		}
	}
	return nil
}
