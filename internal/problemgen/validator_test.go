package problemgen

import (
	"testing"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Validator: "test-validator",
		Message:   "something went wrong",
	}
	expected := `validator "test-validator": something went wrong`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"structural", "divisibility", "range", "subtraction"}
	if len(cfg.Validators) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(cfg.Validators))
	}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
}

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxTwoOperandAttempts != 20 {
		t.Errorf("expected MaxTwoOperandAttempts 20, got %d", cfg.MaxTwoOperandAttempts)
	}
	if cfg.MaxThreeOperandAttempts != 15 {
		t.Errorf("expected MaxThreeOperandAttempts 15, got %d", cfg.MaxThreeOperandAttempts)
	}
	if cfg.UnitFactorProbability != 0.05 {
		t.Errorf("expected UnitFactorProbability 0.05, got %f", cfg.UnitFactorProbability)
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if len(cfg.Validators) != 4 || cfg.MaxTwoOperandAttempts != 20 || cfg.MaxThreeOperandAttempts != 15 {
		t.Errorf("zero config not filled: %+v", cfg)
	}
}

func TestStructural_Empty(t *testing.T) {
	v := &StructuralValidator{}
	err := v.Validate(problem.Problem{}, difficulty.MustGet(1))
	if err == nil {
		t.Fatal("expected error for empty problem")
	}
	if err.Validator != "structural" {
		t.Errorf("expected validator %q, got %q", "structural", err.Validator)
	}
}

func TestStructural_Valid(t *testing.T) {
	v := &StructuralValidator{}
	if err := v.Validate(problem.MustNew([]int{7, 3}, []problem.Operator{problem.Add}), difficulty.MustGet(4)); err != nil {
		t.Errorf("addition fallback on tier 4 should pass, got %v", err)
	}
}

func TestDivisibility(t *testing.T) {
	v := &DivisibilityValidator{}
	tier := difficulty.MustGet(6)
	if err := v.Validate(problem.MustNew([]int{8, 2, 3}, []problem.Operator{problem.Div, problem.Add}), tier); err != nil {
		t.Errorf("8/2+3: unexpected %v", err)
	}
	if err := v.Validate(problem.MustNew([]int{2, 3, 4}, []problem.Operator{problem.Mul, problem.Div}), tier); err == nil {
		t.Error("2*3/4: expected failure")
	}
}

func TestRange(t *testing.T) {
	v := &RangeValidator{}
	tier := difficulty.MustGet(1)
	tests := []struct {
		p    problem.Problem
		pass bool
	}{
		{problem.MustNew([]int{7, 3}, []problem.Operator{problem.Add}), true},
		{problem.MustNew([]int{7, 4}, []problem.Operator{problem.Add}), false},
		{problem.MustNew([]int{3, 3}, []problem.Operator{problem.Sub}), false},
		{problem.MustNew([]int{3, 5}, []problem.Operator{problem.Sub}), false},
	}
	for _, tt := range tests {
		err := v.Validate(tt.p, tier)
		if (err == nil) != tt.pass {
			t.Errorf("%s: pass=%v, err=%v", tt.p.Key(), tt.pass, err)
		}
	}
}

func TestSubtraction(t *testing.T) {
	v := &SubtractionValidator{}
	tests := []struct {
		tier int
		a, b int
		pass bool
	}{
		{1, 5, 3, true},
		{1, 5, 4, false}, // difference 1
		{2, 9, 3, false}, // minuend below 10
		{2, 10, 8, true},
		{2, 12, 11, false},
		{6, 40, 12, true},
	}
	for _, tt := range tests {
		p := problem.MustNew([]int{tt.a, tt.b}, []problem.Operator{problem.Sub})
		err := v.Validate(p, difficulty.MustGet(tt.tier))
		if (err == nil) != tt.pass {
			t.Errorf("tier %d %s: pass=%v, err=%v", tt.tier, p.Key(), tt.pass, err)
		}
	}

	// Three-operand subtractions are not subject to the two-operand rules.
	three := problem.MustNew([]int{3, 2, 1}, []problem.Operator{problem.Sub, problem.Add})
	if err := v.Validate(three, difficulty.MustGet(2)); err != nil {
		t.Errorf("three-operand: unexpected %v", err)
	}
}

func TestCheck_StopsAtFirstFailure(t *testing.T) {
	p := problem.MustNew([]int{9, 2}, []problem.Operator{problem.Div}) // uneven, answer 4
	err := Check(p, difficulty.MustGet(6), DefaultConfig().Validators)
	if err == nil {
		t.Fatal("expected failure")
	}
	if err.Validator != "divisibility" {
		t.Errorf("expected divisibility failure first, got %q", err.Validator)
	}
}

func TestKeySet(t *testing.T) {
	set := KeySet{}
	p := problem.MustNew([]int{7, 3}, []problem.Operator{problem.Add})
	if !set.Add(p) {
		t.Fatal("first Add should report new")
	}
	if set.Add(problem.MustNew([]int{7, 3}, []problem.Operator{problem.Add})) {
		t.Error("second Add of same key should report duplicate")
	}
	if !set.Has(p) {
		t.Error("Has should find added key")
	}
	if set.Has(problem.MustNew([]int{3, 7}, []problem.Operator{problem.Add})) {
		t.Error("3+7 is a different problem")
	}
}
