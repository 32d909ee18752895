package problemgen

// Config controls the behavior of the Synthesizer.
type Config struct {
	// Validators is the ordered list of validators every candidate must
	// pass. They execute in order; the first failure rejects the candidate.
	Validators []Validator

	// MaxTwoOperandAttempts bounds the rejection-sampling loop for
	// two-operand problems before the addition fallback is used.
	MaxTwoOperandAttempts int

	// MaxThreeOperandAttempts bounds the rejection-sampling loop for
	// three-operand problems.
	MaxThreeOperandAttempts int

	// UnitFactorProbability is the chance that a multiplication uses 1 as
	// one of its factors. Kept small: "×1" problems teach little.
	UnitFactorProbability float64
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DivisibilityValidator{},
			&RangeValidator{},
			&SubtractionValidator{},
		},
		MaxTwoOperandAttempts:   20,
		MaxThreeOperandAttempts: 15,
		UnitFactorProbability:   0.05,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Validators == nil {
		c.Validators = d.Validators
	}
	if c.MaxTwoOperandAttempts <= 0 {
		c.MaxTwoOperandAttempts = d.MaxTwoOperandAttempts
	}
	if c.MaxThreeOperandAttempts <= 0 {
		c.MaxThreeOperandAttempts = d.MaxThreeOperandAttempts
	}
	if c.UnitFactorProbability < 0 {
		c.UnitFactorProbability = 0
	}
	return c
}
