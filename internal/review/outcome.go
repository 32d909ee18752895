package review

// Outcome is the result of showing a problem to the learner.
type Outcome int

const (
	// Unscored means the problem was resurfaced but not answered yet.
	Unscored Outcome = iota
	Correct
	Incorrect
)

// OutcomeOf maps an answer to an Outcome.
func OutcomeOf(correct bool) Outcome {
	if correct {
		return Correct
	}
	return Incorrect
}

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "unscored"
	}
}
