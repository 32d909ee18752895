package problem

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid marks a malformed problem: wrong arity, an unknown operator,
// division by zero or a division that does not come out even. Any of these
// reaching a learner means the generator has a bug.
var ErrInvalid = errors.New("invalid problem")

// Problem is an immutable 2- or 3-operand arithmetic expression together
// with its precedence-correct answer. Construct one with New or Parse.
type Problem struct {
	operands  []int
	operators []Operator
	answer    int
}

// New builds a Problem and computes its answer. It does not check the
// even-division invariant; use Validate for that.
func New(operands []int, operators []Operator) (Problem, error) {
	answer, err := Evaluate(operands, operators)
	if err != nil {
		return Problem{}, err
	}
	return Problem{
		operands:  append([]int(nil), operands...),
		operators: append([]Operator(nil), operators...),
		answer:    answer,
	}, nil
}

// MustNew is like New but panics on an invalid problem.
func MustNew(operands []int, operators []Operator) Problem {
	p, err := New(operands, operators)
	if err != nil {
		panic(err)
	}
	return p
}

// Two is shorthand for a two-operand problem.
func Two(a int, op Operator, b int) (Problem, error) {
	return New([]int{a, b}, []Operator{op})
}

// Three is shorthand for a three-operand problem.
func Three(a int, op1 Operator, b int, op2 Operator, c int) (Problem, error) {
	return New([]int{a, b, c}, []Operator{op1, op2})
}

// Operands returns a copy of the operands in order.
func (p Problem) Operands() []int {
	return append([]int(nil), p.operands...)
}

// Operators returns a copy of the operators in order.
func (p Problem) Operators() []Operator {
	return append([]Operator(nil), p.operators...)
}

// Operand returns the i-th operand.
func (p Problem) Operand(i int) int { return p.operands[i] }

// Operator returns the i-th operator.
func (p Problem) Operator(i int) Operator { return p.operators[i] }

// Answer returns the precedence-correct result.
func (p Problem) Answer() int { return p.answer }

// Arity returns the number of operands (2 or 3), or 0 for the zero Problem.
func (p Problem) Arity() int { return len(p.operands) }

// IsZero reports whether p is the zero value.
func (p Problem) IsZero() bool { return len(p.operands) == 0 }

// Uses reports whether any operator of p is op.
func (p Problem) Uses(op Operator) bool {
	for _, o := range p.operators {
		if o == op {
			return true
		}
	}
	return false
}

// Key returns the canonical identity of the problem: operands and operator
// symbols concatenated in their original order, e.g. "7+3" or "8/2+3".
// Two problems with the same key are the same problem.
func (p Problem) Key() string {
	var b strings.Builder
	for i, n := range p.operands {
		if i > 0 {
			b.WriteString(p.operators[i-1].Symbol())
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// String renders the problem for display, e.g. "8 ÷ 2 + 3".
func (p Problem) String() string {
	var b strings.Builder
	for i, n := range p.operands {
		if i > 0 {
			b.WriteString(" ")
			b.WriteString(p.operators[i-1].Glyph())
			b.WriteString(" ")
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Evaluate computes the result of the expression. Two operands apply the
// single operator. Three operands bind the second operator first only when
// it has strictly higher precedence than the first; otherwise evaluation is
// left to right.
func Evaluate(operands []int, operators []Operator) (int, error) {
	if err := checkArity(operands, operators); err != nil {
		return 0, err
	}
	if len(operands) == 2 {
		return operators[0].Apply(operands[0], operands[1])
	}

	op1, op2 := operators[0], operators[1]
	if op1.Precedence() < op2.Precedence() {
		right, err := op2.Apply(operands[1], operands[2])
		if err != nil {
			return 0, err
		}
		return op1.Apply(operands[0], right)
	}
	left, err := op1.Apply(operands[0], operands[1])
	if err != nil {
		return 0, err
	}
	return op2.Apply(left, operands[2])
}

func checkArity(operands []int, operators []Operator) error {
	if len(operands) < 2 || len(operands) > 3 {
		return fmt.Errorf("%w: %d operands", ErrInvalid, len(operands))
	}
	if len(operators) != len(operands)-1 {
		return fmt.Errorf("%w: %d operators for %d operands", ErrInvalid, len(operators), len(operands))
	}
	for _, op := range operators {
		if !op.Valid() {
			return fmt.Errorf("%w: unknown operator %d", ErrInvalid, int(op))
		}
	}
	return nil
}

// Division is one dividend/divisor pair encountered while evaluating.
type Division struct {
	Dividend int
	Divisor  int
}

// Divisions returns every division step of p in evaluation order. When the
// dividend is itself a sub-expression, its evaluated value is reported.
func (p Problem) Divisions() []Division {
	if p.IsZero() {
		return nil
	}
	a, b := p.operands[0], p.operands[1]
	if len(p.operands) == 2 {
		if p.operators[0] == Div {
			return []Division{{Dividend: a, Divisor: b}}
		}
		return nil
	}

	c := p.operands[2]
	op1, op2 := p.operators[0], p.operators[1]
	var steps []Division
	if op1.Precedence() < op2.Precedence() {
		if op2 == Div {
			steps = append(steps, Division{Dividend: b, Divisor: c})
		}
		return steps
	}
	if op1 == Div {
		steps = append(steps, Division{Dividend: a, Divisor: b})
	}
	if op2 == Div {
		left, err := op1.Apply(a, b)
		if err != nil {
			return steps
		}
		steps = append(steps, Division{Dividend: left, Divisor: c})
	}
	return steps
}

// Validate checks the even-division invariant: every division step has a
// non-zero divisor that differs from the dividend and divides it exactly.
func (p Problem) Validate() error {
	if err := checkArity(p.operands, p.operators); err != nil {
		return err
	}
	if !p.Uses(Div) {
		return nil
	}
	for _, d := range p.Divisions() {
		switch {
		case d.Divisor == 0:
			return fmt.Errorf("%w: division by zero in %s", ErrInvalid, p.Key())
		case d.Dividend == d.Divisor:
			return fmt.Errorf("%w: divisor equals dividend (%d) in %s", ErrInvalid, d.Divisor, p.Key())
		case d.Dividend%d.Divisor != 0:
			return fmt.Errorf("%w: %d is not divisible by %d in %s", ErrInvalid, d.Dividend, d.Divisor, p.Key())
		}
	}
	return nil
}

// Parse rebuilds a Problem from its canonical key. Operands must be
// non-negative integers.
func Parse(key string) (Problem, error) {
	var (
		operands  []int
		operators []Operator
		start     int
	)
	for i := 0; i <= len(key); i++ {
		if i < len(key) && key[i] >= '0' && key[i] <= '9' {
			continue
		}
		if i == start {
			return Problem{}, fmt.Errorf("%w: malformed key %q", ErrInvalid, key)
		}
		n, err := strconv.Atoi(key[start:i])
		if err != nil {
			return Problem{}, fmt.Errorf("%w: malformed key %q: %v", ErrInvalid, key, err)
		}
		operands = append(operands, n)
		if i == len(key) {
			break
		}
		op, ok := ParseOperator(key[i])
		if !ok {
			return Problem{}, fmt.Errorf("%w: unknown symbol %q in key %q", ErrInvalid, key[i], key)
		}
		operators = append(operators, op)
		start = i + 1
	}
	return New(operands, operators)
}
