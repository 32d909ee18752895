package problem

import "fmt"

// Operator is one of the four arithmetic operations a problem may use.
type Operator int

const (
	Add Operator = iota + 1
	Sub
	Mul
	Div
)

// Operators returns every operator in canonical order.
func Operators() []Operator {
	return []Operator{Add, Sub, Mul, Div}
}

// Symbol returns the ASCII symbol used in canonical keys.
func (o Operator) Symbol() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	}
	return "?"
}

// Glyph returns the symbol shown to a learner.
func (o Operator) Glyph() string {
	switch o {
	case Mul:
		return "×"
	case Div:
		return "÷"
	}
	return o.Symbol()
}

func (o Operator) String() string {
	switch o {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Valid reports whether o is one of the four known operators.
func (o Operator) Valid() bool {
	return o >= Add && o <= Div
}

// Precedence returns the binding strength of o. Multiplication and division
// bind tighter than addition and subtraction.
func (o Operator) Precedence() int {
	switch o {
	case Mul, Div:
		return 2
	case Add, Sub:
		return 1
	}
	return 0
}

// Apply computes a o b. Division is integer division.
func (o Operator) Apply(a, b int) (int, error) {
	switch o {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div:
		if b == 0 {
			return 0, fmt.Errorf("%w: division by zero (%d / 0)", ErrInvalid, a)
		}
		return a / b, nil
	}
	return 0, fmt.Errorf("%w: unknown operator %d", ErrInvalid, int(o))
}

// ParseOperator maps a key symbol back to its Operator.
func ParseOperator(sym byte) (Operator, bool) {
	switch sym {
	case '+':
		return Add, true
	case '-':
		return Sub, true
	case '*':
		return Mul, true
	case '/':
		return Div, true
	}
	return 0, false
}
