package calculator

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidOperator is returned when an operator token or value is not one of
// the four binary operators.
var ErrInvalidOperator = errors.New("invalid operator")

// Operator is a pending binary operator. OpNone means no operation is in progress.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

var operatorSymbols = [...]string{
	OpNone:     "",
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "×",
	OpDivide:   "÷",
}

// String returns the display symbol, or "" for OpNone.
func (o Operator) String() string {
	if o < OpNone || o > OpDivide {
		return ""
	}
	return operatorSymbols[o]
}

// Valid reports whether o is one of the four binary operators.
func (o Operator) Valid() bool {
	return o >= OpAdd && o <= OpDivide
}

// ParseOperator maps a button symbol to an Operator. The ASCII aliases
// "*" and "/" are accepted alongside "×" and "÷".
func ParseOperator(s string) (Operator, error) {
	switch s {
	case "+":
		return OpAdd, nil
	case "-":
		return OpSubtract, nil
	case "×", "*":
		return OpMultiply, nil
	case "÷", "/":
		return OpDivide, nil
	}
	return OpNone, fmt.Errorf("%w: %q", ErrInvalidOperator, s)
}

// apply evaluates a o b. Division by zero yields NaN rather than an error.
func (o Operator) apply(a, b float64) float64 {
	switch o {
	case OpAdd:
		return a + b
	case OpSubtract:
		return a - b
	case OpMultiply:
		return a * b
	case OpDivide:
		if b == 0 {
			return math.NaN()
		}
		return a / b
	}
	return b
}
