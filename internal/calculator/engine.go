package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidDigit is returned by AddDigit for anything other than "0".."9".
var ErrInvalidDigit = errors.New("invalid digit")

const defaultInput = "0"

// Phase is the coarse state of an Engine, derived from its flags.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseOperatorPressed
	PhaseEnteringOperand
)

func (p Phase) String() string {
	switch p {
	case PhaseOperatorPressed:
		return "operator_pressed"
	case PhaseEnteringOperand:
		return "entering_operand"
	default:
		return "idle"
	}
}

// State is a read-only snapshot of an Engine.
type State struct {
	CurrentInput         string
	Operator             Operator
	FirstOperand         float64
	OperationPending     bool
	LastInputWasOperator bool
	ExpressionText       string
}

// Engine is the calculator state machine behind a single display. It is not
// safe for concurrent use; SessionStore serialises access when engines are
// shared across requests.
type Engine struct {
	currentInput    string
	currentOperator Operator
	firstOperand    float64

	// operationPending is set between choosing an operator and the next digit
	// or decimal point, so the next entry starts a new number.
	operationPending bool
	// lastInputWasOperator is set only while the latest action was an operator.
	lastInputWasOperator bool

	expressionText string
}

// NewEngine returns an engine showing "0" with no pending operation.
func NewEngine() *Engine {
	e := &Engine{}
	e.Clear()
	return e
}

// AddDigit types one digit into the input buffer. A leading "0" or a buffer
// left over from before the operator is replaced instead of appended to.
func (e *Engine) AddDigit(digit string) error {
	if len(digit) != 1 || digit[0] < '0' || digit[0] > '9' {
		return fmt.Errorf("%w: %q", ErrInvalidDigit, digit)
	}

	if e.currentInput == defaultInput || e.operationPending {
		e.currentInput = digit
		e.operationPending = false
	} else {
		e.currentInput += digit
	}

	e.lastInputWasOperator = false
	return nil
}

// SetOperator selects the pending operator. Pressing an operator straight
// after another one replaces it; otherwise a pending operation is evaluated
// first, so chains run left to right.
func (e *Engine) SetOperator(op Operator) error {
	if !op.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOperator, int(op))
	}

	if e.lastInputWasOperator || e.operationPending {
		e.currentOperator = op
		return nil
	}

	if e.currentOperator != OpNone {
		e.Calculate()
	}

	e.firstOperand = parseOperand(e.currentInput)
	e.expressionText = e.currentInput
	e.currentOperator = op
	e.operationPending = true
	e.lastInputWasOperator = true
	return nil
}

// Calculate applies the pending operator to the first operand and the input
// buffer, and returns the new input buffer. Without a pending operator it
// returns the input unchanged.
func (e *Engine) Calculate() string {
	if e.currentOperator == OpNone {
		return e.currentInput
	}

	second := parseOperand(e.currentInput)
	result := e.currentOperator.apply(e.firstOperand, second)

	e.currentInput = FormatResult(result)
	e.currentOperator = OpNone
	e.expressionText = ""
	e.operationPending = false
	e.lastInputWasOperator = false

	return e.currentInput
}

// AddDecimal appends a decimal point. After an operator it starts "0.";
// a second point in the same number is ignored, as is a point after an
// exponent or a non-finite result.
func (e *Engine) AddDecimal() {
	if e.operationPending {
		e.currentInput = "0."
		e.operationPending = false
	} else if acceptsDecimal(e.currentInput) {
		e.currentInput += "."
	}

	e.lastInputWasOperator = false
}

// CalculatePercent divides the input buffer by 100.
func (e *Engine) CalculatePercent() {
	e.transformInput(func(v float64) float64 { return v / 100 })
}

// ToggleSign negates the input buffer.
func (e *Engine) ToggleSign() {
	e.transformInput(func(v float64) float64 { return v * -1 })
}

// transformInput rewrites a non-zero input buffer. Mid-expression the
// expression text is left alone and the new value shows as the second operand.
func (e *Engine) transformInput(f func(float64) float64) {
	if e.currentInput == defaultInput {
		return
	}

	e.currentInput = FormatResult(f(parseOperand(e.currentInput)))

	if e.expressionText == "" || e.currentOperator == OpNone {
		e.expressionText = ""
	}
}

// Clear resets every field to its initial value.
func (e *Engine) Clear() {
	e.currentInput = defaultInput
	e.currentOperator = OpNone
	e.firstOperand = 0
	e.operationPending = false
	e.lastInputWasOperator = false
	e.expressionText = ""
}

// DisplayText renders the single display line: the input alone, "a op" right
// after an operator, or "a op b" while the second operand is typed.
func (e *Engine) DisplayText() string {
	switch {
	case e.expressionText == "":
		return e.currentInput
	case e.lastInputWasOperator:
		return strings.TrimSpace(e.expressionText + " " + e.currentOperator.String())
	default:
		return strings.TrimSpace(e.expressionText + " " + e.currentOperator.String() + " " + e.currentInput)
	}
}

// CurrentInput returns the number being typed or the last computed result.
func (e *Engine) CurrentInput() string {
	return e.currentInput
}

// Operator returns the pending operator.
func (e *Engine) Operator() Operator {
	return e.currentOperator
}

// Phase reports which of the three coarse states the engine is in.
func (e *Engine) Phase() Phase {
	switch {
	case e.lastInputWasOperator || e.operationPending:
		return PhaseOperatorPressed
	case e.currentOperator != OpNone:
		return PhaseEnteringOperand
	default:
		return PhaseIdle
	}
}

// State returns a snapshot of every field.
func (e *Engine) State() State {
	return State{
		CurrentInput:         e.currentInput,
		Operator:             e.currentOperator,
		FirstOperand:         e.firstOperand,
		OperationPending:     e.operationPending,
		LastInputWasOperator: e.lastInputWasOperator,
		ExpressionText:       e.expressionText,
	}
}

// FormatResult renders whole numbers in the int32 range without a fractional
// part and everything else, NaN and infinities included, in Go's shortest
// float form.
func FormatResult(v float64) string {
	if v == math.Trunc(v) && v >= math.MinInt32 && v <= math.MaxInt32 {
		return strconv.Itoa(int(v))
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// acceptsDecimal reports whether appending "." to s still reads as a number.
// FormatResult prints exponents without a point ("3e+09") and NaN/±Inf as
// words; none of those may take one.
func acceptsDecimal(s string) bool {
	if strings.ContainsAny(s, ".eE") {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// parseOperand reads the input buffer as a number. Buffers that are not
// numbers (typing after a NaN result) read as 0; overflowing literals read as
// the infinity strconv reports.
func parseOperand(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	return v
}
