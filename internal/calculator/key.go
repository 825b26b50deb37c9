package calculator

import (
	"errors"
	"fmt"
)

// ErrUnknownKey is returned by ParseKey for tokens that match no button.
var ErrUnknownKey = errors.New("unknown key")

// Action identifies one of the calculator's buttons.
type Action int

const (
	ActionDigit Action = iota + 1
	ActionOperator
	ActionDecimal
	ActionPercent
	ActionToggleSign
	ActionClear
	ActionEquals
)

func (a Action) String() string {
	switch a {
	case ActionDigit:
		return "digit"
	case ActionOperator:
		return "operator"
	case ActionDecimal:
		return "decimal"
	case ActionPercent:
		return "percent"
	case ActionToggleSign:
		return "toggle_sign"
	case ActionClear:
		return "clear"
	case ActionEquals:
		return "equals"
	default:
		return "unknown"
	}
}

// Key is a single button press.
type Key struct {
	Action   Action
	Digit    string   // set for ActionDigit
	Operator Operator // set for ActionOperator
}

func (k Key) String() string {
	switch k.Action {
	case ActionDigit:
		return k.Digit
	case ActionOperator:
		return k.Operator.String()
	case ActionDecimal:
		return "."
	case ActionPercent:
		return "%"
	case ActionToggleSign:
		return "±"
	case ActionClear:
		return "C"
	case ActionEquals:
		return "="
	default:
		return ""
	}
}

// ParseKey maps a button label to a Key.
func ParseKey(token string) (Key, error) {
	switch token {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return Key{Action: ActionDigit, Digit: token}, nil
	case ".":
		return Key{Action: ActionDecimal}, nil
	case "%":
		return Key{Action: ActionPercent}, nil
	case "±", "+/-":
		return Key{Action: ActionToggleSign}, nil
	case "C", "AC":
		return Key{Action: ActionClear}, nil
	case "=":
		return Key{Action: ActionEquals}, nil
	}

	if op, err := ParseOperator(token); err == nil {
		return Key{Action: ActionOperator, Operator: op}, nil
	}

	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, token)
}

// ParseKeys parses every token before returning, so callers can reject a
// whole sequence without applying any of it.
func ParseKeys(tokens []string) ([]Key, error) {
	keys := make([]Key, 0, len(tokens))
	for i, tok := range tokens {
		k, err := ParseKey(tok)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Press applies k and returns the text the display should show next.
func (e *Engine) Press(k Key) (string, error) {
	switch k.Action {
	case ActionDigit:
		if err := e.AddDigit(k.Digit); err != nil {
			return e.DisplayText(), err
		}
	case ActionOperator:
		if err := e.SetOperator(k.Operator); err != nil {
			return e.DisplayText(), err
		}
	case ActionDecimal:
		e.AddDecimal()
	case ActionPercent:
		e.CalculatePercent()
	case ActionToggleSign:
		e.ToggleSign()
	case ActionClear:
		e.Clear()
	case ActionEquals:
		return e.Calculate(), nil
	default:
		return e.DisplayText(), fmt.Errorf("%w: action %d", ErrUnknownKey, int(k.Action))
	}
	return e.DisplayText(), nil
}
