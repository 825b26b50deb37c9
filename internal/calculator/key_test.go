package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		token string
		want  Key
	}{
		{token: "0", want: Key{Action: ActionDigit, Digit: "0"}},
		{token: "9", want: Key{Action: ActionDigit, Digit: "9"}},
		{token: "+", want: Key{Action: ActionOperator, Operator: OpAdd}},
		{token: "-", want: Key{Action: ActionOperator, Operator: OpSubtract}},
		{token: "×", want: Key{Action: ActionOperator, Operator: OpMultiply}},
		{token: "/", want: Key{Action: ActionOperator, Operator: OpDivide}},
		{token: ".", want: Key{Action: ActionDecimal}},
		{token: "%", want: Key{Action: ActionPercent}},
		{token: "±", want: Key{Action: ActionToggleSign}},
		{token: "+/-", want: Key{Action: ActionToggleSign}},
		{token: "C", want: Key{Action: ActionClear}},
		{token: "AC", want: Key{Action: ActionClear}},
		{token: "=", want: Key{Action: ActionEquals}},
	}

	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			got, err := ParseKey(tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseKeyUnknown(t *testing.T) {
	for _, tok := range []string{"", "10", "sqrt", "x", "c", " 1"} {
		_, err := ParseKey(tok)
		assert.ErrorIs(t, err, ErrUnknownKey, "token %q", tok)
	}
}

func TestParseKeysReportsIndex(t *testing.T) {
	keys, err := ParseKeys([]string{"1", "+", "?"})

	require.ErrorIs(t, err, ErrUnknownKey)
	assert.Contains(t, err.Error(), "key 2")
	assert.Nil(t, keys)
}

func TestKeyStringUsesDisplayLabels(t *testing.T) {
	keys, err := ParseKeys([]string{"7", "*", "/", ".", "%", "+/-", "AC", "="})
	require.NoError(t, err)

	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, k.String())
	}

	assert.Equal(t, []string{"7", "×", "÷", ".", "%", "±", "C", "="}, labels)
}

func TestPressRejectsMalformedKeys(t *testing.T) {
	e := NewEngine()
	before := e.State()

	_, err := e.Press(Key{Action: ActionDigit, Digit: "12"})
	require.ErrorIs(t, err, ErrInvalidDigit)

	_, err = e.Press(Key{Action: ActionOperator})
	require.ErrorIs(t, err, ErrInvalidOperator)

	_, err = e.Press(Key{})
	require.ErrorIs(t, err, ErrUnknownKey)

	assert.Equal(t, before, e.State())
}

func TestPressEqualsReturnsCalculation(t *testing.T) {
	e := NewEngine()
	press(t, e, "8", "÷", "4")

	display, err := e.Press(Key{Action: ActionEquals})
	require.NoError(t, err)
	assert.Equal(t, "2", display)
}
