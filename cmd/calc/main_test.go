package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunArgsPrintsDisplayAfterEveryKey(t *testing.T) {
	var out, errOut bytes.Buffer

	err := run([]string{"2", "+", "3", "="}, strings.NewReader(""), &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, "2\n2 +\n2 + 3\n5\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestRunReadsTokensFromInput(t *testing.T) {
	var out, errOut bytes.Buffer

	err := run(nil, strings.NewReader("5 0\n%\n"), &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, "5\n50\n0.5\n", out.String())
}

func TestRunReportsUnknownTokensAndContinues(t *testing.T) {
	var out, errOut bytes.Buffer

	err := run([]string{"7", "sqrt", "="}, strings.NewReader(""), &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, "7\n7\n", out.String())
	assert.Contains(t, errOut.String(), `unknown key: "sqrt"`)
}
