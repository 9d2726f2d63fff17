package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_BadArgsReturnsNonZero(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"3"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 1, code)
}

func TestRun_NonIntegerDimensionsReturnsNonZero(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"x", "y"}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 1, code)
}

func TestRun_AssignAndQuit(t *testing.T) {
	var stdout, stderr bytes.Buffer
	input := "A1=5\nB1=A1+1\nq\n"
	code := run([]string{"5", "5"}, strings.NewReader(input), &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Ok")
	assert.Contains(t, stdout.String(), "6")
}

func TestRun_InvalidCommandReportsInvalidInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	input := "not a command\nq\n"
	code := run([]string{"5", "5"}, strings.NewReader(input), &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "InvalidInput")
}

func TestRun_DisableOutputSuppressesGrid(t *testing.T) {
	var stdout, stderr bytes.Buffer
	input := "disable_output\nA1=9\nq\n"
	code := run([]string{"5", "5"}, strings.NewReader(input), &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.NotContains(t, stdout.String(), "9")
}
