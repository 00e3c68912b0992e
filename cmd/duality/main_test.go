package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestRunPrintsSectionsAndWritesPrintOutput(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, discardLogger(), `print ! "hello" ~> "hello"`)
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "Core:")
	assert.Contains(t, output, "Checked Core:")
	assert.Contains(t, output, "Result:")
	assert.Contains(t, output, "hello")
}

func TestRunReportsReadError(t *testing.T) {
	var out bytes.Buffer
	err := run(&out, discardLogger(), `( unterminated`)
	assert.Error(t, err)
}

func TestRunReportsCheckFailure(t *testing.T) {
	var out bytes.Buffer
	// A string literal's type is not an expr_map, so it cannot be the
	// target of an expr_map elimination.
	err := run(&out, discardLogger(), `"not-a-map" ! "s" ~> String`)
	assert.Error(t, err)
}
