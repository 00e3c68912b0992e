package lspserver

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, payload interface{}) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(data), data)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readAllFrames(t *testing.T, r io.Reader) []responseMessage {
	t.Helper()
	reader := bufio.NewReader(r)
	var out []responseMessage
	for {
		n, err := readHeaders(reader)
		if err != nil {
			break
		}
		body := make([]byte, n)
		_, err = io.ReadFull(reader, body)
		require.NoError(t, err)
		var msg responseMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		out = append(out, msg)
	}
	return out
}

func TestReadHeadersParsesContentLength(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("Content-Length: 12\r\n\r\n"))
	n, err := readHeaders(reader)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestServerInitializeAndShutdown(t *testing.T) {
	var out bytes.Buffer
	srv := New(&out, discardLogger())

	input := frame(t, struct {
		Jsonrpc string      `json:"jsonrpc"`
		ID      int         `json:"id"`
		Method  string      `json:"method"`
		Params  interface{} `json:"params"`
	}{"2.0", 1, "initialize", initializeParams{}})
	input += frame(t, struct {
		Jsonrpc string `json:"jsonrpc"`
		ID      int    `json:"id"`
		Method  string `json:"method"`
	}{"2.0", 2, "shutdown"})
	input += frame(t, struct {
		Jsonrpc string `json:"jsonrpc"`
		Method  string `json:"method"`
	}{"2.0", "exit"})

	srv.Start(strings.NewReader(input))

	msgs := readAllFrames(t, &out)
	require.Len(t, msgs, 2)
	assert.Nil(t, msgs[0].Error)
	assert.Nil(t, msgs[1].Error)
}

func TestServerUnknownMethodReturnsMethodNotFound(t *testing.T) {
	var out bytes.Buffer
	srv := New(&out, discardLogger())

	input := frame(t, struct {
		Jsonrpc string `json:"jsonrpc"`
		ID      int    `json:"id"`
		Method  string `json:"method"`
	}{"2.0", 1, "textDocument/formatting"})
	input += frame(t, struct {
		Jsonrpc string `json:"jsonrpc"`
		Method  string `json:"method"`
	}{"2.0", "exit"})

	srv.Start(strings.NewReader(input))

	msgs := readAllFrames(t, &out)
	require.Len(t, msgs, 1)
	require.NotNil(t, msgs[0].Error)
	assert.Equal(t, errMethodNotFound, msgs[0].Error.Code)
}

func TestServerDidOpenThenHoverReportsSynthesisedType(t *testing.T) {
	var out bytes.Buffer
	srv := New(&out, discardLogger())

	uri := "file:///scratch.dy"
	input := frame(t, struct {
		Jsonrpc string        `json:"jsonrpc"`
		Method  string        `json:"method"`
		Params  didOpenParams `json:"params"`
	}{"2.0", "textDocument/didOpen", didOpenParams{TextDocument: textDocumentItem{URI: uri, Text: `"hi"`}}})
	input += frame(t, struct {
		Jsonrpc string      `json:"jsonrpc"`
		ID      int         `json:"id"`
		Method  string      `json:"method"`
		Params  hoverParams `json:"params"`
	}{"2.0", 1, "textDocument/hover", hoverParams{TextDocument: textDocumentIdentifier{URI: uri}}})
	input += frame(t, struct {
		Jsonrpc string `json:"jsonrpc"`
		Method  string `json:"method"`
	}{"2.0", "exit"})

	srv.Start(strings.NewReader(input))

	msgs := readAllFrames(t, &out)
	// One publishDiagnostics notification (from didOpen) plus one hover response.
	require.Len(t, msgs, 2)

	var hoverResp responseMessage
	for _, m := range msgs {
		if m.ID != nil {
			hoverResp = m
		}
	}
	require.NotNil(t, hoverResp.Result)
	resultBytes, err := json.Marshal(hoverResp.Result)
	require.NoError(t, err)
	var result hoverResult
	require.NoError(t, json.Unmarshal(resultBytes, &result))
	assert.Contains(t, result.Contents, "String")
}
