package lspserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/duality-lang/duality/internal/coreio"
)

// Server is the JSON-RPC-over-stdio frontend described in section 6: it
// hand-rolls the Content-Length framing and dispatch itself, the same
// way the lineage's own LSP collaborator does, rather than reaching for
// a generic LSP library - go.lsp.dev and friends bring far more of the
// protocol than this module's single-file, no-imports documents need.
type Server struct {
	writer io.Writer
	log    *slog.Logger

	mu        sync.RWMutex
	documents map[string]*document // by uuid string
	byURI     map[string]string    // uri -> current uuid string

	writeMu sync.Mutex

	// group bounds and joins concurrent didOpen/didChange processing: each
	// document owns its own Session (section 5), so two documents can be
	// (re)checked in parallel without sharing a pool or running-id counter.
	group *errgroup.Group
}

// New constructs a Server that writes responses and notifications to w
// and logs request handling to log.
func New(w io.Writer, log *slog.Logger) *Server {
	g := &errgroup.Group{}
	g.SetLimit(8)
	return &Server{
		writer:    w,
		log:       log,
		documents: make(map[string]*document),
		byURI:     make(map[string]string),
		group:     g,
	}
}

// Start reads Content-Length-framed JSON-RPC messages from r until EOF or
// an "exit" notification, dispatching each to handleMessage.
func (s *Server) Start(r io.Reader) {
	reader := bufio.NewReader(r)

	for {
		contentLength, err := readHeaders(reader)
		if err != nil {
			if err != io.EOF {
				s.log.Error("reading LSP headers", "error", err)
			}
			break
		}

		content := make([]byte, contentLength)
		if _, err := io.ReadFull(reader, content); err != nil {
			s.log.Error("reading LSP message body", "error", err)
			break
		}

		if stop := s.handleMessage(content); stop {
			break
		}
	}

	if err := s.group.Wait(); err != nil {
		s.log.Error("document processing", "error", err)
	}
}

// readHeaders consumes one block of "Key: Value\r\n" header lines
// terminated by a blank line, returning the parsed Content-Length.
func readHeaders(reader *bufio.Reader) (int, error) {
	contentLength := -1
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if contentLength < 0 {
				continue // blank line before any header: keep scanning
			}
			return contentLength, nil
		}
		if strings.HasPrefix(line, "Content-Length: ") {
			n, err := strconv.Atoi(strings.TrimPrefix(line, "Content-Length: "))
			if err != nil {
				return 0, fmt.Errorf("lspserver: bad Content-Length: %w", err)
			}
			contentLength = n
		}
	}
}

// handleMessage dispatches one decoded JSON-RPC payload and reports
// whether the server should stop reading (an "exit" notification).
func (s *Server) handleMessage(content []byte) bool {
	var msg baseMessage
	if err := json.Unmarshal(content, &msg); err != nil {
		s.log.Error("decoding JSON-RPC message", "error", err)
		s.sendResponse(nil, nil, &rpcError{Code: errParseError, Message: err.Error()})
		return false
	}

	if msg.Method == "exit" {
		return true
	}

	isRequest := msg.ID != nil
	if isRequest {
		s.handleRequest(msg, content)
		return false
	}
	s.handleNotification(msg, content)
	return false
}

func (s *Server) handleRequest(msg baseMessage, content []byte) {
	switch msg.Method {
	case "initialize":
		var params initializeParams
		_ = decodeParams(content, &params)
		s.sendResponse(msg.ID, initializeResult{Capabilities: serverCapabilities{
			TextDocumentSync: 1, // full sync
			HoverProvider:    true,
		}}, nil)

	case "shutdown":
		s.sendResponse(msg.ID, nil, nil)

	case "textDocument/hover":
		var params hoverParams
		if err := decodeParams(content, &params); err != nil {
			s.sendResponse(msg.ID, nil, &rpcError{Code: errInvalidParams, Message: err.Error()})
			return
		}
		s.handleHover(msg.ID, params)

	default:
		s.sendResponse(msg.ID, nil, &rpcError{Code: errMethodNotFound, Message: fmt.Sprintf("method not found: %s", msg.Method)})
	}
}

func (s *Server) handleNotification(msg baseMessage, content []byte) {
	switch msg.Method {
	case "initialized":
		return

	case "textDocument/didOpen":
		var params didOpenParams
		if err := decodeParams(content, &params); err != nil {
			s.log.Error("decoding didOpen", "error", err)
			return
		}
		doc := s.registerDidOpen(params)
		s.group.Go(func() error {
			s.finishDidOpen(doc)
			return nil
		})

	case "textDocument/didChange":
		var params didChangeParams
		if err := decodeParams(content, &params); err != nil {
			s.log.Error("decoding didChange", "error", err)
			return
		}
		doc := s.registerDidChange(params)
		if doc == nil {
			return
		}
		s.group.Go(func() error {
			s.finishDidChange(doc)
			return nil
		})

	case "textDocument/didClose":
		var params didCloseParams
		if err := decodeParams(content, &params); err != nil {
			s.log.Error("decoding didClose", "error", err)
			return
		}
		s.handleDidClose(params)

	default:
		// Unknown notification: the protocol requires these be ignored.
	}
}

func decodeParams(content []byte, out interface{}) error {
	var withParams struct {
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(content, &withParams); err != nil {
		return err
	}
	if len(withParams.Params) == 0 {
		return nil
	}
	return json.Unmarshal(withParams.Params, out)
}

func (s *Server) sendResponse(id interface{}, result interface{}, rpcErr *rpcError) {
	s.send(responseMessage{Jsonrpc: "2.0", ID: id, Result: result, Error: rpcErr})
}

func (s *Server) sendNotification(method string, params interface{}) {
	s.send(notificationMessage{Jsonrpc: "2.0", Method: method, Params: params})
}

func (s *Server) send(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		s.log.Error("encoding LSP message", "error", err)
		return
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n%s", len(data), data)
}

// coreRead is a package-level indirection point so tests could stub the
// reader; production code always wires it to coreio.Read.
var coreRead = coreio.Read
