package lspserver

import (
	"fmt"

	"github.com/duality-lang/duality/internal/core"
)

// registerDidOpen creates the document and publishes it into the document
// table synchronously, in the same goroutine that read it off the wire -
// a hover request arriving right behind didOpen in the stream must always
// find the document (blocking on its ready channel if the check itself
// hasn't finished yet), never race the table insert.
func (s *Server) registerDidOpen(params didOpenParams) *document {
	doc := newDocument(params.TextDocument.URI, params.TextDocument.Text)

	s.mu.Lock()
	s.documents[doc.id.String()] = doc
	s.byURI[doc.uri] = doc.id.String()
	s.mu.Unlock()

	s.log.Info("opened document", "uri", doc.uri, "session", doc.id.String())
	return doc
}

func (s *Server) finishDidOpen(doc *document) {
	doc.recheck(coreRead)
	s.publishDiagnostics(doc)
}

// registerDidChange swaps in a fresh document under a new session id - an
// edited buffer gets a fresh pool/running-id pair rather than reusing the
// stale session's, even though the URI is unchanged (section 11's
// uuid-keyed document table note) - and does so synchronously for the
// same reason registerDidOpen does.
func (s *Server) registerDidChange(params didChangeParams) *document {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full-sync mode (serverCapabilities.TextDocumentSync == 1): the last
	// change event carries the document's entire new text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byURI[params.TextDocument.URI]
	if !ok {
		s.log.Warn("didChange for unknown document", "uri", params.TextDocument.URI)
		return nil
	}
	doc := newDocument(params.TextDocument.URI, text)
	delete(s.documents, id)
	s.documents[doc.id.String()] = doc
	s.byURI[doc.uri] = doc.id.String()
	return doc
}

func (s *Server) finishDidChange(doc *document) {
	doc.recheck(coreRead)
	s.publishDiagnostics(doc)
}

func (s *Server) handleDidClose(params didCloseParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byURI[params.TextDocument.URI]; ok {
		delete(s.documents, id)
		delete(s.byURI, params.TextDocument.URI)
	}
}

func (s *Server) handleHover(id interface{}, params hoverParams) {
	doc := s.lookupByURI(params.TextDocument.URI)
	if doc == nil {
		s.sendResponse(id, hoverResult{Contents: "no document open for this URI"}, nil)
		return
	}
	<-doc.ready
	if doc.checkErr != nil {
		s.sendResponse(id, hoverResult{Contents: fmt.Sprintf("check error: %s", doc.checkErr)}, nil)
		return
	}
	if doc.synth == nil {
		s.sendResponse(id, hoverResult{Contents: "type: (unsolved inference variable)"}, nil)
		return
	}
	s.sendResponse(id, hoverResult{Contents: fmt.Sprintf("type: %s", core.ToString(doc.synth))}, nil)
}

func (s *Server) lookupByURI(uri string) *document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byURI[uri]
	if !ok {
		return nil
	}
	return s.documents[id]
}

// publishDiagnostics converts a failed check into the one JSON-RPC
// diagnostic the error taxonomy of section 7 calls for; a document with
// no error publishes an empty diagnostics list, clearing any the editor
// is currently showing.
func (s *Server) publishDiagnostics(doc *document) {
	var diagnostics []diagnostic
	if doc.checkErr != nil {
		diagnostics = []diagnostic{{
			Range:    diagnosticRange{Start: diagnosticPosition{}, End: diagnosticPosition{}},
			Severity: 1, // Error
			Message:  doc.checkErr.Error(),
			Source:   "duality",
		}}
	}
	s.sendNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         doc.uri,
		Diagnostics: diagnostics,
	})
}
