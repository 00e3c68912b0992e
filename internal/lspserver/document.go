package lspserver

import (
	"github.com/google/uuid"

	"github.com/duality-lang/duality/internal/core"
)

// document is one open editor buffer. Its Session is never shared with
// any other document or reused across edits: each (re)check mints a
// fresh core.Session, giving the buffer a fresh pool and running-id
// counter exactly as section 5's "must not share pools between them"
// requires. The session's UUID, not the editor-supplied URI, is the
// frontend's document table key, so closing and reopening the same URI
// (or two editors racing to open it) never lets a stale session's state
// leak into the new one.
type document struct {
	id       uuid.UUID
	uri      string
	text     string
	session  *core.Session
	checked  core.Expr
	synth    core.Expr
	checkErr error

	// ready is closed once recheck has populated the fields above. Handlers
	// that read them (hover) must wait on it first: recheck itself runs on
	// the server's errgroup, concurrently with whatever message the main
	// loop reads next.
	ready chan struct{}
}

func newDocument(uri, text string) *document {
	return &document{id: uuid.New(), uri: uri, text: text, ready: make(chan struct{})}
}

// recheck parses and type-checks the document's current text, recording
// either the checked expression and its synthesised type or the failure.
// It always runs against a brand-new Session so a document that has been
// edited many times never accumulates state from earlier revisions.
func (d *document) recheck(read func(*core.Pool, string) (core.Expr, error)) {
	defer close(d.ready)
	d.session = core.NewSession(nil)
	pool := d.session.Pool()

	expr, err := read(pool, d.text)
	if err != nil {
		d.checked, d.synth, d.checkErr = nil, nil, err
		return
	}

	checked, _, err := core.NewChecker(d.session).Check(expr)
	if err != nil {
		d.checked, d.synth, d.checkErr = nil, nil, err
		return
	}

	d.checked = checked
	d.synth = d.synthesiseSafely(checked)
	d.checkErr = nil
}

// synthesiseSafely calls TypeOf, recovering if checked still contains an
// unsolved inference_ctx (TypeOf has no case for it - section 4.3 only
// defines Type-of on fully-checked expressions). A hover on such a
// document reports the type as unknown rather than crashing the server.
func (d *document) synthesiseSafely(checked core.Expr) (typ core.Expr) {
	defer func() {
		if recover() != nil {
			typ = nil
		}
	}()
	return core.TypeOf(d.session, checked)
}
