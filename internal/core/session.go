package core

import "github.com/google/uuid"

// BoundConstraint records that the binder ID, of type Type, transitively
// constrains the inference variables listed in DependentIDs. The registry
// built from these records prevents an inference variable from being
// solved in terms of an identifier that does not dominate its
// introduction (section 4.5).
type BoundConstraint struct {
	ID           int64
	Type         Expr
	DependentIDs []int64
}

// Session owns everything a single check+eval run needs: the monotonic
// identifier counter, the expression pool, and the bound-constraint
// registry. A Session must never be shared between two independent
// check+eval runs - the LSP frontend gives each open document its own
// Session precisely so their pools and id counters can't collide.
//
// SessionID exists purely for observability: it's attached to CLI
// diagnostics and to the LSP frontend's per-document log lines so that
// concurrent sessions are distinguishable in the host's log stream. It
// plays no role in the type theory.
type Session struct {
	SessionID        uuid.UUID
	pool             *Pool
	runningID        int64
	boundConstraints []BoundConstraint

	// WriteLine is invoked by the evaluator when Print is applied. It must
	// accept UTF-8 byte sequences and returns nothing (section 6).
	WriteLine func(string)
}

// NewSession creates a session with a fresh pool and a zeroed identifier
// counter. writeLine may be nil, in which case Print's side effect is
// silently dropped (useful for pure evaluation in tests).
func NewSession(writeLine func(string)) *Session {
	if writeLine == nil {
		writeLine = func(string) {}
	}
	return &Session{
		SessionID: uuid.New(),
		pool:      NewPool(),
		WriteLine: writeLine,
	}
}

// Pool returns the session's expression pool.
func (s *Session) Pool() *Pool { return s.pool }

// NextID returns a fresh, session-scoped monotonically increasing
// identifier. IDs are never reused within a session and are only
// meaningful within it - comparing identifiers minted by two different
// sessions requires a bijective renaming table (not provided by this
// package, since cross-session comparison never arises in check+eval).
func (s *Session) NextID() int64 {
	id := s.runningID
	s.runningID++
	return id
}

// RecordBoundConstraint appends a bound-constraint record to the session's
// registry. Called by the checker for every recursion binder it checks,
// and by Checker.BindingConstraints.
func (s *Session) RecordBoundConstraint(bc BoundConstraint) {
	s.boundConstraints = append(s.boundConstraints, bc)
}

// BoundConstraints returns the session's bound-constraint registry.
func (s *Session) BoundConstraints() []BoundConstraint {
	return s.boundConstraints
}

// Dominates reports whether the binder `dominator` was in scope when
// inference variable `id` was introduced, per the registry built by
// RecordBoundConstraint. Used to reject IllScopedError solutions.
func (s *Session) Dominates(dominator, id int64) bool {
	for _, bc := range s.boundConstraints {
		if bc.ID != dominator {
			continue
		}
		for _, dep := range bc.DependentIDs {
			if dep == id {
				return true
			}
		}
	}
	return false
}
