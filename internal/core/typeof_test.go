package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOfStringLit(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()
	typ := TypeOf(session, NewStringLit(pool, "x"))
	_, ok := typ.(*TypeOfStrings)
	assert.True(t, ok)
}

func TestTypeOfEndIsIdempotentUpToEqual(t *testing.T) {
	// type_of(type_of(e)) = end(positive) up to are_equal, for any well-typed e.
	session := NewSession(nil)
	pool := session.Pool()
	exprs := []Expr{
		NewStringLit(pool, "x"),
		NewEnd(pool, Positive),
		NewTypeOfStrings(pool),
		NewPrint(pool),
	}
	for _, e := range exprs {
		outer := TypeOf(session, TypeOf(session, e))
		end, ok := outer.(*End)
		require.True(t, ok)
		assert.Equal(t, Positive, end.Polarity)
	}
}

func TestTypeOfExprMapValueDomain(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()
	e := NewExprMap(pool, NewStringLit(pool, "s"), NewStringLit(pool, "s"), Positive, false)
	typ := TypeOf(session, e)
	m, ok := typ.(*ExprMap)
	require.True(t, ok, "a map from a value introduces a positive expr_map type")
	lit, ok := m.E1.(*StringLit)
	require.True(t, ok)
	assert.Equal(t, "s", lit.Value)
	_, ok = m.E2.(*TypeOfStrings)
	assert.True(t, ok)
}

func TestTypeOfPrintIsStringToString(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()
	typ := TypeOf(session, NewPrint(pool))
	tm, ok := typ.(*TypeMap)
	require.True(t, ok)
	_, ok = tm.ArgType.(*TypeOfStrings)
	assert.True(t, ok)
	_, ok = tm.Body.(*TypeOfStrings)
	assert.True(t, ok)
}

func TestTypeOfInferenceCtxPanics(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()
	infCtx := NewInferenceCtx(pool, session.NextID(), NewEnd(pool, Positive), NewStringLit(pool, "x"), Positive)
	assert.Panics(t, func() { TypeOf(session, infCtx) })
}

func TestTypeOfRecursionDropsUnusedBinder(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()
	id := session.NextID()
	rec := NewRecursion(pool, id, NewEnd(pool, Positive), NewStringLit(pool, "x"), Positive)
	typ := TypeOf(session, rec)
	_, ok := typ.(*TypeOfStrings)
	assert.True(t, ok, "when the binder id doesn't occur in the synthesised type, recursion shouldn't wrap it")
}
