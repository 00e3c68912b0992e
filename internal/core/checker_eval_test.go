package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioS1ExactMatchElim: ("s" -> "s") ! "s" ~> String.
func TestScenarioS1ExactMatchElim(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()

	target := NewExprMap(pool, NewStringLit(pool, "s"), NewStringLit(pool, "s"), Positive, false)
	elim := NewExprMapElim(pool, target, NewExprMap(pool, NewStringLit(pool, "s"), NewTypeOfStrings(pool), Negative, false))

	checked, _, err := NewChecker(session).Check(elim)
	require.NoError(t, err)

	verdict, value := EvalToValue(session, checked)
	require.Equal(t, Yes, verdict)
	lit, ok := value.(*StringLit)
	require.True(t, ok)
	assert.Equal(t, "s", lit.Value)
}

// TestScenarioS2IdentityTypeFunction: [0 All] -> 0 applied to String.
func TestScenarioS2IdentityTypeFunction(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()

	argID := session.NextID()
	str := NewTypeOfStrings(pool)
	application := NewTypeMapElim(pool, str, NewTypeMap(pool, argID, NewEnd(pool, Positive), NewUnknown(pool, argID, NewEnd(pool, Positive), false), Negative, false))

	checked, _, err := NewChecker(session).Check(application)
	require.NoError(t, err)

	verdict, value := EvalToValue(session, checked)
	require.Equal(t, Yes, verdict)
	_, ok := value.(*TypeOfStrings)
	assert.True(t, ok)
}

// TestScenarioS3Print: print ! "hello" invokes the write-line collaborator
// exactly once with "hello" and evaluates back to "hello".
func TestScenarioS3Print(t *testing.T) {
	var written []string
	session := NewSession(func(s string) { written = append(written, s) })
	pool := session.Pool()

	call := NewExprMapElim(pool, NewPrint(pool), NewExprMap(pool, NewStringLit(pool, "hello"), NewStringLit(pool, "hello"), Negative, false))

	checked, _, err := NewChecker(session).Check(call)
	require.NoError(t, err)

	verdict, value := EvalToValue(session, checked)
	require.Equal(t, Yes, verdict)
	lit, ok := value.(*StringLit)
	require.True(t, ok)
	assert.Equal(t, "hello", lit.Value)
	require.Len(t, written, 1)
	assert.Equal(t, "hello", written[0])
}

// TestPrintReturnsItsArgumentNotItsRange: print ! "a" ~> "b" checks fine
// (both sides are well-typed strings) but a print call's result must be
// the string it actually emitted, "a" - not the elimination form's
// otherwise-unused range "b".
func TestPrintReturnsItsArgumentNotItsRange(t *testing.T) {
	var written []string
	session := NewSession(func(s string) { written = append(written, s) })
	pool := session.Pool()

	call := NewExprMapElim(pool, NewPrint(pool), NewExprMap(pool, NewStringLit(pool, "a"), NewStringLit(pool, "b"), Negative, false))

	checked, _, err := NewChecker(session).Check(call)
	require.NoError(t, err)

	verdict, value := EvalToValue(session, checked)
	require.Equal(t, Yes, verdict)
	lit, ok := value.(*StringLit)
	require.True(t, ok)
	assert.Equal(t, "a", lit.Value)
	require.Len(t, written, 1)
	assert.Equal(t, "a", written[0])
}

// TestScenarioS4ExactMatchFails: ("a" -> "b") ! "c" ~> String checks fine
// (since "c" is well-typed) but evaluates to No.
func TestScenarioS4ExactMatchFails(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()

	target := NewExprMap(pool, NewStringLit(pool, "a"), NewStringLit(pool, "b"), Positive, false)
	elim := NewExprMapElim(pool, target, NewExprMap(pool, NewStringLit(pool, "c"), NewTypeOfStrings(pool), Negative, false))

	checked, _, err := NewChecker(session).Check(elim)
	require.NoError(t, err)

	verdict, _ := EvalToValue(session, checked)
	assert.Equal(t, No, verdict)
}

// TestScenarioS5BothPositiveValue: "a" and "b" where both branches are
// positive values; type_of is String and String, and the pair is itself
// already a value.
func TestScenarioS5BothPositiveValue(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()

	pair := NewBoth(pool, NewStringLit(pool, "a"), NewStringLit(pool, "b"), Positive)
	assert.True(t, IsValue(pair))

	typ := TypeOf(session, pair)
	both, ok := typ.(*Both)
	require.True(t, ok)
	assert.Equal(t, Positive, both.Polarity)
	_, ok = both.E1.(*TypeOfStrings)
	assert.True(t, ok)
	_, ok = both.E2.(*TypeOfStrings)
	assert.True(t, ok)

	verdict, value := EvalToValue(session, pair)
	assert.Equal(t, Yes, verdict)
	assert.Same(t, pair, value.(*Both))
}

// TestScenarioS6UnconstrainedInferenceInOneOf: an unconstrained inference
// variable in a one_of consuming position makes the subtype verdict maybe.
func TestScenarioS6UnconstrainedInferenceInOneOf(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()

	id := session.NextID()
	inferred := NewUnknown(pool, id, NewEnd(pool, Positive), true)
	// The second branch is deliberately of an unrelated tag (not Bottom,
	// which would shortcut to a trivial Yes): it forces the overall
	// verdict to hinge on the still-unconstrained first branch.
	choice := NewOneOf(pool, inferred, NewPrint(pool))

	verdict, _, _ := Subtype(session, choice, NewTypeOfStrings(pool), nil, nil)
	assert.Equal(t, Maybe, verdict, "an unconstrained inference branch can't yet be ruled in or out")
}

func TestCheckerRejectsBadElim(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()

	target := NewStringLit(pool, "not-a-map")
	elim := NewExprMapElim(pool, target, NewExprMap(pool, NewStringLit(pool, "s"), NewTypeOfStrings(pool), Negative, false))

	_, _, err := NewChecker(session).Check(elim)
	require.Error(t, err)
	var notASubtype *NotASubtypeError
	assert.ErrorAs(t, err, &notASubtype)
}

func TestCheckerSolvesInferenceCtxOnEqualRange(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()

	id := session.NextID()
	inferred := NewUnknown(pool, id, NewEnd(pool, Positive), true)

	// The elim's own check emits a Lower bound of String on id (its target's
	// range synthesises String, compared against the inference variable in
	// sup position); the enclosing recursion's kind check, synthesising the
	// elim's type as exactly `inferred`, then emits an Upper bound of String
	// on the same id. Together they pin the range to an equality.
	elim := NewExprMapElim(pool,
		NewExprMap(pool, NewStringLit(pool, "k"), NewStringLit(pool, "k"), Positive, false),
		NewExprMap(pool, NewStringLit(pool, "k"), inferred, Negative, false))
	rec := NewRecursion(pool, session.NextID(), NewTypeOfStrings(pool), elim, Positive)
	ctx := NewInferenceCtx(pool, id, NewEnd(pool, Positive), rec, Positive)

	checked, _, err := NewChecker(session).Check(ctx)
	require.NoError(t, err)
	_, stillCtx := checked.(*InferenceCtx)
	assert.False(t, stillCtx, "a fully-pinned inference variable should be solved away, not left as a binder")
}

func TestEvalGuardRefusesSelfUnfold(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()

	id := session.NextID()
	rec := NewRecursion(pool, id, NewEnd(pool, Positive), NewUnknown(pool, id, NewEnd(pool, Positive), false), Positive)

	verdict, result := Eval(session, rec)
	assert.Equal(t, Yes, verdict)
	assert.Same(t, rec, result.(*Recursion))
}
