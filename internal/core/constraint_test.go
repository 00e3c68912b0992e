package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectEmptyOnNilConstraint(t *testing.T) {
	session := NewSession(nil)
	r := Collect(session, nil, 7)
	assert.False(t, r.HasLower)
	assert.False(t, r.HasUpper)
}

func TestCollectSingleMatchesByID(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()
	c := NewSingleConstraint(3, Range{Upper: NewTypeOfStrings(pool), HasUpper: true})

	r := Collect(session, c, 3)
	assert.True(t, r.HasUpper)

	r2 := Collect(session, c, 4)
	assert.False(t, r2.HasUpper)
}

func TestCollectIsIdempotent(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()
	left := NewSingleConstraint(1, Range{Lower: NewTypeOfStrings(pool), HasLower: true})
	right := NewSingleConstraint(1, Range{Upper: NewEnd(pool, Positive), HasUpper: true})
	c := NewMultipleConstraint(left, right, Positive)

	r1 := Collect(session, c, 1)
	// Re-collecting the same constraint for the same id should be stable.
	r2 := Collect(session, c, 1)
	assert.Equal(t, r1.HasLower, r2.HasLower)
	assert.Equal(t, r1.HasUpper, r2.HasUpper)
	assert.Equal(t, Yes, AreEqual(r1.Lower, r2.Lower))
	assert.Equal(t, Yes, AreEqual(r1.Upper, r2.Upper))
}

func TestNewMultipleConstraintPassesThroughNil(t *testing.T) {
	c := NewSingleConstraint(1, Range{})
	assert.Same(t, c, NewMultipleConstraint(c, nil, Positive))
	assert.Same(t, c, NewMultipleConstraint(nil, c, Positive))
	assert.Nil(t, NewMultipleConstraint(nil, nil, Positive))
}

func TestRangeSatisfiableRequiresBothBoundsToCompare(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()
	assert.True(t, RangeSatisfiable(session, Range{}))
	assert.True(t, RangeSatisfiable(session, Range{Lower: NewTypeOfStrings(pool), HasLower: true}))

	satisfiable := Range{Lower: NewTypeOfStrings(pool), HasLower: true, Upper: NewEnd(pool, Positive), HasUpper: true}
	assert.True(t, RangeSatisfiable(session, satisfiable))

	unsatisfiable := Range{Lower: NewEnd(pool, Positive), HasLower: true, Upper: NewTypeOfStrings(pool), HasUpper: true}
	assert.False(t, RangeSatisfiable(session, unsatisfiable), "All is not a subtype of String")
}

func TestCombineRangesPositiveIntersectsUppers(t *testing.T) {
	session := NewSession(nil)
	pool := session.Pool()
	a := Range{Upper: NewTypeOfStrings(pool), HasUpper: true}
	b := Range{Upper: NewEnd(pool, Positive), HasUpper: true}

	combined := combineRanges(session, a, b, Positive)
	require.True(t, combined.HasUpper)
	both, ok := combined.Upper.(*Both)
	require.True(t, ok)
	assert.Equal(t, Positive, both.Polarity, "positive composition meets uppers via intersection")
}
