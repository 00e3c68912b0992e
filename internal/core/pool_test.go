package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolNewStartsAtOne(t *testing.T) {
	pool := NewPool()
	e := NewStringLit(pool, "x")
	assert.Equal(t, int64(1), pool.RefCount(e))
}

func TestPoolRetainIncrements(t *testing.T) {
	pool := NewPool()
	e := NewStringLit(pool, "x")
	pool.Retain(e)
	assert.Equal(t, int64(2), pool.RefCount(e))
}

func TestPoolReleaseToZeroDrops(t *testing.T) {
	pool := NewPool()
	e := NewStringLit(pool, "x")
	pool.Release(e)
	assert.Equal(t, int64(0), pool.RefCount(e))
}

func TestPoolReleaseCascadesToChildren(t *testing.T) {
	pool := NewPool()
	child := NewStringLit(pool, "x")
	parent := NewExprMap(pool, child, NewTypeOfStrings(pool), Positive, false)
	require.Equal(t, int64(1), pool.RefCount(child))

	pool.Release(parent)
	assert.Equal(t, int64(0), pool.RefCount(parent))
	assert.Equal(t, int64(0), pool.RefCount(child), "releasing a map's last reference should release its children too")
}

func TestPoolRetainNilIsSafe(t *testing.T) {
	pool := NewPool()
	assert.NotPanics(t, func() { pool.Retain(nil) })
	assert.NotPanics(t, func() { pool.Release(nil) })
}

func TestPoolRecursionSelfReferenceIsNominalNotCyclic(t *testing.T) {
	// A Recursion's self-reference goes through an Unknown keyed by ID, not
	// a pointer back to the Recursion node itself, so releasing it must
	// terminate without needing cycle detection.
	pool := NewPool()
	body := NewUnknown(pool, 0, NewEnd(pool, Positive), false)
	rec := NewRecursion(pool, 0, NewEnd(pool, Positive), body, Positive)

	assert.NotPanics(t, func() { pool.Release(rec) })
	assert.Equal(t, int64(0), pool.RefCount(rec))
}
