package core

// Range bounds an inference variable: it must be a subtype of Upper (if
// HasUpper) and a supertype of Lower (if HasLower).
type Range struct {
	Lower    Expr
	HasLower bool
	Upper    Expr
	HasUpper bool
}

// ConstraintTag distinguishes a single-variable range constraint from the
// conjunction/disjunction of two constraints.
type ConstraintTag int

const (
	ConstraintSingle ConstraintTag = iota
	ConstraintMultiple
)

// Constraint is either a Single range on one inference variable, or the
// Multiple composition (conjunction under Positive, disjunction under
// Negative) of two sub-constraints. Constraints compose compositionally as
// checking proceeds: when two subchecks each produce a constraint, the
// parent combines them under its own polarity.
type Constraint struct {
	Tag ConstraintTag

	// Single
	ID    int64
	Range Range

	// Multiple
	Left, Right *Constraint
	Polarity    Polarity
}

func NewSingleConstraint(id int64, r Range) *Constraint {
	return &Constraint{Tag: ConstraintSingle, ID: id, Range: r}
}

func NewMultipleConstraint(left, right *Constraint, pol Polarity) *Constraint {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	return &Constraint{Tag: ConstraintMultiple, Left: left, Right: right, Polarity: pol}
}

// Collect walks c and yields the tightest range on id. A nil constraint,
// or one that never mentions id, yields the empty range (no bounds).
func Collect(session *Session, c *Constraint, id int64) Range {
	if c == nil {
		return Range{}
	}
	switch c.Tag {
	case ConstraintSingle:
		if c.ID == id {
			return c.Range
		}
		return Range{}
	case ConstraintMultiple:
		left := Collect(session, c.Left, id)
		right := Collect(session, c.Right, id)
		return combineRanges(session, left, right, c.Polarity)
	default:
		return Range{}
	}
}

// combineRanges implements section 4.5's composition table: under Positive
// composition ranges intersect (lowers join/union, uppers meet/
// intersection); under Negative composition ranges union (lowers meet,
// uppers join). "Join" and "meet" here build the connective expression
// directly (Both negative = union, Both positive = intersection) rather
// than attempting a semantic simplification - the subtype relation is what
// ultimately makes sense of the resulting bound.
func combineRanges(session *Session, a, b Range, pol Polarity) Range {
	lowerConn, upperConn := Negative, Positive
	if pol == Negative {
		lowerConn, upperConn = Positive, Negative
	}

	lower, hasLower := combineBound(session, a.HasLower, a.Lower, b.HasLower, b.Lower, lowerConn)
	upper, hasUpper := combineBound(session, a.HasUpper, a.Upper, b.HasUpper, b.Upper, upperConn)

	return Range{Lower: lower, HasLower: hasLower, Upper: upper, HasUpper: hasUpper}
}

func combineBound(session *Session, hasA bool, a Expr, hasB bool, b Expr, connective Polarity) (Expr, bool) {
	switch {
	case !hasA && !hasB:
		return nil, false
	case !hasA:
		return b, true
	case !hasB:
		return a, true
	default:
		return NewBoth(session.Pool(), a, b, connective), true
	}
}

// RangeSatisfiable reports whether a range's lower bound is a subtype of
// its upper bound - a range with only one bound, or no bound, is always
// satisfiable.
func RangeSatisfiable(session *Session, r Range) bool {
	if !r.HasLower || !r.HasUpper {
		return true
	}
	verdict, _ := SubtypeNoCoercion(session, r.Lower, r.Upper, nil)
	return verdict != No
}
