package core

// TypeOf is a total function on well-formed Core: it computes expr's type
// syntactically, without checking expr itself. InferenceCtx is explicitly
// excluded - it is treated as an invariant violation for it to reach a
// synthesised position (section 4.3, open question 2 in SPEC_FULL.md).
func TypeOf(session *Session, expr Expr) Expr {
	pool := session.Pool()
	switch e := expr.(type) {
	case *ExprMap:
		if IsValue(e.E1) {
			return NewExprMap(pool, pool.Retain(e.E1), TypeOf(session, e.E2), Positive, e.Implicit)
		}
		return NewTypeMap(pool, session.NextID(), TypeOf(session, e.E1), TypeOf(session, e.E2), Positive, e.Implicit)
	case *TypeMap:
		return NewTypeMap(pool, e.ArgID, pool.Retain(e.ArgType), TypeOf(session, e.Body), Positive, e.Implicit)
	case *ExprMapElim:
		return pool.Retain(e.Map.E2)
	case *TypeMapElim:
		return pool.Retain(e.Map.Body)
	case *Both:
		return NewBoth(pool, TypeOf(session, e.E1), TypeOf(session, e.E2), Positive)
	case *OneOf:
		return NewBoth(pool, TypeOf(session, e.First), TypeOf(session, e.Second), Negative)
	case *Unknown:
		return pool.Retain(e.Type)
	case *Recursion:
		typ := TypeOf(session, e.Body)
		if IsBound(e.ID, typ) {
			return NewRecursion(pool, e.ID, pool.Retain(e.Type), typ, Positive)
		}
		return typ
	case *StringLit:
		return NewTypeOfStrings(pool)
	case *End, *TypeOfStrings:
		return NewEnd(pool, Positive)
	case *Print:
		return NewTypeMap(pool, session.NextID(), NewTypeOfStrings(pool), NewTypeOfStrings(pool), Positive, false)
	case *InferenceCtx:
		panic("core: TypeOf called with an inference_ctx in synthesised position - this is an invariant violation, not a recoverable error")
	default:
		panic("core: TypeOf: unhandled expression variant")
	}
}
