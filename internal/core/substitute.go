package core

// IsBound reports whether a free occurrence of id appears anywhere in e.
// Bound occurrences introduced by a binder that shadows id are not
// counted: the binder's own id contributes (if it literally equals id, an
// unusual case), but uses of id strictly inside that binder's body do not,
// since within that body id names something else.
func IsBound(id int64, e Expr) bool {
	switch ex := e.(type) {
	case *Unknown:
		return ex.ID == id
	case *TypeMap:
		if IsBound(id, ex.ArgType) {
			return true
		}
		if ex.ArgID == id {
			return false
		}
		return IsBound(id, ex.Body)
	case *TypeMapElim:
		if IsBound(id, ex.Target) || IsBound(id, ex.Map.ArgType) {
			return true
		}
		if ex.Map.ArgID == id {
			return false
		}
		return IsBound(id, ex.Map.Body)
	case *InferenceCtx:
		if IsBound(id, ex.Type) {
			return true
		}
		if ex.ID == id {
			return false
		}
		return IsBound(id, ex.Body)
	case *Recursion:
		// Both Type and Body are in scope of ID: a recursion binder may
		// stand for a recursive type as well as a recursive value, so its
		// declared type is allowed to mention its own binder.
		if ex.ID == id {
			return false
		}
		return IsBound(id, ex.Type) || IsBound(id, ex.Body)
	default:
		for _, c := range Children(e) {
			if IsBound(id, c) {
				return true
			}
		}
		return false
	}
}

// Substitute produces a copy of e with every free occurrence of id
// replaced by replacement. It is only invoked by the evaluator, on
// beta-reduction. Because every identifier minted by NextID is globally
// unique within a session, ordinary variable capture cannot arise from
// substitution alone; the one case this function still guards explicitly
// is a binder that reintroduces the very id being substituted (the
// self-reference a Recursion makes when it unfolds) - substitution does
// not descend under such a binder, since occurrences inside its body name
// the binder, not the outer target.
func Substitute(session *Session, id int64, replacement Expr, e Expr) Expr {
	pool := session.Pool()
	switch ex := e.(type) {
	case *Unknown:
		if ex.ID == id {
			return pool.Retain(replacement)
		}
		return NewUnknown(pool, ex.ID, Substitute(session, id, replacement, ex.Type), ex.IsInference)
	case *ExprMap:
		return NewExprMap(pool, Substitute(session, id, replacement, ex.E1), Substitute(session, id, replacement, ex.E2), ex.Polarity, ex.Implicit)
	case *TypeMap:
		newArgType := Substitute(session, id, replacement, ex.ArgType)
		if ex.ArgID == id {
			return NewTypeMap(pool, ex.ArgID, newArgType, pool.Retain(ex.Body), ex.Polarity, ex.Implicit)
		}
		return NewTypeMap(pool, ex.ArgID, newArgType, Substitute(session, id, replacement, ex.Body), ex.Polarity, ex.Implicit)
	case *ExprMapElim:
		newMap := NewExprMap(pool, Substitute(session, id, replacement, ex.Map.E1), Substitute(session, id, replacement, ex.Map.E2), ex.Map.Polarity, ex.Map.Implicit)
		return NewExprMapElim(pool, Substitute(session, id, replacement, ex.Target), newMap)
	case *TypeMapElim:
		newArgType := Substitute(session, id, replacement, ex.Map.ArgType)
		var newBody Expr
		if ex.Map.ArgID == id {
			newBody = pool.Retain(ex.Map.Body)
		} else {
			newBody = Substitute(session, id, replacement, ex.Map.Body)
		}
		newMap := NewTypeMap(pool, ex.Map.ArgID, newArgType, newBody, ex.Map.Polarity, ex.Map.Implicit)
		return NewTypeMapElim(pool, Substitute(session, id, replacement, ex.Target), newMap)
	case *Both:
		return NewBoth(pool, Substitute(session, id, replacement, ex.E1), Substitute(session, id, replacement, ex.E2), ex.Polarity)
	case *OneOf:
		return NewOneOf(pool, Substitute(session, id, replacement, ex.First), Substitute(session, id, replacement, ex.Second))
	case *InferenceCtx:
		newType := Substitute(session, id, replacement, ex.Type)
		if ex.ID == id {
			return NewInferenceCtx(pool, ex.ID, newType, pool.Retain(ex.Body), ex.Polarity)
		}
		return NewInferenceCtx(pool, ex.ID, newType, Substitute(session, id, replacement, ex.Body), ex.Polarity)
	case *Recursion:
		if ex.ID == id {
			return pool.Retain(e)
		}
		return NewRecursion(pool, ex.ID, Substitute(session, id, replacement, ex.Type), Substitute(session, id, replacement, ex.Body), ex.Polarity)
	case *End, *StringLit, *TypeOfStrings, *Print:
		return pool.Retain(e)
	default:
		return pool.Retain(e)
	}
}
