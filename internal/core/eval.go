package core

import "github.com/duality-lang/duality/internal/config"

// Eval reduces expr by one head step and reports whether that step was
// certain (Yes), impossible (No), or depends on an unresolved inference
// variable (Maybe). It implements section 4.7's call-by-value, strict-in-
// argument small-step semantics: evaluation always reduces the leftmost
// outermost redex whose arguments are already values.
func Eval(session *Session, expr Expr) (Ternary, Expr) {
	pool := session.Pool()

	switch e := expr.(type) {
	case *ExprMapElim:
		return evalExprMapElim(session, e)

	case *TypeMapElim:
		return evalTypeMapElim(session, e)

	case *Both:
		if !IsValue(e) {
			if !IsValue(e.E1) {
				v, newE1 := Eval(session, e.E1)
				if v != Yes {
					return v, expr
				}
				return Yes, NewBoth(pool, newE1, pool.Retain(e.E2), e.Polarity)
			}
			v, newE2 := Eval(session, e.E2)
			if v != Yes {
				return v, expr
			}
			return Yes, NewBoth(pool, pool.Retain(e.E1), newE2, e.Polarity)
		}
		return Yes, pool.Retain(expr)

	case *OneOf:
		return evalOneOf(session, e)

	case *Recursion:
		return evalRecursion(session, e)

	case *ExprMap:
		if !IsValue(e.E1) {
			v, newE1 := Eval(session, e.E1)
			if v != Yes {
				return v, expr
			}
			return Yes, NewExprMap(pool, newE1, pool.Retain(e.E2), e.Polarity, e.Implicit)
		}
		if !IsValue(e.E2) {
			v, newE2 := Eval(session, e.E2)
			if v != Yes {
				return v, expr
			}
			return Yes, NewExprMap(pool, pool.Retain(e.E1), newE2, e.Polarity, e.Implicit)
		}
		return Yes, pool.Retain(expr)

	default:
		// Already a value, or a type-level form with no reduction rule of
		// its own (TypeMap, Unknown, End, StringLit, TypeOfStrings, Print,
		// InferenceCtx): head-normal, nothing to do.
		return Yes, pool.Retain(expr)
	}
}

// EvalToValue drives Eval to completion, one head step at a time, stopping
// at the first value, the first No, or the first Maybe. It is the
// interface the CLI and LSP frontends actually use; Eval itself performs
// only a single step so that callers can interleave stepping with other
// work (or bound the number of steps) if they need to.
func EvalToValue(session *Session, expr Expr) (Ternary, Expr) {
	current := expr
	for !IsValue(current) {
		verdict, next := Eval(session, current)
		if verdict != Yes {
			return verdict, current
		}
		if AreEqual(current, next) == Yes {
			// No progress was made (a stuck non-value, e.g. a recursion the
			// guard refused to unfold) - report it rather than spin.
			return Maybe, current
		}
		current = next
	}
	return Yes, current
}

func evalExprMapElim(session *Session, e *ExprMapElim) (Ternary, Expr) {
	pool := session.Pool()
	// print's calling convention is a special case: a print application is
	// written as Print eliminated against {argument -> argument}, and the
	// side effect (session.WriteLine) fires here rather than going through
	// the ordinary pattern-match reduction below, since Print accepts any
	// string rather than one fixed domain value.
	if _, ok := e.Target.(*Print); ok {
		if !IsValue(e.Map.E1) {
			v, newE1 := Eval(session, e.Map.E1)
			if v != Yes {
				return v, e
			}
			return Yes, NewExprMapElim(pool, pool.Retain(e.Target), NewExprMap(pool, newE1, pool.Retain(e.Map.E2), e.Map.Polarity, e.Map.Implicit))
		}
		s, ok := e.Map.E1.(*StringLit)
		if !ok {
			return No, e
		}
		session.WriteLine(s.Value)
		return Yes, pool.Retain(e.Map.E1)
	}

	if !IsValue(e.Target) {
		v, newTarget := Eval(session, e.Target)
		if v != Yes {
			return v, e
		}
		return Yes, NewExprMapElim(pool, newTarget, e.Map)
	}
	// expr_map_elim eliminates a target that is itself a singleton map
	// value {k -> v}: the redex fires when the target's own key equals the
	// eliminator's declared key, producing the TARGET's value (not the
	// eliminator's declared range, which is only a type-checking fixture).
	targetMap, ok := e.Target.(*ExprMap)
	if !ok {
		return No, e
	}
	verdict := AreEqual(targetMap.E1, e.Map.E1)
	switch verdict {
	case Yes:
		return Yes, pool.Retain(targetMap.E2)
	case Maybe:
		return Maybe, e
	default:
		return No, e
	}
}

func evalTypeMapElim(session *Session, e *TypeMapElim) (Ternary, Expr) {
	pool := session.Pool()
	if !IsValue(e.Target) {
		v, newTarget := Eval(session, e.Target)
		if v != Yes {
			return v, e
		}
		return Yes, NewTypeMapElim(pool, newTarget, e.Map)
	}
	targetType := TypeOf(session, e.Target)
	verdict, _ := SubtypeNoCoercion(session, targetType, e.Map.ArgType, nil)
	switch verdict {
	case Yes:
		return Yes, Substitute(session, e.Map.ArgID, e.Target, e.Map.Body)
	case Maybe:
		return Maybe, e
	default:
		return No, e
	}
}

func evalOneOf(session *Session, e *OneOf) (Ternary, Expr) {
	pool := session.Pool()
	v1, r1 := EvalToValue(session, e.First)
	switch v1 {
	case Yes:
		return Yes, pool.Retain(r1)
	case Maybe:
		return Maybe, e
	default:
		return Eval(session, e.Second)
	}
}

// evalRecursion unfolds a Recursion by substituting its own identifier with
// itself throughout the body, but only when the body's head is not itself
// an unguarded self-reference: config.StrictRecursionGuard refuses to
// unfold when the body is exactly the bound Unknown, or is itself another
// Recursion (on any identifier), which would otherwise make evaluation
// loop forever without ever reaching a value (section 9, Design Notes).
func evalRecursion(session *Session, e *Recursion) (Ternary, Expr) {
	pool := session.Pool()
	if guardRefusesUnfold(e) {
		return Yes, pool.Retain(e)
	}
	return Yes, Substitute(session, e.ID, e, e.Body)
}

func guardRefusesUnfold(e *Recursion) bool {
	if !config.StrictRecursionGuard {
		return false
	}
	switch body := e.Body.(type) {
	case *Unknown:
		return body.ID == e.ID
	case *Recursion:
		return true
	default:
		return false
	}
}
