package core

// assumption records a coinductive hypothesis "subID <= supID" made while
// unfolding a pair of Recursion nodes, so that a second encounter of the
// same pair terminates the comparison with Yes instead of looping forever.
type assumption struct{ subID, supID int64 }

type assumptions []assumption

func (a assumptions) contains(subID, supID int64) bool {
	for _, x := range a {
		if x.subID == subID && x.supID == supID {
			return true
		}
	}
	return false
}

// Subtype decides sub <= sup and, when the relation holds, produces a
// coercion: a term of type sup built from subject, a term of type sub.
// constraint accumulates emitted bounds on any inference variable this
// call touches; pass nil when starting a fresh derivation.
func Subtype(session *Session, sub, sup Expr, subject Expr, constraint *Constraint) (Ternary, *Constraint, Expr) {
	return subtype(session, sub, sup, subject, true, constraint, nil)
}

// SubtypeNoCoercion is the verdict-only form used for commuting-conversion
// checks where the subject is irrelevant (section 4.4, supplemented by
// is_subtype_no_transformation in SPEC_FULL.md section 12).
func SubtypeNoCoercion(session *Session, sub, sup Expr, constraint *Constraint) (Ternary, *Constraint) {
	verdict, c, _ := subtype(session, sub, sup, nil, false, constraint, nil)
	return verdict, c
}

func subtype(session *Session, sub, sup Expr, subject Expr, wantCoercion bool, constraint *Constraint, assume assumptions) (Ternary, *Constraint, Expr) {
	pool := session.Pool()

	// Identity.
	if AreEqual(sub, sup) == Yes {
		return Yes, constraint, subject
	}

	// Inference variable on the left: sub >= (well, here sub IS the
	// inference variable) emits an upper bound "id <= sup".
	if u, ok := sub.(*Unknown); ok && u.IsInference {
		c := NewSingleConstraint(u.ID, Range{Upper: sup, HasUpper: true})
		return Maybe, NewMultipleConstraint(constraint, c, Positive), subject
	}

	// Inference variable on the right: emits a lower bound "sup's id >= sub".
	if u, ok := sup.(*Unknown); ok && u.IsInference {
		c := NewSingleConstraint(u.ID, Range{Lower: sub, HasLower: true})
		return Maybe, NewMultipleConstraint(constraint, c, Positive), subject
	}

	// Top / bottom.
	if e, ok := sup.(*End); ok && e.Polarity == Positive {
		if wantCoercion {
			return Yes, constraint, pool.Retain(subject)
		}
		return Yes, constraint, nil
	}
	if e, ok := sub.(*End); ok && e.Polarity == Negative {
		if wantCoercion {
			return Yes, constraint, NewTypeMapElim(pool, pool.Retain(subject), asNegativeEliminator(pool, sup))
		}
		return Yes, constraint, nil
	}

	switch subExpr := sub.(type) {
	case *Both:
		if subExpr.Polarity == Positive {
			// a and b <= sup iff a <= sup or b <= sup - first successful
			// branch wins, injected into the result.
			v1, c1, s1 := subtype(session, subExpr.E1, sup, projectFirst(pool, subject, subExpr), wantCoercion, constraint, assume)
			if v1 == Yes {
				return Yes, c1, s1
			}
			v2, c2, s2 := subtype(session, subExpr.E2, sup, projectSecond(pool, subject, subExpr), wantCoercion, constraint, assume)
			if v2 == Yes {
				return Yes, c2, s2
			}
			if v1 == Maybe || v2 == Maybe {
				return Maybe, NewMultipleConstraint(c1, c2, Positive), subject
			}
			return No, constraint, nil
		}
	case *OneOf:
		// one_of on the left behaves like a negative both for subtyping
		// purposes: either branch being a subtype suffices.
		v1, c1, s1 := subtype(session, subExpr.First, sup, subject, wantCoercion, constraint, assume)
		if v1 == Yes {
			return Yes, c1, s1
		}
		v2, c2, s2 := subtype(session, subExpr.Second, sup, subject, wantCoercion, constraint, assume)
		if v2 == Yes {
			return Yes, c2, s2
		}
		if v1 == Maybe || v2 == Maybe {
			return Maybe, NewMultipleConstraint(c1, c2, Positive), subject
		}
		return No, constraint, nil
	}

	if supExpr, ok := sup.(*Both); ok && supExpr.Polarity == Negative {
		// sub <= a or b iff sub <= a or sub <= b.
		v1, c1, s1 := subtype(session, sub, supExpr.E1, subject, wantCoercion, constraint, assume)
		if v1 == Yes {
			return Yes, c1, s1
		}
		v2, c2, s2 := subtype(session, sub, supExpr.E2, subject, wantCoercion, constraint, assume)
		if v2 == Yes {
			return Yes, c2, s2
		}
		if v1 == Maybe || v2 == Maybe {
			return Maybe, NewMultipleConstraint(c1, c2, Positive), subject
		}
		return No, constraint, nil
	}

	if sub.Tag() != sup.Tag() {
		if AreEqual(sub, sup) == Maybe {
			return Maybe, constraint, subject
		}
		return No, constraint, nil
	}

	switch a := sub.(type) {
	case *ExprMap:
		b := sup.(*ExprMap)
		return subtypeExprMap(session, a, b, subject, wantCoercion, constraint, assume)
	case *TypeMap:
		b := sup.(*TypeMap)
		return subtypeTypeMap(session, a, b, subject, wantCoercion, constraint, assume)
	case *Recursion:
		b := sup.(*Recursion)
		return subtypeRecursion(session, a, b, subject, wantCoercion, constraint, assume)
	default:
		if AreEqual(sub, sup) == Maybe {
			return Maybe, constraint, subject
		}
		return No, constraint, nil
	}
}

// subtypeExprMap implements section 4.4's "Map / positive" and "Map / negative"
// rules: {x -> y} <= {x' -> y'} iff x' <= x (contravariant domain) and
// y <= y' (covariant range). The two polarities must match.
func subtypeExprMap(session *Session, a, b *ExprMap, subject Expr, wantCoercion bool, constraint *Constraint, assume assumptions) (Ternary, *Constraint, Expr) {
	if a.Polarity != b.Polarity {
		return No, constraint, nil
	}
	domainVerdict, c, _ := subtype(session, b.E1, a.E1, nil, false, constraint, assume)
	if domainVerdict == No {
		return No, constraint, nil
	}
	rangeVerdict, c, coercedRange := subtype(session, a.E2, b.E2, rangeSubject(session, subject), wantCoercion, c, assume)
	verdict := And(domainVerdict, rangeVerdict)
	if verdict != Yes {
		if verdict == No {
			return No, c, nil
		}
		return Maybe, c, subject
	}
	if !wantCoercion {
		return Yes, c, nil
	}
	pool := session.Pool()
	return Yes, c, NewExprMap(pool, pool.Retain(b.E1), coercedRange, b.Polarity, b.Implicit)
}

// subtypeTypeMap implements the dependent-function case: domain types
// compare contravariantly, and the body compares under a shared binder (b's
// argument identifier is substituted for a's in a's body before comparing,
// so both sides talk about the same variable).
func subtypeTypeMap(session *Session, a, b *TypeMap, subject Expr, wantCoercion bool, constraint *Constraint, assume assumptions) (Ternary, *Constraint, Expr) {
	if a.Polarity != b.Polarity {
		return No, constraint, nil
	}
	pool := session.Pool()

	domainVerdict, c, _ := subtype(session, b.ArgType, a.ArgType, nil, false, constraint, assume)

	sharedArg := NewUnknown(pool, b.ArgID, pool.Retain(b.ArgType), false)
	aBodyUnderB := Substitute(session, a.ArgID, sharedArg, a.Body)

	var appliedSubject Expr
	if wantCoercion && subject != nil {
		appliedSubject = NewTypeMapElim(pool, pool.Retain(subject), NewTypeMap(pool, b.ArgID, pool.Retain(b.ArgType), pool.Retain(sharedArg), Negative, b.Implicit))
	}

	bodyVerdict, c2, coercedBody := subtype(session, aBodyUnderB, b.Body, appliedSubject, wantCoercion, c, assume)

	verdict := And(domainVerdict, bodyVerdict)
	if verdict != Yes {
		if verdict == No {
			return No, c2, nil
		}
		return Maybe, c2, subject
	}
	if !wantCoercion {
		return Yes, c2, nil
	}
	eta := NewTypeMap(pool, b.ArgID, pool.Retain(b.ArgType), coercedBody, b.Polarity, b.Implicit)
	return Yes, c2, eta
}

// subtypeRecursion unfolds both recursions one level, assuming the pair is
// already related (coinduction) so that a second comparison of the same
// pair of binder identifiers terminates immediately with Yes.
func subtypeRecursion(session *Session, a, b *Recursion, subject Expr, wantCoercion bool, constraint *Constraint, assume assumptions) (Ternary, *Constraint, Expr) {
	if assume.contains(a.ID, b.ID) {
		if wantCoercion {
			return Yes, constraint, subject
		}
		return Yes, constraint, nil
	}
	unfoldedA := Substitute(session, a.ID, a, a.Body)
	unfoldedB := Substitute(session, b.ID, b, b.Body)
	next := append(append(assumptions{}, assume...), assumption{a.ID, b.ID})
	return subtype(session, unfoldedA, unfoldedB, subject, wantCoercion, constraint, next)
}

// projectFirst/projectSecond build the coercion a positive `and`'s left or
// right branch contributes when that branch is the one satisfying the
// supertype: since `Both` positive is a pair, the matching component is
// the subject's corresponding projection when the subject is itself a
// literal pair; otherwise the whole subject still has the right type by
// construction (the left/right alternative was chosen exactly because it
// typechecks), so it is passed through unchanged.
func projectFirst(pool *Pool, subject Expr, b *Both) Expr {
	if subject == nil {
		return nil
	}
	if pair, ok := subject.(*Both); ok && pair.Polarity == Positive {
		return pool.Retain(pair.E1)
	}
	return pool.Retain(subject)
}

func projectSecond(pool *Pool, subject Expr, b *Both) Expr {
	if subject == nil {
		return nil
	}
	if pair, ok := subject.(*Both); ok && pair.Polarity == Positive {
		return pool.Retain(pair.E2)
	}
	return pool.Retain(subject)
}

// rangeSubject produces the subject passed down when checking the range
// (e2) side of an expr_map: the original subject itself, retained. It is
// not applied to the domain value.
func rangeSubject(session *Session, subject Expr) Expr {
	if subject == nil {
		return nil
	}
	return session.Pool().Retain(subject)
}

// asNegativeEliminator builds a trivial negative type_map an uninhabited
// bottom value can be eliminated against to produce any type sup, the
// "uninhabited lift" coercion mentioned in the Top/bottom rule of section 4.4.
func asNegativeEliminator(pool *Pool, sup Expr) *TypeMap {
	return NewTypeMap(pool, 0, pool.Retain(sup), pool.Retain(sup), Negative, false)
}
