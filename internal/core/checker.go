package core

// Checker runs the bidirectional pass of section 4.6 over a session's
// expression graph. It is single-pass and top-down: every call to Check
// returns a (possibly coercion-wrapped) expression and the constraint that
// expression's inference variables must additionally satisfy.
type Checker struct {
	session *Session
	// discharged records which elimination nodes have been checked. Check
	// does not consult it: a shared (DAG, not tree) sub-expression reached
	// twice in one pass is checked, and its subtype derivation redone, twice.
	discharged map[Expr]bool
}

func NewChecker(session *Session) *Checker {
	return &Checker{session: session, discharged: make(map[Expr]bool)}
}

// Check validates expr and emits/collects subtype constraints on any
// inference variable it touches. Failure is fatal and returns one of the
// typed errors in errors.go; there is no partial result on failure.
func (c *Checker) Check(expr Expr) (Expr, *Constraint, error) {
	session := c.session
	pool := session.Pool()

	switch e := expr.(type) {
	case *Unknown, *End, *StringLit, *Print, *TypeOfStrings:
		return pool.Retain(expr), nil, nil

	case *ExprMap:
		newE1, c1, err := c.Check(e.E1)
		if err != nil {
			return nil, nil, err
		}
		newE2, c2, err := c.Check(e.E2)
		if err != nil {
			return nil, nil, err
		}
		return NewExprMap(pool, newE1, newE2, e.Polarity, e.Implicit), NewMultipleConstraint(c1, c2, e.Polarity), nil

	case *TypeMap:
		newArgType, c1, err := c.Check(e.ArgType)
		if err != nil {
			return nil, nil, err
		}
		newBody, c2, err := c.Check(e.Body)
		if err != nil {
			return nil, nil, err
		}
		return NewTypeMap(pool, e.ArgID, newArgType, newBody, e.Polarity, e.Implicit), NewMultipleConstraint(c1, c2, e.Polarity), nil

	case *ExprMapElim:
		return c.checkExprMapElim(e)

	case *TypeMapElim:
		return c.checkTypeMapElim(e)

	case *Both:
		newE1, c1, err := c.Check(e.E1)
		if err != nil {
			return nil, nil, err
		}
		newE2, c2, err := c.Check(e.E2)
		if err != nil {
			return nil, nil, err
		}
		return NewBoth(pool, newE1, newE2, e.Polarity), NewMultipleConstraint(c1, c2, e.Polarity), nil

	case *OneOf:
		newFirst, c1, err := c.Check(e.First)
		if err != nil {
			return nil, nil, err
		}
		newSecond, c2, err := c.Check(e.Second)
		if err != nil {
			return nil, nil, err
		}
		return NewOneOf(pool, newFirst, newSecond), NewMultipleConstraint(c1, c2, Negative), nil

	case *Recursion:
		return c.checkRecursion(e)

	case *InferenceCtx:
		return c.checkInferenceCtx(e)

	default:
		panic("core: Check: unhandled expression variant")
	}
}

func (c *Checker) checkExprMapElim(e *ExprMapElim) (Expr, *Constraint, error) {
	session := c.session
	pool := session.Pool()

	newTarget, targetConstraint, err := c.Check(e.Target)
	if err != nil {
		return nil, nil, err
	}
	newMapE1, c1, err := c.Check(e.Map.E1)
	if err != nil {
		return nil, nil, err
	}
	newMapE2, c2, err := c.Check(e.Map.E2)
	if err != nil {
		return nil, nil, err
	}

	if _, ok := newTarget.(*Print); ok {
		// print's domain is every string, not one fixed value, so it does
		// not fit the single-entry expr_map shape check below: it only
		// needs its argument to synthesise a String.
		argType := TypeOf(session, newMapE1)
		verdict, subtypeConstraint := SubtypeNoCoercion(session, argType, NewTypeOfStrings(pool), nil)
		if verdict == No {
			return nil, nil, NewNotASubtypeError(argType, NewTypeOfStrings(pool))
		}
		c.discharged[e] = true
		combined := NewMultipleConstraint(NewMultipleConstraint(targetConstraint, NewMultipleConstraint(c1, c2, Positive), Positive), subtypeConstraint, Positive)
		return NewExprMapElim(pool, pool.Retain(newTarget), NewExprMap(pool, newMapE1, newMapE2, e.Map.Polarity, e.Map.Implicit)), combined, nil
	}

	// expr_map_elim eliminates a target that is itself a singleton map
	// value {k -> v}: only the range needs to line up with the
	// eliminator's declared range here. Whether the target's own key k
	// actually equals the eliminator's key (newMapE1) is an equality the
	// evaluator decides at reduction time (section 4.7, scenario S4) - the
	// checker does not reject a well-typed key mismatch.
	targetType := TypeOf(session, newTarget)
	targetMapType, ok := targetType.(*ExprMap)
	if !ok {
		return nil, nil, NewNotASubtypeError(targetType, NewExprMap(pool, newMapE1, newMapE2, Negative, e.Map.Implicit))
	}

	verdict, subtypeConstraint, _ := Subtype(session, targetMapType.E2, newMapE2, nil, nil)
	if verdict == No {
		return nil, nil, NewNotASubtypeError(targetMapType.E2, newMapE2)
	}

	c.discharged[e] = true

	combined := NewMultipleConstraint(NewMultipleConstraint(targetConstraint, NewMultipleConstraint(c1, c2, Positive), Positive), subtypeConstraint, Positive)
	return NewExprMapElim(pool, pool.Retain(newTarget), NewExprMap(pool, newMapE1, newMapE2, e.Map.Polarity, e.Map.Implicit)), combined, nil
}

func (c *Checker) checkTypeMapElim(e *TypeMapElim) (Expr, *Constraint, error) {
	session := c.session
	pool := session.Pool()

	newTarget, targetConstraint, err := c.Check(e.Target)
	if err != nil {
		return nil, nil, err
	}
	newArgType, c1, err := c.Check(e.Map.ArgType)
	if err != nil {
		return nil, nil, err
	}
	newBody, c2, err := c.Check(e.Map.Body)
	if err != nil {
		return nil, nil, err
	}

	// type_map_elim applies Map (a function value, ArgID bound in Body) to
	// Target (the argument): Target need only fit the declared domain, not
	// the whole function shape - matching the substitution eval.go performs
	// on a successful redex (Substitute(Map.ArgID, Target, Map.Body)).
	targetType := TypeOf(session, newTarget)
	verdict, subtypeConstraint, coercedTarget := Subtype(session, targetType, newArgType, newTarget, nil)
	if verdict == No {
		return nil, nil, NewNotASubtypeError(targetType, newArgType)
	}

	c.discharged[e] = true

	combined := NewMultipleConstraint(NewMultipleConstraint(targetConstraint, NewMultipleConstraint(c1, c2, Positive), Positive), subtypeConstraint, Positive)
	return NewTypeMapElim(pool, coercedTarget, NewTypeMap(pool, e.Map.ArgID, newArgType, newBody, e.Map.Polarity, e.Map.Implicit)), combined, nil
}

func (c *Checker) checkRecursion(e *Recursion) (Expr, *Constraint, error) {
	session := c.session
	pool := session.Pool()

	c.session.RecordBoundConstraint(BoundConstraint{ID: e.ID, Type: e.Type})

	newBody, bodyConstraint, err := c.Check(e.Body)
	if err != nil {
		return nil, nil, err
	}

	synthesised := TypeOf(session, newBody)
	verdict, kindConstraint := SubtypeNoCoercion(session, synthesised, e.Type, nil)
	if verdict == No {
		return nil, nil, NewRecursionKindMismatchError(e.ID, e.Type, synthesised)
	}

	combined := NewMultipleConstraint(bodyConstraint, kindConstraint, Positive)
	return NewRecursion(pool, e.ID, pool.Retain(e.Type), newBody, e.Polarity), combined, nil
}

func (c *Checker) checkInferenceCtx(e *InferenceCtx) (Expr, *Constraint, error) {
	session := c.session
	pool := session.Pool()

	newBody, bodyConstraint, err := c.Check(e.Body)
	if err != nil {
		return nil, nil, err
	}

	r := Collect(session, bodyConstraint, e.ID)
	if r.HasLower && r.HasUpper {
		if !RangeSatisfiable(session, r) {
			return nil, nil, NewUnsatisfiableConstraintError(e.ID, r.Lower, r.Upper)
		}
		if AreEqual(r.Lower, r.Upper) == Yes {
			if outOfScope, ok := c.solutionInScope(e.ID, r.Lower); !ok {
				return nil, nil, NewIllScopedError(e.ID, outOfScope)
			}
			solved := Substitute(session, e.ID, r.Lower, newBody)
			return solved, bodyConstraint, nil
		}
	}

	return NewInferenceCtx(pool, e.ID, pool.Retain(e.Type), newBody, e.Polarity), bodyConstraint, nil
}

// solutionInScope reports whether every binder in the session's
// bound-constraint registry that solution mentions dominates id's
// introduction (section 4.5, supplemented by dy_binding_contraints in
// SPEC_FULL.md section 12). When it does not, it also returns the first
// offending binder id.
func (c *Checker) solutionInScope(id int64, solution Expr) (int64, bool) {
	for _, bc := range c.session.BoundConstraints() {
		if bc.ID == id {
			continue
		}
		if IsBound(bc.ID, solution) && !c.session.Dominates(bc.ID, id) {
			return bc.ID, false
		}
	}
	return 0, true
}

// BindingConstraints appends to the session's bound-constraint registry a
// record for binder id whose dependent identifiers are ids. constraint is
// not inspected. The checker itself does not call this method; it records
// recursion binders directly through Session.RecordBoundConstraint.
func (c *Checker) BindingConstraints(id int64, constraint *Constraint, ids []int64) {
	c.session.RecordBoundConstraint(BoundConstraint{ID: id, DependentIDs: ids})
}
