package core

// idPair records that binder id1 on the left and id2 on the right are each
// other's alpha-partner for the remainder of a congruence comparison.
type idPair struct{ left, right int64 }

// AreEqual decides structural equality up to alpha-renaming of binder
// identifiers. It returns Maybe, rather than No, as soon as either side
// bottoms out on an unresolved inference variable, since solving that
// variable could still make the two sides equal.
func AreEqual(e1, e2 Expr) Ternary {
	return areEqualEnv(e1, e2, nil)
}

func areEqualEnv(e1, e2 Expr, env []idPair) Ternary {
	if u1, ok := e1.(*Unknown); ok && u1.IsInference {
		if u2, ok2 := e2.(*Unknown); ok2 && u2.IsInference && u1.ID == u2.ID {
			return Yes
		}
		return Maybe
	}
	if u2, ok := e2.(*Unknown); ok && u2.IsInference {
		return Maybe
	}

	if e1.Tag() != e2.Tag() {
		return No
	}

	switch a := e1.(type) {
	case *Unknown:
		b := e2.(*Unknown)
		if !idsEqual(a.ID, b.ID, env) {
			return No
		}
		return areEqualEnv(a.Type, b.Type, env)
	case *End:
		b := e2.(*End)
		if a.Polarity != b.Polarity {
			return No
		}
		return Yes
	case *StringLit:
		b := e2.(*StringLit)
		if a.Value != b.Value {
			return No
		}
		return Yes
	case *TypeOfStrings:
		return Yes
	case *Print:
		return Yes
	case *ExprMap:
		b := e2.(*ExprMap)
		if a.Polarity != b.Polarity || a.Implicit != b.Implicit {
			return No
		}
		return And(areEqualEnv(a.E1, b.E1, env), areEqualEnv(a.E2, b.E2, env))
	case *TypeMap:
		b := e2.(*TypeMap)
		if a.Polarity != b.Polarity || a.Implicit != b.Implicit {
			return No
		}
		argEq := areEqualEnv(a.ArgType, b.ArgType, env)
		bodyEq := areEqualEnv(a.Body, b.Body, append(env, idPair{a.ArgID, b.ArgID}))
		return And(argEq, bodyEq)
	case *ExprMapElim:
		b := e2.(*ExprMapElim)
		if a.Map.Implicit != b.Map.Implicit {
			return No
		}
		return And(areEqualEnv(a.Target, b.Target, env),
			And(areEqualEnv(a.Map.E1, b.Map.E1, env), areEqualEnv(a.Map.E2, b.Map.E2, env)))
	case *TypeMapElim:
		b := e2.(*TypeMapElim)
		if a.Map.Implicit != b.Map.Implicit {
			return No
		}
		targetEq := areEqualEnv(a.Target, b.Target, env)
		argEq := areEqualEnv(a.Map.ArgType, b.Map.ArgType, env)
		bodyEq := areEqualEnv(a.Map.Body, b.Map.Body, append(env, idPair{a.Map.ArgID, b.Map.ArgID}))
		return And(targetEq, And(argEq, bodyEq))
	case *Both:
		b := e2.(*Both)
		if a.Polarity != b.Polarity {
			return No
		}
		return And(areEqualEnv(a.E1, b.E1, env), areEqualEnv(a.E2, b.E2, env))
	case *OneOf:
		b := e2.(*OneOf)
		return And(areEqualEnv(a.First, b.First, env), areEqualEnv(a.Second, b.Second, env))
	case *InferenceCtx:
		b := e2.(*InferenceCtx)
		if a.Polarity != b.Polarity {
			return No
		}
		typeEq := areEqualEnv(a.Type, b.Type, env)
		bodyEq := areEqualEnv(a.Body, b.Body, append(env, idPair{a.ID, b.ID}))
		return And(typeEq, bodyEq)
	case *Recursion:
		b := e2.(*Recursion)
		if a.Polarity != b.Polarity {
			return No
		}
		next := append(env, idPair{a.ID, b.ID})
		return And(areEqualEnv(a.Type, b.Type, next), areEqualEnv(a.Body, b.Body, next))
	default:
		return No
	}
}

// idsEqual reports whether id1 (from the left side) and id2 (from the
// right side) name the same logical variable: either they were paired as
// alpha-partners by an enclosing binder comparison, or - for identifiers
// free in both expressions - they are the literal same id.
func idsEqual(id1, id2 int64, env []idPair) bool {
	for i := len(env) - 1; i >= 0; i-- {
		if env[i].left == id1 || env[i].right == id2 {
			return env[i].left == id1 && env[i].right == id2
		}
	}
	return id1 == id2
}
