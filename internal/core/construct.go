package core

// Smart constructors. Each allocates through Pool.New, matching the
// reference implementation's dy_core_expr_new wrapped per-variant
// constructors. The constructor does not retain e1/e2/etc.: the caller
// hands its reference to them over to the new node (the same convention
// the original C API uses), and releasing that node releases them.

func NewExprMap(pool *Pool, e1, e2 Expr, pol Polarity, implicit bool) *ExprMap {
	return pool.New(&ExprMap{E1: e1, E2: e2, Polarity: pol, Implicit: implicit}).(*ExprMap)
}

func NewTypeMap(pool *Pool, argID int64, argType, body Expr, pol Polarity, implicit bool) *TypeMap {
	return pool.New(&TypeMap{ArgID: argID, ArgType: argType, Body: body, Polarity: pol, Implicit: implicit}).(*TypeMap)
}

func NewExprMapElim(pool *Pool, target Expr, m *ExprMap) *ExprMapElim {
	return pool.New(&ExprMapElim{Target: target, Map: m}).(*ExprMapElim)
}

func NewTypeMapElim(pool *Pool, target Expr, m *TypeMap) *TypeMapElim {
	return pool.New(&TypeMapElim{Target: target, Map: m}).(*TypeMapElim)
}

func NewBoth(pool *Pool, e1, e2 Expr, pol Polarity) *Both {
	return pool.New(&Both{E1: e1, E2: e2, Polarity: pol}).(*Both)
}

func NewOneOf(pool *Pool, first, second Expr) *OneOf {
	return pool.New(&OneOf{First: first, Second: second}).(*OneOf)
}

func NewUnknown(pool *Pool, id int64, typ Expr, isInference bool) *Unknown {
	return pool.New(&Unknown{ID: id, Type: typ, IsInference: isInference}).(*Unknown)
}

func NewEnd(pool *Pool, pol Polarity) *End {
	return pool.New(&End{Polarity: pol}).(*End)
}

func NewInferenceCtx(pool *Pool, id int64, typ, body Expr, pol Polarity) *InferenceCtx {
	return pool.New(&InferenceCtx{ID: id, Type: typ, Body: body, Polarity: pol}).(*InferenceCtx)
}

func NewRecursion(pool *Pool, id int64, typ, body Expr, pol Polarity) *Recursion {
	return pool.New(&Recursion{ID: id, Type: typ, Body: body, Polarity: pol}).(*Recursion)
}

func NewStringLit(pool *Pool, value string) *StringLit {
	return pool.New(&StringLit{Value: value}).(*StringLit)
}

func NewTypeOfStrings(pool *Pool) *TypeOfStrings {
	return pool.New(&TypeOfStrings{}).(*TypeOfStrings)
}

func NewPrint(pool *Pool) *Print {
	return pool.New(&Print{}).(*Print)
}
