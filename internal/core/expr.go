package core

// Polarity distinguishes introduction/supply ("positive") from
// elimination/demand ("negative"). It is a syntactic attribute: it is never
// inferred, and substitution preserves it.
type Polarity int

const (
	Positive Polarity = iota
	Negative
)

func (p Polarity) String() string {
	if p == Positive {
		return "positive"
	}
	return "negative"
}

// Tag identifies which Core expression variant a value holds. Every
// operation in this package dispatches on Tag (and, where relevant,
// Polarity) via an exhaustive switch; polarity is never modeled as
// inheritance between variants.
type Tag int

const (
	TagExprMap Tag = iota
	TagTypeMap
	TagExprMapElim
	TagTypeMapElim
	TagBoth
	TagOneOf
	TagUnknown
	TagEnd
	TagInferenceCtx
	TagRecursion
	TagString
	TagTypeOfStrings
	TagPrint
)

// Expr is a Core expression. Concrete variants are always held behind a
// pointer so that Pool can use the Expr value itself (a (type, pointer)
// pair) as the identity for reference counting and sharing.
type Expr interface {
	Tag() Tag
}

// ExprMap is a dependent map whose domain is a *value* E1, not a type. At
// Positive polarity this is a singleton function {E1 -> E2}; at Negative
// polarity this is the demand "consumes E1, yields E2".
type ExprMap struct {
	E1, E2   Expr
	Polarity Polarity
	Implicit bool
}

func (*ExprMap) Tag() Tag { return TagExprMap }

// TypeMap is a Pi/Sigma-like binder: Positive is a universal producer
// (function), Negative is an existential consumer.
type TypeMap struct {
	ArgID    int64
	ArgType  Expr
	Body     Expr
	Polarity Polarity
	Implicit bool
}

func (*TypeMap) Tag() Tag { return TagTypeMap }

// ExprMapElim applies Target by value pattern. Map is always treated as
// Negative regardless of the polarity stored on it.
type ExprMapElim struct {
	Target Expr
	Map    *ExprMap
}

func (*ExprMapElim) Tag() Tag { return TagExprMapElim }

// TypeMapElim applies Target by type/binding pattern.
type TypeMapElim struct {
	Target Expr
	Map    *TypeMap
}

func (*TypeMapElim) Tag() Tag { return TagTypeMapElim }

// Both is Positive intersection/pair or Negative union/choice.
type Both struct {
	E1, E2   Expr
	Polarity Polarity
}

func (*Both) Tag() Tag { return TagBoth }

// OneOf tries First; on failure falls back to Second.
type OneOf struct {
	First, Second Expr
}

func (*OneOf) Tag() Tag { return TagOneOf }

// Unknown is a variable identifier with an associated type. Two Unknowns
// are equal iff their IDs match. When IsInference is set, the identifier
// participates in constraint solving.
type Unknown struct {
	ID          int64
	Type        Expr
	IsInference bool
}

func (*Unknown) Tag() Tag { return TagUnknown }

// End is the polarised top (Positive, "All") or bottom (Negative,
// "Nothing").
type End struct {
	Polarity Polarity
}

func (*End) Tag() Tag { return TagEnd }

// InferenceCtx is an explicit existential scope for an inference variable.
type InferenceCtx struct {
	ID       int64
	Type     Expr
	Body     Expr
	Polarity Polarity
}

func (*InferenceCtx) Tag() Tag { return TagInferenceCtx }

// Recursion is a mu-binder admitting self-reference. A self-use inside Body
// is an Unknown whose ID matches ID, not a pointer back to this node -
// there is no pointer cycle to break, because self-reference is nominal
// (by id) rather than structural.
type Recursion struct {
	ID       int64
	Type     Expr
	Body     Expr
	Polarity Polarity
}

func (*Recursion) Tag() Tag { return TagRecursion }

// StringLit is a string literal value.
type StringLit struct {
	Value string
}

func (*StringLit) Tag() Tag { return TagString }

// TypeOfStrings is the singleton type whose inhabitants are string
// literals.
type TypeOfStrings struct{}

func (*TypeOfStrings) Tag() Tag { return TagTypeOfStrings }

// Print is the built-in String -> String primitive; applying it emits its
// argument via the session's write-line host and returns it unchanged.
type Print struct{}

func (*Print) Tag() Tag { return TagPrint }

// IsValue reports whether expr is a literal/binder/type with no further
// reduction rule of its own - the distinction TypeOf's ExprMap case needs
// to decide whether E1 is "a value" or "a computation".
func IsValue(expr Expr) bool {
	switch e := expr.(type) {
	case *StringLit, *TypeOfStrings, *Print, *End, *Unknown:
		return true
	case *ExprMap:
		return true
	case *TypeMap:
		return true
	case *Both:
		return IsValue(e.E1) && IsValue(e.E2)
	default:
		return false
	}
}

// Children returns expr's immediate sub-expressions in traversal order.
// Used by the structural visitor (Retain/Release/equality/substitution all
// route through this instead of re-deriving per-variant field lists).
func Children(expr Expr) []Expr {
	switch e := expr.(type) {
	case *ExprMap:
		return []Expr{e.E1, e.E2}
	case *TypeMap:
		return []Expr{e.ArgType, e.Body}
	case *ExprMapElim:
		return []Expr{e.Target, e.Map.E1, e.Map.E2}
	case *TypeMapElim:
		return []Expr{e.Target, e.Map.ArgType, e.Map.Body}
	case *Both:
		return []Expr{e.E1, e.E2}
	case *OneOf:
		return []Expr{e.First, e.Second}
	case *Unknown:
		return []Expr{e.Type}
	case *InferenceCtx:
		return []Expr{e.Type, e.Body}
	case *Recursion:
		return []Expr{e.Type, e.Body}
	default:
		return nil
	}
}
