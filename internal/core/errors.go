package core

import "fmt"

// NotASubtypeError reports that the subtype relation returned No between two
// expressions during checking.
type NotASubtypeError struct {
	Sub Expr
	Sup Expr
}

func (e *NotASubtypeError) Error() string {
	return fmt.Sprintf("not a subtype: %s is not a subtype of %s", ToString(e.Sub), ToString(e.Sup))
}

func NewNotASubtypeError(sub, sup Expr) *NotASubtypeError {
	return &NotASubtypeError{Sub: sub, Sup: sup}
}

// UnsatisfiableConstraintError reports that Collect produced a range whose
// lower bound is not a subtype of its upper bound.
type UnsatisfiableConstraintError struct {
	ID    int64
	Lower Expr
	Upper Expr
}

func (e *UnsatisfiableConstraintError) Error() string {
	return fmt.Sprintf("unsatisfiable constraint on ?%d: %s is not a subtype of %s", e.ID, ToString(e.Lower), ToString(e.Upper))
}

func NewUnsatisfiableConstraintError(id int64, lower, upper Expr) *UnsatisfiableConstraintError {
	return &UnsatisfiableConstraintError{ID: id, Lower: lower, Upper: upper}
}

// IllScopedError reports that an inference variable's solution mentions an
// identifier that does not dominate the inference variable's introduction.
type IllScopedError struct {
	InferenceID int64
	OutOfScope  int64
}

func (e *IllScopedError) Error() string {
	return fmt.Sprintf("ill-scoped solution for ?%d: mentions out-of-scope identifier %d", e.InferenceID, e.OutOfScope)
}

func NewIllScopedError(inferenceID, outOfScope int64) *IllScopedError {
	return &IllScopedError{InferenceID: inferenceID, OutOfScope: outOfScope}
}

// RecursionKindMismatchError reports that a recursion's body type failed to
// subtype into its declared binder type.
type RecursionKindMismatchError struct {
	ID          int64
	Declared    Expr
	Synthesised Expr
}

func (e *RecursionKindMismatchError) Error() string {
	return fmt.Sprintf("recursion kind mismatch on binder %d: declared %s, body synthesises %s", e.ID, ToString(e.Declared), ToString(e.Synthesised))
}

func NewRecursionKindMismatchError(id int64, declared, synthesised Expr) *RecursionKindMismatchError {
	return &RecursionKindMismatchError{ID: id, Declared: declared, Synthesised: synthesised}
}

// UnboundVariableError is raised only at the elaboration boundary, before
// Core is formed; the core itself never raises it.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable: %s", e.Name)
}

func NewUnboundVariableError(name string) *UnboundVariableError {
	return &UnboundVariableError{Name: name}
}
