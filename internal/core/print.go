package core

import (
	"strconv"
	"strings"
)

// ToString renders expr in the compact S-expression-like notation used
// throughout this module's documentation and tests: "->" for positive
// maps, "~>" for negative, "!" for elimination, "@" prefix for implicit
// maps, "and"/"or" for positive/negative both, "else" for one_of, and
// "All"/"Nothing" for the end literals. Inference variables print with a
// leading "?" before their numeric id.
func ToString(expr Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

func writeExpr(b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *ExprMap:
		b.WriteByte('(')
		if e.Implicit {
			b.WriteByte('@')
		}
		writeExpr(b, e.E1)
		if e.Polarity == Positive {
			b.WriteString(" -> ")
		} else {
			b.WriteString(" ~> ")
		}
		writeExpr(b, e.E2)
		b.WriteByte(')')
	case *TypeMap:
		b.WriteByte('(')
		if e.Implicit {
			b.WriteString("@[")
		} else {
			b.WriteByte('[')
		}
		b.WriteString(strconv.FormatInt(e.ArgID, 10))
		b.WriteByte(' ')
		writeExpr(b, e.ArgType)
		b.WriteByte(']')
		if e.Polarity == Positive {
			b.WriteString(" -> ")
		} else {
			b.WriteString(" ~> ")
		}
		writeExpr(b, e.Body)
		b.WriteByte(')')
	case *ExprMapElim:
		writeExpr(b, e.Target)
		b.WriteString(" ! ")
		if e.Map.Implicit {
			b.WriteByte('@')
		}
		writeExpr(b, e.Map.E1)
		b.WriteString(" ~> ")
		writeExpr(b, e.Map.E2)
	case *TypeMapElim:
		writeExpr(b, e.Target)
		b.WriteString(" ! ")
		b.WriteString(strconv.FormatInt(e.Map.ArgID, 10))
		b.WriteString(" [")
		writeExpr(b, e.Map.ArgType)
		b.WriteString("] ~> ")
		writeExpr(b, e.Map.Body)
	case *Unknown:
		if e.IsInference {
			b.WriteByte('?')
		}
		b.WriteString(strconv.FormatInt(e.ID, 10))
	case *End:
		if e.Polarity == Positive {
			b.WriteString("All")
		} else {
			b.WriteString("Nothing")
		}
	case *Both:
		writeExpr(b, e.E1)
		if e.Polarity == Positive {
			b.WriteString(" and ")
		} else {
			b.WriteString(" or ")
		}
		writeExpr(b, e.E2)
	case *OneOf:
		writeExpr(b, e.First)
		b.WriteString(" else ")
		writeExpr(b, e.Second)
	case *InferenceCtx:
		b.WriteString("(?[")
		b.WriteString(strconv.FormatInt(e.ID, 10))
		b.WriteByte(' ')
		writeExpr(b, e.Type)
		b.WriteByte(']')
		if e.Polarity == Positive {
			b.WriteString(" -> ")
		} else {
			b.WriteString(" ~> ")
		}
		writeExpr(b, e.Body)
		b.WriteByte(')')
	case *Recursion:
		b.WriteString("(rec ")
		b.WriteString(strconv.FormatInt(e.ID, 10))
		b.WriteString(" : ")
		writeExpr(b, e.Type)
		b.WriteString(" => ")
		writeExpr(b, e.Body)
		b.WriteByte(')')
	case *StringLit:
		b.WriteByte('"')
		b.WriteString(e.Value)
		b.WriteByte('"')
	case *TypeOfStrings:
		b.WriteString("String")
	case *Print:
		b.WriteString("print")
	default:
		b.WriteString("<invalid-expr>")
	}
}
