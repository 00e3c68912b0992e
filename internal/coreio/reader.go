package coreio

import (
	"fmt"

	"github.com/duality-lang/duality/internal/core"
)

// Read parses source text in core.ToString's notation into a Core
// expression, allocated through pool. ToString never prints an Unknown
// node's Type field (only its numeric id), so Read reconstructs it the
// same way the checker would: by remembering, for every binder it parses
// (type_map, recursion, inference_ctx), which type that binder's id
// carries while it descends into the binder's body, and looking the id up
// again whenever it parses a bare occurrence.
func Read(pool *core.Pool, source string) (core.Expr, error) {
	p := &parser{lexer: newLexer(source), pool: pool, scope: map[int64]core.Expr{}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("coreio: line %d: trailing input after expression", p.tok.line)
	}
	return expr, nil
}

type parser struct {
	lexer *lexer
	pool  *core.Pool
	tok   token
	scope map[int64]core.Expr
}

func (p *parser) advance() error {
	t, err := p.lexer.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.tok.kind != kind {
		return fmt.Errorf("coreio: line %d: expected %s", p.tok.line, what)
	}
	return p.advance()
}

func (p *parser) parsePolarity() (core.Polarity, error) {
	switch p.tok.kind {
	case tokArrow:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return core.Positive, nil
	case tokTArrow:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return core.Negative, nil
	default:
		return 0, fmt.Errorf("coreio: line %d: expected '->' or '~>'", p.tok.line)
	}
}

// parseOneOf is the lowest-precedence level: `else`.
func (p *parser) parseOneOf() (core.Expr, error) {
	left, err := p.parseBoth()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokElse {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseBoth()
		if err != nil {
			return nil, err
		}
		left = core.NewOneOf(p.pool, left, right)
	}
	return left, nil
}

// parseBoth handles `and` / `or`, which bind tighter than `else` but
// looser than elimination.
func (p *parser) parseBoth() (core.Expr, error) {
	left, err := p.parseElim()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokAnd || p.tok.kind == tokOr {
		pol := core.Positive
		if p.tok.kind == tokOr {
			pol = core.Negative
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseElim()
		if err != nil {
			return nil, err
		}
		left = core.NewBoth(p.pool, left, right, pol)
	}
	return left, nil
}

// parseElim handles left-associative `!` chains.
func (p *parser) parseElim() (core.Expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokBang {
		if err := p.advance(); err != nil {
			return nil, err
		}
		left, err = p.parseElimTail(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parseElimTail parses the part of an elimination after `!`, choosing
// between a type_map_elim (`id [ArgType] ~> Body`) and an expr_map_elim
// (`[@]E1 ~> E2`) the same way the reference grammar disambiguates them:
// a bare integer immediately followed by `[` is a type-map's binder.
func (p *parser) parseElimTail(target core.Expr) (core.Expr, error) {
	implicit := false
	if p.tok.kind == tokAt {
		implicit = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if !implicit && p.tok.kind == tokInt {
		argID := p.tok.ival
		save := *p.lexer
		savedTok := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokLBracket {
			if err := p.advance(); err != nil {
				return nil, err
			}
			argType, err := p.parseOneOf()
			if err != nil {
				return nil, err
			}
			if err := p.expect(tokRBracket, "']'"); err != nil {
				return nil, err
			}
			pol, err := p.parsePolarity()
			if err != nil {
				return nil, err
			}
			p.scope[argID] = argType
			body, err := p.parseOneOf()
			if err != nil {
				return nil, err
			}
			delete(p.scope, argID)
			return core.NewTypeMapElim(p.pool, target, core.NewTypeMap(p.pool, argID, argType, body, pol, false)), nil
		}
		// Not a type-map binder after all: rewind and treat the integer as
		// an ordinary Unknown key for an expr_map_elim.
		*p.lexer = save
		p.tok = savedTok
	}

	e1, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	pol, err := p.parsePolarity()
	if err != nil {
		return nil, err
	}
	e2, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	return core.NewExprMapElim(p.pool, target, core.NewExprMap(p.pool, e1, e2, pol, implicit)), nil
}

func (p *parser) parseAtom() (core.Expr, error) {
	switch p.tok.kind {
	case tokLParen:
		return p.parseParenthesized()
	case tokString:
		v := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return core.NewStringLit(p.pool, v), nil
	case tokAll:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return core.NewEnd(p.pool, core.Positive), nil
	case tokNothing:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return core.NewEnd(p.pool, core.Negative), nil
	case tokTypeOfStrings:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return core.NewTypeOfStrings(p.pool), nil
	case tokPrint:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return core.NewPrint(p.pool), nil
	case tokQuestion:
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokInt {
			return nil, fmt.Errorf("coreio: line %d: expected identifier number after '?'", p.tok.line)
		}
		id := p.tok.ival
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.resolveUnknown(id, true)
	case tokInt:
		id := p.tok.ival
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.resolveUnknown(id, false)
	default:
		return nil, fmt.Errorf("coreio: line %d: unexpected token while parsing an expression", p.tok.line)
	}
}

func (p *parser) resolveUnknown(id int64, isInference bool) (core.Expr, error) {
	typ, ok := p.scope[id]
	if !ok {
		// A free occurrence with no enclosing binder: fall back to All, the
		// widest possible kind, rather than failing the read outright - the
		// checker will reject it later if the identifier's use is ill-typed.
		typ = core.NewEnd(p.pool, core.Positive)
	}
	return core.NewUnknown(p.pool, id, p.pool.Retain(typ), isInference), nil
}

// parseParenthesized handles every bracketed form: expr_map, type_map,
// inference_ctx, and recursion all open with '(' and are disambiguated by
// what immediately follows it.
func (p *parser) parseParenthesized() (core.Expr, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}

	if p.tok.kind == tokRec {
		return p.parseRecursion()
	}

	implicit := false
	if p.tok.kind == tokAt {
		implicit = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if p.tok.kind == tokQuestion {
		if implicit {
			return nil, fmt.Errorf("coreio: line %d: '@' cannot prefix an inference context", p.tok.line)
		}
		return p.parseInferenceCtx()
	}

	if p.tok.kind == tokLBracket {
		return p.parseTypeMap(implicit)
	}

	e1, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	pol, err := p.parsePolarity()
	if err != nil {
		return nil, err
	}
	e2, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return core.NewExprMap(p.pool, e1, e2, pol, implicit), nil
}

func (p *parser) parseTypeMap(implicit bool) (core.Expr, error) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}
	if p.tok.kind != tokInt {
		return nil, fmt.Errorf("coreio: line %d: expected binder identifier", p.tok.line)
	}
	argID := p.tok.ival
	if err := p.advance(); err != nil {
		return nil, err
	}
	argType, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, err
	}
	pol, err := p.parsePolarity()
	if err != nil {
		return nil, err
	}
	p.scope[argID] = argType
	body, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	delete(p.scope, argID)
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return core.NewTypeMap(p.pool, argID, argType, body, pol, implicit), nil
}

func (p *parser) parseInferenceCtx() (core.Expr, error) {
	if err := p.advance(); err != nil { // consume '?'
		return nil, err
	}
	if err := p.expect(tokLBracket, "'['"); err != nil {
		return nil, err
	}
	if p.tok.kind != tokInt {
		return nil, fmt.Errorf("coreio: line %d: expected binder identifier", p.tok.line)
	}
	id := p.tok.ival
	if err := p.advance(); err != nil {
		return nil, err
	}
	typ, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, err
	}
	pol, err := p.parsePolarity()
	if err != nil {
		return nil, err
	}
	p.scope[id] = typ
	body, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	delete(p.scope, id)
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return core.NewInferenceCtx(p.pool, id, typ, body, pol), nil
}

func (p *parser) parseRecursion() (core.Expr, error) {
	if err := p.advance(); err != nil { // consume 'rec'
		return nil, err
	}
	if p.tok.kind != tokInt {
		return nil, fmt.Errorf("coreio: line %d: expected binder identifier after 'rec'", p.tok.line)
	}
	id := p.tok.ival
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expect(tokColon, "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokFatArrow, "'=>'"); err != nil {
		return nil, err
	}
	p.scope[id] = typ
	body, err := p.parseOneOf()
	if err != nil {
		return nil, err
	}
	delete(p.scope, id)
	if err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}
	return core.NewRecursion(p.pool, id, typ, body, core.Positive), nil
}
