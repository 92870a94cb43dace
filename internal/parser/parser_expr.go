package parser

import (
	"colloml/internal/ast"
)

// Precedence levels, lowest binds loosest. Mirrors spec.md §4.1's eight
// tiers; postfix forms (field access, indexing, as/into/cast) bind
// tightest of all, above unary.
const (
	PrecLowest = iota
	PrecNullCoalesce
	PrecLogical
	PrecConstraint
	PrecComparison
	PrecAdditive
	PrecMultiplicative
	PrecUnary
	PrecPostfix
)

var binPrec = map[TokenType]int{
	QQ:      PrecNullCoalesce,
	AND:     PrecLogical,
	OR:      PrecLogical,
	EQEQEQ:  PrecConstraint,
	LEQEQ:   PrecConstraint,
	GEQEQ:   PrecConstraint,
	EQ:      PrecComparison,
	NEQ:     PrecComparison,
	LT:      PrecComparison,
	LE:      PrecComparison,
	GT:      PrecComparison,
	GE:      PrecComparison,
	IN:      PrecComparison,
	PLUS:      PrecAdditive,
	MINUS:     PrecAdditive,
	UNION:     PrecAdditive,
	INTER:     PrecAdditive,
	BACKSLASH: PrecAdditive,
	STAR:    PrecMultiplicative,
	DSLASH:  PrecMultiplicative,
	PERCENT: PrecMultiplicative,
	DOT:      PrecPostfix,
	LBRACKET: PrecPostfix,
	AS:       PrecPostfix,
	INTO:     PrecPostfix,
	CAST:     PrecPostfix,
}

func precedenceOf(t TokenType) int {
	if p, ok := binPrec[t]; ok {
		return p
	}
	return PrecLowest
}

// rightAssoc is only `??`, so that `a ?? b ?? c` reads as `a ?? (b ?? c)`.
func rightAssoc(t TokenType) bool { return t == QQ }

func (p *Parser) parseExpr(prec int) ast.Expr {
	left := p.parsePrefix()
	for prec < precedenceOf(p.peek().Type) {
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case INT:
		p.advance()
		v, err := parseIntLiteral(tok.Lexeme)
		if err != nil {
			p.errorf(tok, "invalid integer literal %q", tok.Lexeme)
		}
		return &ast.IntLit{NodeBase: p.base(tok), Value: v}
	case TRUE:
		p.advance()
		return &ast.BoolLit{NodeBase: p.base(tok), Value: true}
	case FALSE:
		p.advance()
		return &ast.BoolLit{NodeBase: p.base(tok), Value: false}
	case STRING:
		p.advance()
		return &ast.StringLit{NodeBase: p.base(tok), Value: tok.Lexeme}
	case TILDE_STRING:
		p.advance()
		return &ast.StringLit{NodeBase: p.base(tok), Value: tok.Lexeme, Tilde: true}
	case IDENT:
		p.advance()
		if p.check(LPAREN) {
			return p.parseCallArgs(tok, tok.Lexeme)
		}
		return &ast.Ident{NodeBase: p.base(tok), Name: tok.Lexeme}
	case LPAREN:
		return p.parseParenOrTuple()
	case LBRACKET:
		return p.parseListForm()
	case DOLLAR:
		return p.parseVarCall()
	case PIPE:
		p.advance()
		inner := p.parseExpr(PrecLowest)
		p.expect(PIPE, "to close the cardinality expression")
		return &ast.CardinalityExpr{NodeBase: p.base(tok), Value: inner}
	case MINUS:
		p.advance()
		v := p.parseExpr(PrecUnary)
		return &ast.UnaryExpr{NodeBase: p.base(tok), Op: "-", Value: v}
	case NOT:
		p.advance()
		v := p.parseExpr(PrecUnary)
		return &ast.UnaryExpr{NodeBase: p.base(tok), Op: "not", Value: v}
	case IF:
		return p.parseIf()
	case LET:
		return p.parseLet()
	case MATCH:
		return p.parseMatch()
	case SUM:
		return p.parseSumForall(false)
	case FORALL:
		return p.parseSumForall(true)
	case FOLD:
		return p.parseFold(false)
	case RFOLD:
		return p.parseFold(true)
	default:
		p.errorf(tok, "unexpected token %q in expression", tok.Lexeme)
		p.advance()
		return &ast.IntLit{NodeBase: p.base(tok), Value: 0}
	}
}

func (p *Parser) parseInfix(left ast.Expr) ast.Expr {
	tok := p.peek()
	switch tok.Type {
	case DOT:
		p.advance()
		field, _ := p.expect(IDENT, "as a field name")
		return &ast.FieldAccessExpr{NodeBase: p.baseFrom(left), Target: left, Field: field.Lexeme}
	case LBRACKET:
		p.advance()
		idx := p.parseExpr(PrecLowest)
		p.expect(RBRACKET, "to close the index expression")
		checked := true
		if p.match(QUESTION) {
			checked = false
		} else {
			p.expect(BANG, "'!' or '?' after an index expression")
		}
		return &ast.IndexExpr{NodeBase: p.baseFrom(left), Target: left, Index: idx, Checked: checked}
	case AS:
		p.advance()
		t := p.parseTypeExpr()
		return &ast.AsExpr{NodeBase: p.baseFrom(left), Value: left, Type: t}
	case INTO:
		p.advance()
		t := p.parseTypeExpr()
		return &ast.IntoExpr{NodeBase: p.baseFrom(left), Value: left, Type: t}
	case CAST:
		p.advance()
		checked := false
		if p.match(BANG) {
			checked = true
		} else {
			p.expect(QUESTION, "'?' or '!' after 'cast'")
		}
		t := p.parseTypeExpr()
		return &ast.CastExpr{NodeBase: p.baseFrom(left), Value: left, Type: t, Checked: checked}
	default:
		prec := precedenceOf(tok.Type)
		p.advance()
		nextPrec := prec
		if !rightAssoc(tok.Type) {
			nextPrec = prec + 1
		}
		right := p.parseExpr(nextPrec)
		return &ast.BinaryExpr{NodeBase: p.baseFrom(left), Op: string(tok.Type), Left: left, Right: right}
	}
}

// baseFrom builds a NodeBase whose span starts where left's span started,
// for infix/postfix nodes wrapping an already-parsed sub-expression.
func (p *Parser) baseFrom(left ast.Expr) ast.NodeBase {
	return ast.NodeBase{ID: p.newID(), Span: ast.Span{Start: left.NodeSpan().Start, End: p.endPos(p.previous())}}
}

func (p *Parser) parseCallArgs(start Token, name string) ast.Expr {
	p.advance() // '('
	var args []ast.Expr
	for !p.check(RPAREN) && !p.check(EOF) {
		args = append(args, p.parseExpr(PrecLowest))
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(RPAREN, "to close the argument list")
	return &ast.CallExpr{NodeBase: p.base(start), Name: name, Args: args}
}

func (p *Parser) parseParenOrTuple() ast.Expr {
	start := p.peek()
	p.advance() // '('
	first := p.parseExpr(PrecLowest)
	if !p.check(COMMA) {
		p.expect(RPAREN, "to close the parenthesized expression")
		return first
	}
	elems := []ast.Expr{first}
	for p.match(COMMA) {
		if p.check(RPAREN) {
			break
		}
		elems = append(elems, p.parseExpr(PrecLowest))
	}
	p.expect(RPAREN, "to close the tuple expression")
	return &ast.TupleLit{NodeBase: p.base(start), Elems: elems}
}

func (p *Parser) parseVarCall() ast.Expr {
	start := p.peek()
	p.advance() // '$'
	if p.match(LBRACKET) {
		name, _ := p.expect(IDENT, "as the list script variable name")
		p.expect(RBRACKET, "to close the list script variable name")
		p.expect(LPAREN, "to begin the argument list")
		var args []ast.Expr
		for !p.check(RPAREN) && !p.check(EOF) {
			args = append(args, p.parseExpr(PrecLowest))
			if !p.match(COMMA) {
				break
			}
		}
		p.expect(RPAREN, "to close the argument list")
		return &ast.ListVarCallExpr{NodeBase: p.base(start), Name: name.Lexeme, Args: args}
	}
	name, _ := p.expect(IDENT, "as the variable name")
	p.expect(LPAREN, "to begin the argument list")
	var args []ast.Expr
	for !p.check(RPAREN) && !p.check(EOF) {
		args = append(args, p.parseExpr(PrecLowest))
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(RPAREN, "to close the argument list")
	return &ast.VarCallExpr{NodeBase: p.base(start), Name: name.Lexeme, Args: args}
}

func (p *Parser) parseListForm() ast.Expr {
	start := p.peek()
	p.advance() // '['
	if p.match(LT) {
		elem := p.parseTypeExpr()
		p.expect(GT, "to close the empty typed list annotation")
		p.expect(RBRACKET, "to close the empty typed list")
		return &ast.EmptyTypedList{NodeBase: p.base(start), Elem: elem}
	}
	if p.check(RBRACKET) {
		p.advance()
		return &ast.ListLit{NodeBase: p.base(start)}
	}
	first := p.parseExpr(PrecLowest)
	switch {
	case p.check(DOTDOT):
		p.advance()
		hi := p.parseExpr(PrecLowest)
		p.expect(RBRACKET, "to close the list range")
		return &ast.ListRange{NodeBase: p.base(start), Lo: first, Hi: hi}
	case p.check(FOR):
		var clauses []ast.ForClause
		for p.match(FOR) {
			v, _ := p.expect(IDENT, "as a comprehension loop variable")
			p.expect(IN, "after a comprehension loop variable")
			iter := p.parseExpr(PrecLowest)
			clauses = append(clauses, ast.ForClause{Var: v.Lexeme, Iter: iter})
		}
		var where ast.Expr
		if p.match(WHERE) {
			where = p.parseExpr(PrecLowest)
		}
		p.expect(RBRACKET, "to close the comprehension")
		return &ast.Comprehension{NodeBase: p.base(start), Body: first, Clauses: clauses, Where: where}
	default:
		elems := []ast.Expr{first}
		for p.match(COMMA) {
			if p.check(RBRACKET) {
				break
			}
			elems = append(elems, p.parseExpr(PrecLowest))
		}
		p.expect(RBRACKET, "to close the list literal")
		return &ast.ListLit{NodeBase: p.base(start), Elems: elems}
	}
}

func (p *Parser) parseIf() ast.Expr {
	start := p.peek()
	p.advance() // 'if'
	cond := p.parseExpr(PrecLowest)
	p.expect(LBRACE, "to begin the 'if' branch")
	then := p.parseExpr(PrecLowest)
	p.expect(RBRACE, "to close the 'if' branch")
	p.expect(ELSE, "an 'else' branch (if has no statement form)")
	p.expect(LBRACE, "to begin the 'else' branch")
	els := p.parseExpr(PrecLowest)
	p.expect(RBRACE, "to close the 'else' branch")
	return &ast.IfExpr{NodeBase: p.base(start), Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseLet() ast.Expr {
	start := p.peek()
	p.advance() // 'let'
	name, _ := p.expect(IDENT, "as the bound name")
	p.expect(ASSIGN, "after the let-bound name")
	value := p.parseExpr(PrecLowest)
	p.expect(LBRACE, "to begin the let body")
	body := p.parseExpr(PrecLowest)
	p.expect(RBRACE, "to close the let body")
	return &ast.LetExpr{NodeBase: p.base(start), Name: name.Lexeme, Value: value, Body: body}
}

func (p *Parser) parseMatch() ast.Expr {
	start := p.peek()
	p.advance() // 'match'
	scrutinee := p.parseExpr(PrecLowest)
	p.expect(LBRACE, "to begin the match arms")
	var arms []ast.MatchArm
	for !p.check(RBRACE) && !p.check(EOF) {
		arms = append(arms, p.parseMatchArm())
	}
	p.expect(RBRACE, "to close the match arms")
	return &ast.MatchExpr{NodeBase: p.base(start), Scrutinee: scrutinee, Arms: arms}
}

func (p *Parser) parseMatchArm() ast.MatchArm {
	start := p.peek()
	name, _ := p.expect(IDENT, "as the pattern binding name")

	var pat ast.Pattern
	if !p.match(AS) {
		// bare catch-all pattern: binds the scrutinee unconditionally
		var where ast.Expr
		if p.match(WHERE) {
			where = p.parseExpr(PrecLowest)
		}
		pat = &ast.CatchAllPattern{NodeBase: p.base(start), Name: name.Lexeme, Where: where}
		p.expect(LBRACE, "to begin the match arm body")
		body := p.parseExpr(PrecLowest)
		p.expect(RBRACE, "to close the match arm body")
		return ast.MatchArm{Pattern: pat, Body: body}
	}

	if p.check(LBRACKET) {
		p.advance()
		p.expect(RBRACKET, "to close 'as []' list pattern")
		var where ast.Expr
		if p.match(WHERE) {
			where = p.parseExpr(PrecLowest)
		}
		pat = &ast.ListCatchAllPattern{NodeBase: p.base(start), Name: name.Lexeme, Where: where}
	} else {
		t := p.parseTypeExpr()
		var where ast.Expr
		if p.match(WHERE) {
			where = p.parseExpr(PrecLowest)
		}
		pat = &ast.TypedPattern{NodeBase: p.base(start), Name: name.Lexeme, Type: t, Where: where}
	}
	p.expect(LBRACE, "to begin the match arm body")
	body := p.parseExpr(PrecLowest)
	p.expect(RBRACE, "to close the match arm body")
	return ast.MatchArm{Pattern: pat, Body: body}
}

func (p *Parser) parseSumForall(forall bool) ast.Expr {
	start := p.peek()
	p.advance() // 'sum'/'forall'
	v, _ := p.expect(IDENT, "as the loop variable")
	p.expect(IN, "after the loop variable")
	iter := p.parseExpr(PrecLowest)
	var where ast.Expr
	if p.match(WHERE) {
		where = p.parseExpr(PrecLowest)
	}
	p.expect(LBRACE, "to begin the loop body")
	body := p.parseExpr(PrecLowest)
	p.expect(RBRACE, "to close the loop body")
	if forall {
		return &ast.ForallExpr{NodeBase: p.base(start), Var: v.Lexeme, Iter: iter, Where: where, Body: body}
	}
	return &ast.SumExpr{NodeBase: p.base(start), Var: v.Lexeme, Iter: iter, Where: where, Body: body}
}

func (p *Parser) parseFold(right bool) ast.Expr {
	start := p.peek()
	p.advance() // 'fold'/'rfold'
	v, _ := p.expect(IDENT, "as the loop variable")
	p.expect(IN, "after the loop variable")
	iter := p.parseExpr(PrecLowest)
	p.expect(WITH, "to introduce the fold accumulator")
	acc, _ := p.expect(IDENT, "as the accumulator name")
	p.expect(ASSIGN, "after the accumulator name")
	init := p.parseExpr(PrecLowest)
	var where ast.Expr
	if p.match(WHERE) {
		where = p.parseExpr(PrecLowest)
	}
	p.expect(LBRACE, "to begin the fold body")
	body := p.parseExpr(PrecLowest)
	p.expect(RBRACE, "to close the fold body")
	return &ast.FoldExpr{NodeBase: p.base(start), Var: v.Lexeme, Iter: iter, AccName: acc.Lexeme, Init: init, Where: where, Body: body, Right: right}
}
