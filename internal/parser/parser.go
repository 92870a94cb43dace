// Package parser implements ColloML's lexer and recursive-descent/Pratt
// parser: it tokenizes source text and builds an internal/ast tree with
// span information, reporting syntactic errors without attempting any
// semantic validation (that is internal/check's job). Grounded on
// kanso-lang-kanso/internal/parser's scanner+Pratt-parser architecture;
// see DESIGN.md for why the participle-based grammar/ package was not
// used instead.
package parser

import (
	"fmt"
	"strconv"

	"colloml/internal/ast"
)

// Parser consumes a token stream produced by Scanner and builds an
// internal/ast.Module, accumulating ParseErrors rather than halting at
// the first one.
type Parser struct {
	module string
	tokens []Token
	pos    int
	errors []ParseError
	nextID ast.NodeID
}

// ParseModule tokenizes and parses a single named source string into a
// Module. moduleName becomes the Module field of every Position the
// parser produces.
func ParseModule(moduleName, source string) (*ast.Module, []ParseError) {
	sc := NewScanner(source)
	tokens, scanErrs := sc.ScanTokens()

	p := &Parser{module: moduleName, tokens: tokens}
	for _, se := range scanErrs {
		pos := ast.Position{Module: moduleName, Offset: se.Offset, Line: se.Line, Column: se.Column}
		p.errors = append(p.errors, ParseError{Span: ast.Span{Start: pos, End: pos}, Message: se.Message})
	}

	mod := &ast.Module{Name: moduleName}
	for !p.check(EOF) {
		decl := p.parseDecl()
		if decl == nil {
			p.synchronize()
			continue
		}
		mod.Decls = append(mod.Decls, decl)
	}
	return mod, p.errors
}

// --- token stream helpers ---

func (p *Parser) peek() Token  { return p.tokens[p.pos] }
func (p *Parser) previous() Token {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) check(t TokenType) bool { return p.peek().Type == t }

func (p *Parser) advance() Token {
	if !p.check(EOF) {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(t TokenType, context string) (Token, bool) {
	if p.check(t) {
		return p.advance(), true
	}
	tok := p.peek()
	p.errorf(tok, "expected %s %s, found %q", t, context, tok.Lexeme)
	return tok, false
}

func (p *Parser) errorf(tok Token, format string, args ...any) {
	pos := p.posOf(tok)
	p.errors = append(p.errors, ParseError{Span: ast.Span{Start: pos, End: pos}, Message: fmt.Sprintf(format, args...)})
}

// synchronize discards tokens until a plausible declaration boundary so
// parsing can continue after an error (spec.md §4.1: "surfaces all it
// can before stopping").
func (p *Parser) synchronize() {
	for !p.check(EOF) {
		if p.previous().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case LET, REIFY, ENUM:
			return
		}
		p.advance()
	}
}

func (p *Parser) posOf(t Token) ast.Position {
	return ast.Position{Module: p.module, Offset: t.Offset, Line: t.Line, Column: t.Column}
}

func (p *Parser) endPos(t Token) ast.Position {
	n := len([]rune(t.Lexeme))
	if n == 0 {
		n = 1
	}
	return ast.Position{Module: p.module, Offset: t.Offset + n, Line: t.Line, Column: t.Column + n}
}

func (p *Parser) newID() ast.NodeID {
	p.nextID++
	return p.nextID
}

// base builds a NodeBase spanning from the token that began the node to
// the last token consumed so far.
func (p *Parser) base(start Token) ast.NodeBase {
	return ast.NodeBase{ID: p.newID(), Span: ast.Span{Start: p.posOf(start), End: p.endPos(p.previous())}}
}

// --- declarations ---

func (p *Parser) parseDecl() ast.Decl {
	switch p.peek().Type {
	case REIFY:
		return p.parseReifyDecl()
	case ENUM:
		return p.parseEnumDecl()
	case LET, PUB:
		return p.parseFunctionDecl()
	default:
		tok := p.peek()
		p.errorf(tok, "expected a declaration (let, reify, or enum), found %q", tok.Lexeme)
		p.advance()
		return nil
	}
}

func (p *Parser) parseFunctionDecl() ast.Decl {
	start := p.peek()
	pub := p.match(PUB)
	if _, ok := p.expect(LET, "to begin a function declaration"); !ok {
		return nil
	}
	name, ok := p.expect(IDENT, "as the function name")
	if !ok {
		return nil
	}
	if _, ok := p.expect(LPAREN, "to begin the parameter list"); !ok {
		return nil
	}
	var params []ast.Param
	for !p.check(RPAREN) && !p.check(EOF) {
		pname, ok := p.expect(IDENT, "as a parameter name")
		if !ok {
			break
		}
		if _, ok := p.expect(COLON, "after parameter name"); !ok {
			break
		}
		ptype := p.parseTypeExpr()
		params = append(params, ast.Param{Name: pname.Lexeme, Type: ptype})
		if !p.match(COMMA) {
			break
		}
	}
	p.expect(RPAREN, "to close the parameter list")
	p.expect(ARROW, "before the return type")
	ret := p.parseTypeExpr()
	p.expect(ASSIGN, "before the function body")
	body := p.parseExpr(PrecLowest)
	p.expect(SEMICOLON, "to terminate the function declaration")

	return &ast.FunctionDecl{
		NodeBase: p.base(start),
		Pub:      pub,
		Name:     name.Lexeme,
		Params:   params,
		Return:   ret,
		Body:     body,
	}
}

func (p *Parser) parseReifyDecl() ast.Decl {
	start := p.peek()
	p.advance() // 'reify'
	fname, _ := p.expect(IDENT, "as the function being reified")
	p.expect(AS, "after the reified function name")
	p.expect(DOLLAR, "before the script variable name")
	list := false
	var vname Token
	if p.match(LBRACKET) {
		list = true
		vname, _ = p.expect(IDENT, "as the list script variable name")
		p.expect(RBRACKET, "to close the list script variable name")
	} else {
		vname, _ = p.expect(IDENT, "as the script variable name")
	}
	p.expect(SEMICOLON, "to terminate the reify declaration")
	return &ast.ReifyDecl{NodeBase: p.base(start), FuncName: fname.Lexeme, VarName: vname.Lexeme, List: list}
}

func (p *Parser) parseEnumDecl() ast.Decl {
	start := p.peek()
	p.advance() // 'enum'
	name, _ := p.expect(IDENT, "as the enum type name")
	p.expect(SEMICOLON, "to terminate the enum declaration")
	return &ast.EnumDecl{NodeBase: p.base(start), Name: name.Lexeme}
}

// --- type syntax ---

var simpleTypeNames = map[string]bool{
	"Int": true, "Bool": true, "String": true,
	"LinExpr": true, "Constraint": true, "None": true,
}

// IsSimpleTypeName reports whether name denotes one of the six built-in
// simple types rather than a host object type.
func IsSimpleTypeName(name string) bool { return simpleTypeNames[name] }

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	t := p.parseTypeAtom()
	if p.check(PIPE) {
		start := p.peek()
		variants := []ast.TypeExpr{t}
		for p.match(PIPE) {
			variants = append(variants, p.parseTypeAtom())
		}
		return &ast.UnionTypeExpr{NodeBase: p.base(start), Variants: variants}
	}
	return t
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	start := p.peek()
	switch {
	case p.check(QUESTION):
		p.advance()
		inner := p.parseTypeAtom()
		return &ast.MaybeTypeExpr{NodeBase: p.base(start), Inner: inner}
	case p.check(LBRACKET):
		p.advance()
		elem := p.parseTypeExpr()
		p.expect(RBRACKET, "to close the list type")
		return &ast.ListTypeExpr{NodeBase: p.base(start), Elem: elem}
	case p.check(LPAREN):
		p.advance()
		var elems []ast.TypeExpr
		elems = append(elems, p.parseTypeExpr())
		for p.match(COMMA) {
			elems = append(elems, p.parseTypeExpr())
		}
		p.expect(RPAREN, "to close the tuple type")
		if len(elems) < 2 {
			p.errorf(start, "tuple type needs at least two elements")
		}
		return &ast.TupleTypeExpr{NodeBase: p.base(start), Elems: elems}
	case p.check(IDENT):
		name := p.advance()
		return &ast.SimpleTypeExpr{NodeBase: p.base(start), Name: name.Lexeme}
	default:
		p.errorf(start, "expected a type, found %q", start.Lexeme)
		p.advance()
		return &ast.SimpleTypeExpr{NodeBase: p.base(start), Name: "None"}
	}
}

// parseIntLiteral is used by list ranges and elsewhere where an
// already-scanned INT token needs converting.
func parseIntLiteral(lexeme string) (int64, error) {
	return strconv.ParseInt(lexeme, 10, 64)
}
