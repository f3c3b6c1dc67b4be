package parser

import (
	"fmt"
	"strconv"

	"github.com/kevgregory/gitz/ast"
	"github.com/kevgregory/gitz/lexer"
	"github.com/kevgregory/gitz/token"
)

// Precedence levels, loosest binding first.
const (
	_ int = iota
	LOWEST
	LOGIC_OR  // or
	LOGIC_AND // and
	EQUALS    // equals, differs
	COMPARE   // smaller, larger, atMost, atLeast
	SUM       // plus, minus
	PRODUCT   // times, over, mod
	POWER     // power
	PREFIX    // minus x, not x
	CALL      // f(x), xs[i]
)

var precedences = map[token.TokenType]int{
	token.OR:     LOGIC_OR,
	token.AND:    LOGIC_AND,
	token.EQL:    EQUALS,
	token.NEQ:    EQUALS,
	token.LSS:    COMPARE,
	token.GTR:    COMPARE,
	token.LEQ:    COMPARE,
	token.GEQ:    COMPARE,
	token.ADD:    SUM,
	token.SUB:    SUM,
	token.MUL:    PRODUCT,
	token.QUO:    PRODUCT,
	token.REM:    PRODUCT,
	token.POW:    POWER,
	token.LPAREN: CALL,
	token.LBRACK: CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	errors []*token.CompileError

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []*token.CompileError{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.SUB, p.parsePrefixExpression)
	p.registerPrefix(token.NOT, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACK, p.parseListLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, t := range []token.TokenType{
		token.OR, token.AND,
		token.EQL, token.NEQ,
		token.LSS, token.GTR, token.LEQ, token.GEQ,
		token.ADD, token.SUB,
		token.MUL, token.QUO, token.REM,
		token.POW,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.LBRACK, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) Errors() []*token.CompileError {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.errors = append(p.errors, &token.CompileError{
		Kind:  token.SyntaxError,
		Token: p.peekToken,
		Msg:   fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken),
	})
}

func (p *Parser) errorAt(tok token.Token, kind token.ErrKind, format string, args ...any) {
	p.errors = append(p.errors, &token.CompileError{
		Kind:  kind,
		Token: tok,
		Msg:   fmt.Sprintf(format, args...),
	})
}

// ParseProgram parses the whole unit. Callers must check Errors() before
// using the returned tree; analysis never runs over a failed parse.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return program
}

// synchronize skips ahead to the next statement boundary after a syntax
// error so one mistake does not cascade.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.SEMICOLON) && !p.curTokenIs(token.RBRACE) {
		p.nextToken()
	}
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.MAKE:
		return p.parseMakeStatement()
	case token.SHOW:
		return p.parseShowStatement()
	case token.GIVE:
		return p.parseGiveStatement()
	case token.WHEN:
		return p.parseWhenStatement()
	case token.KEEP:
		return p.parseKeepStatement()
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		return stmt
	case token.SKIP:
		stmt := &ast.SkipStatement{Token: p.curToken}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
		return stmt
	case token.SAY:
		return p.parseSayStatement()
	case token.TRY:
		return p.parseTryStatement()
	default:
		return p.parseAssignStatement()
	}
}

// Make x: num = 1;  /  Make xs: list<num>;
func (p *Parser) parseMakeStatement() ast.Statement {
	stmt := &ast.MakeStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	stmt.Type = p.parseTypeNode()
	if stmt.Type == nil {
		return nil
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// Show f(a: num, b: text) -> num { ... }
func (p *Parser) parseShowStatement() ast.Statement {
	stmt := &ast.ShowStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Params = p.parseParams()
	if stmt.Params == nil {
		return nil
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		stmt.Result = p.parseTypeNode()
		if stmt.Result == nil {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseParams() []*ast.Param {
	params := []*ast.Param{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		param := &ast.Param{
			Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		param.Type = p.parseTypeNode()
		if param.Type == nil {
			return nil
		}
		params = append(params, param)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseGiveStatement() ast.Statement {
	stmt := &ast.GiveStatement{Token: p.curToken}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhenStatement() ast.Statement {
	stmt := &ast.WhenStatement{Token: p.curToken}

	p.nextToken()
	stmt.Test = p.parseExpression(LOWEST)
	if stmt.Test == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequent = p.parseBlockStatement()

	for p.peekTokenIs(token.ORWHEN) {
		p.nextToken()
		ow := &ast.OrWhen{Token: p.curToken}
		p.nextToken()
		ow.Test = p.parseExpression(LOWEST)
		if ow.Test == nil {
			return nil
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		ow.Body = p.parseBlockStatement()
		stmt.OrWhens = append(stmt.OrWhens, ow)
	}

	if p.peekTokenIs(token.ORELSE) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Alternate = p.parseBlockStatement()
	}

	return stmt
}

// Keep t { ... }  /  Keep x in xs { ... }
func (p *Parser) parseKeepStatement() ast.Statement {
	keepTok := p.curToken
	p.nextToken()

	// the for-each form is distinguished by "<ident> in" after Keep
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.IN) {
		name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		p.nextToken() // onto 'in'
		p.nextToken()
		stmt := &ast.KeepEachStatement{Token: keepTok, Name: name}
		stmt.Iterable = p.parseExpression(LOWEST)
		if stmt.Iterable == nil {
			return nil
		}
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Body = p.parseBlockStatement()
		return stmt
	}

	stmt := &ast.KeepWhileStatement{Token: keepTok}
	stmt.Test = p.parseExpression(LOWEST)
	if stmt.Test == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseSayStatement() ast.Statement {
	stmt := &ast.SayStatement{Token: p.curToken}

	p.nextToken()
	stmt.Args = p.parseExpressionList(token.SEMICOLON)
	if stmt.Args == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	if !p.expectPeek(token.CATCH) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.CatchName = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.CatchBody = p.parseBlockStatement()
	return stmt
}

// x = expr;  /  xs[i] = expr;
func (p *Parser) parseAssignStatement() ast.Statement {
	target := p.parseExpression(LOWEST)
	if target == nil {
		return nil
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	assignTok := p.curToken

	switch target.(type) {
	case *ast.Identifier, *ast.IndexExpression:
	default:
		p.errorAt(target.Tok(), token.InvalidAssignmentTarget,
			"cannot assign to %q", target.String())
		return nil
	}

	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return &ast.AssignStatement{Token: assignTok, Target: target, Value: value}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errorAt(p.curToken, token.SyntaxError, "expected } to close block")
	}
	return block
}

// Type syntax: num | text | bool | void | any | list<T>
func (p *Parser) parseTypeNode() ast.TypeNode {
	if !p.curTokenIs(token.IDENT) {
		p.errorAt(p.curToken, token.SyntaxError, "expected a type name, got %s", p.curToken)
		return nil
	}

	if p.curToken.Literal == "list" {
		lt := &ast.ListType{Token: p.curToken}
		if !p.expectPeek(token.LSS) {
			return nil
		}
		p.nextToken()
		lt.Elem = p.parseTypeNode()
		if lt.Elem == nil {
			return nil
		}
		if !p.expectPeek(token.GTR) {
			return nil
		}
		return lt
	}

	return &ast.NamedType{Token: p.curToken, Name: p.curToken.Literal}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorAt(p.curToken, token.SyntaxError, "unexpected token %s in expression", p.curToken)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := &ast.NumberLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorAt(p.curToken, token.SyntaxError, "could not parse %q as number", p.curToken.Literal)
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseListLiteral() ast.Expression {
	lit := &ast.ListLiteral{Token: p.curToken}
	if p.peekTokenIs(token.RBRACK) {
		p.nextToken()
		lit.Elements = []ast.Expression{}
		return lit
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	lit.Elements = append(lit.Elements, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		el := p.parseExpression(LOWEST)
		if el == nil {
			return nil
		}
		lit.Elements = append(lit.Elements, el)
	}

	if !p.expectPeek(token.RBRACK) {
		return nil
	}
	return lit
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	ident, ok := function.(*ast.Identifier)
	if !ok {
		p.errorAt(function.Tok(), token.SyntaxError,
			"call target must be a name, got %q", function.String())
		return nil
	}

	exp := &ast.CallExpression{Token: p.curToken, Function: ident}
	exp.Arguments = p.parseExpressionList(token.RPAREN)
	if exp.Arguments == nil {
		return nil
	}
	return exp
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if exp.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACK) {
		return nil
	}
	return exp
}

// parseExpressionList parses a comma-separated list terminated by end.
// For RPAREN the terminator is consumed; for SEMICOLON likewise.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	args := []ast.Expression{}

	if p.curTokenIs(end) {
		return args
	}
	if p.peekTokenIs(end) && end == token.RPAREN {
		p.nextToken()
		return args
	}

	if end == token.RPAREN {
		p.nextToken()
	}
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	args = append(args, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}

	if !p.expectPeek(end) {
		return nil
	}
	return args
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}
