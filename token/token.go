package token

import "strconv"

type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	COMMENT

	literal_beg
	// Identifiers + literals
	IDENT  // x, greet, total
	NUMBER // 1343456, 123.45
	STRING // "abc"
	literal_end

	operator_beg
	ASSIGN // =

	// Word operators, grouped by precedence level.
	OR  // or
	AND // and

	comparison_beg
	EQL // equals
	NEQ // differs
	LSS // smaller
	GTR // larger
	LEQ // atMost
	GEQ // atLeast
	comparison_end

	ADD   // plus
	SUB   // minus
	MUL   // times
	QUO   // over
	REM   // mod
	POW   // power
	NOT   // not
	ARROW // ->

	LPAREN // (
	LBRACK // [
	LBRACE // {
	RPAREN // )
	RBRACK // ]
	RBRACE // }

	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	operator_end

	keyword_beg
	MAKE   // Make
	SHOW   // Show
	GIVE   // give
	WHEN   // When
	ORWHEN // orWhen
	ORELSE // orElse
	KEEP   // Keep
	IN     // in
	BREAK  // Break
	SKIP   // Skip
	SAY    // say
	TRY    // Try
	CATCH  // Catch
	TRUE   // true
	FALSE  // false
	keyword_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	COMMENT: "COMMENT",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	ASSIGN: "=",

	OR:  "or",
	AND: "and",

	EQL: "equals",
	NEQ: "differs",
	LSS: "smaller",
	GTR: "larger",
	LEQ: "atMost",
	GEQ: "atLeast",

	ADD:   "plus",
	SUB:   "minus",
	MUL:   "times",
	QUO:   "over",
	REM:   "mod",
	POW:   "power",
	NOT:   "not",
	ARROW: "->",

	LPAREN: "(",
	LBRACK: "[",
	LBRACE: "{",
	RPAREN: ")",
	RBRACK: "]",
	RBRACE: "}",

	COMMA:     ",",
	COLON:     ":",
	SEMICOLON: ";",

	MAKE:   "Make",
	SHOW:   "Show",
	GIVE:   "give",
	WHEN:   "When",
	ORWHEN: "orWhen",
	ORELSE: "orElse",
	KEEP:   "Keep",
	IN:     "in",
	BREAK:  "Break",
	SKIP:   "Skip",
	SAY:    "say",
	TRY:    "Try",
	CATCH:  "Catch",
	TRUE:   "true",
	FALSE:  "false",
}

var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType)
	for t := keyword_beg + 1; t < keyword_end; t++ {
		m[tokens[t]] = t
	}
	// Word operators lex through the identifier path too.
	for _, t := range []TokenType{OR, AND, EQL, NEQ, LSS, GTR, LEQ, GEQ, ADD, SUB, MUL, QUO, REM, POW, NOT} {
		m[tokens[t]] = t
	}
	return m
}()

// LookupIdent maps an identifier literal to its keyword or word-operator
// token type, or IDENT if it is a plain name.
func LookupIdent(ident string) TokenType {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Position is a line:column location in the source, both 1-based.
type Position struct {
	Line   int
	Column int
}

type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) IsComparison() bool {
	return comparison_beg < t.Type && t.Type < comparison_end
}

func (t Token) IsLiteral() bool {
	return literal_beg < t.Type && t.Type < literal_end
}

func (t Token) String() string {
	return t.Type.String()
}

func (tokenType TokenType) String() string {
	s := ""
	if 0 <= tokenType && tokenType < TokenType(len(tokens)) {
		s = tokens[tokenType]
	}

	if s == "" {
		s = "token(" + strconv.Itoa(int(tokenType)) + ")"
	}

	return s
}
