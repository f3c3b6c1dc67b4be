package lexer

import (
	"github.com/kevgregory/gitz/token"
)

type Lexer struct {
	filename     string
	input        []rune
	position     int  // current position in input (points to current rune)
	readPosition int  // current reading position in input (after current rune)
	curr         rune // current rune under examination
	line         int
	column       int
}

func New(filename, input string) *Lexer {
	l := &Lexer{
		filename: filename,
		input:    []rune(input),
		line:     1,
		column:   0,
	}
	l.readRune()
	return l
}

func (l *Lexer) Filename() string {
	return l.filename
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	for l.curr == '#' {
		l.skipComment()
		l.skipWhitespace()
	}

	pos := token.Position{Line: l.line, Column: l.column}

	var tok token.Token
	switch l.curr {
	case '=':
		tok = l.newToken(token.ASSIGN, pos)
	case '(':
		tok = l.newToken(token.LPAREN, pos)
	case ')':
		tok = l.newToken(token.RPAREN, pos)
	case '[':
		tok = l.newToken(token.LBRACK, pos)
	case ']':
		tok = l.newToken(token.RBRACK, pos)
	case '{':
		tok = l.newToken(token.LBRACE, pos)
	case '}':
		tok = l.newToken(token.RBRACE, pos)
	case ',':
		tok = l.newToken(token.COMMA, pos)
	case ':':
		tok = l.newToken(token.COLON, pos)
	case ';':
		tok = l.newToken(token.SEMICOLON, pos)
	case '<':
		// Comparisons are word operators; raw angle brackets only occur in list<T>.
		tok = l.newToken(token.LSS, pos)
	case '>':
		tok = l.newToken(token.GTR, pos)
	case '-':
		if l.peekRune() == '>' {
			l.readRune()
			tok = token.Token{Type: token.ARROW, Literal: "->", Pos: pos}
		} else {
			tok = l.newToken(token.ILLEGAL, pos)
		}
	case '"':
		literal, ok := l.readString()
		typ := token.STRING
		if !ok {
			typ = token.ILLEGAL
		}
		return token.Token{Type: typ, Literal: literal, Pos: pos}
	case 0:
		tok = token.Token{Type: token.EOF, Literal: "", Pos: pos}
	default:
		if isLetter(l.curr) {
			literal := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(literal), Literal: literal, Pos: pos}
		}
		if isDigit(l.curr) {
			return token.Token{Type: token.NUMBER, Literal: l.readNumber(), Pos: pos}
		}
		tok = l.newToken(token.ILLEGAL, pos)
	}

	l.readRune()
	return tok
}

func (l *Lexer) newToken(tokenType token.TokenType, pos token.Position) token.Token {
	return token.Token{Type: tokenType, Literal: string(l.curr), Pos: pos}
}

func (l *Lexer) skipWhitespace() {
	for l.curr == ' ' || l.curr == '\t' || l.curr == '\n' || l.curr == '\r' {
		l.readRune()
	}
}

func (l *Lexer) skipComment() {
	for l.curr != '\n' && l.curr != 0 {
		l.readRune()
	}
}

func (l *Lexer) readRune() {
	if l.curr == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.curr = 0
	} else {
		l.curr = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekRune() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.curr) || isDigit(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.curr) {
		l.readRune()
	}
	if l.curr == '.' && isDigit(l.peekRune()) {
		l.readRune()
		for isDigit(l.curr) {
			l.readRune()
		}
	}
	return string(l.input[position:l.position])
}

// readString consumes a double-quoted string literal, resolving the
// escapes \n \t \" \\. Returns ok=false for an unterminated literal.
func (l *Lexer) readString() (string, bool) {
	var out []rune
	l.readRune() // consume opening quote
	for l.curr != '"' {
		if l.curr == 0 || l.curr == '\n' {
			return string(out), false
		}
		if l.curr == '\\' {
			l.readRune()
			switch l.curr {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, '\\', l.curr)
			}
			l.readRune()
			continue
		}
		out = append(out, l.curr)
		l.readRune()
	}
	l.readRune() // consume closing quote
	return string(out), true
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
