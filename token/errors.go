package token

import "fmt"

// ErrKind classifies a semantic error so callers can match on kind
// instead of scraping message text.
type ErrKind int

const (
	SyntaxError ErrKind = iota
	DuplicateDeclaration
	UndeclaredIdentifier
	TypeMismatch
	ArityMismatch
	IllegalControlFlow
	InvalidAssignmentTarget
	NotAFunction
)

var errKinds = [...]string{
	SyntaxError:             "SyntaxError",
	DuplicateDeclaration:    "DuplicateDeclaration",
	UndeclaredIdentifier:    "UndeclaredIdentifier",
	TypeMismatch:            "TypeMismatch",
	ArityMismatch:           "ArityMismatch",
	IllegalControlFlow:      "IllegalControlFlow",
	InvalidAssignmentTarget: "InvalidAssignmentTarget",
	NotAFunction:            "NotAFunction",
}

func (k ErrKind) String() string {
	if 0 <= k && int(k) < len(errKinds) {
		return errKinds[k]
	}
	return fmt.Sprintf("errkind(%d)", int(k))
}

// CompileError is a positioned compile diagnostic. Analysis stops at the
// first one; the parser may collect several.
type CompileError struct {
	Kind  ErrKind
	Token Token
	Msg   string
}

func (ce *CompileError) Error() string {
	return fmt.Sprintf("%d:%d: %s", ce.Token.Pos.Line, ce.Token.Pos.Column, ce.Msg)
}
