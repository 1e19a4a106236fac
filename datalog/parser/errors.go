package parser

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrSyntax marks every error produced while lexing or parsing a rule
var ErrSyntax = errors.New("syntax error")

// SyntaxError is a parse failure at a position of the input
type SyntaxError struct {
	Line int
	Col  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %d:%d", e.Msg, e.Line, e.Col)
}

func syntaxErrorf(line, col int, format string, args ...interface{}) error {
	return errors.Mark(&SyntaxError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}, ErrSyntax)
}
