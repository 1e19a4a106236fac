package parser

import "fmt"

// TokenType represents the type of a rule token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenNumber
	TokenString
	TokenWildcard
	TokenLeftParen
	TokenRightParen
	TokenComma
	TokenImplies
	TokenComparator
	TokenDot
)

// Token represents a lexical token of a Datalog rule
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return fmt.Sprintf("EOF[%d:%d]", t.Line, t.Col)
	case TokenIdent:
		return fmt.Sprintf("Ident[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenNumber:
		return fmt.Sprintf("Number[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenString:
		return fmt.Sprintf("String[%d:%d]:%q", t.Line, t.Col, t.Value)
	case TokenWildcard:
		return fmt.Sprintf("Wildcard[%d:%d]", t.Line, t.Col)
	case TokenLeftParen:
		return fmt.Sprintf("LeftParen[%d:%d]", t.Line, t.Col)
	case TokenRightParen:
		return fmt.Sprintf("RightParen[%d:%d]", t.Line, t.Col)
	case TokenComma:
		return fmt.Sprintf("Comma[%d:%d]", t.Line, t.Col)
	case TokenImplies:
		return fmt.Sprintf("Implies[%d:%d]", t.Line, t.Col)
	case TokenComparator:
		return fmt.Sprintf("Comparator[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenDot:
		return fmt.Sprintf("Dot[%d:%d]", t.Line, t.Col)
	default:
		return fmt.Sprintf("Unknown[%d:%d]:%s", t.Line, t.Col, t.Value)
	}
}
