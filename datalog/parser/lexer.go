package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Lexer tokenizes Datalog rule input
type Lexer struct {
	input   string
	pos     int
	line    int
	col     int
	tokens  []Token
	current int
}

// NewLexer creates a new lexer for the given input. The input is brought
// into Unicode NFC so that identically rendered identifiers compare equal.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:   norm.NFC.String(input),
		pos:     0,
		line:    1,
		col:     1,
		tokens:  []Token{},
		current: 0,
	}
}

// Lex tokenizes the entire input
func (l *Lexer) Lex() error {
	for l.pos < len(l.input) {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.input) {
			break
		}

		startLine := l.line
		startCol := l.col

		ch := l.peek()
		switch {
		case ch == '"':
			str, err := l.readString()
			if err != nil {
				return err
			}
			l.emit(TokenString, str, startLine, startCol)
		case ch == '(':
			l.advance()
			l.emit(TokenLeftParen, "", startLine, startCol)
		case ch == ')':
			l.advance()
			l.emit(TokenRightParen, "", startLine, startCol)
		case ch == ',':
			l.advance()
			l.emit(TokenComma, "", startLine, startCol)
		case ch == '.':
			l.advance()
			l.emit(TokenDot, "", startLine, startCol)
		case ch == ':':
			l.advance()
			if l.peek() != '-' {
				return syntaxErrorf(startLine, startCol, "expected ':-'")
			}
			l.advance()
			l.emit(TokenImplies, ":-", startLine, startCol)
		case ch == '<' || ch == '>':
			l.advance()
			op := string(ch)
			if l.peek() == '=' {
				l.advance()
				op += "="
			}
			l.emit(TokenComparator, op, startLine, startCol)
		case ch == '-' || isDigit(ch):
			num, err := l.readNumber()
			if err != nil {
				return err
			}
			l.emit(TokenNumber, num, startLine, startCol)
		default:
			ident := l.readIdent()
			switch ident {
			case "":
				r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
				return syntaxErrorf(startLine, startCol, "unexpected character '%c'", r)
			case "_":
				l.emit(TokenWildcard, ident, startLine, startCol)
			default:
				l.emit(TokenIdent, ident, startLine, startCol)
			}
		}
	}

	l.emit(TokenEOF, "", l.line, l.col)
	return nil
}

func (l *Lexer) emit(t TokenType, value string, line, col int) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Line: line, Col: col})
}

// NextToken returns the next token
func (l *Lexer) NextToken() Token {
	if l.current >= len(l.tokens) {
		return Token{Type: TokenEOF, Line: l.line, Col: l.col}
	}
	token := l.tokens[l.current]
	l.current++
	return token
}

// PeekToken returns the next token without advancing
func (l *Lexer) PeekToken() Token {
	if l.current >= len(l.tokens) {
		return Token{Type: TokenEOF, Line: l.line, Col: l.col}
	}
	return l.tokens[l.current]
}

// peek returns the current byte without advancing
func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// advance moves past the current rune
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
		l.pos++
		return
	}
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	l.col++
}

// skipWhitespaceAndComments skips whitespace and % or # line comments
func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		if unicode.IsSpace(rune(ch)) {
			l.advance()
		} else if ch == '%' || ch == '#' {
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		} else {
			break
		}
	}
}

// readString reads a double-quoted string literal
func (l *Lexer) readString() (string, error) {
	var result strings.Builder
	line, col := l.line, l.col
	l.advance() // skip opening quote

	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == '"' {
			l.advance()
			return result.String(), nil
		} else if ch == '\\' {
			l.advance()
			if l.pos >= len(l.input) {
				break
			}
			escaped := l.peek()
			switch escaped {
			case '\\', '"':
				result.WriteByte(escaped)
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			default:
				return "", syntaxErrorf(l.line, l.col, "invalid escape sequence '\\%c'", escaped)
			}
			l.advance()
		} else {
			_, size := utf8.DecodeRuneInString(l.input[l.pos:])
			result.WriteString(l.input[l.pos : l.pos+size])
			l.advance()
		}
	}

	return "", syntaxErrorf(line, col, "unterminated string")
}

// readNumber reads an optionally signed integer or decimal literal
func (l *Lexer) readNumber() (string, error) {
	start := l.pos
	line, col := l.line, l.col
	if l.peek() == '-' {
		l.advance()
	}
	digits := 0
	for isDigit(l.peek()) {
		l.advance()
		digits++
	}
	if l.peek() == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if digits == 0 {
		return "", syntaxErrorf(line, col, "malformed number")
	}
	return l.input[start:l.pos], nil
}

// readIdent reads an identifier: a letter or underscore followed by
// letters, digits, underscores or the prime marker '
func (l *Lexer) readIdent() string {
	start := l.pos
	for l.pos < len(l.input) {
		r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
		first := l.pos == start
		if unicode.IsLetter(r) || r == '_' || (!first && (unicode.IsDigit(r) || r == '\'')) {
			l.advance()
			continue
		}
		break
	}
	return l.input[start:l.pos]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
