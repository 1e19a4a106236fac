// Package parser reads conjunctive queries and views written as Datalog
// rules, e.g.
//
//	Q(x,y) :- e1(x,y), e2(y,z,"paris"), y > 23.
//
// Identifiers are variables, numbers and double-quoted strings are
// constants, and _ is the wildcard. The trailing dot is optional.
package parser

import (
	"github.com/cockroachdb/errors"

	"github.com/wbrown/janus-minicon/datalog/query"
)

// Parser turns a token stream into a query
type Parser struct {
	lexer *Lexer
}

// ParseQuery parses a single Datalog rule
func ParseQuery(input string) (*query.Query, error) {
	lexer := NewLexer(input)
	if err := lexer.Lex(); err != nil {
		return nil, err
	}
	p := &Parser{lexer: lexer}

	q, err := p.parseRule()
	if err != nil {
		return nil, err
	}
	if tok := p.lexer.PeekToken(); tok.Type == TokenDot {
		p.lexer.NextToken()
	}
	if tok := p.lexer.NextToken(); tok.Type != TokenEOF {
		return nil, syntaxErrorf(tok.Line, tok.Col, "unexpected %s after rule", tok)
	}
	if err := validate(q); err != nil {
		return nil, err
	}
	return q, nil
}

// ParseViews parses one rule per input. Errors name the failing view. Each
// wildcard in a view body becomes a fresh existential variable.
func ParseViews(inputs []string) ([]*query.Query, error) {
	views := make([]*query.Query, 0, len(inputs))
	for i, input := range inputs {
		v, err := ParseQuery(input)
		if err != nil {
			return nil, errors.Wrapf(err, "view %d", i+1)
		}
		views = append(views, v.NameWildcards())
	}
	return views, nil
}

func (p *Parser) expect(t TokenType, what string) (Token, error) {
	tok := p.lexer.NextToken()
	if tok.Type != t {
		return tok, syntaxErrorf(tok.Line, tok.Col, "expected %s, got %s", what, tok)
	}
	return tok, nil
}

// parseRule parses Head :- Literal, Literal, ...
func (p *Parser) parseRule() (*query.Query, error) {
	name, err := p.expect(TokenIdent, "rule name")
	if err != nil {
		return nil, err
	}
	head, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	for _, h := range head {
		if !h.IsVariable() {
			return nil, syntaxErrorf(name.Line, name.Col, "head of %s may only contain variables, got %s", name.Value, h)
		}
	}

	q := &query.Query{Name: name.Value, Head: head}

	if _, err := p.expect(TokenImplies, "':-'"); err != nil {
		return nil, err
	}

	for {
		if err := p.parseLiteral(q); err != nil {
			return nil, err
		}
		if p.lexer.PeekToken().Type != TokenComma {
			return q, nil
		}
		p.lexer.NextToken()
	}
}

// parseArguments parses ( term, term, ... )
func (p *Parser) parseArguments() ([]query.Element, error) {
	if _, err := p.expect(TokenLeftParen, "'('"); err != nil {
		return nil, err
	}
	var elems []query.Element
	if p.lexer.PeekToken().Type == TokenRightParen {
		p.lexer.NextToken()
		return elems, nil
	}
	for {
		e, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)

		tok := p.lexer.NextToken()
		switch tok.Type {
		case TokenComma:
			continue
		case TokenRightParen:
			return elems, nil
		default:
			return nil, syntaxErrorf(tok.Line, tok.Col, "expected ',' or ')', got %s", tok)
		}
	}
}

func (p *Parser) parseTerm() (query.Element, error) {
	tok := p.lexer.NextToken()
	switch tok.Type {
	case TokenIdent:
		return query.Var(tok.Value), nil
	case TokenNumber:
		return query.Num(tok.Value), nil
	case TokenString:
		return query.Str(tok.Value), nil
	case TokenWildcard:
		return query.Wildcard, nil
	default:
		return query.Element{}, syntaxErrorf(tok.Line, tok.Col, "expected term, got %s", tok)
	}
}

// parseLiteral parses either a relational literal p(...) or a comparison
// term op term, and appends it to q.
func (p *Parser) parseLiteral(q *query.Query) error {
	start := p.lexer.PeekToken()
	left, err := p.parseTerm()
	if err != nil {
		return err
	}

	next := p.lexer.PeekToken()
	if next.Type == TokenLeftParen && start.Type == TokenIdent {
		args, err := p.parseArguments()
		if err != nil {
			return err
		}
		q.Body = append(q.Body, query.NewPredicate(start.Value, args...))
		return nil
	}

	opTok, err := p.expect(TokenComparator, "'(' or comparison operator")
	if err != nil {
		return err
	}
	op, err := query.ParseComparator(opTok.Value)
	if err != nil {
		return syntaxErrorf(opTok.Line, opTok.Col, "%v", err)
	}
	right, err := p.parseTerm()
	if err != nil {
		return err
	}
	if left.IsVariable() == right.IsVariable() {
		return syntaxErrorf(start.Line, start.Col, "comparison must have exactly one variable side")
	}
	if left.IsWildcard() || right.IsWildcard() {
		return syntaxErrorf(start.Line, start.Col, "wildcard in comparison")
	}
	q.Interpreted = append(q.Interpreted, query.NewInterpretedPredicate(left, op, right))
	return nil
}

// validate checks the rule properties the rewriting relies on
func validate(q *query.Query) error {
	if len(q.Body) == 0 {
		return errors.Wrapf(ErrSyntax, "%s has no relational subgoal", q.Name)
	}
	seen := make(map[query.Element]bool, len(q.Head))
	for _, h := range q.Head {
		if seen[h] {
			return errors.Wrapf(ErrSyntax, "%s repeats head variable %s", q.Name, h)
		}
		seen[h] = true

		found := false
		for _, p := range q.Body {
			if p.Contains(h) {
				found = true
				break
			}
		}
		if !found {
			return errors.Wrapf(ErrSyntax, "head variable %s of %s does not occur in the body", h, q.Name)
		}
	}
	return nil
}
