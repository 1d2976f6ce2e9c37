package expression

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/samber/lo"
)

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("PAR5ER_EXPRESSION_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

// SetDebugOutput toggles the token and tree dumps of ParseExpr and Parse.
// Call it before parsing starts.
func SetDebugOutput(enabled bool) {
	parserDebugLog = enabled
}

// Grammar, from the lowest precedence:
//
//	expression := term (("+"|"-") term)*
//	term       := unary (("*"|"/") unary)*
//	unary      := "-" unary | power
//	power      := primary ("^" unary)?
//	primary    := NUMBER | "(" expression ")"
type parser struct {
	tokens []Token
	pos    int
	debug  bool
}

func ParseExpr(source string) (Expr, error) {
	return parseSource(source, parserDebugLog)
}

func ParseExprWithDebugOutput(source string) (Expr, error) {
	return parseSource(source, true)
}

func parseSource(source string, debug bool) (Expr, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	if debug {
		pp.Println(source)
		pp.Println(tokens)
	}

	p := &parser{tokens: tokens, debug: debug}
	expr, err := p.parse()
	if err != nil {
		return nil, err
	}
	if debug {
		log.Println(expr.String())
	}
	return expr, nil
}

// Parse builds the tree for a token sequence as produced by Tokenize.
// A missing EndOfInputToken sentinel is tolerated. Grammar errors are
// *ParseError; a NumberToken whose Text is not a number fails with a
// wrapped strconv error.
func Parse(tokens []Token) (Expr, error) {
	p := &parser{tokens: tokens, debug: parserDebugLog}
	return p.parse()
}

func (p *parser) parse() (Expr, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EndOfInputToken); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}

	end := 0
	if len(p.tokens) != 0 {
		last := p.tokens[len(p.tokens)-1]
		end = last.Pos + len(last.Text)
	}
	return Token{Kind: EndOfInputToken, Pos: end}
}

func (p *parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	if p.debug {
		log.Println("consume token: ", tok)
	}
	return tok
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	if tok := p.current(); tok.Kind != kind {
		return tok, &ParseError{Kind: Expected, Wanted: kind, Got: tok.Kind, Pos: tok.Pos}
	}
	return p.advance(), nil
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseLeftAssoc(p.parseTerm, PlusToken, MinusToken)
}

func (p *parser) parseTerm() (Expr, error) {
	return p.parseLeftAssoc(p.parseUnary, MultiplyToken, DivideToken)
}

func (p *parser) parseLeftAssoc(operand func() (Expr, error), kinds ...TokenKind) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for p.currentIs(kinds...) {
		op := binaryOperatorTokenKinds[p.advance().Kind]
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.current().Kind == MinusToken {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: Negate, Operand: operand}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.current().Kind != PowerToken {
		return base, nil
	}

	p.advance()
	// the exponent re-enters unary, so 2^-3 is legal and 2^3^2 nests to the right
	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Left: base, Op: Pow, Right: exponent}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	switch tok := p.current(); tok.Kind {
	case NumberToken:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("invalid number %q at %d: %w", tok.Text, tok.Pos, err)
		}
		return &NumberLiteral{Value: v}, nil

	case LeftParenToken:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RightParenToken); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, &ParseError{Kind: UnexpectedToken, Got: tok.Kind, Pos: tok.Pos}
	}
}

func (p *parser) currentIs(kinds ...TokenKind) bool {
	return lo.Contains(kinds, p.current().Kind)
}
