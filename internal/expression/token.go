package expression

import "fmt"

type TokenKind int

const (
	NumberToken TokenKind = iota
	PlusToken
	MinusToken
	MultiplyToken
	DivideToken
	PowerToken
	LeftParenToken
	RightParenToken
	EndOfInputToken
)

var tokenKindNames = map[TokenKind]string{
	NumberToken:     "Number",
	PlusToken:       "Plus",
	MinusToken:      "Minus",
	MultiplyToken:   "Multiply",
	DivideToken:     "Divide",
	PowerToken:      "Power",
	LeftParenToken:  "LeftParen",
	RightParenToken: "RightParen",
	EndOfInputToken: "EndOfInput",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

var operatorTokenKinds = map[byte]TokenKind{
	'+': PlusToken,
	'-': MinusToken,
	'*': MultiplyToken,
	'/': DivideToken,
	'^': PowerToken,
	'(': LeftParenToken,
	')': RightParenToken,
}

// Token is a lexical unit of an expression. Text holds the literal text
// for numbers and the operator character otherwise; it is empty for
// EndOfInputToken. Pos is the byte offset of the token in the source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
}

func (t Token) String() string {
	if t.Kind == EndOfInputToken {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}
