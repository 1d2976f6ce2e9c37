package expression

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a node of a parsed expression tree. The set of node types is
// closed: *NumberLiteral, *UnaryOp and *BinaryOp.
type Expr interface {
	fmt.Stringer
	expr()
}

type Sign int

const (
	Negate Sign = iota
)

func (s Sign) String() string {
	if s == Negate {
		return "-"
	}
	return fmt.Sprintf("Sign(%d)", int(s))
}

type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Pow
)

var arithOpSymbols = map[ArithOp]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Pow: "^",
}

func (op ArithOp) String() string {
	if s, ok := arithOpSymbols[op]; ok {
		return s
	}
	return fmt.Sprintf("ArithOp(%d)", int(op))
}

var binaryOperatorTokenKinds = map[TokenKind]ArithOp{
	PlusToken:     Add,
	MinusToken:    Sub,
	MultiplyToken: Mul,
	DivideToken:   Div,
	PowerToken:    Pow,
}

type NumberLiteral struct {
	Value float64
}

type UnaryOp struct {
	Op      Sign
	Operand Expr
}

type BinaryOp struct {
	Left  Expr
	Op    ArithOp
	Right Expr
}

func (*NumberLiteral) expr() {}
func (*UnaryOp) expr()       {}
func (*BinaryOp) expr()      {}

func (n *NumberLiteral) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (u *UnaryOp) String() string {
	return renderList(u.Op.String(), u.Operand)
}

func (b *BinaryOp) String() string {
	return renderList(b.Op.String(), b.Left, b.Right)
}

func renderList(op string, operands ...Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(op)
	for _, e := range operands {
		b.WriteByte(' ')
		if e == nil {
			b.WriteString("nil")
		} else {
			b.WriteString(e.String())
		}
	}
	b.WriteByte(')')
	return b.String()
}
