package expression

import (
	"fmt"
	"math"
)

// Evaluate folds the tree into a float64. Division by zero and exponents
// outside the real domain follow IEEE-754 and yield ±Inf or NaN, not an
// error. Errors are *EvalError.
func Evaluate(expr Expr) (float64, error) {
	switch e := expr.(type) {
	case *NumberLiteral:
		if e == nil {
			return 0, &EvalError{Context: "nil number literal"}
		}
		return e.Value, nil

	case *UnaryOp:
		if e == nil {
			return 0, &EvalError{Context: "nil unary operation"}
		}
		operand, err := Evaluate(e.Operand)
		if err != nil {
			return 0, err
		}

		switch e.Op {
		case Negate:
			return -operand, nil
		default:
			return 0, &EvalError{Context: fmt.Sprintf("unary operator %s", e.Op)}
		}

	case *BinaryOp:
		if e == nil {
			return 0, &EvalError{Context: "nil binary operation"}
		}
		left, err := Evaluate(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := Evaluate(e.Right)
		if err != nil {
			return 0, err
		}

		switch e.Op {
		case Add:
			return left + right, nil
		case Sub:
			return left - right, nil
		case Mul:
			return left * right, nil
		case Div:
			return left / right, nil
		case Pow:
			return math.Pow(left, right), nil
		default:
			return 0, &EvalError{Context: fmt.Sprintf("binary operator %s", e.Op)}
		}

	case nil:
		return 0, &EvalError{Context: "nil expression"}

	default:
		return 0, &EvalError{Context: fmt.Sprintf("expression type %T", expr)}
	}
}

// EvalString tokenizes, parses and evaluates source.
func EvalString(source string) (float64, error) {
	expr, err := ParseExpr(source)
	if err != nil {
		return 0, err
	}
	return Evaluate(expr)
}
