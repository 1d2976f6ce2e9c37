package expression_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/karupanerura/par5er/internal/expression"
	"golang.org/x/sync/errgroup"
)

func TestEvalString(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source    string
		expected  float64
		tolerance float64
	}{
		{source: "1+2", expected: 3},
		{source: "2*3+4", expected: 10},
		{source: "2*(3+4)", expected: 14},
		{source: "(1+2)^3", expected: 27},
		{source: "-5+3", expected: -2},
		{source: "-(2+3)*4", expected: -20},
		{source: "--5", expected: 5},
		{source: "---5", expected: -5},
		{source: "2^-3", expected: 0.125},
		{source: "-2^2", expected: -4},
		{source: "-5^2", expected: -25},
		{source: "-2^--(1+2)", expected: -8},
		{source: "1-2-3", expected: -4},
		{source: "1^2^3", expected: 1},
		{source: "2^3^2", expected: 512},
		{source: "8/4/2", expected: 1},
		{source: "1.5 * 2", expected: 3},
		{source: "5.", expected: 5},
		{source: "3+4*2/(1-5)^2", expected: 3 + 4*2/16.0},
		{source: "2*3+4*5-6/3", expected: 2*3 + 4*5 - 6.0/3},
		{source: "-8^(1/3)", expected: -2, tolerance: 1e-12},
		{
			source:    "- -- --(3  *(12 + 23 ^ 2 ^ 2 ^ -2)+6/(3*(1-5)^ 3*       2)-(  (  (1+3 )^   2)^2 )  *(5+6-(5+6)) ^2)    + 1",
			expected:  -159.865754069,
			tolerance: 1e-5,
		},
		{
			source:    "- -- --(3*(12+23^2^2^-2)+6/(3*(1-5)^3*2)-(((1+3)^2)^2)*(5+6-(5+6))^2)+1",
			expected:  -159.865754069,
			tolerance: 1e-5,
		},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			ret, err := expression.EvalString(tt.source)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(ret-tt.expected) > tt.tolerance {
				t.Errorf("expect to %v but got %v", tt.expected, ret)
			}
		})
	}
}

func TestEvalStringFloatingPointAnomalies(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		source string
		check  func(float64) bool
	}{
		{source: "1/0", check: func(v float64) bool { return math.IsInf(v, 1) }},
		{source: "-1/0", check: func(v float64) bool { return math.IsInf(v, -1) }},
		{source: "0/0", check: math.IsNaN},
		{source: "0^-1", check: func(v float64) bool { return math.IsInf(v, 1) }},
		{source: "(0-8)^(1/3)", check: math.IsNaN},
		{source: "(-2)^0.5", check: math.IsNaN},
		{source: "1/0-1/0", check: math.IsNaN},
		{source: "10^400", check: func(v float64) bool { return math.IsInf(v, 1) }},
	} {
		tt := tt
		t.Run(tt.source, func(t *testing.T) {
			t.Parallel()

			ret, err := expression.EvalString(tt.source)
			if err != nil {
				t.Fatalf("should not be an error: %v", err)
			}
			if !tt.check(ret) {
				t.Errorf("unexpected result: %v", ret)
			}
		})
	}
}

func TestEvaluateUnknownOperator(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name    string
		expr    expression.Expr
		context string
	}{
		{
			name:    "unary",
			expr:    &expression.UnaryOp{Op: expression.Sign(7), Operand: num(1)},
			context: "unary operator Sign(7)",
		},
		{
			name:    "binary",
			expr:    bin(num(1), expression.ArithOp(42), num(2)),
			context: "binary operator ArithOp(42)",
		},
		{
			name:    "nested",
			expr:    bin(num(1), expression.Add, neg(&expression.UnaryOp{Op: expression.Sign(3), Operand: num(1)})),
			context: "unary operator Sign(3)",
		},
		{
			name:    "nil",
			expr:    nil,
			context: "nil expression",
		},
		{
			name:    "nil operand",
			expr:    &expression.UnaryOp{Op: expression.Negate},
			context: "nil expression",
		},
		{
			name:    "nil node",
			expr:    (*expression.BinaryOp)(nil),
			context: "nil binary operation",
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ret, err := expression.Evaluate(tt.expr)
			if err == nil {
				t.Fatalf("should be evaluate error but got %v", ret)
			}

			var evalErr *expression.EvalError
			if !errors.As(err, &evalErr) {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
			if evalErr.Context != tt.context {
				t.Errorf("expect context %q but got %q", tt.context, evalErr.Context)
			}
		})
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	t.Parallel()

	expr, err := expression.ParseExpr("2*(3+4)-2^-3")
	if err != nil {
		t.Fatal(err)
	}

	eg := errgroup.Group{}
	for i := 0; i < 64; i++ {
		eg.Go(func() error {
			ret, err := expression.Evaluate(expr)
			if err != nil {
				return err
			}
			if ret != 13.875 {
				t.Errorf("expect to 13.875 but got %v", ret)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestEvalStringDeepNesting(t *testing.T) {
	t.Parallel()

	const depth = 10000
	for _, tt := range []struct {
		name     string
		source   string
		expected float64
	}{
		{
			name:     "parens",
			source:   strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth),
			expected: 1,
		},
		{
			name:     "signs",
			source:   strings.Repeat("-", depth+1) + "1",
			expected: -1,
		},
		{
			name:     "powers",
			source:   strings.Repeat("1^", depth) + "1",
			expected: 1,
		},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ret, err := expression.EvalString(tt.source)
			if err != nil {
				t.Fatal(err)
			}
			if ret != tt.expected {
				t.Errorf("expect to %v but got %v", tt.expected, ret)
			}
		})
	}
}
