package expression

import (
	"errors"
	"fmt"

	"github.com/karupanerura/par5er/internal/types"
)

type LexErrorKind int

const (
	UnexpectedCharacter LexErrorKind = iota
	MalformedNumber
	AdjacentNumbers
)

func (k LexErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "UnexpectedCharacter"
	case MalformedNumber:
		return "MalformedNumber"
	case AdjacentNumbers:
		return "AdjacentNumbers"
	default:
		return fmt.Sprintf("LexErrorKind(%d)", int(k))
	}
}

// LexError reports input the tokenizer could not classify.
//
// Text is the unexpected character for UnexpectedCharacter, the scanned
// span for MalformedNumber, and the first literal for AdjacentNumbers (the
// second one is in Second).
type LexError struct {
	Kind   LexErrorKind
	Text   string
	Second string
	Pos    int
}

var _ types.Exception = (*LexError)(nil)

func (e *LexError) Error() string {
	switch e.Kind {
	case UnexpectedCharacter:
		return fmt.Sprintf("unexpected character at %d: %s", e.Pos, e.Text)
	case MalformedNumber:
		return fmt.Sprintf("invalid number at %d: %s", e.Pos, e.Text)
	case AdjacentNumbers:
		return fmt.Sprintf("unexpected token sequence at %d: %s %s", e.Pos, e.Text, e.Second)
	default:
		return fmt.Sprintf("%s at %d: %s", e.Kind, e.Pos, e.Text)
	}
}

func (e *LexError) Exception() any {
	extra := map[string]any{
		"kind":     e.Kind.String(),
		"text":     e.Text,
		"position": e.Pos,
	}
	if e.Kind == AdjacentNumbers {
		extra["second"] = e.Second
	}
	return (&types.Error{
		Tag:   types.LexErrorTag,
		Err:   errors.New(e.Error()),
		Extra: extra,
	}).Exception()
}

type ParseErrorKind int

const (
	Expected ParseErrorKind = iota
	UnexpectedToken
)

func (k ParseErrorKind) String() string {
	switch k {
	case Expected:
		return "Expected"
	case UnexpectedToken:
		return "UnexpectedToken"
	default:
		return fmt.Sprintf("ParseErrorKind(%d)", int(k))
	}
}

// ParseError reports a token sequence that does not match the grammar.
// Wanted is only meaningful for Expected.
type ParseError struct {
	Kind   ParseErrorKind
	Wanted TokenKind
	Got    TokenKind
	Pos    int
}

var _ types.Exception = (*ParseError)(nil)

func (e *ParseError) Error() string {
	if e.Kind == Expected {
		return fmt.Sprintf("expected %s but got %s at %d", e.Wanted, e.Got, e.Pos)
	}
	return fmt.Sprintf("unexpected token %s at %d", e.Got, e.Pos)
}

func (e *ParseError) Exception() any {
	extra := map[string]any{
		"kind":     e.Kind.String(),
		"got":      e.Got.String(),
		"position": e.Pos,
	}
	if e.Kind == Expected {
		extra["wanted"] = e.Wanted.String()
	}
	return (&types.Error{
		Tag:   types.ParseErrorTag,
		Err:   errors.New(e.Error()),
		Extra: extra,
	}).Exception()
}

// EvalError is returned for trees the evaluator cannot fold, i.e. nodes
// carrying an operator or variant outside the closed set. Parser output
// never triggers it.
type EvalError struct {
	Context string
}

var _ types.Exception = (*EvalError)(nil)

func (e *EvalError) Error() string {
	return "unknown operator: " + e.Context
}

func (e *EvalError) Exception() any {
	return (&types.Error{
		Tag: types.EvalErrorTag,
		Err: errors.New(e.Error()),
		Extra: map[string]any{
			"kind":    "UnknownOperator",
			"context": e.Context,
		},
	}).Exception()
}
