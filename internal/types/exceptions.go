package types

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

type ErrorTag string

const (
	LexErrorTag   ErrorTag = "LexError"
	ParseErrorTag ErrorTag = "ParseError"
	EvalErrorTag  ErrorTag = "EvalError"
	TypeErrorTag  ErrorTag = "TypeError"
	ValueErrorTag ErrorTag = "ValueError"
)

// Exception is an error that can be rendered as a JSON document for users.
type Exception interface {
	error
	Exception() any
}

// Error classifies Err with Tag. Nested *Error values contribute their
// tags to the rendered exception, outermost first.
type Error struct {
	Tag   ErrorTag
	Err   error
	Extra map[string]any
}

var _ Exception = (*Error)(nil)

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Exception() any {
	tags := []any{e.Tag}
	for err := errors.Unwrap(e); err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}

	o := map[string]any{
		"tags":    tags,
		"message": e.Error(),
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}

// AsException returns the Exception in err's chain, classifying plain
// errors as ValueError.
func AsException(err error) Exception {
	var exception Exception
	if errors.As(err, &exception) {
		return exception
	}
	return &Error{Tag: ValueErrorTag, Err: err}
}
