package expression

import (
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	source string
	index  int
	tokens []Token
}

func newLexer(source string) *lexer {
	return &lexer{
		source: source,
		index:  0,
		tokens: make([]Token, 0, len(source)+1),
	}
}

// Tokenize splits input into tokens terminated by an EndOfInputToken.
// Errors are *LexError.
func Tokenize(input string) ([]Token, error) {
	l := newLexer(input)
	if err := l.scan(); err != nil {
		return nil, err
	}
	if err := l.checkAdjacentNumbers(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) scan() error {
	for l.index < len(l.source) {
		c := l.source[l.index]
		switch {
		case '0' <= c && c <= '9':
			if err := l.scanNumber(); err != nil {
				return err
			}
		case c < utf8.RuneSelf:
			if kind, ok := operatorTokenKinds[c]; ok {
				l.tokens = append(l.tokens, Token{Kind: kind, Text: l.source[l.index : l.index+1], Pos: l.index})
				l.index++
				continue
			}
			if unicode.IsSpace(rune(c)) {
				l.index++ // just skip white spaces
				continue
			}
			return &LexError{Kind: UnexpectedCharacter, Text: string(c), Pos: l.index}
		default:
			r, size := utf8.DecodeRuneInString(l.source[l.index:])
			if r != utf8.RuneError && unicode.IsSpace(r) {
				l.index += size
				continue
			}
			return &LexError{Kind: UnexpectedCharacter, Text: l.source[l.index : l.index+size], Pos: l.index}
		}
	}

	l.tokens = append(l.tokens, Token{Kind: EndOfInputToken, Pos: len(l.source)})
	return nil
}

func (l *lexer) scanNumber() error {
	begins := l.index
	dotFound := false
	for l.index < len(l.source) {
		c := l.source[l.index]
		if c == '.' {
			if dotFound {
				// report the span up to and including the character after the second dot
				ends := l.index + 2
				if ends > len(l.source) {
					ends = len(l.source)
				}
				return &LexError{Kind: MalformedNumber, Text: l.source[begins:ends], Pos: begins}
			}
			dotFound = true
		} else if c < '0' || '9' < c {
			break
		}
		l.index++
	}

	l.tokens = append(l.tokens, Token{Kind: NumberToken, Text: l.source[begins:l.index], Pos: begins})
	return nil
}

func (l *lexer) checkAdjacentNumbers() error {
	for i := 0; i+1 < len(l.tokens); i++ {
		if l.tokens[i].Kind == NumberToken && l.tokens[i+1].Kind == NumberToken {
			return &LexError{
				Kind:   AdjacentNumbers,
				Text:   l.tokens[i].Text,
				Second: l.tokens[i+1].Text,
				Pos:    l.tokens[i+1].Pos,
			}
		}
	}
	return nil
}
