package asm

import (
	"strings"
	"unicode"
)

// TokenKind records the role a token plays once its line is parsed.
type TokenKind uint8

// Token kinds.
const (
	TokenUnknown TokenKind = iota
	TokenLabel
	TokenOperator
	TokenOperand
	TokenDataType
	TokenValue
)

// Token is a whitespace-delimited word of source text. Start and End are
// the zero-based columns of its first and last character.
type Token struct {
	Text  string
	Start int
	End   int
	Kind  TokenKind
}

func (t Token) span() Span {
	return Span{Start: t.Start, End: t.End}
}

// Line is the non-empty token list of one source line. Number is
// zero-based.
type Line struct {
	Number int
	Tokens []Token
}

var stringEscapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

// Tokenize splits source into lines of tokens. Comments start at '#'.
// A double-quoted string is a single token with escapes resolved and its
// quotes kept. Text inside parentheses is never split, so "$(1 + 2)" and
// "8($sp)" stay whole. A comma ends the token it follows; a comma on its
// own is appended to the previous token. Lines without tokens are
// omitted. The second result is the number of source lines.
func Tokenize(source string) ([]Line, int) {
	var lines []Line

	sourceLines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	if source == "" {
		sourceLines = nil
	}

	for number, text := range sourceLines {
		if tokens := tokenizeLine(text); len(tokens) > 0 {
			lines = append(lines, Line{Number: number, Tokens: tokens})
		}
	}

	return lines, len(sourceLines)
}

func tokenizeLine(text string) []Token {
	var (
		tokens   []Token
		current  strings.Builder
		start    int
		last     int
		inString bool
		escaped  bool
		depth    int
	)

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{Text: current.String(), Start: start, End: last})
		current.Reset()
	}

	add := func(col int, r rune) {
		if current.Len() == 0 {
			start = col
		}
		current.WriteRune(r)
		last = col
	}

	for col, r := range []rune(text) {
		switch {
		case inString && escaped:
			if resolved, ok := stringEscapes[r]; ok {
				add(col, resolved)
			} else {
				add(col, '\\')
				add(col, r)
			}
			escaped = false
		case inString && r == '\\':
			escaped = true
		case inString:
			add(col, r)
			inString = r != '"'
		case r == '#':
			flush()
			return tokens
		case r == '"':
			flush()
			add(col, r)
			inString = true
		case depth > 0:
			add(col, r)
			switch r {
			case '(':
				depth++
			case ')':
				depth--
			}
		case unicode.IsSpace(r):
			flush()
		case r == ',' && current.Len() == 0 && len(tokens) > 0:
			tokens[len(tokens)-1].Text += ","
		case r == ',':
			add(col, r)
			flush()
		default:
			if r == '(' {
				depth++
			}
			add(col, r)
		}
	}

	flush()

	return tokens
}
