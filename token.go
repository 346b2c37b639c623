// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfeed

import (
	"fmt"
	"strconv"
	"strings"

	"go4.org/mem"
)

// Kind is the type of a lexical token in the JSON grammar.
type Kind byte

// Constants defining the valid Kind values.
const (
	Invalid        Kind = iota // invalid token
	BraceOpen                  // left brace "{"
	BraceClose                 // right brace "}"
	BracketOpen                // left square bracket "["
	BracketClose               // right square bracket "]"
	Colon                      // colon ":"
	Comma                      // comma ","
	StringLiteral              // quoted string
	NumberLiteral              // number
	BooleanLiteral             // constant: true, false
	NullLiteral                // constant: null

	LineComment  // comment: // ... <LF>
	BlockComment // comment: /* ... */
)

var kindStr = [...]string{
	Invalid:        "Invalid",
	BraceOpen:      "BraceOpen",
	BraceClose:     "BraceClose",
	BracketOpen:    "BracketOpen",
	BracketClose:   "BracketClose",
	Colon:          "Colon",
	Comma:          "Comma",
	StringLiteral:  "StringLiteral",
	NumberLiteral:  "NumberLiteral",
	BooleanLiteral: "BooleanLiteral",
	NullLiteral:    "NullLiteral",
	LineComment:    "LineComment",
	BlockComment:   "BlockComment",
}

// String returns the name of k as it appears in error messages.
func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[Invalid]
	}
	return kindStr[k]
}

// IsScalar reports whether k is a literal that denotes a complete value.
func (k Kind) IsScalar() bool {
	return k == StringLiteral || k == NumberLiteral || k == BooleanLiteral || k == NullLiteral
}

// IsComment reports whether k is a line or block comment.
func (k Kind) IsComment() bool { return k == LineComment || k == BlockComment }

// A Token is a single lexical token with its decoded value. Tokens do not
// share storage with the input they were scanned from.
type Token struct {
	Kind Kind

	// Value is the decoded payload of a literal:
	//
	//	StringLiteral  string, with escapes resolved
	//	NumberLiteral  Number
	//	BooleanLiteral bool
	//	NullLiteral    nil
	//	*Comment       string, the complete comment text
	//
	// Punctuation tokens have a nil Value.
	Value any

	Loc Location // where the token occurred in the stream
}

// Punct returns a punctuation token of the given kind.
func Punct(k Kind) Token { return Token{Kind: k} }

// String returns a string literal token with value s.
func String(s string) Token { return Token{Kind: StringLiteral, Value: s} }

// Num returns a number literal token with value n.
func Num(n Number) Token { return Token{Kind: NumberLiteral, Value: n} }

// Bool returns a Boolean literal token with value b.
func Bool(b bool) Token { return Token{Kind: BooleanLiteral, Value: b} }

// Null returns a null literal token.
func Null() Token { return Token{Kind: NullLiteral} }

// Text returns the string value of a string literal or comment token.
// It panics if t is not one of those kinds.
func (t Token) Text() string {
	if t.Kind != StringLiteral && !t.Kind.IsComment() {
		panic(fmt.Sprintf("Text called on %v", t.Kind))
	}
	return t.Value.(string)
}

// Number returns the value of a number literal token.
// It panics if t is not a NumberLiteral.
func (t Token) Number() Number {
	if t.Kind != NumberLiteral {
		panic(fmt.Sprintf("Number called on %v", t.Kind))
	}
	return t.Value.(Number)
}

// Bool returns the value of a Boolean literal token.
// It panics if t is not a BooleanLiteral.
func (t Token) Bool() bool {
	if t.Kind != BooleanLiteral {
		panic(fmt.Sprintf("Bool called on %v", t.Kind))
	}
	return t.Value.(bool)
}

// String renders t in JSON syntax. Comments are rendered as written.
func (t Token) String() string {
	switch t.Kind {
	case BraceOpen:
		return "{"
	case BraceClose:
		return "}"
	case BracketOpen:
		return "["
	case BracketClose:
		return "]"
	case Colon:
		return ":"
	case Comma:
		return ","
	case StringLiteral:
		return Quote(t.Text())
	case NumberLiteral:
		return string(t.Number())
	case BooleanLiteral:
		return strconv.FormatBool(t.Bool())
	case NullLiteral:
		return "null"
	case LineComment, BlockComment:
		return t.Text()
	default:
		return "<" + t.Kind.String() + ">"
	}
}

// A Number is the text of a JSON number literal. It preserves the number
// exactly as written, so no precision is lost until the caller chooses a
// representation.
type Number string

// IsInt reports whether n is written without a fraction or exponent.
func (n Number) IsInt() bool { return !strings.ContainsAny(string(n), ".eE") }

// Int64 returns n as an int64. It reports an error if n is not an integer
// or is out of range.
func (n Number) Int64() (int64, error) { return mem.ParseInt(mem.S(string(n)), 10, 64) }

// Float64 returns n as a float64. It reports an error if n is out of range.
func (n Number) Float64() (float64, error) { return mem.ParseFloat(mem.S(string(n)), 64) }

func (n Number) String() string { return string(n) }
