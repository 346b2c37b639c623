// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfeed

import (
	"fmt"
	"unicode/utf8"

	"github.com/creachadair/jfeed/internal/escape"
	"go4.org/mem"
)

// A Lexer converts a stream of input chunks into lexical tokens.
//
// Input may be split at any byte boundary: a lexeme that is incomplete at the
// end of one chunk is held by the lexer and completed by the next. Feeding a
// sequence of chunks yields the same tokens as feeding their concatenation in
// a single call.
//
// The zero value is ready for use, with comments disabled.
// A Lexer must not be used concurrently by multiple goroutines.
type Lexer struct {
	comments bool // scan comments

	mode   scanMode
	buf    []byte   // the pending lexeme (decoded, for strings)
	phase  numPhase // for scanNumber
	word   string   // for scanWord, and the last word emitted
	nmatch int      // bytes of word matched so far
	after  bool     // the previous byte completed a literal word
	npend  int      // bytes of an incomplete UTF-8 sequence at the end of buf
	hex    rune     // accumulated value of a \u escape
	nhex   int      // hex digits of the \u escape seen so far
	high   rune     // unpaired high surrogate awaiting its low half, or 0

	start position // where the pending lexeme began
	cur   position // position of the next input byte
	err   error    // sticky error
}

// NewLexer constructs a new Lexer ready to scan a stream.
func NewLexer() *Lexer { return &Lexer{buf: make([]byte, 0, 64)} }

// AllowComments configures the lexer to scan (true) or reject (false)
// comments. Comments are a non-standard extension of JSON. If enabled, C++
// style block comments (/* ... */) and line comments (// ...) are recognized
// and emitted as BlockComment and LineComment tokens.
func (x *Lexer) AllowComments(ok bool) { x.comments = ok }

// Feed scans chunk and returns the tokens completed by it, in input order.
// A partial token at the end of chunk is retained until the next call to
// Feed or Finalize. In case of error, Feed returns the tokens completed
// before the error along with an error of concrete type *LexError.
func (x *Lexer) Feed(chunk []byte) ([]Token, error) { return x.scan(nil, mem.B(chunk)) }

// FeedString is as Feed, but reads its input from a string.
func (x *Lexer) FeedString(chunk string) ([]Token, error) { return x.scan(nil, mem.S(chunk)) }

// Append is as Feed, but appends the completed tokens to dst and returns the
// extended slice.
func (x *Lexer) Append(dst []Token, chunk []byte) ([]Token, error) { return x.scan(dst, mem.B(chunk)) }

// AppendString is as Append, but reads its input from a string.
func (x *Lexer) AppendString(dst []Token, chunk string) ([]Token, error) {
	return x.scan(dst, mem.S(chunk))
}

// Finalize reports the end of the input stream. If the lexer holds a token
// that is terminated by the end of input (a number or a line comment),
// Finalize returns it with true. If the lexer holds no partial
// input, Finalize returns false and no error. Otherwise the input ended in
// the middle of a token, and Finalize reports a *LexError.
func (x *Lexer) Finalize() (Token, bool, error) {
	if x.err != nil {
		return Token{}, false, x.err
	}
	var out []Token
	switch x.mode {
	case scanIdle:
		return Token{}, false, nil
	case scanNumber:
		if !x.phase.complete() {
			return Token{}, false, x.failf("%s", x.phase.missing())
		}
		out = x.emit(nil, NumberLiteral, Number(x.buf), x.cur)
	case scanLineComment:
		out = x.emit(nil, LineComment, string(x.buf), x.cur)
	case scanString, scanEscape, scanUnicode:
		return Token{}, false, x.failf("unterminated string")
	case scanWord:
		return Token{}, false, x.failf("incomplete constant %q", x.word[:x.nmatch])
	case scanSlash:
		return Token{}, false, x.failf("incomplete comment")
	case scanBlockComment, scanBlockStar:
		return Token{}, false, x.failf("unterminated block comment")
	default:
		panic(fmt.Sprintf("invalid scan mode %d", x.mode))
	}
	return out[0], true, nil
}

// Reset discards all buffered input and any error, and restores x to its
// initial state so that it can be used for a new stream. Configuration set by
// AllowComments is preserved.
func (x *Lexer) Reset() {
	*x = Lexer{comments: x.comments, buf: x.buf[:0]}
}

// Idle reports whether x holds no partial token.
func (x *Lexer) Idle() bool { return x.mode == scanIdle }

// Offset reports the number of bytes of input consumed so far.
func (x *Lexer) Offset() int { return x.cur.off }

func (x *Lexer) scan(dst []Token, in mem.RO) ([]Token, error) {
	if x.err != nil {
		return dst, x.err
	}
	for i := 0; i < in.Len(); i++ {
		b := in.At(i)
		var err error
		if dst, err = x.step(dst, b); err != nil {
			return dst, err
		}
		x.cur = x.cur.after(b)
	}
	return dst, nil
}

// step consumes a single input byte b at position x.cur.
func (x *Lexer) step(dst []Token, b byte) ([]Token, error) {
	switch x.mode {
	case scanIdle:
		return x.idle(dst, b)

	case scanString:
		switch {
		case x.npend > 0 || b >= utf8.RuneSelf:
			x.flushHigh()
			if !x.addRaw(b) {
				return dst, x.failf("invalid UTF-8 in string")
			}
		case b == '"':
			x.flushHigh()
			return x.emit(dst, StringLiteral, string(x.buf), x.cur.after(b)), nil
		case b == '\\':
			x.mode = scanEscape
		case b < ' ':
			return dst, x.failf("unescaped control %q in string", b)
		default:
			x.flushHigh()
			x.buf = append(x.buf, b)
		}

	case scanEscape:
		if b == 'u' {
			x.mode, x.hex, x.nhex = scanUnicode, 0, 0
		} else if c, ok := escape.Simple(b); ok {
			x.flushHigh()
			x.buf = append(x.buf, c)
			x.mode = scanString
		} else {
			return dst, x.failf("invalid %q after escape", b)
		}

	case scanUnicode:
		v, ok := escape.HexDigit(b)
		if !ok {
			return dst, x.failf("invalid Unicode escape: not a hex digit: %q", b)
		}
		x.hex = x.hex<<4 | v
		if x.nhex++; x.nhex == 4 {
			x.addEscaped(x.hex)
			x.mode = scanString
		}

	case scanNumber:
		if next, ok := x.phase.next(b); ok {
			x.phase = next
			x.buf = append(x.buf, b)
			return dst, nil
		} else if x.phase == numZero && isDigit(b) {
			return dst, x.failf("extra leading zeroes")
		} else if !x.phase.complete() {
			return dst, x.failf("%s, got %q", x.phase.missing(), b)
		}
		dst = x.emit(dst, NumberLiteral, Number(x.buf), x.cur)
		return x.idle(dst, b)

	case scanWord:
		if b != x.word[x.nmatch] {
			return dst, x.failf("unknown constant %q", x.word[:x.nmatch]+string(rune(b)))
		}
		if x.nmatch++; x.nmatch == len(x.word) {
			x.after = true
			return x.emitWord(dst, x.cur.after(b)), nil
		}

	case scanSlash:
		switch b {
		case '/':
			x.mode = scanLineComment
		case '*':
			x.mode = scanBlockComment
		default:
			return dst, x.failf("invalid %q in comment", b)
		}
		x.buf = append(x.buf, b)

	case scanLineComment:
		x.buf = append(x.buf, b)
		if b == '\n' {
			return x.emit(dst, LineComment, string(x.buf), x.cur.after(b)), nil
		}

	case scanBlockComment, scanBlockStar:
		x.buf = append(x.buf, b)
		if b == '/' && x.mode == scanBlockStar {
			return x.emit(dst, BlockComment, string(x.buf), x.cur.after(b)), nil
		} else if b == '*' {
			x.mode = scanBlockStar
		} else {
			x.mode = scanBlockComment
		}

	default:
		panic(fmt.Sprintf("invalid scan mode %d", x.mode))
	}
	return dst, nil
}

// idle handles the byte b when no token is in progress.
func (x *Lexer) idle(dst []Token, b byte) ([]Token, error) {
	if x.after {
		// A literal word is emitted at its last letter, but may not run
		// into further letters.
		x.after = false
		if isNameByte(b) {
			return dst, x.failf("unknown constant %q", x.word+string(rune(b)))
		}
	}
	x.start = x.cur
	switch b {
	case ' ', '\t', '\r', '\n':
		// skip whitespace
	case '{', '}', '[', ']', ':', ',':
		return x.emit(dst, selfDelim(b), nil, x.cur.after(b)), nil
	case '"':
		x.mode = scanString
	case '-':
		x.mode, x.phase = scanNumber, numSign
		x.buf = append(x.buf, b)
	case '0':
		x.mode, x.phase = scanNumber, numZero
		x.buf = append(x.buf, b)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		x.mode, x.phase = scanNumber, numInt
		x.buf = append(x.buf, b)
	case 't':
		x.mode, x.word, x.nmatch = scanWord, "true", 1
	case 'f':
		x.mode, x.word, x.nmatch = scanWord, "false", 1
	case 'n':
		x.mode, x.word, x.nmatch = scanWord, "null", 1
	case '/':
		if !x.comments {
			return dst, x.failf("unexpected %q", b)
		}
		x.mode = scanSlash
		x.buf = append(x.buf, b)
	default:
		return dst, x.failf("unexpected %q", b)
	}
	return dst, nil
}

// emit appends a token of the given kind and value to dst, spanning from the
// start of the pending lexeme to end, and returns x to the idle state.
func (x *Lexer) emit(dst []Token, kind Kind, v any, end position) []Token {
	tok := Token{Kind: kind, Value: v, Loc: Location{
		Span:  Span{Pos: x.start.off, End: end.off},
		First: x.start.lineCol(),
		Last:  end.lineCol(),
	}}
	x.mode = scanIdle
	x.buf = x.buf[:0]
	return append(dst, tok)
}

func (x *Lexer) emitWord(dst []Token, end position) []Token {
	switch x.word {
	case "true":
		return x.emit(dst, BooleanLiteral, true, end)
	case "false":
		return x.emit(dst, BooleanLiteral, false, end)
	default:
		return x.emit(dst, NullLiteral, nil, end)
	}
}

// addEscaped adds the code unit r decoded from a \u escape to the pending
// string, pairing surrogate halves.
func (x *Lexer) addEscaped(r rune) {
	if hi := x.high; hi != 0 {
		x.high = 0
		if escape.IsLowSurrogate(r) {
			x.buf = utf8.AppendRune(x.buf, escape.Combine(hi, r))
			return
		}
		x.buf = escape.AppendRune(x.buf, hi)
	}
	if escape.IsHighSurrogate(r) {
		x.high = r
		return
	}
	x.buf = escape.AppendRune(x.buf, r)
}

// addRaw adds an input byte to the pending string and reports whether the
// string is still valid UTF-8. A multi-byte sequence is checked as soon as it
// is complete or a byte arrives that cannot continue it.
func (x *Lexer) addRaw(b byte) bool {
	x.buf = append(x.buf, b)
	tail := x.buf[len(x.buf)-x.npend-1:]
	if !utf8.FullRune(tail) {
		x.npend++
		return true
	}
	x.npend = 0
	r, n := utf8.DecodeRune(tail)
	return r != utf8.RuneError || n > 1
}

// flushHigh writes out an unpaired high surrogate, if one is pending.
func (x *Lexer) flushHigh() {
	if x.high != 0 {
		x.buf = escape.AppendRune(x.buf, x.high)
		x.high = 0
	}
}

func (x *Lexer) failf(msg string, args ...any) error {
	x.err = &LexError{
		Reason: fmt.Sprintf(msg, args...),
		Loc: Location{
			Span:  Span{Pos: x.start.off, End: x.cur.off},
			First: x.start.lineCol(),
			Last:  x.cur.lineCol(),
		},
	}
	return x.err
}

// LexError is the concrete type of errors reported by the Lexer.
type LexError struct {
	Reason string

	// Loc spans from the start of the offending token to the position of the
	// input that could not be scanned.
	Loc Location
}

// Error satisfies the error interface.
func (e *LexError) Error() string { return fmt.Sprintf("at %s: %s", e.Loc.Last, e.Reason) }

type scanMode byte

const (
	scanIdle         scanMode = iota // between tokens
	scanString                       // in a string literal
	scanEscape                       // after a backslash in a string
	scanUnicode                      // in the hex digits of a \u escape
	scanNumber                       // in a number, at x.phase
	scanWord                         // matching x.word
	scanSlash                        // after the "/" that opens a comment
	scanLineComment                  // in a line comment
	scanBlockComment                 // in a block comment
	scanBlockStar                    // after a "*" in a block comment
)

// numPhase records a position in the number grammar:
//
//	-? (0 | [1-9][0-9]*) (. [0-9]+)? ([eE] [+-]? [0-9]+)?
type numPhase byte

const (
	numSign      numPhase = iota // after "-"
	numZero                      // after a leading "0"
	numInt                       // in the integer digits
	numPoint                     // after "."
	numFrac                      // in the fraction digits
	numExp                       // after "e" or "E"
	numExpSign                   // after the exponent sign
	numExpDigits                 // in the exponent digits
)

// next reports the phase reached by consuming b in phase p, and false if b
// cannot continue a number in phase p.
func (p numPhase) next(b byte) (numPhase, bool) {
	switch {
	case isDigit(b):
		switch p {
		case numSign:
			if b == '0' {
				return numZero, true
			}
			return numInt, true
		case numInt:
			return numInt, true
		case numPoint, numFrac:
			return numFrac, true
		case numExp, numExpSign, numExpDigits:
			return numExpDigits, true
		}
	case b == '.':
		if p == numZero || p == numInt {
			return numPoint, true
		}
	case b == 'e' || b == 'E':
		if p == numZero || p == numInt || p == numFrac {
			return numExp, true
		}
	case b == '+' || b == '-':
		if p == numExp {
			return numExpSign, true
		}
	}
	return p, false
}

// complete reports whether a number may end in phase p.
func (p numPhase) complete() bool {
	return p == numZero || p == numInt || p == numFrac || p == numExpDigits
}

// missing describes what an incomplete number in phase p lacks.
func (p numPhase) missing() string {
	switch p {
	case numSign:
		return "missing digit after sign"
	case numPoint:
		return "no digits after decimal point"
	case numExp:
		return "missing exponent sign or digits"
	case numExpSign:
		return "missing exponent digits"
	}
	return "incomplete number"
}

// position records an offset in the input stream.
type position struct {
	off, line, col int // line is 0-based
}

func (p position) after(b byte) position {
	p.off++
	if b == '\n' {
		p.line++
		p.col = 0
	} else {
		p.col++
	}
	return p
}

func (p position) lineCol() LineCol { return LineCol{Line: p.line + 1, Column: p.col} }

func isDigit(b byte) bool    { return '0' <= b && b <= '9' }
func isNameByte(b byte) bool { return 'a' <= b && b <= 'z' }

var self = [...]Kind{
	'{': BraceOpen,
	'}': BraceClose,
	'[': BracketOpen,
	']': BracketClose,
	':': Colon,
	',': Comma,
}

func selfDelim(b byte) Kind { return self[b] }
