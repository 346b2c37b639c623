// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfeed

import (
	"errors"
	"fmt"

	"github.com/creachadair/mds/stack"
)

// State is a position in the JSON grammar, as tracked by a TokenParser.
type State byte

// Constants defining the valid State values.
const (
	Begin                  State = iota // outside any container
	ArrayExpectFirst                    // after "[": a value or "]"
	ArrayExpectSeparator                // after an array element: "," or "]"
	ArrayExpectValue                    // after "," in an array: a value
	ObjectExpectKeyOrClose              // after "{": a key or "}"
	ObjectExpectKey                     // after "," in an object: a key
	ObjectExpectColon                   // after a key: ":"
	ObjectExpectValue                   // after ":": a value
	ObjectExpectSeparator               // after a member value: "," or "}"
)

var stateStr = [...]string{
	Begin:                  "Begin",
	ArrayExpectFirst:       "ArrayExpectFirst",
	ArrayExpectSeparator:   "ArrayExpectSeparator",
	ArrayExpectValue:       "ArrayExpectValue",
	ObjectExpectKeyOrClose: "ObjectExpectKeyOrClose",
	ObjectExpectKey:        "ObjectExpectKey",
	ObjectExpectColon:      "ObjectExpectColon",
	ObjectExpectValue:      "ObjectExpectValue",
	ObjectExpectSeparator:  "ObjectExpectSeparator",
}

func (s State) String() string {
	if int(s) >= len(stateStr) {
		return fmt.Sprintf("State(%d)", s)
	}
	return stateStr[s]
}

// A TokenParser checks a sequence of tokens against the JSON grammar and
// reports the structure of the input to a Handler.
//
// The parser keeps a stack of saved states, one for each open array or
// object. When a container closes, the parser resumes the state that was
// current when the container was opened.
//
// A TokenParser accepts any number of consecutive top-level values.
// It must not be used concurrently by multiple goroutines.
type TokenParser struct {
	h      Handler
	tcomma bool // allow trailing commas in objects and arrays

	cur State
	stk *stack.Stack[State]
	err error // sticky error
}

// NewTokenParser constructs a new TokenParser that delivers events to h.
func NewTokenParser(h Handler) *TokenParser {
	return &TokenParser{h: h, stk: stack.New[State]()}
}

// AllowTrailingCommas configures the parser to allow (true) or reject (false)
// a comma before the closing bracket of an array or brace of an object.
func (p *TokenParser) AllowTrailingCommas(ok bool) { p.tcomma = ok }

// State reports the current grammar state of p.
func (p *TokenParser) State() State { return p.cur }

// Depth reports the number of arrays and objects currently open.
func (p *TokenParser) Depth() int { return p.stk.Len() }

// Feed delivers toks to the parser in order. Events for each token are
// delivered to the handler before the next token is examined. If a token is
// not valid in the current state, Feed stops and reports an error of
// concrete type *ParseError.
//
// Comment tokens are valid in every state. If the handler implements
// CommentHandler they are passed to its Comment method; otherwise they are
// discarded.
func (p *TokenParser) Feed(toks ...Token) error {
	if p.err != nil {
		return p.err
	}
	for _, tok := range toks {
		if err := p.step(tok); err != nil {
			p.err = err
			return err
		}
	}
	return nil
}

// Finalize reports the end of the token stream. It reports an error of
// concrete type *ParseError, wrapping ErrUnexpectedEnd, if any array or
// object remains open.
func (p *TokenParser) Finalize() error {
	if p.err != nil {
		return p.err
	}
	if p.cur != Begin || !p.stk.IsEmpty() {
		p.err = &ParseError{State: p.cur, EOF: true}
	}
	return p.err
}

// Reset discards all parser state and any error, so that p can be used for
// a new stream. The handler and configuration of p are preserved.
func (p *TokenParser) Reset() {
	p.cur = Begin
	p.stk.Clear()
	p.err = nil
}

func (p *TokenParser) step(tok Token) error {
	if tok.Kind.IsComment() {
		if ch, ok := p.h.(CommentHandler); ok {
			ch.Comment(tok)
		}
		return nil
	}

	switch p.cur {
	case Begin:
		return p.value(tok, Begin)

	case ArrayExpectFirst:
		if tok.Kind == BracketClose {
			return p.close(tok)
		}
		return p.value(tok, ArrayExpectSeparator)

	case ArrayExpectValue:
		if tok.Kind == BracketClose && p.tcomma {
			return p.close(tok)
		}
		return p.value(tok, ArrayExpectSeparator)

	case ArrayExpectSeparator:
		switch tok.Kind {
		case Comma:
			p.cur = ArrayExpectValue
			return nil
		case BracketClose:
			return p.close(tok)
		}

	case ObjectExpectKeyOrClose, ObjectExpectKey:
		switch tok.Kind {
		case StringLiteral:
			p.h.Key(tok)
			p.cur = ObjectExpectColon
			return nil
		case BraceClose:
			if p.cur == ObjectExpectKeyOrClose || p.tcomma {
				return p.close(tok)
			}
		}

	case ObjectExpectColon:
		if tok.Kind == Colon {
			p.cur = ObjectExpectValue
			return nil
		}

	case ObjectExpectValue:
		return p.value(tok, ObjectExpectSeparator)

	case ObjectExpectSeparator:
		switch tok.Kind {
		case Comma:
			p.cur = ObjectExpectKey
			return nil
		case BraceClose:
			return p.close(tok)
		}

	default:
		panic(fmt.Sprintf("invalid parser state %v", p.cur))
	}
	return p.unexpected(tok)
}

// value handles tok at a point where the grammar requires a value.
// If tok is a scalar, the parser moves to resume. If tok opens a container,
// resume is saved until the container closes.
func (p *TokenParser) value(tok Token, resume State) error {
	switch tok.Kind {
	case StringLiteral, NumberLiteral, BooleanLiteral, NullLiteral:
		p.h.Value(tok)
		p.cur = resume
	case BracketOpen:
		p.stk.Push(resume)
		p.h.BeginArray()
		p.cur = ArrayExpectFirst
	case BraceOpen:
		p.stk.Push(resume)
		p.h.BeginObject()
		p.cur = ObjectExpectKeyOrClose
	default:
		return p.unexpected(tok)
	}
	return nil
}

// close ends the innermost container. Precondition: p.stk is not empty.
func (p *TokenParser) close(tok Token) error {
	p.cur, _ = p.stk.Pop()
	if tok.Kind == BracketClose {
		p.h.EndArray()
	} else {
		p.h.EndObject()
	}
	return nil
}

func (p *TokenParser) unexpected(tok Token) error {
	return &ParseError{Token: tok.Kind, State: p.cur, Loc: tok.Loc}
}

// ErrUnexpectedEnd is wrapped by the *ParseError reported when the token
// stream ends inside an array or object.
var ErrUnexpectedEnd = errors.New("token stream ended unexpectedly")

// ParseError is the concrete type of errors reported by a TokenParser.
type ParseError struct {
	Token Kind     // the kind of the offending token (Invalid if EOF)
	State State    // the parser state when the error occurred
	Loc   Location // the location of the offending token, if known
	EOF   bool     // the stream ended in State
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	if e.EOF {
		return fmt.Sprintf("%v in state %v", ErrUnexpectedEnd, e.State)
	}
	return fmt.Sprintf("unexpected token %v in state %v", e.Token, e.State)
}

// Unwrap supports error wrapping.
func (e *ParseError) Unwrap() error {
	if e.EOF {
		return ErrUnexpectedEnd
	}
	return nil
}
