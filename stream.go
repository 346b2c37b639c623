// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfeed

import (
	"io"

	"go4.org/mem"
)

// A Handler receives events from a TokenParser describing the structure of
// the input. The parser ensures that corresponding Begin and End calls are
// correctly paired, or reports an error to its caller.
//
// Handler methods cannot fail. A handler that needs to reject the input
// should record its own error and report it to the code feeding the parser.
type Handler interface {
	// Begin a new object.
	BeginObject()

	// End the most-recently-opened object.
	EndObject()

	// Begin a new array.
	BeginArray()

	// End the most-recently-opened array.
	EndArray()

	// Report the key of an object member. The token is a StringLiteral whose
	// value has been unescaped. The value of the member follows.
	Key(tok Token)

	// Report a scalar value: a string, number, Boolean, or null literal.
	Value(tok Token)
}

// CommentHandler is an optional interface that a Handler may implement to
// receive comment tokens. If comments are enabled in the lexer and the
// handler provides this method, Comment is called for each comment in the
// input. Otherwise comments are silently discarded.
type CommentHandler interface {
	// Process a line or block comment. Line comments include their leading
	// "//" and trailing newline (if present). Block comments include their
	// leading "/*" and trailing "*/".
	Comment(tok Token)
}

// EventKind identifies the type of a parser event.
type EventKind byte

// Constants defining the valid EventKind values.
const (
	EventValue EventKind = iota + 1
	EventArrayOpen
	EventArrayClose
	EventObjectOpen
	EventObjectKey
	EventObjectClose
)

var eventStr = [...]string{
	EventValue:       "value",
	EventArrayOpen:   "array-open",
	EventArrayClose:  "array-close",
	EventObjectOpen:  "object-open",
	EventObjectKey:   "object-key",
	EventObjectClose: "object-close",
}

func (k EventKind) String() string {
	if k == 0 || int(k) >= len(eventStr) {
		return "invalid-event"
	}
	return eventStr[k]
}

// An Event is a single parser event as a value. Token is set for EventValue
// and EventObjectKey.
type Event struct {
	Kind  EventKind
	Token Token
}

// String renders e as its kind, followed by its token for values and keys,
// for example "array-open" or `object-key "name"`.
func (e Event) String() string {
	if e.Kind == EventValue || e.Kind == EventObjectKey {
		return e.Kind.String() + " " + e.Token.String()
	}
	return e.Kind.String()
}

// EventFunc adapts a function that accepts events to the Handler interface.
type EventFunc func(Event)

func (f EventFunc) BeginObject()    { f(Event{Kind: EventObjectOpen}) }
func (f EventFunc) EndObject()      { f(Event{Kind: EventObjectClose}) }
func (f EventFunc) BeginArray()     { f(Event{Kind: EventArrayOpen}) }
func (f EventFunc) EndArray()       { f(Event{Kind: EventArrayClose}) }
func (f EventFunc) Key(tok Token)   { f(Event{Kind: EventObjectKey, Token: tok}) }
func (f EventFunc) Value(tok Token) { f(Event{Kind: EventValue, Token: tok}) }

// Stream is an incremental parser that consumes chunks of JSON text and
// delivers events to a Handler corresponding with the structure of the input.
// It combines a Lexer with a TokenParser.
//
// In case of error, the Stream reports an error of concrete type *LexError or
// *ParseError, and every later call reports the same error until Reset.
type Stream struct {
	lex  *Lexer
	tp   *TokenParser
	toks []Token // scratch buffer for lexer output
	err  error
}

// NewStream constructs a new Stream that delivers events to h.
func NewStream(h Handler) *Stream {
	return &Stream{lex: NewLexer(), tp: NewTokenParser(h)}
}

// AllowComments configures the lexer of s to report (true) or reject (false)
// comments. See Lexer.AllowComments.
func (s *Stream) AllowComments(ok bool) { s.lex.AllowComments(ok) }

// AllowTrailingCommas configures the parser of s to allow (true) or reject
// (false) trailing commas in objects and arrays.
func (s *Stream) AllowTrailingCommas(ok bool) { s.tp.AllowTrailingCommas(ok) }

// Feed consumes a chunk of input, delivering events for each complete token.
// Chunks may split the input at any byte boundary.
func (s *Stream) Feed(chunk []byte) error { return s.feed(mem.B(chunk)) }

// FeedString is as Feed, but reads its input from a string.
func (s *Stream) FeedString(chunk string) error { return s.feed(mem.S(chunk)) }

// Write satisfies io.Writer by feeding p to the stream.
func (s *Stream) Write(p []byte) (int, error) {
	if err := s.Feed(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// readChunkSize is the size of the buffer used by ReadFrom.
const readChunkSize = 16 << 10

// ReadFrom satisfies io.ReaderFrom by feeding the contents of r to the stream
// until r reports io.EOF or an error occurs. ReadFrom does not finalize the
// stream, so the caller may feed further input afterward.
func (s *Stream) ReadFrom(r io.Reader) (int64, error) {
	buf := make([]byte, readChunkSize)
	var n int64
	for {
		nr, err := r.Read(buf)
		n += int64(nr)
		if nr > 0 {
			if ferr := s.Feed(buf[:nr]); ferr != nil {
				return n, ferr
			}
		}
		if err == io.EOF {
			return n, nil
		} else if err != nil {
			return n, err
		}
	}
}

// Finalize reports the end of the input. It flushes a token terminated by
// the end of input and reports an error if the input ended inside a token or
// a container. Finalize must be called once, after all input has been fed.
func (s *Stream) Finalize() error {
	if s.err != nil {
		return s.err
	}
	tok, ok, err := s.lex.Finalize()
	if err != nil {
		return s.fail(err)
	} else if ok {
		if err := s.tp.Feed(tok); err != nil {
			return s.fail(err)
		}
	}
	if err := s.tp.Finalize(); err != nil {
		return s.fail(err)
	}
	return nil
}

// Reset discards all buffered input, parser state, and errors, so that s can
// be used to parse a new, unrelated stream. Configuration is preserved.
func (s *Stream) Reset() {
	s.lex.Reset()
	s.tp.Reset()
	s.err = nil
}

func (s *Stream) feed(in mem.RO) error {
	if s.err != nil {
		return s.err
	}
	toks, lerr := s.lex.scan(s.toks[:0], in)

	// Tokens completed before a lexical error are delivered first, so the
	// handler sees the same events regardless of where the input was split.
	perr := s.tp.Feed(toks...)
	clear(toks)
	s.toks = toks[:0]
	if perr != nil {
		return s.fail(perr)
	} else if lerr != nil {
		return s.fail(lerr)
	}
	return nil
}

func (s *Stream) fail(err error) error {
	s.err = err
	return err
}
