// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jfeed implements an incremental, streaming JSON parser.
//
// Input is delivered in chunks of any size, split at any byte boundary, as it
// arrives from the network, a file, or elsewhere. The parser never needs the
// whole document in memory: each chunk is scanned into tokens, and each token
// is checked against the grammar and reported as an event as soon as it is
// complete.
//
// # Lexing
//
// The Lexer type converts chunks of input into tokens. A token that is split
// between chunks is buffered until it is complete:
//
//	x := jfeed.NewLexer()
//	toks, err := x.FeedString(`{"a": tr`) // BraceOpen, StringLiteral, Colon
//	toks, err = x.FeedString(`ue}`)       // BooleanLiteral, BraceClose
//
// At the end of input, call Finalize to flush a trailing number or literal and
// to check that the input did not end inside a token.
//
// # Parsing
//
// The TokenParser type consumes tokens and reports the structure of the input
// to a Handler. It keeps a stack of saved states, one per open container, and
// reports a *ParseError naming the offending token kind and the grammar state
// for any token the grammar does not allow:
//
//	p := jfeed.NewTokenParser(h)
//	if err := p.Feed(toks...); err != nil {
//	   log.Fatalf("Parse failed: %v", err) // e.g., unexpected token Colon in state Begin
//	}
//
// # Streams
//
// The Stream type combines a Lexer and a TokenParser. It accepts input via
// Feed, via its Write method (as an io.Writer), or via ReadFrom:
//
//	s := jfeed.NewStream(h)
//	if _, err := io.Copy(s, conn); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//	if err := s.Finalize(); err != nil {
//	   log.Fatalf("Incomplete input: %v", err)
//	}
//
// # Handlers
//
// The methods of a Handler correspond to parser events:
//
//	Event        | Method      | Input
//	------------ | ----------- | -------------------------------
//	object-open  | BeginObject | {
//	object-key   | Key         | "key" (followed by ":")
//	object-close | EndObject   | }
//	array-open   | BeginArray  | [
//	array-close  | EndArray    | ]
//	value        | Value       | true, false, null, number, string
//
// The EventFunc type adapts a function to the Handler interface, delivering
// each event as an Event value. The value package builds Go values from the
// events, and the evented package dispatches them to registered listeners.
//
// Errors are terminal: after a *LexError or *ParseError, every call reports
// the same error until the stream is Reset.
package jfeed
