// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package evented delivers the structural events of a JSON stream to
// registered listeners, or buffers them in a queue for the caller to drain.
package evented

import (
	"slices"

	"github.com/creachadair/jfeed"
)

// A Listener is a registered callback for events of a single kind.
type Listener struct {
	kind jfeed.EventKind
	fn   func(jfeed.Event)
	once bool
}

// Kind reports the kind of event l is registered for.
func (l *Listener) Kind() jfeed.EventKind { return l.kind }

// Once reports whether l is removed after its first call.
func (l *Listener) Once() bool { return l.once }

// An Emitter is a registry of listeners, keyed by event kind. It implements
// the jfeed.Handler interface by emitting an event for each call. The zero
// value is ready for use.
//
// An Emitter must not be used concurrently by multiple goroutines.
type Emitter struct {
	ls map[jfeed.EventKind][]*Listener
}

// On registers fn to be called for each event of the given kind, after any
// listeners already registered for that kind. The returned Listener can be
// passed to RemoveListener.
func (e *Emitter) On(kind jfeed.EventKind, fn func(jfeed.Event)) *Listener {
	return e.add(&Listener{kind: kind, fn: fn})
}

// Once is as On, but the listener is removed before it is first called.
func (e *Emitter) Once(kind jfeed.EventKind, fn func(jfeed.Event)) *Listener {
	return e.add(&Listener{kind: kind, fn: fn, once: true})
}

func (e *Emitter) add(l *Listener) *Listener {
	if e.ls == nil {
		e.ls = make(map[jfeed.EventKind][]*Listener)
	}
	e.ls[l.kind] = append(e.ls[l.kind], l)
	return l
}

// RemoveListener removes l from e, and reports whether it was registered.
func (e *Emitter) RemoveListener(l *Listener) bool {
	if l == nil {
		return false
	}
	cur := e.ls[l.kind]
	i := slices.Index(cur, l)
	if i < 0 {
		return false
	}
	if cur = slices.Delete(cur, i, i+1); len(cur) == 0 {
		delete(e.ls, l.kind)
	} else {
		e.ls[l.kind] = cur
	}
	return true
}

// RemoveAllListeners removes all the listeners for the specified kinds.
// If no kinds are given, all listeners of every kind are removed.
func (e *Emitter) RemoveAllListeners(kinds ...jfeed.EventKind) {
	if len(kinds) == 0 {
		clear(e.ls)
		return
	}
	for _, k := range kinds {
		delete(e.ls, k)
	}
}

// Listeners returns the listeners registered for kind, in the order they
// will be called.
func (e *Emitter) Listeners(kind jfeed.EventKind) []*Listener {
	return slices.Clone(e.ls[kind])
}

// Emit calls each listener registered for the kind of ev, in order.
// Listeners added or removed by a listener during Emit take effect for the
// next event.
func (e *Emitter) Emit(ev jfeed.Event) {
	cur := e.ls[ev.Kind]
	if len(cur) == 0 {
		return
	}
	cur = slices.Clone(cur)
	for _, l := range cur {
		if l.once {
			e.RemoveListener(l)
		}
	}
	for _, l := range cur {
		l.fn(ev)
	}
}

func (e *Emitter) BeginObject()          { e.Emit(jfeed.Event{Kind: jfeed.EventObjectOpen}) }
func (e *Emitter) EndObject()            { e.Emit(jfeed.Event{Kind: jfeed.EventObjectClose}) }
func (e *Emitter) BeginArray()           { e.Emit(jfeed.Event{Kind: jfeed.EventArrayOpen}) }
func (e *Emitter) EndArray()             { e.Emit(jfeed.Event{Kind: jfeed.EventArrayClose}) }
func (e *Emitter) Key(tok jfeed.Token)   { e.Emit(jfeed.Event{Kind: jfeed.EventObjectKey, Token: tok}) }
func (e *Emitter) Value(tok jfeed.Token) { e.Emit(jfeed.Event{Kind: jfeed.EventValue, Token: tok}) }

// A Parser is a stream parser that emits the events of its input to the
// listeners registered on its Emitter. Only input that passes through the
// grammar reaches the listeners; a *Parser is not itself a jfeed.Handler.
//
// In case of error, the Parser reports an error of concrete type
// *jfeed.LexError or *jfeed.ParseError, and every later call reports the
// same error until Reset. Listeners are not affected by Reset.
type Parser struct {
	em *Emitter
	st *jfeed.Stream
}

// NewParser constructs a new Parser with an empty Emitter.
func NewParser() *Parser {
	e := new(Emitter)
	return &Parser{em: e, st: jfeed.NewStream(e)}
}

// Emitter returns the listener registry of p.
func (p *Parser) Emitter() *Emitter { return p.em }

// On registers fn for events of the given kind. See Emitter.On.
func (p *Parser) On(kind jfeed.EventKind, fn func(jfeed.Event)) *Listener { return p.em.On(kind, fn) }

// Once registers fn for the next event of the given kind. See Emitter.Once.
func (p *Parser) Once(kind jfeed.EventKind, fn func(jfeed.Event)) *Listener {
	return p.em.Once(kind, fn)
}

// RemoveListener removes l from p. See Emitter.RemoveListener.
func (p *Parser) RemoveListener(l *Listener) bool { return p.em.RemoveListener(l) }

// RemoveAllListeners removes the listeners for kinds, or all listeners if
// no kinds are given. See Emitter.RemoveAllListeners.
func (p *Parser) RemoveAllListeners(kinds ...jfeed.EventKind) { p.em.RemoveAllListeners(kinds...) }

// Listeners returns the listeners registered for kind.
func (p *Parser) Listeners(kind jfeed.EventKind) []*Listener { return p.em.Listeners(kind) }

// AllowComments configures p to ignore (true) or reject (false) comments.
func (p *Parser) AllowComments(ok bool) { p.st.AllowComments(ok) }

// AllowTrailingCommas configures p to allow (true) or reject (false) a comma
// before the end of an array or object.
func (p *Parser) AllowTrailingCommas(ok bool) { p.st.AllowTrailingCommas(ok) }

// Feed consumes a chunk of input and emits events for each complete token.
func (p *Parser) Feed(chunk []byte) error { return p.st.Feed(chunk) }

// FeedString is as Feed, but reads its input from a string.
func (p *Parser) FeedString(chunk string) error { return p.st.FeedString(chunk) }

// Finalize reports the end of the input. See jfeed.Stream.Finalize.
func (p *Parser) Finalize() error { return p.st.Finalize() }

// Reset discards buffered input, parser state, and errors.
func (p *Parser) Reset() { p.st.Reset() }
