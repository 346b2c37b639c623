// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"io"

	"github.com/creachadair/jfeed"
)

// A Parser consumes chunks of JSON text and collects the top-level values
// they contain. Any number of values may follow one another in the input.
//
// If feeding or finalizing the input fails, the parser resets itself before
// reporting the error, discarding any partial and collected values. Its
// configuration is preserved.
type Parser struct {
	h  builder
	st *jfeed.Stream
}

// NewParser constructs a new Parser with default settings: objects are
// represented as *Object values, and comments and trailing commas are
// rejected.
func NewParser() *Parser {
	p := new(Parser)
	p.st = jfeed.NewStream(&p.h)
	return p
}

// UseMaps configures p to represent objects as map[string]any (true) or as
// *Object values (false). If an object has duplicate keys, the map holds the
// last value for each key. The setting applies to objects begun after the
// call.
func (p *Parser) UseMaps(ok bool) { p.h.maps = ok }

// AllowComments configures p to ignore (true) or reject (false) comments.
func (p *Parser) AllowComments(ok bool) { p.st.AllowComments(ok) }

// AllowTrailingCommas configures p to allow (true) or reject (false) a comma
// before the end of an array or object.
func (p *Parser) AllowTrailingCommas(ok bool) { p.st.AllowTrailingCommas(ok) }

// Feed consumes a chunk of input. Values completed by chunk become available
// from Values.
func (p *Parser) Feed(chunk []byte) error { return p.check(p.st.Feed(chunk)) }

// FeedString is as Feed, but reads its input from a string.
func (p *Parser) FeedString(chunk string) error { return p.check(p.st.FeedString(chunk)) }

// Finalize reports the end of the input, completing a final value that is
// terminated by the end of input. It reports an error if the input ended in
// the middle of a value.
func (p *Parser) Finalize() error { return p.check(p.st.Finalize()) }

// Values returns the complete top-level values collected since the last call
// to Values or Reset, and removes them from p.
func (p *Parser) Values() []any {
	vs := p.h.done
	p.h.done = nil
	return vs
}

// Reset discards all buffered input, partial and collected values, and
// errors, so that p can be used to parse a new stream.
func (p *Parser) Reset() {
	p.st.Reset()
	p.h.reset()
}

// Parse parses the complete JSON text and returns the values it contains.
// Any state left by previous calls to Feed is discarded.
func (p *Parser) Parse(text string) ([]any, error) {
	p.Reset()
	if err := p.FeedString(text); err != nil {
		return nil, err
	} else if err := p.Finalize(); err != nil {
		return nil, err
	}
	return p.Values(), nil
}

// ParseReader is as Parse, but reads the complete input from r.
func (p *Parser) ParseReader(r io.Reader) ([]any, error) {
	p.Reset()
	if _, err := p.st.ReadFrom(r); err != nil {
		p.Reset()
		return nil, err
	} else if err := p.Finalize(); err != nil {
		return nil, err
	}
	return p.Values(), nil
}

func (p *Parser) check(err error) error {
	if err != nil {
		p.Reset()
	}
	return err
}

// A builder implements the jfeed.Handler interface to construct values from
// parser events. The stack holds one frame per open container.
type builder struct {
	maps bool
	stk  []frame
	done []any
}

// A frame is an open container. Exactly one of arr, obj, and m is active.
type frame struct {
	isArr bool
	arr   []any
	obj   *Object
	m     map[string]any
	key   string // the most recent key, for objects
}

func (h *builder) reset() {
	clear(h.stk)
	h.stk = h.stk[:0]
	h.done = nil
}

func (h *builder) push(f frame) { h.stk = append(h.stk, f) }

func (h *builder) pop() frame {
	last := h.stk[len(h.stk)-1]
	h.stk[len(h.stk)-1] = frame{}
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

// add attaches a completed value to the innermost open container, or to the
// list of top-level values if no container is open.
func (h *builder) add(v any) {
	if len(h.stk) == 0 {
		h.done = append(h.done, v)
		return
	}
	top := &h.stk[len(h.stk)-1]
	switch {
	case top.isArr:
		top.arr = append(top.arr, v)
	case top.m != nil:
		top.m[top.key] = v
	default:
		top.obj.Members = append(top.obj.Members, Member{Key: top.key, Value: v})
	}
}

func (h *builder) BeginObject() {
	if h.maps {
		h.push(frame{m: make(map[string]any)})
	} else {
		h.push(frame{obj: new(Object)})
	}
}

func (h *builder) EndObject() {
	if f := h.pop(); f.m != nil {
		h.add(f.m)
	} else {
		h.add(f.obj)
	}
}

func (h *builder) BeginArray() { h.push(frame{isArr: true, arr: []any{}}) }

func (h *builder) EndArray() { h.add(h.pop().arr) }

func (h *builder) Key(tok jfeed.Token) { h.stk[len(h.stk)-1].key = tok.Text() }

func (h *builder) Value(tok jfeed.Token) {
	switch tok.Kind {
	case jfeed.StringLiteral:
		h.add(tok.Text())
	case jfeed.NumberLiteral:
		h.add(tok.Number())
	case jfeed.BooleanLiteral:
		h.add(tok.Bool())
	default:
		h.add(nil)
	}
}
