// Package testutil defines support code for unit tests.
package testutil

import (
	"fmt"
	"strings"

	"github.com/creachadair/jfeed"
)

// A Recorder is a jfeed.Handler that records a transcript of the events it
// receives, one line per event. Comments are recorded with a "comment" prefix.
type Recorder struct {
	lines []string
}

// Lines returns the recorded transcript.
func (r *Recorder) Lines() []string { return r.lines }

// Output returns the recorded transcript as a single newline-separated string.
func (r *Recorder) Output() string { return strings.Join(r.lines, "\n") }

// Clear discards the recorded transcript.
func (r *Recorder) Clear() { r.lines = r.lines[:0] }

func (r *Recorder) add(e jfeed.Event) { r.lines = append(r.lines, e.String()) }

func (r *Recorder) BeginObject()          { r.add(jfeed.Event{Kind: jfeed.EventObjectOpen}) }
func (r *Recorder) EndObject()            { r.add(jfeed.Event{Kind: jfeed.EventObjectClose}) }
func (r *Recorder) BeginArray()           { r.add(jfeed.Event{Kind: jfeed.EventArrayOpen}) }
func (r *Recorder) EndArray()             { r.add(jfeed.Event{Kind: jfeed.EventArrayClose}) }
func (r *Recorder) Key(tok jfeed.Token)   { r.add(jfeed.Event{Kind: jfeed.EventObjectKey, Token: tok}) }
func (r *Recorder) Value(tok jfeed.Token) { r.add(jfeed.Event{Kind: jfeed.EventValue, Token: tok}) }

func (r *Recorder) Comment(tok jfeed.Token) {
	r.lines = append(r.lines, fmt.Sprintf("comment %q", tok.Text()))
}

// Tokens constructs a slice of tokens from Go values: one-byte strings
// denoting punctuation become punctuation tokens, other strings become string
// literals, integers and floats become numbers, bools become Booleans, and
// nil becomes null.
func Tokens(vs ...any) []jfeed.Token {
	var out []jfeed.Token
	for _, v := range vs {
		switch t := v.(type) {
		case nil:
			out = append(out, jfeed.Null())
		case bool:
			out = append(out, jfeed.Bool(t))
		case int:
			out = append(out, jfeed.Num(jfeed.Number(fmt.Sprint(t))))
		case float64:
			out = append(out, jfeed.Num(jfeed.Number(fmt.Sprint(t))))
		case string:
			if k, ok := punct[t]; ok {
				out = append(out, jfeed.Punct(k))
			} else {
				out = append(out, jfeed.String(t))
			}
		default:
			panic(fmt.Sprintf("unsupported token value %T", v))
		}
	}
	return out
}

var punct = map[string]jfeed.Kind{
	"{": jfeed.BraceOpen,
	"}": jfeed.BraceClose,
	"[": jfeed.BracketOpen,
	"]": jfeed.BracketClose,
	":": jfeed.Colon,
	",": jfeed.Comma,
}

// Splits returns every way of dividing s into two chunks, including the
// divisions with an empty first or last chunk.
func Splits(s string) [][]string {
	out := make([][]string, 0, len(s)+1)
	for i := 0; i <= len(s); i++ {
		out = append(out, []string{s[:i], s[i:]})
	}
	return out
}

// Bytewise returns s divided into chunks of one byte each.
func Bytewise(s string) []string {
	out := make([]string, len(s))
	for i := range len(s) {
		out[i] = s[i : i+1]
	}
	return out
}
