// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package value_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/creachadair/jfeed"
	"github.com/creachadair/jfeed/value"
	"github.com/google/go-cmp/cmp"
)

// stdDecode decodes all the values in input with the standard library,
// converting numbers to jfeed.Number so the results are comparable.
func stdDecode(t *testing.T, input string) []any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()
	var out []any
	for {
		var v any
		if err := dec.Decode(&v); err == io.EOF {
			return out
		} else if err != nil {
			t.Fatalf("Decode %#q: %v", input, err)
		}
		out = append(out, fromStd(v))
	}
}

func fromStd(v any) any {
	switch t := v.(type) {
	case json.Number:
		return jfeed.Number(t)
	case []any:
		for i, elt := range t {
			t[i] = fromStd(elt)
		}
	case map[string]any:
		for k, elt := range t {
			t[k] = fromStd(elt)
		}
	}
	return v
}

// toMaps converts *value.Object values in v to maps.
func toMaps(v any) any {
	switch t := v.(type) {
	case *value.Object:
		m := make(map[string]any)
		for _, mem := range t.Members {
			m[mem.Key] = toMaps(mem.Value)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, elt := range t {
			out[i] = toMaps(elt)
		}
		return out
	}
	return v
}

var parseInputs = []string{
	`{}`,
	`[]`,
	`{ "a" : 1, "b" : 2, "c" : 3 }`,
	`{ "a" : 1, "nested" : { "b" : 2, "c" : 3, "d" : 4 }, "e" : 5 }`,
	`[ 1, 2, 3 ]`,
	`[ 1, [ 2, 3, 4 ], 5 ]`,
	`{ "nested" : [ { "a" : 1, "b" : 2 } ] }`,
	`[{}]`,
	`[[]]`,
	`"a\nbé" -0.5e+10 true false null`,
	`{"list": [{"x": [null, "", 0]}, {"y": {}}], "dup": 1, "dup": 2}`,
}

func TestParse(t *testing.T) {
	for _, useMaps := range []bool{false, true} {
		p := value.NewParser()
		p.UseMaps(useMaps)
		for _, input := range parseInputs {
			got, err := p.Parse(input)
			if err != nil {
				t.Errorf("Parse %#q: unexpected error: %v", input, err)
				continue
			}
			want := stdDecode(t, input)
			if !useMaps {
				got = toMaps(got).([]any)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Parse %#q (maps=%v): (-want, +got)\n%s", input, useMaps, diff)
			}
			if vs := p.Values(); len(vs) != 0 {
				t.Errorf("Values after Parse: got %v, want empty", vs)
			}
		}
	}
}

func TestParse_objects(t *testing.T) {
	p := value.NewParser()
	got, err := p.Parse(`{ "a" : 1, "nested" : { "b" : 2, "c" : 3, "d" : 4 }, "e" : 5 }`)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	want := []any{&value.Object{Members: []value.Member{
		{Key: "a", Value: jfeed.Number("1")},
		{Key: "nested", Value: &value.Object{Members: []value.Member{
			{Key: "b", Value: jfeed.Number("2")},
			{Key: "c", Value: jfeed.Number("3")},
			{Key: "d", Value: jfeed.Number("4")},
		}}},
		{Key: "e", Value: jfeed.Number("5")},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse: (-want, +got)\n%s", diff)
	}

	got, err = value.NewParser().Parse(`[1, 2, 3]`)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]any{[]any{jfeed.Number("1"), jfeed.Number("2"), jfeed.Number("3")}}, got); diff != "" {
		t.Errorf("Parse: (-want, +got)\n%s", diff)
	}
}

func TestParser_incremental(t *testing.T) {
	p := value.NewParser()
	p.UseMaps(true)

	steps := []struct {
		chunk string
		want  []any
	}{
		{`[1`, nil},
		{`] {"a"`, []any{[]any{jfeed.Number("1")}}},
		{`:`, nil},
		{` "b"} 3`, []any{map[string]any{"a": "b"}}},
		{`4 tr`, []any{jfeed.Number("34")}},
		{`ue`, []any{true}},
	}
	for _, step := range steps {
		if err := p.FeedString(step.chunk); err != nil {
			t.Fatalf("Feed %q: unexpected error: %v", step.chunk, err)
		}
		if diff := cmp.Diff(step.want, p.Values()); diff != "" {
			t.Errorf("After %q: (-want, +got)\n%s", step.chunk, diff)
		}
	}
	if err := p.Finalize(); err != nil {
		t.Fatalf("Finalize: unexpected error: %v", err)
	}
	if vs := p.Values(); len(vs) != 0 {
		t.Errorf("After Finalize: got %v, want empty", vs)
	}
}

func TestParser_failureResets(t *testing.T) {
	p := value.NewParser()

	// A complete value followed by an error: the value is discarded.
	err := p.FeedString(`[1] ]`)
	var perr *jfeed.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Feed: got %v, want *ParseError", err)
	} else if got, want := err.Error(), "unexpected token BracketClose in state Begin"; got != want {
		t.Errorf("Feed error: got %q, want %q", got, want)
	}
	if vs := p.Values(); len(vs) != 0 {
		t.Errorf("Values after error: got %v, want empty", vs)
	}

	// The parser is usable again without an explicit reset. The number is
	// not complete until the end of input, so the error comes from Finalize.
	if err := p.FeedString(`{ 1`); err != nil {
		t.Fatalf("Feed: unexpected error: %v", err)
	}
	if err := p.Finalize(); err == nil {
		t.Fatal("Finalize: got nil, want error")
	} else if got, want := err.Error(), "unexpected token NumberLiteral in state ObjectExpectKeyOrClose"; got != want {
		t.Errorf("Finalize error: got %q, want %q", got, want)
	}
	if err := p.FeedString(`{ 1 `); err == nil {
		t.Fatal("Feed: got nil, want error")
	} else if got, want := err.Error(), "unexpected token NumberLiteral in state ObjectExpectKeyOrClose"; got != want {
		t.Errorf("Feed error: got %q, want %q", got, want)
	}

	if err := p.FeedString(`{"a": [`); err != nil {
		t.Fatalf("Feed: unexpected error: %v", err)
	}
	if err := p.Finalize(); !errors.Is(err, jfeed.ErrUnexpectedEnd) {
		t.Errorf("Finalize: got %v, want %v", err, jfeed.ErrUnexpectedEnd)
	}

	vs, err := p.Parse(`"ok"`)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]any{"ok"}, vs); diff != "" {
		t.Errorf("Parse: (-want, +got)\n%s", diff)
	}

	if _, err := p.Parse(`[1, "two" 3]`); err == nil {
		t.Error("Parse: got nil, want error")
	}
	var lerr *jfeed.LexError
	if _, err := p.Parse(`[nul]`); !errors.As(err, &lerr) {
		t.Errorf("Parse: got %v, want *LexError", err)
	}
}

func TestParser_reset(t *testing.T) {
	p := value.NewParser()
	if err := p.FeedString(`1 2 [3`); err != nil {
		t.Fatalf("Feed: unexpected error: %v", err)
	}
	p.Reset()
	if vs := p.Values(); len(vs) != 0 {
		t.Errorf("Values after Reset: got %v, want empty", vs)
	}
	if err := p.FeedString(`]`); err == nil {
		t.Error("Feed after Reset: got nil, want error")
	}
}

func TestParseReader(t *testing.T) {
	const input = `{"name": "value", "list": [1, 2.5, -3e2]} [true, null]`
	want := stdDecode(t, input)

	p := value.NewParser()
	p.UseMaps(true)
	got, err := p.ParseReader(iotest.OneByteReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("ParseReader: unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseReader: (-want, +got)\n%s", diff)
	}

	r := io.MultiReader(strings.NewReader(input), iotest.ErrReader(io.ErrClosedPipe))
	if _, err := p.ParseReader(r); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("ParseReader: got %v, want %v", err, io.ErrClosedPipe)
	}
	if vs := p.Values(); len(vs) != 0 {
		t.Errorf("Values after read error: got %v, want empty", vs)
	}

	if _, err := p.ParseReader(bytes.NewReader([]byte(`{"a"`))); !errors.Is(err, jfeed.ErrUnexpectedEnd) {
		t.Errorf("ParseReader: got %v, want %v", err, jfeed.ErrUnexpectedEnd)
	}
}

func TestParser_lenient(t *testing.T) {
	const input = `// leading
{
  "a": [1, 2, 3,], /* trailing */
  "b": {"c": null,},
}`
	p := value.NewParser()
	if _, err := p.Parse(input); err == nil {
		t.Fatal("Parse: strict parser accepted comments")
	}
	p.AllowComments(true)
	p.AllowTrailingCommas(true)
	p.UseMaps(true)
	got, err := p.Parse(input)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	want := []any{map[string]any{
		"a": []any{jfeed.Number("1"), jfeed.Number("2"), jfeed.Number("3")},
		"b": map[string]any{"c": nil},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse: (-want, +got)\n%s", diff)
	}
}

func TestParser_feedBytes(t *testing.T) {
	const input = `{"k1": [1, 2], "k2": "v"}`
	p := value.NewParser()
	p.UseMaps(true)
	for i := range len(input) {
		if err := p.Feed([]byte(input[i : i+1])); err != nil {
			t.Fatalf("Feed at %d: unexpected error: %v", i, err)
		}
	}
	if err := p.Finalize(); err != nil {
		t.Fatalf("Finalize: unexpected error: %v", err)
	}
	if diff := cmp.Diff(stdDecode(t, input), p.Values()); diff != "" {
		t.Errorf("Values: (-want, +got)\n%s", diff)
	}
}
