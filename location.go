// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfeed

import "fmt"

// A Span describes a contiguous span of the input stream, measured in bytes
// from the start of the stream (not the start of the current chunk).
type Span struct {
	Pos int // the start offset, 0-based
	End int // the end offset, 0-based (noninclusive)
}

// A LineCol describes the line number and column offset of a location in
// the input stream.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location describes the complete location of a range of the input,
// including line and column offsets.
type Location struct {
	Span
	First, Last LineCol
}

// String renders loc as "line:col-col" when the range lies on a single line,
// or "line:col-line:col" otherwise.
func (loc Location) String() string {
	if loc.First.Line == loc.Last.Line {
		return fmt.Sprintf("%s-%d", loc.First, loc.Last.Column)
	}
	return fmt.Sprintf("%s-%s", loc.First, loc.Last)
}
