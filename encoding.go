// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jfeed

import (
	"errors"

	"github.com/creachadair/jfeed/internal/escape"
	"go4.org/mem"
)

// Quote encodes s as a JSON string literal. The contents are escaped and
// double quotation marks are added.
func Quote(s string) string { return string(escape.AppendQuote(nil, mem.S(s))) }

// Unquote decodes src, which must consist of exactly one JSON string literal
// including its double quotation marks, optionally surrounded by whitespace.
// Escape sequences are replaced with their unescaped equivalents.
func Unquote(src string) (string, error) {
	var x Lexer
	toks, err := x.FeedString(src)
	if err != nil {
		return "", err
	}
	tok, ok, err := x.Finalize()
	if err != nil {
		return "", err
	} else if ok {
		toks = append(toks, tok)
	}
	if len(toks) != 1 || toks[0].Kind != StringLiteral {
		return "", errors.New("input is not a single string literal")
	}
	return toks[0].Text(), nil
}
