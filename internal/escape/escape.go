// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unescaping of JSON strings.
package escape

import "unicode/utf8"

var simpleEsc = [...]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// Simple reports the byte denoted by the single-character escape sequence
// "\c", and whether c is a valid single-character escape.
// The Unicode escape "\u" is not a simple escape.
func Simple(c byte) (byte, bool) {
	if int(c) < len(simpleEsc) && simpleEsc[c] != 0 {
		return simpleEsc[c], true
	}
	return 0, false
}

// HexDigit reports the value of c as a hexadecimal digit, and whether c is a
// valid hexadecimal digit.
func HexDigit(c byte) (rune, bool) {
	switch {
	case '0' <= c && c <= '9':
		return rune(c - '0'), true
	case 'a' <= c && c <= 'f':
		return rune(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return rune(c-'A') + 10, true
	}
	return 0, false
}

// IsHighSurrogate reports whether r is the first half of a UTF-16 surrogate
// pair.
func IsHighSurrogate(r rune) bool { return 0xd800 <= r && r < 0xdc00 }

// IsLowSurrogate reports whether r is the second half of a UTF-16 surrogate
// pair.
func IsLowSurrogate(r rune) bool { return 0xdc00 <= r && r < 0xe000 }

// Combine returns the code point encoded by the surrogate pair hi, lo.
// The caller must ensure hi and lo are high and low surrogates respectively.
func Combine(hi, lo rune) rune {
	return 0x10000 + (hi-0xd800)<<10 + (lo - 0xdc00)
}

// AppendRune appends the UTF-8 encoding of r to dst. Surrogate halves that
// were not combined into a pair are replaced by utf8.RuneError.
func AppendRune(dst []byte, r rune) []byte {
	if IsHighSurrogate(r) || IsLowSurrogate(r) {
		r = utf8.RuneError
	}
	return utf8.AppendRune(dst, r)
}
