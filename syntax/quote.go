// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// String literal decoding.

import (
	"fmt"
	"strings"
)

// unquote unquotes the quoted string, returning the actual
// string value. The input may carry a prefix (r, b, u, f, in
// any case) and single or triple quotes.
func unquote(quoted string) (s string, err error) {
	// Strip the prefix, noting whether escapes are raw.
	raw := false
	for len(quoted) > 0 && quoted[0] != '"' && quoted[0] != '\'' {
		switch quoted[0] {
		case 'r', 'R':
			raw = true
		case 'b', 'B', 'u', 'U', 'f', 'F':
			// ignored: byte/unicode/format markers do not affect
			// the decoded text for analysis purposes
		default:
			err = fmt.Errorf("invalid string literal prefix %q", quoted[0])
			return
		}
		quoted = quoted[1:]
	}

	if len(quoted) < 2 {
		err = fmt.Errorf("string literal too short")
		return
	}

	if quoted[0] != '"' && quoted[0] != '\'' || quoted[0] != quoted[len(quoted)-1] {
		err = fmt.Errorf("string literal has invalid quotes")
		return
	}

	// Check for triple quoted string.
	quote := quoted[0]
	if len(quoted) >= 6 && quoted[1] == quote && quoted[2] == quote && quoted[:3] == quoted[len(quoted)-3:] {
		quoted = quoted[3 : len(quoted)-3]
	} else {
		quoted = quoted[1 : len(quoted)-1]
	}

	// Line endings are normalized to \n whether raw or not.
	quoted = strings.ReplaceAll(quoted, "\r\n", "\n")
	quoted = strings.ReplaceAll(quoted, "\r", "\n")

	if raw {
		// Raw strings keep their backslashes.
		return quoted, nil
	}

	// If the string contains no escapes, return it unmodified.
	if !strings.Contains(quoted, `\`) {
		return quoted, nil
	}

	var buf strings.Builder
	for len(quoted) > 0 {
		c := quoted[0]
		quoted = quoted[1:]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		if len(quoted) == 0 {
			return "", fmt.Errorf("truncated escape sequence")
		}
		e := quoted[0]
		quoted = quoted[1:]
		switch e {
		case '\n':
			// Ignore the escape and the line break.
		case 'a':
			buf.WriteByte('\a')
		case 'b':
			buf.WriteByte('\b')
		case 'f':
			buf.WriteByte('\f')
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'v':
			buf.WriteByte('\v')
		case '0':
			buf.WriteByte(0)
		case '\\', '\'', '"':
			buf.WriteByte(e)
		case 'x':
			if len(quoted) < 2 {
				return "", fmt.Errorf(`truncated escape sequence \x`)
			}
			n, err := hexByte(quoted[0], quoted[1])
			if err != nil {
				return "", err
			}
			buf.WriteByte(n)
			quoted = quoted[2:]
		default:
			// Unknown escapes pass through, as in Python
			// (with a DeprecationWarning we do not reproduce).
			buf.WriteByte('\\')
			buf.WriteByte(e)
		}
	}
	return buf.String(), nil
}

func hexByte(hi, lo byte) (byte, error) {
	h, ok1 := hexDigit(hi)
	l, ok2 := hexDigit(lo)
	if !ok1 || !ok2 {
		return 0, fmt.Errorf(`invalid escape sequence \x%c%c`, hi, lo)
	}
	return h<<4 | l, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Quote returns a quoted form of the string s,
// suitable for use in synthesized source text.
func Quote(s string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&buf, `\x%02x`, c)
			} else {
				buf.WriteByte(c)
			}
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
