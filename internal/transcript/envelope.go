// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// TOOL-RESULT ENVELOPE
// =============================================================================

// Tool executions come back wrapped in the backend's object-repr envelope:
//
//	meta=None content=[TextContent(type='text', text='...')] isError=False
//
// The payload inside text='...' carries backslash escapes (\n, \', \", \\,
// \uXXXX). Extraction must never fail: if the structure is off in any way,
// the original text is returned unchanged with isError=false.

var (
	// envelopeRe matches the outer meta=... content=[...] isError=... wrapper.
	envelopeRe = regexp.MustCompile(`(?is)meta=(?:None|null)\s+content=\[(.*?)\]\s+isError=(False|True)`)

	// textContentRe matches the inner TextContent(...) object-repr.
	textContentRe = regexp.MustCompile(`(?s)TextContent\(type='text',\s*text='(.*?)'(?:,\s*annotations=None)?\)`)
)

// ExtractEnvelope unwraps a tool-result envelope from s. It returns the
// unescaped payload and the envelope's error flag. When the outer wrapper is
// absent it falls back to a bare TextContent(...), and when neither matches
// it returns s unchanged with isError=false.
func ExtractEnvelope(s string) (payload string, isError bool) {
	if m := envelopeRe.FindStringSubmatch(s); m != nil {
		isError = strings.EqualFold(m[2], "true")
		if inner := textContentRe.FindStringSubmatch(m[1]); inner != nil {
			return unescapePayload(inner[1]), isError
		}
		// Wrapper present but no recognizable inner content: keep the
		// wrapper's inner text as-is rather than losing it.
		return m[1], isError
	}

	if inner := textContentRe.FindStringSubmatch(s); inner != nil {
		return unescapePayload(inner[1]), false
	}

	return s, false
}

// findEnvelope reports the location of the outer envelope within s, if any.
// Used by the segmenter to split a tool span around the envelope.
func findEnvelope(s string) (start, end int, ok bool) {
	loc := envelopeRe.FindStringIndex(s)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

// unescapePayload decodes the backslash escapes used inside text='...'
// payloads in a single pass: \n, \t, \', \", \\ and \uXXXX. Unknown escapes
// are preserved verbatim.
func unescapePayload(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		switch s[i+1] {
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		case '\'':
			b.WriteByte('\'')
			i++
		case '"':
			b.WriteByte('"')
			i++
		case '\\':
			b.WriteByte('\\')
			i++
		case 'u':
			if i+5 < len(s) {
				if code, err := strconv.ParseUint(s[i+2:i+6], 16, 32); err == nil {
					b.WriteRune(rune(code))
					i += 5
					continue
				}
			}
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
