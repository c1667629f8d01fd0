// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// REASONING SPLITTER
// =============================================================================

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"

	// thinkProcessMarker tags inline JSON objects that carry reasoning text.
	thinkProcessMarker = `"think_process"`
)

// SplitThinking removes every hidden reasoning region from text and returns
// the cleaned narrative plus the concatenated reasoning trace.
//
// Two forms are recognized: <think>...</think> tag pairs, and inline JSON
// objects of the form {"type": "think_process", "content": "..."}. Multiple
// regions are joined by blank lines into one trace.
//
// During streaming a tag may be open but not yet closed. That trailing
// region is treated as reasoning in progress: it is kept out of the
// narrative and inProgress is reported true.
func SplitThinking(text string) (narrative, trace string, inProgress bool) {
	var traces []string
	var clean strings.Builder

	rest := text
	for {
		start := strings.Index(rest, thinkOpen)
		if start == -1 {
			clean.WriteString(rest)
			break
		}
		clean.WriteString(rest[:start])
		rest = rest[start+len(thinkOpen):]

		end := strings.Index(rest, thinkClose)
		if end == -1 {
			// Unterminated span: everything from the open tag on is
			// reasoning still being streamed.
			if t := strings.TrimSpace(rest); t != "" {
				traces = append(traces, t)
			}
			inProgress = true
			rest = ""
			break
		}
		if t := strings.TrimSpace(rest[:end]); t != "" {
			traces = append(traces, t)
		}
		rest = rest[end+len(thinkClose):]
	}

	narrative, jsonTraces := extractThinkJSON(clean.String())
	traces = append(traces, jsonTraces...)

	return strings.TrimSpace(narrative), strings.Join(traces, "\n\n"), inProgress
}

// extractThinkJSON excises inline {"type": "think_process", ...} objects
// from s. Objects that do not parse as JSON are left in place.
func extractThinkJSON(s string) (string, []string) {
	if !strings.Contains(s, thinkProcessMarker) {
		return s, nil
	}

	var traces []string
	var clean strings.Builder

	pos := 0
	for pos < len(s) {
		marker := strings.Index(s[pos:], thinkProcessMarker)
		if marker == -1 {
			clean.WriteString(s[pos:])
			break
		}
		marker += pos

		start, end, ok := enclosingObject(s, marker)
		if !ok {
			clean.WriteString(s[pos : marker+len(thinkProcessMarker)])
			pos = marker + len(thinkProcessMarker)
			continue
		}

		var obj struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal([]byte(s[start:end]), &obj); err != nil || obj.Type != "think_process" || obj.Content == "" {
			clean.WriteString(s[pos:end])
			pos = end
			continue
		}

		clean.WriteString(s[pos:start])
		traces = append(traces, strings.TrimSpace(obj.Content))
		pos = end
	}

	return clean.String(), traces
}

// enclosingObject finds the balanced {...} region around byte offset at.
// It scans backwards for the opening brace, then forward with depth
// tracking, skipping string literals so braces inside content don't count.
func enclosingObject(s string, at int) (start, end int, ok bool) {
	start = strings.LastIndex(s[:at], "{")
	if start == -1 {
		return 0, 0, false
	}

	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return start, i + 1, true
			}
		}
	}
	return 0, 0, false
}
