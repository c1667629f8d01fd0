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
// SEGMENT KIND
// =============================================================================

// SegmentKind identifies a raw segment produced by the transcript segmenter.
type SegmentKind int

const (
	// SegText - Narrative text between other constructs
	SegText SegmentKind = iota

	// SegToolResult - A tool marker plus the result span that follows it
	SegToolResult

	// SegExecutionPlan - The whole message, recognized as an execution plan
	SegExecutionPlan

	// SegFinalResponse - Everything from the final-answer marker onward
	SegFinalResponse
)

// Segment is one raw span of the transcript before classification.
type Segment struct {
	Kind SegmentKind

	// Body is the span's text. For tool-result segments this is the
	// envelope-unwrapped payload.
	Body string

	// ToolName is the identifier announced by the tool marker.
	ToolName string

	// IsError carries the envelope's error flag.
	IsError bool

	// IsJSON reports whether the payload looks like a JSON document.
	IsJSON bool
}

// =============================================================================
// WIRE MARKERS
// =============================================================================

// The backend announces structure with fixed phrases that must be matched
// byte-for-byte.
var (
	// toolMarkerRe announces a tool invocation: 执行工具: <name>.
	toolMarkerRe = regexp.MustCompile(`执行工具[:：]\s*([^\s,，\n]+)`)

	// finalMarkerRe opens the synthesized final answer.
	finalMarkerRe = regexp.MustCompile(`(?:最终回答|最终结果|生成回答|最终总结)[:：]?\s*`)

	// planStepLineRe is a numbered step line with a bracketed status glyph,
	// e.g. "1. [□] ..." — both ASCII and full-width brackets occur.
	planStepLineRe = regexp.MustCompile(`(?m)\d+\.\s*[\[【](□|✓|✗)[\]】]`)

	// statusCommentaryRe is orchestrator self-talk appended after tool
	// results ("工具结果评估 ... 是否需要执行其他工具: ...") that is noise
	// to the reader.
	statusCommentaryRe = regexp.MustCompile(`(?s)工具结果评估.*?是否需要执行其他工具:[^\n]*`)

	// promptLeakRe is a leaked orchestrator prompt line.
	promptLeakRe = regexp.MustCompile(`问题已完全解决，将生成[^\n]*`)

	// sseDataRe folds raw server-sent-event lines that leaked into a tool
	// span: data: {"content": "..."}.
	sseDataRe = regexp.MustCompile(`data:\s*\{"content":\s*"([^"}]*)"\}`)

	// sseUnicodeRe decodes \uXXXX escapes inside folded SSE content.
	sseUnicodeRe = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)
)

// planTitleMarkers open an execution-plan table.
var planTitleMarkers = []string{"**执行计划:", "执行计划:"}

// =============================================================================
// TRANSCRIPT SEGMENTER
// =============================================================================

// SegmentTranscript walks the cleaned narrative once and splits it into raw
// segments. Precedence is global: an execution-plan signature anywhere makes
// the entire message one plan segment; otherwise a final-answer marker
// splits the text before tool segmentation runs on the leading part.
func SegmentTranscript(text string) []Segment {
	text = stripPromptLeak(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if isExecutionPlan(text) {
		return []Segment{{Kind: SegExecutionPlan, Body: text}}
	}

	if loc := finalMarkerRe.FindStringIndex(text); loc != nil {
		var segs []Segment
		if before := strings.TrimSpace(text[:loc[0]]); before != "" {
			segs = segmentTools(before)
		}
		segs = append(segs, Segment{
			Kind: SegFinalResponse,
			Body: stripPromptLeak(strings.TrimSpace(text[loc[1]:])),
		})
		return segs
	}

	return segmentTools(text)
}

// isExecutionPlan reports the plan signature: a plan title marker plus at
// least one numbered step line with a bracketed status glyph.
func isExecutionPlan(text string) bool {
	title := false
	for _, m := range planTitleMarkers {
		if strings.Contains(text, m) {
			title = true
			break
		}
	}
	return title && planStepLineRe.MatchString(text)
}

// segmentTools splits text on tool-invocation markers. Text strictly
// between markers becomes text segments; each marker plus the run up to the
// next marker (or end) becomes one tool-result segment.
func segmentTools(text string) []Segment {
	marks := toolMarkerRe.FindAllStringSubmatchIndex(text, -1)
	if len(marks) == 0 {
		return []Segment{{Kind: SegText, Body: text}}
	}

	var segs []Segment
	appendText := func(s string) {
		s = strings.TrimSpace(stripStatusCommentary(s))
		if s != "" {
			segs = append(segs, Segment{Kind: SegText, Body: s})
		}
	}

	last := 0
	for i, m := range marks {
		markStart, markEnd := m[0], m[1]
		spanEnd := len(text)
		if i+1 < len(marks) {
			spanEnd = marks[i+1][0]
		}

		if markStart > last {
			appendText(text[last:markStart])
		}

		toolName := strings.TrimSpace(text[m[2]:m[3]])
		span := text[markStart:spanEnd]

		if envStart, envEnd, ok := findEnvelope(span); ok {
			payload, isErr := ExtractEnvelope(span[envStart:envEnd])
			payload = stripPromptLeak(payload)
			segs = append(segs, Segment{
				Kind:     SegToolResult,
				Body:     payload,
				ToolName: toolName,
				IsError:  isErr,
				IsJSON:   looksLikeJSON(payload),
			})
			// Anything after the envelope is commentary, back to text.
			appendText(span[envEnd:])
		} else if body := resolveBareResult(text[markEnd:spanEnd]); body != "" {
			segs = append(segs, Segment{
				Kind:     SegToolResult,
				Body:     body,
				ToolName: toolName,
				IsJSON:   looksLikeJSON(body),
			})
		}

		last = spanEnd
	}

	if last < len(text) {
		appendText(text[last:])
	}

	return segs
}

// resolveBareResult cleans a tool span that carried no envelope. Leaked SSE
// data lines are folded into one payload; otherwise the span survives minus
// status commentary.
func resolveBareResult(span string) string {
	span = strings.TrimSpace(stripStatusCommentary(span))
	if span == "" {
		return ""
	}

	if lines := sseDataRe.FindAllStringSubmatch(span, -1); len(lines) > 0 {
		var combined strings.Builder
		for _, l := range lines {
			combined.WriteString(decodeSSEContent(l[1]))
		}
		return stripPromptLeak(combined.String())
	}

	return stripPromptLeak(span)
}

// decodeSSEContent resolves \uXXXX escapes in folded SSE content.
func decodeSSEContent(s string) string {
	return sseUnicodeRe.ReplaceAllStringFunc(s, func(m string) string {
		code, err := strconv.ParseUint(m[2:], 16, 32)
		if err != nil {
			return m
		}
		return string(rune(code))
	})
}

// stripStatusCommentary removes orchestrator self-assessment chatter.
func stripStatusCommentary(s string) string {
	return statusCommentaryRe.ReplaceAllString(s, "")
}

// stripPromptLeak removes leaked orchestrator prompt lines.
func stripPromptLeak(s string) string {
	return strings.TrimSpace(promptLeakRe.ReplaceAllString(s, ""))
}

// looksLikeJSON reports whether s opens like a JSON document.
func looksLikeJSON(s string) bool {
	t := strings.TrimSpace(s)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[")
}
