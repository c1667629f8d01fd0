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
// BLOCK KIND
// =============================================================================

// BlockKind identifies the concrete type of a content block.
type BlockKind int

const (
	// KindText - Plain narrative text between other constructs
	KindText BlockKind = iota

	// KindToolResult - The outcome of one tool invocation
	KindToolResult

	// KindExecutionPlan - A structured multi-step execution plan
	KindExecutionPlan

	// KindFinalResponse - The synthesized final answer
	KindFinalResponse

	// KindThinking - The hidden reasoning trace (at most one per message)
	KindThinking
)

// String returns the string representation of a block kind.
func (k BlockKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindToolResult:
		return "tool-result"
	case KindExecutionPlan:
		return "execution-plan"
	case KindFinalResponse:
		return "final-response"
	case KindThinking:
		return "thinking"
	default:
		return "unknown"
	}
}

// =============================================================================
// BLOCK UNION
// =============================================================================

// Block is one typed, renderable unit of a classified transcript.
//
// Block IDs are deterministic (kind plus position), so they are stable across
// re-parses of a growing streamed message. The UI keys its collapsed/expanded
// state on them; that state is owned by the caller, never by this package.
type Block interface {
	// Kind returns the block's type tag.
	Kind() BlockKind

	// ID returns a deterministic identifier, stable across re-parses.
	ID() string
}

// TextBlock is plain narrative text.
type TextBlock struct {
	id   string
	Body string
}

// Kind returns KindText.
func (b *TextBlock) Kind() BlockKind { return KindText }

// ID returns the block identifier.
func (b *TextBlock) ID() string { return b.id }

// ToolResultBlock is the outcome of one tool invocation.
type ToolResultBlock struct {
	id string

	// ToolName is the invoked tool, if the marker carried one.
	ToolName string

	// Body is the unwrapped result payload.
	Body string

	// IsError reports whether the envelope was flagged as an error.
	IsError bool

	// IsJSON reports whether the payload looks like a JSON document.
	IsJSON bool

	// Result is the semantic subtype assigned by the classifier.
	Result ResultKind

	// MediaRefs are media references found in this result's own text.
	MediaRefs []MediaRef
}

// Kind returns KindToolResult.
func (b *ToolResultBlock) Kind() BlockKind { return KindToolResult }

// ID returns the block identifier.
func (b *ToolResultBlock) ID() string { return b.id }

// ExecutionPlanBlock is a structured multi-step execution plan.
type ExecutionPlanBlock struct {
	id   string
	Plan *ExecutionPlan
}

// Kind returns KindExecutionPlan.
func (b *ExecutionPlanBlock) Kind() BlockKind { return KindExecutionPlan }

// ID returns the block identifier.
func (b *ExecutionPlanBlock) ID() string { return b.id }

// FinalResponseBlock is the synthesized final answer.
type FinalResponseBlock struct {
	id string

	// Body is the answer text (media URLs removed when Media carries them).
	Body string

	// Media describes media embedded in the answer.
	Media EmbeddedMedia
}

// Kind returns KindFinalResponse.
func (b *FinalResponseBlock) Kind() BlockKind { return KindFinalResponse }

// ID returns the block identifier.
func (b *FinalResponseBlock) ID() string { return b.id }

// ThinkingBlock is the hidden reasoning trace.
type ThinkingBlock struct {
	id string

	// Body is the concatenated reasoning text.
	Body string

	// InProgress reports an opened but not yet closed reasoning span.
	InProgress bool
}

// Kind returns KindThinking.
func (b *ThinkingBlock) Kind() BlockKind { return KindThinking }

// ID returns the block identifier.
func (b *ThinkingBlock) ID() string { return b.id }

// =============================================================================
// PARSED MESSAGE
// =============================================================================

// ParsedMessage is the artifact handed to the rendering layer: the ordered
// block list plus the deduplicated media references lifted from narrative
// text. It is derived fresh from the full accumulated message text on every
// update and never mutated incrementally.
type ParsedMessage struct {
	// Blocks in source order.
	Blocks []Block

	// Media references from narrative spans, deduplicated by URL,
	// first occurrence wins.
	Media []MediaRef
}

// Thinking returns the thinking block, or nil if the message has none.
func (m *ParsedMessage) Thinking() *ThinkingBlock {
	for _, b := range m.Blocks {
		if t, ok := b.(*ThinkingBlock); ok {
			return t
		}
	}
	return nil
}

// FinalResponse returns the final-response block, or nil.
func (m *ParsedMessage) FinalResponse() *FinalResponseBlock {
	for _, b := range m.Blocks {
		if f, ok := b.(*FinalResponseBlock); ok {
			return f
		}
	}
	return nil
}

// ToolResults returns all tool-result blocks in source order.
func (m *ParsedMessage) ToolResults() []*ToolResultBlock {
	var out []*ToolResultBlock
	for _, b := range m.Blocks {
		if r, ok := b.(*ToolResultBlock); ok {
			out = append(out, r)
		}
	}
	return out
}

// =============================================================================
// PARSE
// =============================================================================

// markdownFenceRe unwraps ```markdown fences the model sometimes emits
// around entire documents.
var markdownFenceRe = regexp.MustCompile("(?s)```markdown\\s*(.*?)\\s*```")

// Parse runs the full interpretation pipeline over the accumulated message
// text. It never fails: every structural anomaly degrades to plain text.
func Parse(text string) *ParsedMessage {
	msg := &ParsedMessage{}
	if strings.TrimSpace(text) == "" {
		return msg
	}

	text = markdownFenceRe.ReplaceAllString(text, "$1")

	narrative, trace, inProgress := SplitThinking(text)
	narrative = collapseBlankLines(narrative)

	if trace != "" || inProgress {
		msg.Blocks = append(msg.Blocks, &ThinkingBlock{
			Body:       trace,
			InProgress: inProgress,
		})
	}

	seen := make(map[string]bool)
	for _, seg := range SegmentTranscript(narrative) {
		switch seg.Kind {
		case SegText:
			body, refs := ExtractMedia(seg.Body)
			for _, ref := range refs {
				if !seen[ref.URL] {
					seen[ref.URL] = true
					msg.Media = append(msg.Media, ref)
				}
			}
			if strings.TrimSpace(body) != "" {
				msg.Blocks = append(msg.Blocks, &TextBlock{Body: body})
			}

		case SegToolResult:
			msg.Blocks = append(msg.Blocks, &ToolResultBlock{
				ToolName:  seg.ToolName,
				Body:      seg.Body,
				IsError:   seg.IsError,
				IsJSON:    seg.IsJSON,
				Result:    Classify(seg.Body),
				MediaRefs: imageRefs(seg.Body),
			})

		case SegExecutionPlan:
			msg.Blocks = append(msg.Blocks, &ExecutionPlanBlock{
				Plan: ParseExecutionPlan(seg.Body),
			})

		case SegFinalResponse:
			body, media := ClassifyEmbeddedMedia(seg.Body)
			msg.Blocks = append(msg.Blocks, &FinalResponseBlock{
				Body:  body,
				Media: media,
			})
		}
	}

	assignBlockIDs(msg.Blocks)
	return msg
}

// assignBlockIDs gives each block a deterministic identifier based on its
// kind and ordinal position, e.g. "tool-result-1". Positions restart per
// kind so IDs stay stable while a streamed message grows at the tail.
func assignBlockIDs(blocks []Block) {
	counts := make(map[BlockKind]int)
	for _, b := range blocks {
		n := counts[b.Kind()]
		counts[b.Kind()] = n + 1
		id := b.Kind().String() + "-" + strconv.Itoa(n)
		switch blk := b.(type) {
		case *TextBlock:
			blk.id = id
		case *ToolResultBlock:
			blk.id = id
		case *ExecutionPlanBlock:
			blk.id = id
		case *FinalResponseBlock:
			blk.id = id
		case *ThinkingBlock:
			blk.id = id
		}
	}
}

// collapseBlankLines squeezes runs of three or more newlines down to one
// blank line and trims the ends.
func collapseBlankLines(s string) string {
	return strings.TrimSpace(blankRunRe.ReplaceAllString(s, "\n\n"))
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)
