// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
//
// An assistant message arrives as a loose mixture of narrative text, hidden
// <think> reasoning spans, tool-invocation announcements, tool-result
// envelopes in the backend's object-repr syntax, execution-plan step tables,
// and a final synthesized answer. This package turns that text into an
// ordered tree of renderable blocks that the UI layer consumes.
//
// # Pipeline
//
// Parse runs the full pipeline on the accumulated message text:
//
//  1. Reasoning spans are split out into a single thinking trace.
//  2. The cleaned narrative is segmented at tool markers, the final-answer
//     marker, or recognized as one execution plan.
//  3. Tool-result payloads are unwrapped from their envelope and classified
//     by content signature to pick a rendering strategy.
//  4. Media references (images, files, audio) are lifted out of narrative
//     spans into a deduplicated message-level list.
//
// The pipeline is a pure function over the full text: during streaming the
// caller appends each chunk to a cumulative buffer and re-runs Parse from
// scratch. Re-parsing identical input yields an identical block sequence,
// and no input can make Parse fail - every malformed construct degrades to
// plain text.
//
// # Key Types
//
//   - ParsedMessage: ordered Block list plus deduplicated MediaRef list
//   - Block: tagged union (TextBlock, ToolResultBlock, ExecutionPlanBlock,
//     FinalResponseBlock, ThinkingBlock)
//   - ResultKind: semantic subtype assigned by the result classifier
//   - ExecutionPlan: parsed plan with steps, results, and assessments
package transcript
