// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// =============================================================================
// STEP STATUS
// =============================================================================

// StepStatus is the lifecycle state of one plan step.
type StepStatus int

const (
	// StepPending - Not yet executed
	StepPending StepStatus = iota

	// StepSuccess - Executed and succeeded
	StepSuccess

	// StepError - Executed and failed
	StepError
)

// String returns the display name of the step status.
func (s StepStatus) String() string {
	switch s {
	case StepSuccess:
		return "success"
	case StepError:
		return "error"
	default:
		return "pending"
	}
}

// =============================================================================
// PLAN TYPES
// =============================================================================

// ExecutionStep is one row of the plan table.
type ExecutionStep struct {
	// Number is the 1-based position printed in the table.
	Number int

	// Status combines the table glyph with the matching execution record.
	// A record wins over the glyph when both exist.
	Status StepStatus

	// Description is the human-readable step summary.
	Description string

	// ID correlates the step with its execution record.
	ID string

	// Tool is the tool the step invokes.
	Tool string

	// Params is the argument object exactly as printed, malformed or not.
	Params string

	// Result is the execution record for this step, nil until one arrives.
	Result *ExecutionResult
}

// ExecutionResult is one 执行步骤 record emitted as a step runs.
type ExecutionResult struct {
	StepID   string
	ToolName string
	Status   StepStatus

	// Content is the record's result payload with the envelope unwrapped.
	Content string
	IsError bool

	// Assessment is the orchestrator's judgement of the result, if printed.
	Assessment *Assessment
}

// Assessment is the orchestrator's self-evaluation of a step result.
type Assessment struct {
	Satisfaction string
	Confidence   string
	Reason       string
}

// ExecutionPlan is the fully parsed plan table plus its execution records.
type ExecutionPlan struct {
	Title   string
	Created string
	Steps   []ExecutionStep

	// FinalOutput is the 最终结果 payload, empty while the plan runs.
	FinalOutput string
}

// Done reports whether every step has left the pending state.
func (p *ExecutionPlan) Done() bool {
	for _, s := range p.Steps {
		if s.Status == StepPending {
			return false
		}
	}
	return len(p.Steps) > 0
}

// Progress returns completed and total step counts.
func (p *ExecutionPlan) Progress() (done, total int) {
	for _, s := range p.Steps {
		if s.Status != StepPending {
			done++
		}
	}
	return done, len(p.Steps)
}

// =============================================================================
// WIRE PATTERNS
// =============================================================================

var (
	planTitleRe   = regexp.MustCompile(`\*\*执行计划:\s*(.*?)\*\*`)
	planCreatedRe = regexp.MustCompile(`\*\*创建时间:\s*(.*?)\*\*`)

	// planStepRe is a full step row: number, glyph, description, ID, tool
	// and the printed parameter object.
	planStepRe = regexp.MustCompile(`(?s)(\d+)\.\s*[\[【](□|✓|✗)[\]】]\s*(.*?)\s*\(ID:\s*(.*?)\)\s*工具:\s*(.*?)\s*参数:\s*(\{.*?\})`)

	// recordHeadRe opens one execution record. Records are split by a
	// forward scan on the marker since the payload itself is free-form.
	recordHeadRe = regexp.MustCompile(`执行步骤\s+(\S+)\s+\(([^)]*)\)\s*[:：]\s*(成功|失败)\s*结果:\s*`)

	assessmentRe = regexp.MustCompile(`(?s)评估:\s+满足度:\s+(.*?)\s+\(置信度:\s+(.*?)\)\s+原因:\s+(.*)$`)

	finalOutputRe = regexp.MustCompile(`(?s)最终结果[:：]\s*(.+)$`)
)

const recordMarker = "执行步骤 "

// =============================================================================
// PLAN PARSER
// =============================================================================

// ParseExecutionPlan parses a plan-bearing message into its table, execution
// records and final output. Records are correlated to steps by ID; a record
// with no matching step is dropped, a step with no record keeps the status
// its glyph declares.
func ParseExecutionPlan(text string) *ExecutionPlan {
	plan := &ExecutionPlan{}

	if m := planTitleRe.FindStringSubmatch(text); m != nil {
		plan.Title = strings.TrimSpace(m[1])
	}
	if m := planCreatedRe.FindStringSubmatch(text); m != nil {
		plan.Created = strings.TrimSpace(m[1])
	}
	if m := finalOutputRe.FindStringSubmatch(text); m != nil {
		plan.FinalOutput = strings.TrimSpace(m[1])
	}

	for _, m := range planStepRe.FindAllStringSubmatch(text, -1) {
		num, _ := strconv.Atoi(m[1])
		plan.Steps = append(plan.Steps, ExecutionStep{
			Number:      num,
			Status:      glyphStatus(m[2]),
			Description: strings.TrimSpace(m[3]),
			ID:          strings.TrimSpace(m[4]),
			Tool:        strings.TrimSpace(m[5]),
			Params:      strings.TrimSpace(m[6]),
		})
	}

	for _, rec := range parseExecutionRecords(text, plan.FinalOutput) {
		for i := range plan.Steps {
			if plan.Steps[i].ID == rec.StepID {
				r := rec
				plan.Steps[i].Result = &r
				plan.Steps[i].Status = rec.Status
				break
			}
		}
	}

	return plan
}

// glyphStatus maps a table glyph to its step status.
func glyphStatus(glyph string) StepStatus {
	switch glyph {
	case "✓":
		return StepSuccess
	case "✗":
		return StepError
	default:
		return StepPending
	}
}

// parseExecutionRecords splits the text on record markers and parses each
// run. finalOutput is stripped from a record's trailing assessment reason
// when the backend echoes it there.
func parseExecutionRecords(text, finalOutput string) []ExecutionResult {
	var records []ExecutionResult

	starts := markerOffsets(text, recordMarker)
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		run := text[start:end]

		head := recordHeadRe.FindStringSubmatchIndex(run)
		if head == nil {
			continue
		}

		rec := ExecutionResult{
			StepID:   run[head[2]:head[3]],
			ToolName: run[head[4]:head[5]],
		}
		if run[head[6]:head[7]] == "成功" {
			rec.Status = StepSuccess
		} else {
			rec.Status = StepError
			rec.IsError = true
		}

		payload := run[head[1]:]
		if m := finalOutputRe.FindStringIndex(payload); m != nil {
			payload = payload[:m[0]]
		}

		if a := assessmentRe.FindStringSubmatchIndex(payload); a != nil {
			reason := strings.TrimSpace(payload[a[6]:a[7]])
			if finalOutput != "" {
				reason = strings.TrimSpace(strings.TrimSuffix(reason, "最终结果: "+finalOutput))
				reason = strings.TrimSpace(strings.TrimSuffix(reason, "最终结果:"))
			}
			rec.Assessment = &Assessment{
				Satisfaction: strings.TrimSpace(payload[a[2]:a[3]]),
				Confidence:   strings.TrimSpace(payload[a[4]:a[5]]),
				Reason:       reason,
			}
			payload = payload[:a[0]]
		}

		content, isErr := ExtractEnvelope(strings.TrimSpace(payload))
		rec.Content = strings.TrimSpace(content)
		if isErr {
			rec.IsError = true
			rec.Status = StepError
		}

		records = append(records, rec)
	}

	return records
}

// markerOffsets returns every offset at which marker occurs in text.
func markerOffsets(text, marker string) []int {
	var offs []int
	for from := 0; ; {
		i := strings.Index(text[from:], marker)
		if i < 0 {
			return offs
		}
		offs = append(offs, from+i)
		from += i + len(marker)
	}
}

// =============================================================================
// PARAMETER FORMATTING
// =============================================================================

// FormatParams pretty-prints a step's parameter object for display. Valid
// JSON is indented, near-JSON is repaired first, anything else comes back
// verbatim.
func FormatParams(params string) string {
	trimmed := strings.TrimSpace(params)
	if trimmed == "" {
		return trimmed
	}

	var buf bytes.Buffer
	if json.Valid([]byte(trimmed)) {
		if err := json.Indent(&buf, []byte(trimmed), "", "  "); err == nil {
			return buf.String()
		}
		return trimmed
	}

	repaired, err := jsonrepair.JSONRepair(trimmed)
	if err != nil {
		return trimmed
	}
	buf.Reset()
	if err := json.Indent(&buf, []byte(repaired), "", "  "); err != nil {
		return repaired
	}
	return buf.String()
}
