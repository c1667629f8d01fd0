// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders parsed transcript blocks for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mcpchat-tui/internal/transcript"
	"github.com/jeranaias/mcpchat-tui/internal/ui/styles"
	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// =============================================================================
// EXECUTION PLAN VIEW
// =============================================================================

// PlanView renders an execution plan with per-step status.
type PlanView struct {
	Plan *transcript.ExecutionPlan

	// Expanded shows params, results, and assessments for every step.
	Expanded bool

	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewPlanView creates a plan view.
func NewPlanView(plan *transcript.ExecutionPlan, theme *styles.Theme, markdown *MarkdownRenderer) *PlanView {
	return &PlanView{Plan: plan, theme: theme, markdown: markdown}
}

// Render renders the plan.
func (v *PlanView) Render() string {
	p := v.Plan
	if p == nil {
		return ""
	}

	var sb strings.Builder

	done, total := p.Progress()
	title := p.Title
	if title == "" {
		title = "执行计划"
	}
	sb.WriteString(v.theme.PlanTitle.Render(title))
	sb.WriteString(v.theme.PlanMeta.Render(fmt.Sprintf("  (%d/%d)", done, total)))
	sb.WriteString("\n")
	if p.Created != "" {
		sb.WriteString(v.theme.PlanMeta.Render("创建时间: " + p.Created))
		sb.WriteString("\n")
	}

	for _, step := range p.Steps {
		sb.WriteString(v.renderStep(step))
	}

	if p.FinalOutput != "" {
		sb.WriteString("\n")
		sb.WriteString(v.theme.PlanTitle.Render("最终结果"))
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(v.markdown.Render(p.FinalOutput), "\n"))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderStep renders one step line plus its detail when expanded.
func (v *PlanView) renderStep(step transcript.ExecutionStep) string {
	glyph, style := v.stepGlyph(step.Status)
	line := style.Render(fmt.Sprintf("%s %d. %s", glyph, step.Number, step.Description))

	var sb strings.Builder
	sb.WriteString(line)
	sb.WriteString("\n")

	if !v.Expanded {
		return sb.String()
	}

	if step.Tool != "" {
		sb.WriteString(v.theme.StepDetail.Render("工具: " + step.Tool))
		sb.WriteString("\n")
	}
	if step.Params != "" {
		params := HighlightJSON(transcript.FormatParams(step.Params), v.theme.ChromaStyle())
		sb.WriteString(v.theme.StepDetail.Render("参数: " + params))
		sb.WriteString("\n")
	}
	if step.Result != nil {
		content := util.TruncateWidth(util.FirstLine(step.Result.Content), 100)
		sb.WriteString(v.theme.StepDetail.Render("结果: " + content))
		sb.WriteString("\n")
		if a := step.Result.Assessment; a != nil {
			sb.WriteString(v.theme.StepDetail.Render(fmt.Sprintf(
				"评估: %s (置信度 %s) %s", a.Satisfaction, a.Confidence, a.Reason)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// stepGlyph maps a step status to a glyph and style.
func (v *PlanView) stepGlyph(status transcript.StepStatus) (string, lipgloss.Style) {
	switch status {
	case transcript.StepSuccess:
		return "✓", v.theme.StepSuccess
	case transcript.StepError:
		return "✗", v.theme.StepFailed
	default:
		return "□", v.theme.StepPending
	}
}
