// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders parsed transcript blocks for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/mcpchat-tui/internal/transcript"
	"github.com/jeranaias/mcpchat-tui/internal/ui/styles"
	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// =============================================================================
// WEATHER CARD
// =============================================================================

// RenderWeather renders one or more weather reports as labeled cards.
func RenderWeather(reports []transcript.WeatherReport, theme *styles.Theme) string {
	var sections []string
	for _, r := range reports {
		var sb strings.Builder
		if r.Location != "" {
			sb.WriteString(theme.CardLabel.Render("📍 " + r.Location))
			sb.WriteString("\n")
		}
		writeField(&sb, theme, "天气", r.Condition)
		writeField(&sb, theme, "温度", r.Temperature)
		writeField(&sb, theme, "风向", r.WindDir)
		writeField(&sb, theme, "风力", r.WindForce)
		writeField(&sb, theme, "湿度", r.Humidity)
		writeField(&sb, theme, "发布", r.Published)
		sections = append(sections, strings.TrimRight(sb.String(), "\n"))
	}
	return strings.Join(sections, "\n\n")
}

// writeField appends one "label value" line, skipping empty values.
func writeField(sb *strings.Builder, theme *styles.Theme, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString("  ")
	sb.WriteString(theme.CardLabel.Render(label + " "))
	sb.WriteString(theme.CardValue.Render(value))
	sb.WriteString("\n")
}

// =============================================================================
// CHAT TRANSCRIPT CARD
// =============================================================================

// RenderChatTranscript renders fetched chat records as sender/time/message
// rows.
func RenderChatTranscript(tr transcript.ChatTranscript, theme *styles.Theme) string {
	var sb strings.Builder
	if tr.Summary != "" {
		sb.WriteString(theme.CardLabel.Render(tr.Summary))
		sb.WriteString("\n")
	}
	for _, rec := range tr.Records {
		sb.WriteString(theme.CardValue.Render(rec.Sender))
		if rec.Time != "" {
			sb.WriteString(theme.PlanMeta.Render("  " + rec.Time))
		}
		sb.WriteString("\n")
		sb.WriteString("  " + rec.Message + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// =============================================================================
// RESULT LIST CARD
// =============================================================================

// RenderResultList renders indexed search-style results.
func RenderResultList(items []transcript.ListItem, theme *styles.Theme) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(theme.CardLabel.Render(fmt.Sprintf("[%d] ", item.Index)))
		sb.WriteString(util.TruncateWidth(util.FirstLine(item.Body), 100))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// =============================================================================
// CONFIRMATION CARD
// =============================================================================

// RenderConfirmation renders a send confirmation.
func RenderConfirmation(c transcript.Confirmation, theme *styles.Theme) string {
	glyph := "✓"
	style := theme.StepSuccess
	if c.Status != "" && c.Status != "success" {
		glyph = "✗"
		style = theme.StepFailed
	}

	line := style.Render(glyph + " " + c.Message)
	if c.Recipient != "" {
		line += theme.PlanMeta.Render("  → " + c.Recipient)
	}
	return line
}
