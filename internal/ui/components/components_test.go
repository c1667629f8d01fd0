// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders parsed transcript blocks for the TUI.
package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/mcpchat-tui/internal/model"
	"github.com/jeranaias/mcpchat-tui/internal/transcript"
	"github.com/jeranaias/mcpchat-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

func testMarkdown() *MarkdownRenderer {
	return NewMarkdownRenderer("dark", 80)
}

func finishedAssistant(text string) *model.Message {
	msg := model.NewAssistantMessage()
	msg.AppendChunk(text)
	msg.FinalizeStream(nil)
	return msg
}

func TestToolResultCollapsedShowsSummaryOnly(t *testing.T) {
	parsed := transcript.Parse("执行工具: get_weather\n" +
		"meta=None content=[TextContent(type='text', text='line one\\nline two')] isError=False")
	results := parsed.ToolResults()
	if len(results) != 1 {
		t.Fatalf("tool results = %d, want 1", len(results))
	}

	view := NewToolResultView(results[0], testTheme(), testMarkdown())
	view.Collapsed = true
	out := view.Render()

	if !strings.Contains(out, "get_weather") {
		t.Errorf("missing tool name:\n%s", out)
	}
	if !strings.Contains(out, "line one") {
		t.Errorf("missing summary line:\n%s", out)
	}
	if strings.Contains(out, "line two") {
		t.Errorf("collapsed view leaked body:\n%s", out)
	}

	view.Collapsed = false
	out = view.Render()
	if !strings.Contains(out, "line two") {
		t.Errorf("expanded view missing body:\n%s", out)
	}
}

func TestToolResultErrorHeader(t *testing.T) {
	parsed := transcript.Parse("执行工具: send_message\n" +
		"meta=None content=[TextContent(type='text', text='boom')] isError=True")
	results := parsed.ToolResults()
	if len(results) != 1 {
		t.Fatalf("tool results = %d, want 1", len(results))
	}

	view := NewToolResultView(results[0], testTheme(), testMarkdown())
	out := view.Render()
	if !strings.Contains(out, "✗ send_message") {
		t.Errorf("missing error glyph:\n%s", out)
	}
}

func TestRenderConfirmation(t *testing.T) {
	theme := testTheme()

	ok := RenderConfirmation(transcript.Confirmation{
		Status: "success", Message: "已发送", Recipient: "张三",
	}, theme)
	if !strings.Contains(ok, "✓ 已发送") || !strings.Contains(ok, "张三") {
		t.Errorf("confirmation = %q", ok)
	}

	failed := RenderConfirmation(transcript.Confirmation{
		Status: "error", Message: "发送失败",
	}, theme)
	if !strings.Contains(failed, "✗") {
		t.Errorf("failed confirmation = %q", failed)
	}
}

func TestRenderResultList(t *testing.T) {
	out := RenderResultList([]transcript.ListItem{
		{Index: 1, Body: "first result\nextra detail"},
		{Index: 2, Body: "second result"},
	}, testTheme())

	if !strings.Contains(out, "[1]") || !strings.Contains(out, "first result") {
		t.Errorf("list output:\n%s", out)
	}
	if strings.Contains(out, "extra detail") {
		t.Errorf("list row should keep first line only:\n%s", out)
	}
}

func TestRenderWeatherSkipsEmptyFields(t *testing.T) {
	out := RenderWeather([]transcript.WeatherReport{
		{Location: "北京", Condition: "晴", Temperature: "25°C"},
	}, testTheme())

	if !strings.Contains(out, "北京") || !strings.Contains(out, "晴") {
		t.Errorf("weather card:\n%s", out)
	}
	if strings.Contains(out, "湿度") {
		t.Errorf("empty field rendered:\n%s", out)
	}
}

func TestPlanViewExpandedShowsDetail(t *testing.T) {
	plan := &transcript.ExecutionPlan{
		Title: "查询天气",
		Steps: []transcript.ExecutionStep{
			{Number: 1, Status: transcript.StepSuccess, Description: "获取天气",
				ID: "step-1", Tool: "get_weather", Params: `{"city":"北京"}`},
			{Number: 2, Status: transcript.StepPending, Description: "发送消息", ID: "step-2"},
		},
	}

	view := NewPlanView(plan, testTheme(), testMarkdown())
	view.Expanded = false
	collapsed := view.Render()
	if !strings.Contains(collapsed, "获取天气") || strings.Contains(collapsed, "get_weather") {
		t.Errorf("collapsed plan:\n%s", collapsed)
	}
	if !strings.Contains(collapsed, "(1/2)") {
		t.Errorf("missing progress:\n%s", collapsed)
	}

	view.Expanded = true
	expanded := view.Render()
	if !strings.Contains(expanded, "get_weather") {
		t.Errorf("expanded plan missing tool:\n%s", expanded)
	}
}

func TestRenderThinkingToggle(t *testing.T) {
	block := &transcript.ThinkingBlock{Body: "考虑使用天气工具\n然后汇总"}

	collapsed := RenderThinking(block, false, testTheme())
	if strings.Contains(collapsed, "然后汇总") {
		t.Errorf("collapsed thinking leaked body:\n%s", collapsed)
	}

	expanded := RenderThinking(block, true, testTheme())
	if !strings.Contains(expanded, "然后汇总") {
		t.Errorf("expanded thinking missing body:\n%s", expanded)
	}
}

func TestMessageViewExpandOverride(t *testing.T) {
	msg := finishedAssistant("执行工具: get_weather\n" +
		"meta=None content=[TextContent(type='text', text='sunny\\ndetails here')] isError=False")

	view := NewMessageView(msg, testTheme(), testMarkdown())
	view.CollapseDefault = true

	out := view.Render()
	if strings.Contains(out, "details here") {
		t.Errorf("default collapsed view leaked body:\n%s", out)
	}

	parsed := msg.Blocks()
	results := parsed.ToolResults()
	if len(results) != 1 {
		t.Fatalf("tool results = %d, want 1", len(results))
	}
	view.Expanded = map[string]bool{
		BlockKey(msg.ID, results[0].ID()): true,
	}
	out = view.Render()
	if !strings.Contains(out, "details here") {
		t.Errorf("override did not expand block:\n%s", out)
	}
}

func TestMessageViewUserAndSystem(t *testing.T) {
	user := model.NewUserMessage("hello there")
	out := NewMessageView(user, testTheme(), testMarkdown()).Render()
	if !strings.Contains(out, "You") || !strings.Contains(out, "hello there") {
		t.Errorf("user view:\n%s", out)
	}

	system := model.NewSystemMessage("connected")
	out = NewMessageView(system, testTheme(), testMarkdown()).Render()
	if !strings.Contains(out, "connected") {
		t.Errorf("system view:\n%s", out)
	}
}

func TestHighlightUnknownLanguageFallsBack(t *testing.T) {
	code := "no such language content"
	if got := Highlight(code, "definitely-not-a-language", "monokai"); got == "" {
		t.Error("highlight returned empty output")
	}
}
