// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import (
	"reflect"
	"testing"
)

const sampleMessage = "<think>先查天气再汇报</think>今天的情况如下。\n" +
	"执行工具: get_weather\n" +
	"meta=None content=[TextContent(type='text', text='📍 位置: 北京\\n🌤 天气: 晴\\n🌡 温度: 25°C')] isError=False\n" +
	"最终回答: 北京今天晴,气温25度。"

func TestParseFullMessage(t *testing.T) {
	msg := Parse(sampleMessage)

	kinds := make([]BlockKind, len(msg.Blocks))
	for i, b := range msg.Blocks {
		kinds[i] = b.Kind()
	}
	want := []BlockKind{KindThinking, KindText, KindToolResult, KindFinalResponse}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("block kinds = %v, want %v", kinds, want)
	}

	think := msg.Thinking()
	if think == nil || think.Body != "先查天气再汇报" {
		t.Errorf("thinking = %+v", think)
	}

	tools := msg.ToolResults()
	if len(tools) != 1 {
		t.Fatalf("tool results = %d, want 1", len(tools))
	}
	tr := tools[0]
	if tr.ToolName != "get_weather" {
		t.Errorf("ToolName = %q", tr.ToolName)
	}
	if tr.Result != ResultWeather {
		t.Errorf("Result = %v, want weather", tr.Result)
	}

	final := msg.FinalResponse()
	if final == nil || final.Body != "北京今天晴,气温25度。" {
		t.Errorf("final = %+v", final)
	}
}

func TestParseEmpty(t *testing.T) {
	msg := Parse("   ")
	if len(msg.Blocks) != 0 || len(msg.Media) != 0 {
		t.Errorf("msg = %+v, want empty", msg)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	first := Parse(sampleMessage)
	second := Parse(sampleMessage)
	if !reflect.DeepEqual(first, second) {
		t.Error("two parses of the same text differ")
	}
}

func TestParseBlockIDsStableAcrossGrowth(t *testing.T) {
	// Streaming re-parses the accumulated text; IDs of earlier blocks must
	// not change as the message grows at the tail.
	prefix := "<think>推理</think>第一段。\n执行工具: search\nmeta=None content=[TextContent(type='text', text='找到了')] isError=False"
	full := prefix + "\n第二段补充。"

	before := Parse(prefix)
	after := Parse(full)

	if len(after.Blocks) <= len(before.Blocks) {
		t.Fatalf("blocks did not grow: %d -> %d", len(before.Blocks), len(after.Blocks))
	}
	for i, b := range before.Blocks {
		if after.Blocks[i].ID() != b.ID() {
			t.Errorf("block %d ID changed: %q -> %q", i, b.ID(), after.Blocks[i].ID())
		}
		if after.Blocks[i].Kind() != b.Kind() {
			t.Errorf("block %d kind changed", i)
		}
	}
}

func TestParseBlockIDsAreUnique(t *testing.T) {
	msg := Parse(sampleMessage)
	seen := make(map[string]bool)
	for _, b := range msg.Blocks {
		if seen[b.ID()] {
			t.Errorf("duplicate block ID %q", b.ID())
		}
		seen[b.ID()] = true
	}
}

func TestParseMediaDeduplicated(t *testing.T) {
	text := "第一张 ![](http://e.com/p.png)\n\n再看一次 ![](http://e.com/p.png)"
	msg := Parse(text)
	if len(msg.Media) != 1 {
		t.Errorf("media = %d, want 1", len(msg.Media))
	}
}

func TestParseToolResultMediaFromOwnTextOnly(t *testing.T) {
	text := "看图 ![](http://e.com/narrative.png)\n" +
		"执行工具: render\n" +
		"meta=None content=[TextContent(type='text', text='结果 http://e.com/tool.png')] isError=False"
	msg := Parse(text)

	if len(msg.Media) != 1 || msg.Media[0].URL != "http://e.com/narrative.png" {
		t.Errorf("message media = %+v", msg.Media)
	}

	tools := msg.ToolResults()
	if len(tools) != 1 {
		t.Fatalf("tool results = %d", len(tools))
	}
	refs := tools[0].MediaRefs
	if len(refs) != 1 || refs[0].URL != "http://e.com/tool.png" {
		t.Errorf("tool media = %+v", refs)
	}
}

func TestParseUnwrapsMarkdownFence(t *testing.T) {
	msg := Parse("```markdown\n# 标题\n\n- 项目一\n- 项目二\n\n**加粗**\n```")
	if len(msg.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(msg.Blocks))
	}
	tb, ok := msg.Blocks[0].(*TextBlock)
	if !ok {
		t.Fatalf("block = %T, want *TextBlock", msg.Blocks[0])
	}
	if tb.Body != "# 标题\n\n- 项目一\n- 项目二\n\n**加粗**" {
		t.Errorf("body = %q", tb.Body)
	}
}

func TestParsePlanMessage(t *testing.T) {
	msg := Parse(samplePlan)
	if len(msg.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1: %+v", len(msg.Blocks), msg.Blocks)
	}
	pb, ok := msg.Blocks[0].(*ExecutionPlanBlock)
	if !ok {
		t.Fatalf("block = %T, want *ExecutionPlanBlock", msg.Blocks[0])
	}
	if pb.Plan == nil || len(pb.Plan.Steps) != 2 {
		t.Errorf("plan = %+v", pb.Plan)
	}
	if pb.ID() != "execution-plan-0" {
		t.Errorf("ID = %q", pb.ID())
	}
}
