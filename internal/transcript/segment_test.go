// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import "testing"

func TestSegmentTranscriptPlainText(t *testing.T) {
	segs := SegmentTranscript("只是一段普通回答")
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1", len(segs))
	}
	if segs[0].Kind != SegText || segs[0].Body != "只是一段普通回答" {
		t.Errorf("segment = %+v", segs[0])
	}
}

func TestSegmentTranscriptToolWithEnvelope(t *testing.T) {
	text := "先查询一下。\n执行工具: get_weather\nmeta=None content=[TextContent(type='text', text='北京 晴')] isError=False\n查询完成。"
	segs := SegmentTranscript(text)
	if len(segs) != 3 {
		t.Fatalf("segments = %d, want 3: %+v", len(segs), segs)
	}

	if segs[0].Kind != SegText || segs[0].Body != "先查询一下。" {
		t.Errorf("segs[0] = %+v", segs[0])
	}

	tool := segs[1]
	if tool.Kind != SegToolResult {
		t.Fatalf("segs[1].Kind = %v", tool.Kind)
	}
	if tool.ToolName != "get_weather" {
		t.Errorf("ToolName = %q", tool.ToolName)
	}
	if tool.Body != "北京 晴" {
		t.Errorf("Body = %q", tool.Body)
	}
	if tool.IsError {
		t.Error("IsError = true, want false")
	}

	if segs[2].Kind != SegText || segs[2].Body != "查询完成。" {
		t.Errorf("segs[2] = %+v", segs[2])
	}
}

func TestSegmentTranscriptToolError(t *testing.T) {
	text := "执行工具: search\nmeta=None content=[TextContent(type='text', text='timeout')] isError=True"
	segs := SegmentTranscript(text)
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1", len(segs))
	}
	if !segs[0].IsError {
		t.Error("IsError = false, want true")
	}
}

func TestSegmentTranscriptMultipleTools(t *testing.T) {
	text := "执行工具: first\nmeta=None content=[TextContent(type='text', text='one')] isError=False\n" +
		"执行工具: second\nmeta=None content=[TextContent(type='text', text='two')] isError=False"
	segs := SegmentTranscript(text)
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2: %+v", len(segs), segs)
	}
	if segs[0].ToolName != "first" || segs[0].Body != "one" {
		t.Errorf("segs[0] = %+v", segs[0])
	}
	if segs[1].ToolName != "second" || segs[1].Body != "two" {
		t.Errorf("segs[1] = %+v", segs[1])
	}
}

func TestSegmentTranscriptFinalAnswer(t *testing.T) {
	text := "执行工具: calc\nmeta=None content=[TextContent(type='text', text='42')] isError=False\n最终回答: 答案是42。"
	segs := SegmentTranscript(text)
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2: %+v", len(segs), segs)
	}
	if segs[0].Kind != SegToolResult {
		t.Errorf("segs[0].Kind = %v", segs[0].Kind)
	}
	if segs[1].Kind != SegFinalResponse || segs[1].Body != "答案是42。" {
		t.Errorf("segs[1] = %+v", segs[1])
	}
}

func TestSegmentTranscriptFinalAnswerVariants(t *testing.T) {
	for _, marker := range []string{"最终回答:", "最终结果:", "生成回答:", "最终总结:"} {
		segs := SegmentTranscript(marker + " 好的")
		if len(segs) != 1 || segs[0].Kind != SegFinalResponse {
			t.Errorf("marker %q: segments = %+v", marker, segs)
			continue
		}
		if segs[0].Body != "好的" {
			t.Errorf("marker %q: body = %q", marker, segs[0].Body)
		}
	}
}

func TestSegmentTranscriptPlanPrecedence(t *testing.T) {
	// A plan signature anywhere wins over tool and final-answer markers.
	text := "**执行计划: 天气查询**\n1. [□] 查询 (ID: s1) 工具: get 参数: {}\n最终结果: 之后补充"
	segs := SegmentTranscript(text)
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1: %+v", len(segs), segs)
	}
	if segs[0].Kind != SegExecutionPlan {
		t.Errorf("Kind = %v, want SegExecutionPlan", segs[0].Kind)
	}
}

func TestSegmentTranscriptPlanTitleAloneIsNotAPlan(t *testing.T) {
	segs := SegmentTranscript("执行计划: 还没有步骤")
	if len(segs) != 1 || segs[0].Kind != SegText {
		t.Errorf("segments = %+v, want one text segment", segs)
	}
}

func TestSegmentTranscriptSSEFolding(t *testing.T) {
	text := "执行工具: chat\ndata: {\"content\": \"你\"}\ndata: {\"content\": \"好\"}\ndata: {\"content\": \"\\u4e16\\u754c\"}"
	segs := SegmentTranscript(text)
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1: %+v", len(segs), segs)
	}
	if segs[0].Kind != SegToolResult || segs[0].Body != "你好世界" {
		t.Errorf("segment = %+v", segs[0])
	}
}

func TestSegmentTranscriptStripsStatusCommentary(t *testing.T) {
	text := "执行工具: fetch\n结果文本\n工具结果评估 质量良好\n是否需要执行其他工具: 否"
	segs := SegmentTranscript(text)
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1: %+v", len(segs), segs)
	}
	if segs[0].Body != "结果文本" {
		t.Errorf("Body = %q, want commentary stripped", segs[0].Body)
	}
}

func TestSegmentTranscriptStripsPromptLeak(t *testing.T) {
	segs := SegmentTranscript("回答内容\n问题已完全解决，将生成最终回复")
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1: %+v", len(segs), segs)
	}
	if segs[0].Body != "回答内容" {
		t.Errorf("Body = %q", segs[0].Body)
	}
}

func TestSegmentTranscriptJSONDetection(t *testing.T) {
	text := `执行工具: api
meta=None content=[TextContent(type='text', text='{"ok": true}')] isError=False`
	segs := SegmentTranscript(text)
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1", len(segs))
	}
	if !segs[0].IsJSON {
		t.Error("IsJSON = false, want true")
	}
}

func TestSegmentTranscriptEmpty(t *testing.T) {
	if segs := SegmentTranscript("   \n  "); segs != nil {
		t.Errorf("segments = %+v, want nil", segs)
	}
}
