// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import "testing"

const singleCityWeather = "📍 位置: 北京市\n🌤 天气: 晴\n🌡 温度: 25°C\n💨 风向: 东南风\n💪 风力: 3级\n💧 湿度: 40%\n🕒 发布时间: 2024-06-01 10:00"

func TestParseWeatherSingleCity(t *testing.T) {
	reports := ParseWeather(singleCityWeather)
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	r := reports[0]
	if r.Location != "北京市" {
		t.Errorf("Location = %q", r.Location)
	}
	if r.Condition != "晴" {
		t.Errorf("Condition = %q", r.Condition)
	}
	if r.Temperature != "25°C" {
		t.Errorf("Temperature = %q", r.Temperature)
	}
	if r.WindDir != "东南风" || r.WindForce != "3级" {
		t.Errorf("wind = %q / %q", r.WindDir, r.WindForce)
	}
	if r.Humidity != "40%" {
		t.Errorf("Humidity = %q", r.Humidity)
	}
	if r.Published != "2024-06-01 10:00" {
		t.Errorf("Published = %q", r.Published)
	}
}

func TestParseWeatherMultiCity(t *testing.T) {
	text := "📊 多城市天气查询结果 (共2个城市)\n\n" +
		"📍 位置: 北京\n🌤 天气: 晴\n🌡 温度: 25°C\n" +
		"------------------------------\n" +
		"📍 位置: 上海\n🌤 天气: 小雨\n🌡 温度: 20°C"

	reports := ParseWeather(text)
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}
	if reports[0].Location != "北京" || reports[1].Location != "上海" {
		t.Errorf("locations = %q, %q", reports[0].Location, reports[1].Location)
	}
	if reports[1].Condition != "小雨" {
		t.Errorf("condition = %q", reports[1].Condition)
	}
}

func TestParseWeatherMissingFields(t *testing.T) {
	reports := ParseWeather("🌤 天气: 阴\n🌡 温度: 18°C")
	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	if reports[0].Location != "" {
		t.Errorf("Location = %q, want empty", reports[0].Location)
	}
	if reports[0].Condition != "阴" {
		t.Errorf("Condition = %q", reports[0].Condition)
	}
}

func TestParseChatTranscript(t *testing.T) {
	text := "获取到 2 条与 张三 的聊天记录:\n\n" +
		"发送者: 张三\n时间: 2024-06-01 09:00\n消息: 在吗\n\n" +
		"发送者: 我\n时间: 2024-06-01 09:05\n消息: 在的"

	tr := ParseChatTranscript(text)
	if tr.Summary != "获取到 2 条与 张三 的聊天记录:" {
		t.Errorf("Summary = %q", tr.Summary)
	}
	if len(tr.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(tr.Records))
	}
	first := tr.Records[0]
	if first.Sender != "张三" || first.Time != "2024-06-01 09:00" || first.Message != "在吗" {
		t.Errorf("first record = %+v", first)
	}
	if tr.Records[1].Sender != "我" {
		t.Errorf("second sender = %q", tr.Records[1].Sender)
	}
}

func TestParseResultList(t *testing.T) {
	text := "搜索结果:\n[1] 第一条新闻 3 days ago\n[2] 第二条 5 小时前\n[3] 第三条 2 天前"
	items := ParseResultList(text)
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].Index != 1 || items[0].Body != "第一条新闻 3 days ago" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[2].Index != 3 {
		t.Errorf("items[2].Index = %d", items[2].Index)
	}
}

func TestParseConfirmation(t *testing.T) {
	c := ParseConfirmation(`{"status": "success", "message": "消息已发送给李四"}`)
	if c.Status != "success" {
		t.Errorf("Status = %q", c.Status)
	}
	if c.Message != "消息已发送给李四" {
		t.Errorf("Message = %q", c.Message)
	}
	if c.Recipient != "李四" {
		t.Errorf("Recipient = %q", c.Recipient)
	}

	c = ParseConfirmation(`{'status': 'success', 'message': '已发送'}`)
	if c.Message != "已发送" {
		t.Errorf("single-quoted Message = %q", c.Message)
	}
}
