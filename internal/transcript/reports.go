// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import (
	"regexp"
	"strings"
)

// =============================================================================
// WEATHER REPORT
// =============================================================================

// WeatherReport is one city's parsed weather payload.
type WeatherReport struct {
	Location    string
	Condition   string
	Temperature string
	WindDir     string
	WindForce   string
	Humidity    string
	Published   string
}

var weatherFieldRes = map[string]*regexp.Regexp{
	"location":  regexp.MustCompile(`📍\s*位置:\s*([^\n]*)`),
	"condition": regexp.MustCompile(`🌤\s*天气:\s*([^\n]*)`),
	"temp":      regexp.MustCompile(`🌡\s*温度:\s*([^\n]*)`),
	"winddir":   regexp.MustCompile(`💨\s*风向:\s*([^\n]*)`),
	"windforce": regexp.MustCompile(`💪\s*风力:\s*([^\n]*)`),
	"humidity":  regexp.MustCompile(`💧\s*湿度:\s*([^\n]*)`),
	"published": regexp.MustCompile(`🕒\s*发布时间:\s*([^\n]*)`),
}

// citySeparator divides per-city sections in a multi-city report.
const citySeparator = "------------------------------"

// ParseWeather parses a weather payload into per-city reports. Single-city
// payloads yield a one-element slice; fields the payload omits stay empty.
func ParseWeather(text string) []WeatherReport {
	var sections []string
	if IsMultiLocationWeather(text) {
		sections = strings.Split(text, citySeparator)
	} else {
		sections = []string{text}
	}

	var reports []WeatherReport
	for _, sec := range sections {
		r := parseWeatherSection(sec)
		if r != (WeatherReport{}) {
			reports = append(reports, r)
		}
	}
	return reports
}

func parseWeatherSection(sec string) WeatherReport {
	field := func(key string) string {
		if m := weatherFieldRes[key].FindStringSubmatch(sec); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}
	return WeatherReport{
		Location:    field("location"),
		Condition:   field("condition"),
		Temperature: field("temp"),
		WindDir:     field("winddir"),
		WindForce:   field("windforce"),
		Humidity:    field("humidity"),
		Published:   field("published"),
	}
}

// =============================================================================
// CHAT TRANSCRIPT
// =============================================================================

// TranscriptRecord is one retrieved chat message.
type TranscriptRecord struct {
	Sender  string
	Time    string
	Message string
}

// ChatTranscript is the parsed output of the chat-history retrieval tool.
type ChatTranscript struct {
	// Summary is the header line, e.g. 获取到 N 条与 ... 聊天记录.
	Summary string

	Records []TranscriptRecord
}

var (
	transcriptHeaderRe = regexp.MustCompile(`获取到[^\n]*聊天记录[^\n]*`)
	transcriptSenderRe = regexp.MustCompile(`发送者:\s*([^\n]*)`)
	transcriptTimeRe   = regexp.MustCompile(`时间:\s*([^\n]*)`)
	transcriptMsgRe    = regexp.MustCompile(`消息:\s*([^\n]*)`)
)

// ParseChatTranscript parses the record dump into a header plus records.
// Records are delimited by 发送者: lines; a record missing its time or
// message keeps those fields empty.
func ParseChatTranscript(text string) ChatTranscript {
	var out ChatTranscript
	if m := transcriptHeaderRe.FindString(text); m != "" {
		out.Summary = strings.TrimSpace(m)
	}

	starts := transcriptSenderRe.FindAllStringIndex(text, -1)
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		run := text[loc[0]:end]

		rec := TranscriptRecord{}
		if m := transcriptSenderRe.FindStringSubmatch(run); m != nil {
			rec.Sender = strings.TrimSpace(m[1])
		}
		if m := transcriptTimeRe.FindStringSubmatch(run); m != nil {
			rec.Time = strings.TrimSpace(m[1])
		}
		if m := transcriptMsgRe.FindStringSubmatch(run); m != nil {
			rec.Message = strings.TrimSpace(m[1])
		}
		out.Records = append(out.Records, rec)
	}

	return out
}

// =============================================================================
// RESULT LIST
// =============================================================================

// ListItem is one numbered entry of a search-result list.
type ListItem struct {
	Index int
	Body  string
}

var listItemHeadRe = regexp.MustCompile(`\[(\d+)\]`)

// ParseResultList splits a numbered result payload into its entries. Text
// before the first [N] marker is dropped; each entry runs to the next
// marker.
func ParseResultList(text string) []ListItem {
	heads := listItemHeadRe.FindAllStringSubmatchIndex(text, -1)

	var items []ListItem
	for i, h := range heads {
		end := len(text)
		if i+1 < len(heads) {
			end = heads[i+1][0]
		}
		idx := 0
		for _, c := range text[h[2]:h[3]] {
			idx = idx*10 + int(c-'0')
		}
		items = append(items, ListItem{
			Index: idx,
			Body:  strings.TrimSpace(text[h[1]:end]),
		})
	}
	return items
}

// =============================================================================
// CONFIRMATION
// =============================================================================

// Confirmation is a parsed success acknowledgement.
type Confirmation struct {
	Status  string
	Message string

	// Recipient is who the action targeted, when the message names one.
	Recipient string
}

var (
	confirmMessageRe   = regexp.MustCompile(`["']message["']\s*:\s*["']([^"']*)["']`)
	confirmRecipientRe = regexp.MustCompile(`发送给\s*([^\s,，。"']+)`)
)

// ParseConfirmation extracts the status, message and recipient of an
// acknowledgement payload. Status is always "success" when Classify chose
// this kind.
func ParseConfirmation(text string) Confirmation {
	c := Confirmation{Status: "success"}
	if m := confirmMessageRe.FindStringSubmatch(text); m != nil {
		c.Message = strings.TrimSpace(m[1])
	}
	if m := confirmRecipientRe.FindStringSubmatch(text); m != nil {
		c.Recipient = m[1]
	}
	return c
}
