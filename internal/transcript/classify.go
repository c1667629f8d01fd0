// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import (
	"regexp"
	"strings"
)

// =============================================================================
// RESULT KIND
// =============================================================================

// ResultKind is the rendering category assigned to a tool-result payload.
type ResultKind int

const (
	// ResultGeneric - No signature matched, render as plain text
	ResultGeneric ResultKind = iota

	// ResultDocument - Structured markdown document
	ResultDocument

	// ResultWebpage - Link to a web page
	ResultWebpage

	// ResultAudioLink - Link to an audio resource
	ResultAudioLink

	// ResultImageLink - Link to an image resource
	ResultImageLink

	// ResultVideoLink - Link to a video resource
	ResultVideoLink

	// ResultFileLink - Link to a downloadable document
	ResultFileLink

	// ResultLink - URL present but no media category matched
	ResultLink

	// ResultWeather - Weather report, single or multi city
	ResultWeather

	// ResultChatTranscript - Retrieved chat history records
	ResultChatTranscript

	// ResultList - Numbered search-result list with relative timestamps
	ResultList

	// ResultConfirmation - Success acknowledgement for a send-style action
	ResultConfirmation
)

// String returns the wire name of the result kind.
func (k ResultKind) String() string {
	switch k {
	case ResultDocument:
		return "document"
	case ResultWebpage:
		return "webpage"
	case ResultAudioLink:
		return "audio"
	case ResultImageLink:
		return "image"
	case ResultVideoLink:
		return "video"
	case ResultFileLink:
		return "file"
	case ResultLink:
		return "link"
	case ResultWeather:
		return "weather"
	case ResultChatTranscript:
		return "chat"
	case ResultList:
		return "list"
	case ResultConfirmation:
		return "confirmation"
	default:
		return "generic"
	}
}

// =============================================================================
// SIGNATURES
// =============================================================================

var (
	urlRe = regexp.MustCompile(`https?://[^\s)\]]+`)

	audioExtRe = regexp.MustCompile(`(?i)\.(mp3|wav|ogg|flac|m4a|aac)(\?|$)`)
	imageExtRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg)(\?|$)`)
	videoExtRe = regexp.MustCompile(`(?i)\.(mp4|webm|mov|avi|mkv)(\?|$)`)
	docExtRe   = regexp.MustCompile(`(?i)\.(pdf|doc|docx|xls|xlsx|ppt|pptx|txt|csv)(\?|$)`)

	// listEntryRe matches numbered result entries like [1], [2].
	listEntryRe = regexp.MustCompile(`\[\d+\]`)

	// relativeTimeRe matches the relative timestamps search backends emit.
	relativeTimeRe = regexp.MustCompile(`days ago|小时前|天前`)

	multiWeatherCountRe = regexp.MustCompile(`\(共\s*\d+\s*个城市\)`)
)

var (
	webpageHints = []string{"网页", "网站", "webpage", "website"}
	audioHints   = []string{"音乐", "歌曲", "音频", "music", "song", "audio"}
	imageHints   = []string{"图片", "照片", "image", "picture"}
	videoHints   = []string{"视频", "影片", "video"}
	fileHints    = []string{"文件", "下载", "document", "file"}
)

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classify assigns a rendering category to a tool-result payload. Checks run
// in a fixed order and the first match wins; URL-based media categories are
// judged on the first URL in the payload only.
func Classify(text string) ResultKind {
	if IsStructuredDocument(text) {
		return ResultDocument
	}

	if url := urlRe.FindString(text); url != "" {
		if kind, ok := classifyURL(url, text); ok {
			return kind
		}
		return ResultLink
	}

	if isWeatherReport(text) {
		return ResultWeather
	}
	if isChatTranscript(text) {
		return ResultChatTranscript
	}
	if isResultList(text) {
		return ResultList
	}
	if isConfirmation(text) {
		return ResultConfirmation
	}

	return ResultGeneric
}

// classifyURL decides the media category for the payload's first URL. The
// surrounding text supplies keyword hints when the URL itself is mute.
func classifyURL(url, text string) (ResultKind, bool) {
	lowerURL := strings.ToLower(url)
	lower := strings.ToLower(text)

	isWebpage := strings.Contains(lowerURL, ".html") ||
		strings.Contains(lowerURL, "www.") ||
		strings.Contains(lowerURL, "/web/") ||
		strings.Contains(lowerURL, "index") ||
		containsAny(lower, webpageHints)
	if isWebpage {
		return ResultWebpage, true
	}

	if audioExtRe.MatchString(url) || containsAny(lower, audioHints) {
		return ResultAudioLink, true
	}
	if imageExtRe.MatchString(url) || containsAny(lower, imageHints) {
		return ResultImageLink, true
	}
	if videoExtRe.MatchString(url) || containsAny(lower, videoHints) {
		return ResultVideoLink, true
	}
	if docExtRe.MatchString(url) || containsAny(lower, fileHints) {
		return ResultFileLink, true
	}

	return ResultGeneric, false
}

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}

// isWeatherReport matches the weather tool's emoji-labelled report.
func isWeatherReport(text string) bool {
	return strings.Contains(text, "🌤") &&
		strings.Contains(text, "天气:") &&
		strings.Contains(text, "温度:")
}

// IsMultiLocationWeather reports whether a weather payload covers several
// cities.
func IsMultiLocationWeather(text string) bool {
	if strings.Contains(text, "多城市天气查询结果") {
		return true
	}
	return strings.Contains(text, "(共") && multiWeatherCountRe.MatchString(text)
}

// isChatTranscript matches the chat-history retrieval tool's record dump.
func isChatTranscript(text string) bool {
	return strings.Contains(text, "获取到") &&
		strings.Contains(text, "条与") &&
		strings.Contains(text, "聊天记录") &&
		strings.Contains(text, "发送者:") &&
		strings.Contains(text, "时间:") &&
		strings.Contains(text, "消息:")
}

// isResultList matches numbered search results with relative timestamps.
func isResultList(text string) bool {
	return listEntryRe.MatchString(text) && relativeTimeRe.MatchString(text)
}

// isConfirmation matches success acknowledgements from send-style tools.
func isConfirmation(text string) bool {
	status := strings.Contains(text, `"status": "success"`) ||
		strings.Contains(text, `'status': 'success'`)
	if !status || !strings.Contains(text, "message") {
		return false
	}
	return strings.Contains(text, "发送") || strings.Contains(text, "消息")
}
