// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import (
	"regexp"
	"strings"
)

// =============================================================================
// STRUCTURED-DOCUMENT SIGNATURE
// =============================================================================

// markdownFeatures are the syntax signals counted when deciding whether a
// payload is a structured markdown document. Three or more distinct
// features qualify.
var markdownFeatures = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6}\s.+$`),                  // headings
	regexp.MustCompile(`(?m)^\s*[-*+]\s.+$`),                // bullet lists
	regexp.MustCompile(`(?m)^\s*\d+\.\s.+$`),                // ordered lists
	regexp.MustCompile(`(?m)^>\s.+$`),                       // blockquotes
	regexp.MustCompile("(?s)```.*?```"),                     // fenced code
	regexp.MustCompile(`\|.+\|.+\|`),                        // tables
	regexp.MustCompile(`(?m)^[-*_]{3,}$`),                   // horizontal rules
	regexp.MustCompile(`\[.+?\](?:\(.+?\)|\[\d+\])`),        // links and citations
	regexp.MustCompile(`\*\*.+?\*\*`),                       // emphasis
	regexp.MustCompile(`(?m)^---$`),                         // separators
	regexp.MustCompile(`(?i)\[\[?TOC\]?\]`),                 // explicit TOC marker
	regexp.MustCompile(`(?m)^## [A-Za-z0-9\x{4e00}-\x{9fa5}]+$`), // chapter titles
}

// chapterTitleRe spots bare section headings like "## 引言".
var chapterTitleRe = regexp.MustCompile(`(?m)^## [A-Za-z0-9\x{4e00}-\x{9fa5}]+`)

// IsStructuredDocument reports whether text reads as a structured markdown
// document: an explicit table-of-contents or academic-section marker, or at
// least three distinct markdown syntax features.
func IsStructuredDocument(text string) bool {
	if text == "" {
		return false
	}

	if strings.Contains(text, "## 目录") || strings.Contains(text, "# 目录") {
		return true
	}
	if chapterTitleRe.MatchString(text) {
		return true
	}
	if hasAcademicSections(text) {
		return true
	}

	count := 0
	for _, re := range markdownFeatures {
		if re.MatchString(text) {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// hasAcademicSections reports the heading combination typical of paper-style
// documents: an abstract plus a conclusion or bibliography.
func hasAcademicSections(text string) bool {
	abstract := strings.Contains(text, "## 摘要") || strings.Contains(text, "# 摘要")
	if !abstract {
		return false
	}
	return strings.Contains(text, "## 结论") || strings.Contains(text, "# 结论") ||
		strings.Contains(text, "## 参考文献") || strings.Contains(text, "# 参考文献")
}
