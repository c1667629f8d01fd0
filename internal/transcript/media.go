// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import (
	"regexp"
	"sort"
	"strings"
)

// =============================================================================
// MEDIA KIND
// =============================================================================

// MediaKind identifies the type of an extracted media reference.
type MediaKind int

const (
	// MediaImage - An inline image
	MediaImage MediaKind = iota

	// MediaFile - A named downloadable file
	MediaFile

	// MediaAudio - An audio clip
	MediaAudio
)

// String returns the string representation of a media kind.
func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaFile:
		return "file"
	case MediaAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// =============================================================================
// MEDIA REFERENCE
// =============================================================================

// MediaRef is an extracted pointer to a resource mentioned inline in
// narrative text. A reference is uniquely identified by its URL.
type MediaRef struct {
	Kind MediaKind

	// URL of the resource.
	URL string

	// Name is the display name for file and audio references.
	Name string

	// Extension is the file extension for file references.
	Extension string
}

// =============================================================================
// EXTRACTION PATTERNS
// =============================================================================

// filePrefix marks markdown references that point at named files rather
// than inline images, e.g. ![文件: report.pdf](url) or [文件: report.pdf](url).
const filePrefix = "文件:"

var (
	// imageMDRe matches markdown image references ![alt](url).
	imageMDRe = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)

	// fileMDRe matches named file references [文件: name](url).
	fileMDRe = regexp.MustCompile(`\[文件:\s*(.*?)\]\((.*?)\)`)

	// audioMDRe matches named audio references [音频: name](url.ext).
	audioMDRe = regexp.MustCompile(`(?i)\[音频:\s*(.*?)\]\((.*?\.(?:mp3|wav|ogg|m4a|flac))\)`)

	// bareAudioRe matches audio URLs pasted without markdown syntax.
	bareAudioRe = regexp.MustCompile(`(?i)(https?://[^\s)]+\.(?:mp3|wav|ogg|m4a|flac))`)

	// imageURLRe matches bare image URLs inside tool-result payloads.
	imageURLRe = regexp.MustCompile(`(?i)(https?://[^\s)]+\.(?:jpeg|jpg|png|gif|webp|svg))`)
)

// defaultAudioName labels bare audio URLs that carry no display name.
const defaultAudioName = "音频文件"

// =============================================================================
// MEDIA EXTRACTOR
// =============================================================================

// mediaMatch is one located reference before deduplication.
type mediaMatch struct {
	start, end int
	ref        MediaRef
}

// ExtractMedia scans narrative text for media references, removes them from
// the text (collapsing the blank lines left behind), and returns the
// references in source order. Duplicate URLs collapse to one reference,
// keeping the first occurrence's metadata. One pass, no partial mode.
func ExtractMedia(text string) (string, []MediaRef) {
	if text == "" || !strings.Contains(text, "http") && !strings.Contains(text, "![") {
		return text, nil
	}

	var matches []mediaMatch

	// Named audio first: its [音频: ...](url) span would otherwise be
	// half-consumed by the bare-URL pattern.
	for _, m := range audioMDRe.FindAllStringSubmatchIndex(text, -1) {
		matches = append(matches, mediaMatch{
			start: m[0], end: m[1],
			ref: MediaRef{
				Kind: MediaAudio,
				Name: strings.TrimSpace(text[m[2]:m[3]]),
				URL:  strings.TrimSpace(text[m[4]:m[5]]),
			},
		})
	}

	for _, m := range fileMDRe.FindAllStringSubmatchIndex(text, -1) {
		name := strings.TrimSpace(text[m[2]:m[3]])
		matches = append(matches, mediaMatch{
			start: m[0], end: m[1],
			ref: MediaRef{
				Kind:      MediaFile,
				Name:      name,
				URL:       strings.TrimSpace(text[m[4]:m[5]]),
				Extension: fileExtension(name),
			},
		})
	}

	for _, m := range imageMDRe.FindAllStringSubmatchIndex(text, -1) {
		alt := text[m[2]:m[3]]
		url := strings.TrimSpace(text[m[4]:m[5]])
		if strings.HasPrefix(alt, filePrefix) {
			name := strings.TrimSpace(strings.TrimPrefix(alt, filePrefix))
			matches = append(matches, mediaMatch{
				start: m[0], end: m[1],
				ref: MediaRef{
					Kind:      MediaFile,
					Name:      name,
					URL:       url,
					Extension: fileExtension(name),
				},
			})
		} else {
			matches = append(matches, mediaMatch{
				start: m[0], end: m[1],
				ref:   MediaRef{Kind: MediaImage, URL: url},
			})
		}
	}

	for _, m := range bareAudioRe.FindAllStringSubmatchIndex(text, -1) {
		matches = append(matches, mediaMatch{
			start: m[0], end: m[1],
			ref: MediaRef{
				Kind: MediaAudio,
				Name: defaultAudioName,
				URL:  text[m[2]:m[3]],
			},
		})
	}

	if len(matches) == 0 {
		return text, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].start != matches[j].start {
			return matches[i].start < matches[j].start
		}
		// At equal start the wider span wins (markdown over bare URL).
		return matches[i].end > matches[j].end
	})

	var refs []MediaRef
	seen := make(map[string]bool)
	var clean strings.Builder
	pos := 0

	for _, m := range matches {
		if m.start < pos {
			// Nested inside an already-consumed span.
			if !seen[m.ref.URL] && m.ref.URL != "" && m.end <= pos {
				seen[m.ref.URL] = true
				refs = append(refs, m.ref)
			}
			continue
		}
		clean.WriteString(text[pos:m.start])
		pos = m.end

		if m.ref.URL == "" || seen[m.ref.URL] {
			continue
		}
		seen[m.ref.URL] = true
		refs = append(refs, m.ref)
	}
	clean.WriteString(text[pos:])

	return collapseBlankLines(clean.String()), refs
}

// imageRefs returns image references for bare image URLs inside a
// tool-result payload, deduplicated by URL. The payload text itself is
// left untouched; the renderer decides whether to elide the URLs.
func imageRefs(text string) []MediaRef {
	urls := imageURLRe.FindAllString(text, -1)
	if len(urls) == 0 {
		return nil
	}

	var refs []MediaRef
	seen := make(map[string]bool)
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		refs = append(refs, MediaRef{Kind: MediaImage, URL: u})
	}
	return refs
}

// fileExtension returns the lowercase extension of a file name, without
// the dot, or "" when the name has none.
func fileExtension(name string) string {
	i := strings.LastIndex(name, ".")
	if i == -1 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
