// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import (
	"regexp"
	"strings"
)

// =============================================================================
// EMBEDDED MEDIA KIND
// =============================================================================

// EmbeddedMediaKind tags the media shape of a final-response body.
type EmbeddedMediaKind int

const (
	// EmbeddedNone - Plain text, no media
	EmbeddedNone EmbeddedMediaKind = iota

	// EmbeddedSingleImage - The whole body is one image URL
	EmbeddedSingleImage

	// EmbeddedMultiImage - A bare list of image URLs
	EmbeddedMultiImage

	// EmbeddedTextWithImages - Prose with image URLs woven into it
	EmbeddedTextWithImages

	// EmbeddedStructured - Mixed items: text, images, audio, files
	EmbeddedStructured
)

// String returns the display name of the embedded-media kind.
func (k EmbeddedMediaKind) String() string {
	switch k {
	case EmbeddedSingleImage:
		return "image"
	case EmbeddedMultiImage:
		return "images"
	case EmbeddedTextWithImages:
		return "text-with-images"
	case EmbeddedStructured:
		return "structured"
	default:
		return "none"
	}
}

// =============================================================================
// EMBEDDED MEDIA TYPES
// =============================================================================

// StructuredItemKind tags one item of a structured final response.
type StructuredItemKind int

const (
	ItemText StructuredItemKind = iota
	ItemImage
	ItemImages
	ItemAudio
	ItemFile
)

// StructuredItem is one piece of a mixed final response, in source order.
type StructuredItem struct {
	Kind StructuredItemKind

	// Text carries the prose for ItemText items.
	Text string

	// URLs carries one URL for ItemImage/ItemAudio/ItemFile and several
	// for ItemImages.
	URLs []string

	// Name is the display name for audio and file items.
	Name string
}

// EmbeddedMedia is the media shape of one final-response body.
type EmbeddedMedia struct {
	Kind EmbeddedMediaKind

	// URLs holds the image URLs for the single, multi and text-with-images
	// shapes.
	URLs []string

	// Items holds the ordered pieces of a structured response.
	Items []StructuredItem
}

// =============================================================================
// FINAL RESPONSE CLASSIFIER
// =============================================================================

var (
	pureImageURLRe = regexp.MustCompile(`(?i)^https?://\S+\.(png|jpg|jpeg|gif|webp)$`)
	inlineImageRe  = regexp.MustCompile(`(?i)https?://\S+\.(png|jpg|jpeg|gif|webp)`)
)

// ClassifyEmbeddedMedia inspects a final-response body and extracts its
// media shape. The returned body has markdown media references removed when
// the structured shape applies; all other shapes leave the body untouched.
func ClassifyEmbeddedMedia(body string) (string, EmbeddedMedia) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return body, EmbeddedMedia{Kind: EmbeddedNone}
	}

	// A body that is exactly one image URL.
	if pureImageURLRe.MatchString(trimmed) {
		return "", EmbeddedMedia{Kind: EmbeddedSingleImage, URLs: []string{trimmed}}
	}

	// Comma-separated image URLs and nothing else.
	if urls, ok := splitImageURLList(trimmed); ok {
		return "", EmbeddedMedia{Kind: EmbeddedMultiImage, URLs: urls}
	}

	// Markdown media references make the response structured.
	if stripped, items, ok := structuredItems(trimmed); ok {
		return stripped, EmbeddedMedia{Kind: EmbeddedStructured, Items: items}
	}

	// Bare image URLs inside prose.
	if urls := inlineImageRe.FindAllString(trimmed, -1); len(urls) > 0 {
		return body, EmbeddedMedia{Kind: EmbeddedTextWithImages, URLs: urls}
	}

	return body, EmbeddedMedia{Kind: EmbeddedNone}
}

// splitImageURLList reports whether s is a comma-separated list of two or
// more image URLs.
func splitImageURLList(s string) ([]string, bool) {
	if !strings.Contains(s, ",") {
		return nil, false
	}
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return nil, false
	}
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if !pureImageURLRe.MatchString(p) {
			return nil, false
		}
		urls = append(urls, p)
	}
	return urls, true
}

// structuredItems extracts markdown media references into ordered items.
// The second return is the body with the references removed.
func structuredItems(body string) (string, []StructuredItem, bool) {
	stripped, refs := ExtractMedia(body)
	if len(refs) == 0 {
		return body, nil, false
	}

	var items []StructuredItem
	if text := strings.TrimSpace(stripped); text != "" {
		items = append(items, StructuredItem{Kind: ItemText, Text: text})
	}

	var images []string
	for _, r := range refs {
		switch r.Kind {
		case MediaImage:
			images = append(images, r.URL)
		case MediaAudio:
			items = append(items, StructuredItem{
				Kind: ItemAudio,
				Name: r.Name,
				URLs: []string{r.URL},
			})
		case MediaFile:
			items = append(items, StructuredItem{
				Kind: ItemFile,
				Name: r.Name,
				URLs: []string{r.URL},
			})
		}
	}
	switch {
	case len(images) == 1:
		items = append(items, StructuredItem{Kind: ItemImage, URLs: images})
	case len(images) > 1:
		items = append(items, StructuredItem{Kind: ItemImages, URLs: images})
	}

	return stripped, items, true
}
