// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import "testing"

func TestClassifyEmbeddedMedia(t *testing.T) {
	t.Run("plain text has no media", func(t *testing.T) {
		body, media := ClassifyEmbeddedMedia("一段普通的回答文本")
		if media.Kind != EmbeddedNone {
			t.Errorf("kind = %v", media.Kind)
		}
		if body != "一段普通的回答文本" {
			t.Errorf("body = %q", body)
		}
	})

	t.Run("pure image url", func(t *testing.T) {
		body, media := ClassifyEmbeddedMedia("  http://e.com/pic.png  ")
		if media.Kind != EmbeddedSingleImage {
			t.Fatalf("kind = %v", media.Kind)
		}
		if len(media.URLs) != 1 || media.URLs[0] != "http://e.com/pic.png" {
			t.Errorf("urls = %v", media.URLs)
		}
		if body != "" {
			t.Errorf("body = %q, want empty", body)
		}
	})

	t.Run("comma separated image urls", func(t *testing.T) {
		_, media := ClassifyEmbeddedMedia("http://e.com/a.png, http://e.com/b.jpg")
		if media.Kind != EmbeddedMultiImage {
			t.Fatalf("kind = %v", media.Kind)
		}
		if len(media.URLs) != 2 {
			t.Errorf("urls = %v", media.URLs)
		}
	})

	t.Run("image url inside prose", func(t *testing.T) {
		body, media := ClassifyEmbeddedMedia("如图 http://e.com/pic.png 所示")
		if media.Kind != EmbeddedTextWithImages {
			t.Fatalf("kind = %v", media.Kind)
		}
		if len(media.URLs) != 1 {
			t.Errorf("urls = %v", media.URLs)
		}
		if body != "如图 http://e.com/pic.png 所示" {
			t.Errorf("body = %q, want untouched", body)
		}
	})

	t.Run("markdown references make a structured response", func(t *testing.T) {
		input := "结果如下\n![](http://e.com/a.png)\n[文件: 报告.pdf](http://e.com/r.pdf)"
		body, media := ClassifyEmbeddedMedia(input)
		if media.Kind != EmbeddedStructured {
			t.Fatalf("kind = %v", media.Kind)
		}
		if len(media.Items) != 3 {
			t.Fatalf("items = %d, want 3: %+v", len(media.Items), media.Items)
		}

		var haveText, haveFile, haveImage bool
		for _, item := range media.Items {
			switch item.Kind {
			case ItemText:
				haveText = item.Text == "结果如下"
			case ItemFile:
				haveFile = item.Name == "报告.pdf"
			case ItemImage:
				haveImage = len(item.URLs) == 1 && item.URLs[0] == "http://e.com/a.png"
			}
		}
		if !haveText || !haveFile || !haveImage {
			t.Errorf("items = %+v", media.Items)
		}

		if body == input {
			t.Error("body should have references stripped")
		}
	})

	t.Run("several markdown images collapse into one images item", func(t *testing.T) {
		_, media := ClassifyEmbeddedMedia("![](http://e.com/a.png)\n![](http://e.com/b.png)")
		if media.Kind != EmbeddedStructured {
			t.Fatalf("kind = %v", media.Kind)
		}
		if len(media.Items) != 1 || media.Items[0].Kind != ItemImages {
			t.Fatalf("items = %+v", media.Items)
		}
		if len(media.Items[0].URLs) != 2 {
			t.Errorf("urls = %v", media.Items[0].URLs)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		_, media := ClassifyEmbeddedMedia("  ")
		if media.Kind != EmbeddedNone {
			t.Errorf("kind = %v", media.Kind)
		}
	})
}
