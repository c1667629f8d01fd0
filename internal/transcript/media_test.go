// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import "testing"

func TestExtractMedia(t *testing.T) {
	t.Run("no media leaves text unchanged", func(t *testing.T) {
		got, refs := ExtractMedia("just some prose with no links")
		if got != "just some prose with no links" {
			t.Errorf("text = %q", got)
		}
		if len(refs) != 0 {
			t.Errorf("refs = %v, want none", refs)
		}
	})

	t.Run("markdown image", func(t *testing.T) {
		got, refs := ExtractMedia("看这张图 ![风景](http://example.com/a.png) 很美")
		if len(refs) != 1 {
			t.Fatalf("refs = %d, want 1", len(refs))
		}
		if refs[0].Kind != MediaImage || refs[0].URL != "http://example.com/a.png" {
			t.Errorf("ref = %+v", refs[0])
		}
		if got != "看这张图  很美" {
			t.Errorf("text = %q", got)
		}
	})

	t.Run("file-prefixed image alt becomes file ref", func(t *testing.T) {
		_, refs := ExtractMedia("![文件: report.pdf](http://example.com/r.pdf)")
		if len(refs) != 1 {
			t.Fatalf("refs = %d, want 1", len(refs))
		}
		r := refs[0]
		if r.Kind != MediaFile || r.Name != "report.pdf" || r.Extension != "pdf" {
			t.Errorf("ref = %+v", r)
		}
	})

	t.Run("named file link", func(t *testing.T) {
		_, refs := ExtractMedia("下载 [文件: 数据表.xlsx](http://example.com/d.xlsx)")
		if len(refs) != 1 {
			t.Fatalf("refs = %d, want 1", len(refs))
		}
		r := refs[0]
		if r.Kind != MediaFile || r.Name != "数据表.xlsx" || r.Extension != "xlsx" {
			t.Errorf("ref = %+v", r)
		}
	})

	t.Run("named audio link", func(t *testing.T) {
		_, refs := ExtractMedia("听听 [音频: 晴天](http://example.com/song.mp3)")
		if len(refs) != 1 {
			t.Fatalf("refs = %d, want 1", len(refs))
		}
		r := refs[0]
		if r.Kind != MediaAudio || r.Name != "晴天" || r.URL != "http://example.com/song.mp3" {
			t.Errorf("ref = %+v", r)
		}
	})

	t.Run("bare audio url gets default name", func(t *testing.T) {
		_, refs := ExtractMedia("这里 http://example.com/x.mp3 可以播放")
		if len(refs) != 1 {
			t.Fatalf("refs = %d, want 1", len(refs))
		}
		if refs[0].Kind != MediaAudio || refs[0].Name != "音频文件" {
			t.Errorf("ref = %+v", refs[0])
		}
	})

	t.Run("duplicate urls collapse keeping first", func(t *testing.T) {
		got, refs := ExtractMedia("![a](http://e.com/p.png)\n\n文字\n\n![b](http://e.com/p.png)")
		if len(refs) != 1 {
			t.Fatalf("refs = %d, want 1", len(refs))
		}
		if got != "文字" {
			t.Errorf("text = %q", got)
		}
	})

	t.Run("source order preserved", func(t *testing.T) {
		_, refs := ExtractMedia("[音频: a](http://e.com/a.mp3) 然后 ![](http://e.com/b.png) 最后 [文件: c.txt](http://e.com/c.txt)")
		if len(refs) != 3 {
			t.Fatalf("refs = %d, want 3", len(refs))
		}
		wantKinds := []MediaKind{MediaAudio, MediaImage, MediaFile}
		for i, k := range wantKinds {
			if refs[i].Kind != k {
				t.Errorf("refs[%d].Kind = %v, want %v", i, refs[i].Kind, k)
			}
		}
	})

	t.Run("audio markdown not double counted by bare url", func(t *testing.T) {
		_, refs := ExtractMedia("[音频: song](http://e.com/s.mp3)")
		if len(refs) != 1 {
			t.Fatalf("refs = %d, want 1", len(refs))
		}
		if refs[0].Name != "song" {
			t.Errorf("name = %q, want the markdown name", refs[0].Name)
		}
	})
}

func TestImageRefs(t *testing.T) {
	refs := imageRefs("结果 http://e.com/a.jpg 和 http://e.com/b.png 以及重复 http://e.com/a.jpg")
	if len(refs) != 2 {
		t.Fatalf("refs = %d, want 2", len(refs))
	}
	if refs[0].URL != "http://e.com/a.jpg" || refs[1].URL != "http://e.com/b.png" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"report.pdf", "pdf"},
		{"archive.tar.GZ", "gz"},
		{"noext", ""},
		{"trailing.", ""},
	}
	for _, tt := range tests {
		if got := fileExtension(tt.name); got != tt.want {
			t.Errorf("fileExtension(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
