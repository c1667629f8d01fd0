// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript interprets raw assistant transcripts into typed content blocks.
package transcript

import "testing"

func TestExtractEnvelope(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantText  string
		wantError bool
	}{
		{
			name:      "plain envelope",
			input:     `meta=None content=[TextContent(type='text', text='hello')] isError=False`,
			wantText:  "hello",
			wantError: false,
		},
		{
			name:      "error flag set",
			input:     `meta=None content=[TextContent(type='text', text='boom')] isError=True`,
			wantText:  "boom",
			wantError: true,
		},
		{
			name:      "annotations suffix",
			input:     `meta=None content=[TextContent(type='text', text='ok', annotations=None)] isError=False`,
			wantText:  "ok",
			wantError: false,
		},
		{
			name:      "null meta",
			input:     `meta=null content=[TextContent(type='text', text='ok')] isError=False`,
			wantText:  "ok",
			wantError: false,
		},
		{
			name:      "escaped quote and unicode",
			input:     `meta=None content=[TextContent(type='text', text='it\'s 5°C', annotations=None)] isError=False`,
			wantText:  "it's 5°C",
			wantError: false,
		},
		{
			name:      "newline and tab escapes",
			input:     `meta=None content=[TextContent(type='text', text='line1\nline2\tend')] isError=False`,
			wantText:  "line1\nline2\tend",
			wantError: false,
		},
		{
			name:      "bare text content without wrapper",
			input:     `TextContent(type='text', text='loose')`,
			wantText:  "loose",
			wantError: false,
		},
		{
			name:      "no envelope returns input unchanged",
			input:     "just a normal sentence",
			wantText:  "just a normal sentence",
			wantError: false,
		},
		{
			name:      "truncated envelope returns input unchanged",
			input:     `meta=None content=[TextContent(type='text', te`,
			wantText:  `meta=None content=[TextContent(type='text', te`,
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotErr := ExtractEnvelope(tt.input)
			if got != tt.wantText {
				t.Errorf("payload = %q, want %q", got, tt.wantText)
			}
			if gotErr != tt.wantError {
				t.Errorf("isError = %v, want %v", gotErr, tt.wantError)
			}
		})
	}
}

func TestUnescapePayload(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`no escapes`, "no escapes"},
		{`a\nb`, "a\nb"},
		{`quote \' here`, "quote ' here"},
		{`double \" here`, `double " here`},
		{`back\\slash`, `back\slash`},
		{`temp °C`, "temp °C"},
		{`chinese 你好`, "chinese 你好"},
		{`bad unicode \uZZZZ stays`, `bad unicode \uZZZZ stays`},
		{`trailing backslash \`, `trailing backslash \`},
		{`unknown \x stays`, `unknown \x stays`},
	}

	for _, tt := range tests {
		if got := unescapePayload(tt.input); got != tt.want {
			t.Errorf("unescapePayload(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindEnvelope(t *testing.T) {
	text := "prefix meta=None content=[TextContent(type='text', text='x')] isError=False suffix"
	start, end, ok := findEnvelope(text)
	if !ok {
		t.Fatal("expected envelope to be found")
	}
	if start != len("prefix ") {
		t.Errorf("start = %d, want %d", start, len("prefix "))
	}
	if text[end:] != " suffix" {
		t.Errorf("tail after envelope = %q, want %q", text[end:], " suffix")
	}

	if _, _, ok := findEnvelope("no envelope here"); ok {
		t.Error("expected no envelope")
	}
}
