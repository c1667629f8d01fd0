// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the mcpchat server.
package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"
)

// =============================================================================
// STREAM READER
// =============================================================================

// dataPrefix opens every server-sent event frame the backend emits.
var dataPrefix = []byte("data: ")

// StreamReader decodes the backend's server-sent event stream line by line.
type StreamReader struct {
	reader *bufio.Reader

	// PERFORMANCE: strings.Builder avoids quadratic allocations while the
	// full text accumulates.
	accumulator strings.Builder
	chunkCount  int
	startTime   time.Time
	firstChunk  time.Time
}

// NewStreamReader creates a stream reader over r.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader:    bufio.NewReader(r),
		startTime: time.Now(),
	}
}

// Process reads frames until the stream ends and calls the callback for
// each decoded chunk. Returns nil on clean EOF, the context error on
// cancellation.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		chunk, err := s.readChunk()
		if err != nil {
			if err == io.EOF {
				callback(StreamChunk{Done: true})
				return nil
			}
			// A cancelled body read surfaces as a wrapped context error.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if chunk == nil {
			continue
		}

		if s.chunkCount == 0 {
			s.firstChunk = time.Now()
		}
		s.chunkCount++
		callback(*chunk)
	}
}

// readChunk reads one line and decodes it if it is a data frame. Blank
// separator lines and unrecognized lines yield (nil, nil).
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil && len(bytes.TrimSpace(line)) == 0 {
		return nil, err
	}

	line = bytes.TrimSpace(line)
	if !bytes.HasPrefix(line, dataPrefix) {
		return nil, nil
	}
	payload := bytes.TrimPrefix(line, dataPrefix)

	var frame struct {
		Type    string          `json:"type"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		// Malformed frames are dropped, the stream carries on.
		return nil, nil
	}

	content := decodeContent(frame.Content)
	if frame.Type == "error" {
		return &StreamChunk{Err: &ClientError{Type: ErrTypeInvalidResponse, Message: content}}, nil
	}
	if content == "" {
		return nil, nil
	}

	s.accumulator.WriteString(content)
	return &StreamChunk{Content: content}, nil
}

// decodeContent accepts the content field as a plain string or as a nested
// object carrying a content/text field, matching what the server emits.
func decodeContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Content string `json:"content"`
		Text    string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Content != "" {
			return obj.Content
		}
		if obj.Text != "" {
			return obj.Text
		}
	}

	return string(raw)
}

// FullText returns everything accumulated so far.
func (s *StreamReader) FullText() string {
	return s.accumulator.String()
}

// ChunkCount returns how many content chunks arrived.
func (s *StreamReader) ChunkCount() int {
	return s.chunkCount
}

// TimeToFirstChunk returns the latency before the first chunk, or zero if
// none arrived.
func (s *StreamReader) TimeToFirstChunk() time.Duration {
	if s.firstChunk.IsZero() {
		return 0
	}
	return s.firstChunk.Sub(s.startTime)
}
