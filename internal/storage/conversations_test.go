// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations as JSON files on disk.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/mcpchat-tui/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	conv := model.NewConversation("default")
	conv.AddUserMessage("查询北京天气")
	asst := conv.AddAssistantMessage()
	asst.AppendChunk("执行工具: get_weather\n")
	asst.FinalizeStream(nil)

	if err := s.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(conv.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != conv.ID {
		t.Errorf("ID = %q, want %q", loaded.ID, conv.ID)
	}
	if len(loaded.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(loaded.Messages))
	}
	if loaded.Messages[0].Text() != "查询北京天气" {
		t.Errorf("first message = %q", loaded.Messages[0].Text())
	}
	if loaded.Messages[1].Role != model.RoleAssistant {
		t.Errorf("second role = %q", loaded.Messages[1].Role)
	}
}

func TestLoadMissingConversation(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Load("no-such-id"); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestListOrdersByUpdateTime(t *testing.T) {
	s := newTestStore(t)

	older := model.NewConversation("default")
	older.AddUserMessage("first")
	if err := s.Save(older); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Keep the update times distinct.
	time.Sleep(10 * time.Millisecond)

	newer := model.NewConversation("default")
	newer.AddUserMessage("second")
	if err := s.Save(newer); err != nil {
		t.Fatalf("Save: %v", err)
	}

	metas, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len(metas) = %d, want 2", len(metas))
	}
	if metas[0].ID != newer.ID {
		t.Errorf("metas[0].ID = %q, want newest first", metas[0].ID)
	}
	if metas[0].Preview != "second" {
		t.Errorf("preview = %q", metas[0].Preview)
	}
	if metas[0].MessageCount != 1 {
		t.Errorf("message count = %d", metas[0].MessageCount)
	}
}

func TestListSkipsCorruptedFiles(t *testing.T) {
	s := newTestStore(t)

	conv := model.NewConversation("default")
	conv.AddUserMessage("ok")
	if err := s.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}

	bad := filepath.Join(s.Dir, "broken.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	metas, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 1 {
		t.Errorf("len(metas) = %d, want 1", len(metas))
	}
}

func TestSearchMessages(t *testing.T) {
	s := newTestStore(t)

	weather := model.NewConversation("default")
	weather.AddUserMessage("北京今天天气怎么样")
	if err := s.Save(weather); err != nil {
		t.Fatalf("Save: %v", err)
	}

	music := model.NewConversation("default")
	music.AddUserMessage("播放一首歌")
	if err := s.Save(music); err != nil {
		t.Fatalf("Save: %v", err)
	}

	results, err := s.SearchMessages("天气")
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(results) != 1 || results[0].ID != weather.ID {
		t.Errorf("results = %+v", results)
	}

	all, err := s.SearchMessages("")
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("empty query returned %d results, want 2", len(all))
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	conv := model.NewConversation("default")
	if err := s.Save(conv); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Delete(conv.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load(conv.ID); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}
	if err := s.Delete(conv.ID); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestEnforceLimitEvictsOldest(t *testing.T) {
	s := newTestStore(t)
	s.MaxConversations = 2

	var ids []string
	for i := 0; i < 3; i++ {
		conv := model.NewConversation("default")
		conv.AddUserMessage("message")
		if err := s.Save(conv); err != nil {
			t.Fatalf("Save: %v", err)
		}
		ids = append(ids, conv.ID)
		time.Sleep(10 * time.Millisecond)
	}

	metas, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len(metas) = %d, want 2", len(metas))
	}
	if _, err := s.Load(ids[0]); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("oldest conversation survived eviction")
	}
}

func TestExportMarkdown(t *testing.T) {
	conv := model.NewConversation("default")
	conv.AddUserMessage("hello")
	asst := conv.AddAssistantMessage()
	asst.AppendChunk("hi there")
	asst.FinalizeStream(nil)

	md := ExportMarkdown(conv)
	if !strings.Contains(md, "**You**") {
		t.Errorf("markdown missing user label:\n%s", md)
	}
	if !strings.Contains(md, "**Assistant**") {
		t.Errorf("markdown missing assistant label:\n%s", md)
	}
	if !strings.Contains(md, "hi there") {
		t.Errorf("markdown missing assistant text:\n%s", md)
	}
}
