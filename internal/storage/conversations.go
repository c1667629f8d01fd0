// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations as JSON files on disk.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/mcpchat-tui/internal/model"
	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// ConversationError represents a conversation persistence error.
type ConversationError struct {
	Message string
}

func (e *ConversationError) Error() string {
	return e.Message
}

// Is supports errors.Is comparison between conversation errors.
func (e *ConversationError) Is(target error) bool {
	t, ok := target.(*ConversationError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrConversationNotFound is returned when a conversation doesn't exist.
var ErrConversationNotFound = &ConversationError{Message: "conversation not found"}

// =============================================================================
// CONVERSATION METADATA
// =============================================================================

// Meta is the lightweight listing view of a stored conversation.
type Meta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`

	// Preview is the first user message, truncated for display.
	Preview string `json:"preview"`
}

// =============================================================================
// CONVERSATION STORE
// =============================================================================

// Store handles conversation persistence.
type Store struct {
	// Dir is the directory holding one JSON file per conversation.
	Dir string

	// MaxConversations limits stored conversations (0 = unlimited).
	// Saving past the limit evicts the oldest by update time.
	MaxConversations int
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string, maxConversations int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir, MaxConversations: maxConversations}, nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save persists a conversation, refreshing its update time.
func (s *Store) Save(conv *model.Conversation) error {
	conv.UpdatedAt = time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = conv.UpdatedAt
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return err
	}

	// RELIABILITY: atomic write with fsync so a crash mid-save never
	// leaves a half-written conversation behind.
	if err := util.AtomicWriteFile(s.filePath(conv.ID), data, 0o644); err != nil {
		return err
	}

	if s.MaxConversations > 0 {
		s.enforceLimit()
	}
	return nil
}

// enforceLimit evicts the oldest conversations when over the limit.
func (s *Store) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxConversations {
		return
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.Before(metas[j].UpdatedAt)
	})

	excess := len(metas) - s.MaxConversations
	for i := 0; i < excess; i++ {
		s.Delete(metas[i].ID)
	}
}

// =============================================================================
// LOAD
// =============================================================================

// Load retrieves a conversation by ID.
func (s *Store) Load(id string) (*model.Conversation, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	var conv model.Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// LoadByIndex loads a conversation by list position (0 = most recent).
func (s *Store) LoadByIndex(index int) (*model.Conversation, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(metas) {
		return nil, ErrConversationNotFound
	}
	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST AND SEARCH
// =============================================================================

// List returns metadata for all stored conversations, most recent first.
// Corrupted files are skipped rather than failing the whole listing.
func (s *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Meta{}, nil
		}
		return nil, err
	}

	var metas []Meta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		conv, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		metas = append(metas, metaFor(conv))
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})
	return metas, nil
}

// metaFor builds the listing view of a conversation.
func metaFor(conv *model.Conversation) Meta {
	preview := ""
	for _, msg := range conv.Messages {
		if msg.Role == model.RoleUser {
			preview = msg.Preview(80)
			break
		}
	}

	return Meta{
		ID:           conv.ID,
		Title:        conv.Title,
		Model:        conv.Model,
		CreatedAt:    conv.CreatedAt,
		UpdatedAt:    conv.UpdatedAt,
		MessageCount: len(conv.Messages),
		Preview:      preview,
	}
}

// Search finds conversations whose title or preview matches the query,
// case-insensitively.
func (s *Store) Search(query string) ([]Meta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(query)
	var results []Meta
	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Title), query) ||
			strings.Contains(strings.ToLower(meta.Preview), query) {
			results = append(results, meta)
		}
	}
	return results, nil
}

// SearchMessages finds conversations where any message body contains the
// query string, case-insensitively. An empty query lists everything.
func (s *Store) SearchMessages(query string) ([]Meta, error) {
	if query == "" {
		return s.List()
	}

	query = strings.ToLower(query)
	all, err := s.List()
	if err != nil {
		return nil, err
	}

	var results []Meta
	for _, meta := range all {
		conv, err := s.Load(meta.ID)
		if err != nil {
			continue
		}
		for _, msg := range conv.Messages {
			if strings.Contains(strings.ToLower(msg.Text()), query) {
				results = append(results, meta)
				break
			}
		}
	}
	return results, nil
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes a conversation by ID.
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrConversationNotFound
		}
		return err
	}
	return nil
}

// Clear removes every stored conversation.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			os.Remove(filepath.Join(s.Dir, entry.Name()))
		}
	}
	return nil
}

// filePath returns the file path for a conversation ID.
func (s *Store) filePath(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders a conversation as a Markdown document with role
// labels and timestamps.
func ExportMarkdown(conv *model.Conversation) string {
	var sb strings.Builder
	title := conv.Title
	if title == "" {
		title = conv.ID
	}
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString("Created: " + conv.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range conv.Messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "** (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Text())
		sb.WriteString("\n\n---\n\n")
	}
	return sb.String()
}

// ExportJSON renders a conversation as pretty-printed JSON.
func ExportJSON(conv *model.Conversation) ([]byte, error) {
	return json.MarshalIndent(conv, "", "  ")
}
