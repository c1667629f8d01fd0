// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive maintains a searchable SQLite index of every message
// that passes through the client.
package archive

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/mcpchat-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError = errors.New("archive database error")
	ErrNotFound      = errors.New("conversation not in archive")
)

// =============================================================================
// ARCHIVE
// =============================================================================

// Archive is a full-text index over archived conversations.
type Archive struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the archive database at path.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	// SQLite supports one writer at a time, keep the pool at one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	a := &Archive{db: db}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return a, nil
}

// initSchema creates the tables, FTS index, and metadata rows.
func (a *Archive) initSchema() error {
	if _, err := a.db.Exec(Schema); err != nil {
		return err
	}
	_, err := a.db.Exec(InitMetadata)
	return err
}

// Close releases the database.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// =============================================================================
// INDEXING
// =============================================================================

// IndexConversation replaces the archived copy of a conversation with its
// current state. Message bodies are stored finalized, so streaming
// placeholders never land in the index.
func (a *Archive) IndexConversation(conv *model.Conversation) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	// Upsert the conversation row. LastInsertId is unreliable after the
	// conflict branch, so the row id comes back via RETURNING.
	var rowID int64
	err = tx.QueryRow(`
		INSERT INTO conversations (conv_id, title, model, created_at, updated_at, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(conv_id) DO UPDATE SET
			title = excluded.title,
			model = excluded.model,
			updated_at = excluded.updated_at,
			indexed_at = excluded.indexed_at
		RETURNING id`,
		conv.ID, conv.Title, conv.Model,
		conv.CreatedAt.Unix(), conv.UpdatedAt.Unix(), time.Now().Unix()).Scan(&rowID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	// Replace the message rows wholesale. ON DELETE CASCADE plus the FTS
	// triggers keeps the index consistent.
	if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", rowID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO messages (msg_id, conversation_id, role, content, timestamp, token_count)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for _, msg := range conv.Messages {
		if msg.IsStreaming || msg.IsEmpty() {
			continue
		}
		if _, err := stmt.Exec(msg.ID, rowID, msg.Role.String(), msg.Text(),
			msg.Timestamp.Unix(), msg.TokenCount); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	return tx.Commit()
}

// RemoveConversation drops a conversation and its messages from the archive.
func (a *Archive) RemoveConversation(convID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	res, err := a.db.Exec("DELETE FROM conversations WHERE conv_id = ?", convID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// STATS
// =============================================================================

// Stats summarizes the archive contents.
type Stats struct {
	Conversations int
	Messages      int
}

// Stats returns row counts for the archive.
func (a *Archive) Stats() (Stats, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var s Stats
	if err := a.db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&s.Conversations); err != nil {
		return s, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if err := a.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&s.Messages); err != nil {
		return s, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return s, nil
}
