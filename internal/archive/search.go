// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive maintains a searchable SQLite index of every message
// that passes through the client.
package archive

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// SEARCH OPTIONS
// =============================================================================

// SearchOptions controls archive search behavior.
type SearchOptions struct {
	// MaxResults caps returned hits (0 = default of 50).
	MaxResults int

	// Roles filters hits by message role (empty = all roles).
	Roles []string

	// ConversationID restricts hits to one conversation.
	ConversationID string
}

// DefaultSearchOptions returns the default search options.
func DefaultSearchOptions() *SearchOptions {
	return &SearchOptions{MaxResults: 50}
}

// SearchHit is one message matching a search query.
type SearchHit struct {
	ConversationID string
	Title          string
	MessageID      string
	Role           string
	Timestamp      time.Time

	// Snippet is the matching region with FTS highlight marks.
	Snippet string
}

// =============================================================================
// SEARCH
// =============================================================================

// Search runs a full-text query over archived message bodies, newest first.
func (a *Archive) Search(query string, options *SearchOptions) ([]SearchHit, error) {
	if options == nil {
		options = DefaultSearchOptions()
	}

	ftsQuery := buildFTSQuery(query)
	if ftsQuery == "" {
		return []SearchHit{}, nil
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	sqlQuery := `
		SELECT
			c.conv_id, c.title, m.msg_id, m.role, m.timestamp,
			snippet(messages_fts, 0, '[', ']', '…', 12)
		FROM messages_fts fts
		JOIN messages m ON m.id = fts.rowid
		JOIN conversations c ON c.id = m.conversation_id
		WHERE messages_fts MATCH ?
	`
	args := []interface{}{ftsQuery}

	var conditions []string
	if len(options.Roles) > 0 {
		placeholders := make([]string, len(options.Roles))
		for i, role := range options.Roles {
			placeholders[i] = "?"
			args = append(args, role)
		}
		conditions = append(conditions, "m.role IN ("+strings.Join(placeholders, ",")+")")
	}
	if options.ConversationID != "" {
		conditions = append(conditions, "c.conv_id = ?")
		args = append(args, options.ConversationID)
	}
	if len(conditions) > 0 {
		sqlQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sqlQuery += " ORDER BY m.timestamp DESC"

	max := options.MaxResults
	if max <= 0 {
		max = 50
	}
	sqlQuery += " LIMIT ?"
	args = append(args, max)

	rows, err := a.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var hit SearchHit
		var ts int64
		if err := rows.Scan(&hit.ConversationID, &hit.Title, &hit.MessageID,
			&hit.Role, &ts, &hit.Snippet); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		hit.Timestamp = time.Unix(ts, 0)
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// buildFTSQuery turns user input into a safe FTS5 match expression.
func buildFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}

	// Quote each term so FTS5 operators in user input stay literal.
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, `""`)
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " ")
}
