// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the mcpchat server.
//
// The server streams assistant output as server-sent events: one
// "data: {\"content\": ...}\n\n" frame per chunk. The client reads frames
// line by line, invokes a callback per chunk, and honors context
// cancellation mid-stream. Requests are rate limited so a busy UI cannot
// hammer the backend.
package backend
