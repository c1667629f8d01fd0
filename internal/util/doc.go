// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the mcpchat-tui application.
//
// String helpers are display-width aware (CJK characters occupy two terminal
// columns); file helpers write atomically so a crash never leaves a partial
// conversation file behind.
package util
