// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the mcpchat TUI.
//
// All colors are lipgloss adaptive colors so the same palette works on
// light and dark terminals. The Theme bundles every style the chat view
// and block components draw with; construct one at startup with the
// configured theme preference and pass it down.
package styles
