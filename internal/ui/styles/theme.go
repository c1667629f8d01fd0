// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the mcpchat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// CHROME
	// ==========================================================================

	Header    lipgloss.Style
	StatusBar lipgloss.Style
	StatusKey lipgloss.Style
	Spinner   lipgloss.Style

	// ==========================================================================
	// MESSAGE LABELS
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	SystemLabel    lipgloss.Style
	Timestamp      lipgloss.Style
	MessageStats   lipgloss.Style

	// ==========================================================================
	// BLOCK STYLES
	// ==========================================================================

	ToolHeader      lipgloss.Style
	ToolHeaderError lipgloss.Style
	ToolBody        lipgloss.Style
	ToolBodyError   lipgloss.Style
	CollapsedHint   lipgloss.Style

	PlanTitle   lipgloss.Style
	PlanMeta    lipgloss.Style
	StepPending lipgloss.Style
	StepSuccess lipgloss.Style
	StepFailed  lipgloss.Style
	StepDetail  lipgloss.Style

	ThinkingHeader lipgloss.Style
	ThinkingBody   lipgloss.Style

	FinalResponse lipgloss.Style
	MediaItem     lipgloss.Style
	CardLabel     lipgloss.Style
	CardValue     lipgloss.Style
	LinkText      lipgloss.Style

	// ==========================================================================
	// ERRORS
	// ==========================================================================

	ErrorBox   lipgloss.Style
	ErrorTitle lipgloss.Style
}

// NewTheme creates a theme honoring a configured preference:
// "dark", "light", or "auto" (detect from the terminal background).
func NewTheme(pref string) *Theme {
	isDark := termenv.HasDarkBackground()
	switch pref {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Chrome
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.Spinner = lipgloss.NewStyle().Foreground(Purple)

	// Message labels
	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.SystemLabel = lipgloss.NewStyle().Italic(true).Foreground(TextMuted)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.MessageStats = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// Tool result blocks
	t.ToolHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)

	t.ToolHeaderError = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.ToolBody = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay).
		PaddingLeft(1)

	t.ToolBodyError = t.ToolBody.
		BorderForeground(Rose)

	t.CollapsedHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Execution plan
	t.PlanTitle = lipgloss.NewStyle().Bold(true).Foreground(Purple)
	t.PlanMeta = lipgloss.NewStyle().Foreground(TextMuted)
	t.StepPending = lipgloss.NewStyle().Foreground(TextSecondary)
	t.StepSuccess = lipgloss.NewStyle().Foreground(Emerald)
	t.StepFailed = lipgloss.NewStyle().Foreground(Rose)
	t.StepDetail = lipgloss.NewStyle().Foreground(TextMuted).PaddingLeft(4)

	// Thinking
	t.ThinkingHeader = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	t.ThinkingBody = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Amber).
		PaddingLeft(1)

	// Final response and media
	t.FinalResponse = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.MediaItem = lipgloss.NewStyle().Foreground(Cyan)
	t.CardLabel = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary)
	t.CardValue = lipgloss.NewStyle().Foreground(TextPrimary)
	t.LinkText = lipgloss.NewStyle().Foreground(Cyan).Underline(true)

	// Errors
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().Bold(true).Foreground(Rose)
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GlamourStyle returns the glamour style name matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// ChromaStyle returns the chroma style name matching the theme.
func (t *Theme) ChromaStyle() string {
	if t.IsDark {
		return "monokai"
	}
	return "github"
}
