package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors - Light mode uses darker colors for contrast on white backgrounds
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	// Primary accent colors
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Status colors
	ColorStatusOpen       = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorStatusInProgress = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorStatusResolved   = lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#6699FF"}
	ColorStatusClosed     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}

	// Status background colors (for badges) - subtle backgrounds
	ColorStatusOpenBg       = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
	ColorStatusInProgressBg = lipgloss.AdaptiveColor{Light: "#D1ECF1", Dark: "#1A3344"}
	ColorStatusResolvedBg   = lipgloss.AdaptiveColor{Light: "#CCE5FF", Dark: "#1A2A44"}
	ColorStatusClosedBg     = lipgloss.AdaptiveColor{Light: "#E2E3E5", Dark: "#2A2A3D"}

	// Priority colors
	ColorPrioHigh   = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}
	ColorPrioMedium = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorPrioLow    = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}

	// Priority background colors
	ColorPrioHighBg   = lipgloss.AdaptiveColor{Light: "#F8D7DA", Dark: "#3D1A1A"}
	ColorPrioMediumBg = lipgloss.AdaptiveColor{Light: "#FFE8CC", Dark: "#3D2A1A"}
	ColorPrioLowBg    = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES - Framed boxes for sections and modals
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)
)

// StatusBadgeWidth keeps the status column aligned across rows; "Em andamento"
// is the widest canonical label.
const StatusBadgeWidth = 12

// RenderStatusBadge returns a styled badge for a canonical ticket status.
// Unknown statuses render with muted colors so a misbehaving server never
// breaks the row layout.
func RenderStatusBadge(status model.Status) string {
	var fg, bg lipgloss.AdaptiveColor
	switch status {
	case model.StatusOpen:
		fg, bg = ColorStatusOpen, ColorStatusOpenBg
	case model.StatusInProgress:
		fg, bg = ColorStatusInProgress, ColorStatusInProgressBg
	case model.StatusResolved:
		fg, bg = ColorStatusResolved, ColorStatusResolvedBg
	case model.StatusClosed:
		fg, bg = ColorStatusClosed, ColorStatusClosedBg
	default:
		fg, bg = ColorMuted, ColorBgSubtle
	}

	label := padRight(truncate(string(status), StatusBadgeWidth), StatusBadgeWidth)
	return lipgloss.NewStyle().
		Foreground(ThemeFg(fg)).
		Background(ThemeBg(bg)).
		Render(label)
}

// RenderPriorityBadge returns a styled badge for a ticket priority.
func RenderPriorityBadge(priority model.Priority) string {
	var fg, bg lipgloss.AdaptiveColor
	switch priority {
	case model.PriorityHigh:
		fg, bg = ColorPrioHigh, ColorPrioHighBg
	case model.PriorityMedium:
		fg, bg = ColorPrioMedium, ColorPrioMediumBg
	case model.PriorityLow:
		fg, bg = ColorPrioLow, ColorPrioLowBg
	default:
		fg, bg = ColorMuted, ColorBgSubtle
	}

	label := padRight(truncate(string(priority), 5), 5)
	return lipgloss.NewStyle().
		Foreground(ThemeFg(fg)).
		Background(ThemeBg(bg)).
		Bold(true).
		Render(label)
}

// RenderDivider renders a horizontal divider line of the given width.
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}
