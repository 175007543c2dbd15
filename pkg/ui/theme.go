package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals use the
// terminal's own background instead of a down-converted approximation
// that may clash with palettes like Solarized.
func ThemeBg(c lipgloss.AdaptiveColor) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return c
}

// ThemeFg returns the given color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(c lipgloss.AdaptiveColor) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return c
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Status
	Open       lipgloss.AdaptiveColor
	InProgress lipgloss.AdaptiveColor
	Resolved   lipgloss.AdaptiveColor
	Closed     lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	// Pre-computed styles, created once at startup instead of per-frame
	MutedText     lipgloss.Style // timestamps, muted info
	InfoText      lipgloss.Style // comment counts
	SecondaryText lipgloss.Style // ids, requesters
	PrimaryBold   lipgloss.Style // selection indicator
	ErrorText     lipgloss.Style // error toasts
	SuccessText   lipgloss.Style // success toasts
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"}, // Dim

		Open:       ColorStatusOpen,
		InProgress: ColorStatusInProgress,
		Resolved:   ColorStatusResolved,
		Closed:     ColorStatusClosed,

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(ThemeBg(t.Highlight)).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(ThemeBg(t.Primary)).
		Foreground(ThemeFg(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"})).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.InfoText = r.NewStyle().Foreground(ColorInfo)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.ErrorText = r.NewStyle().Foreground(ColorDanger).Bold(true)
	t.SuccessText = r.NewStyle().Foreground(ColorSuccess)

	return t
}

func (t Theme) GetStatusColor(s model.Status) lipgloss.AdaptiveColor {
	switch s {
	case model.StatusOpen:
		return t.Open
	case model.StatusInProgress:
		return t.InProgress
	case model.StatusResolved:
		return t.Resolved
	case model.StatusClosed:
		return t.Closed
	default:
		return t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
