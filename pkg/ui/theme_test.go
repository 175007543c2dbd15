package ui

import (
	"testing"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/helpcab/pkg/model"
)

func TestThemeColorsDegradeWithProfile(t *testing.T) {
	orig := TermProfile
	defer func() { TermProfile = orig }()

	c := lipgloss.AdaptiveColor{Light: "#111111", Dark: "#EEEEEE"}

	TermProfile = colorprofile.TrueColor
	if got := ThemeBg(c); got != c {
		t.Errorf("TrueColor background = %v, want the color itself", got)
	}
	if got := ThemeFg(c); got != c {
		t.Errorf("TrueColor foreground = %v, want the color itself", got)
	}

	TermProfile = colorprofile.ANSI256
	if _, ok := ThemeBg(c).(lipgloss.NoColor); !ok {
		t.Errorf("256-color background = %v, want NoColor", ThemeBg(c))
	}
	if got := ThemeFg(c); got != c {
		t.Errorf("256-color foreground = %v, want the color itself", got)
	}

	TermProfile = colorprofile.ANSI
	if got := ThemeFg(c); got != lipgloss.ANSIColor(7) {
		t.Errorf("16-color foreground = %v, want ANSI white", got)
	}
}

func TestGetStatusColor(t *testing.T) {
	th := TestTheme()
	if th.GetStatusColor(model.StatusOpen) != th.Open {
		t.Error("open status should use the open color")
	}
	if th.GetStatusColor(model.StatusClosed) != th.Closed {
		t.Error("closed status should use the closed color")
	}
	if th.GetStatusColor(model.Status("???")) != th.Subtext {
		t.Error("unknown status should fall back to subtext")
	}
}
