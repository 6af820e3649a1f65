package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/tablegraph/pkg/chart"
)

// TermProfile holds the detected terminal color profile, computed once at
// package init.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and ANSI white
// for anything less.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// ThemeBg returns the given hex color for TrueColor terminals and the
// terminal's own background otherwise.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// Theme is the palette and the pre-built styles of the settings panel.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor

	// chart fills
	High   lipgloss.AdaptiveColor
	Normal lipgloss.AdaptiveColor
	Low    lipgloss.AdaptiveColor

	Base        lipgloss.Style
	Header      lipgloss.Style
	TabTitle    lipgloss.Style
	TabActive   lipgloss.Style
	Item        lipgloss.Style
	ItemChosen  lipgloss.Style
	ItemInvalid lipgloss.Style
	Cursor      lipgloss.Style
	Panel       lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Danger:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},

		High:   lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		Normal: lipgloss.AdaptiveColor{Light: "#008080", Dark: "#00CED1"},
		Low:    lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})
	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)
	t.TabTitle = r.NewStyle().Foreground(t.Secondary)
	t.TabActive = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Item = r.NewStyle().PaddingLeft(2)
	t.ItemChosen = r.NewStyle().PaddingLeft(2).Foreground(t.Primary).Bold(true)
	t.ItemInvalid = r.NewStyle().PaddingLeft(2).Foreground(t.Muted).Strikethrough(true)
	t.Cursor = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)
	t.Panel = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.Status = r.NewStyle().Foreground(t.Subtext).Italic(true)
	t.Error = r.NewStyle().Foreground(t.Danger).Bold(true)

	return t
}

// FillColor maps a chart fill name to its terminal colour.
func (t Theme) FillColor(fill string) lipgloss.AdaptiveColor {
	switch fill {
	case chart.ColorHigh:
		return t.High
	case chart.ColorNormal:
		return t.Normal
	default:
		return t.Low
	}
}

// TestTheme returns a theme for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
