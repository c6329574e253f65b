package tui

import (
	"github.com/charmbracelet/lipgloss"

	"stevedore/internal/docker"
)

// Theme holds all colors used by the TUI. Views reference theme fields,
// never raw color values.
type Theme struct {
	Fg       lipgloss.Color // normal text
	Muted    lipgloss.Color // gray, also the no-healthcheck treatment
	Accent   lipgloss.Color // titles and hints
	Healthy  lipgloss.Color // green
	Warning  lipgloss.Color // yellow
	Critical lipgloss.Color // red
}

// DefaultTheme returns ANSI defaults so the dashboard inherits the
// terminal's palette.
func DefaultTheme() Theme {
	return Theme{
		Fg:       lipgloss.Color("7"),
		Muted:    lipgloss.Color("8"),
		Accent:   lipgloss.Color("14"),
		Healthy:  lipgloss.Color("10"),
		Warning:  lipgloss.Color("11"),
		Critical: lipgloss.Color("9"),
	}
}

// HealthColor returns the color treatment for a health category.
func (t Theme) HealthColor(h docker.Health) lipgloss.Color {
	switch h {
	case docker.HealthUp:
		return t.Healthy
	case docker.HealthStarting:
		return t.Warning
	case docker.HealthDown:
		return t.Critical
	default:
		return t.Muted
	}
}

// HealthIndicator returns a colored symbol for a health category.
func (t Theme) HealthIndicator(h docker.Health) string {
	style := lipgloss.NewStyle().Foreground(t.HealthColor(h))
	switch h {
	case docker.HealthUp:
		return style.Render("✓")
	case docker.HealthStarting:
		return style.Render("!")
	case docker.HealthDown:
		return style.Render("✗")
	default:
		return style.Render("–")
	}
}

// BuildTheme returns a Theme starting from ANSI defaults with any non-empty
// ThemeConfig fields applied as overrides.
func BuildTheme(tc ThemeConfig) Theme {
	t := DefaultTheme()
	override := func(dst *lipgloss.Color, src string) {
		if src != "" {
			*dst = lipgloss.Color(src)
		}
	}
	override(&t.Fg, tc.Fg)
	override(&t.Muted, tc.Muted)
	override(&t.Accent, tc.Accent)
	override(&t.Healthy, tc.Healthy)
	override(&t.Warning, tc.Warning)
	override(&t.Critical, tc.Critical)
	return t
}
