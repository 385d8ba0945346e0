package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerTitle = "gerby"

// RenderBanner returns the one-line header: the reader name, the API origin
// and the path being shown.
func RenderBanner(origin, path string, width int) string {
	parts := []string{TitleStyle.Render(bannerTitle)}
	if origin != "" {
		parts = append(parts, MutedStyle.Render(origin))
	}
	if path != "" {
		parts = append(parts, AccentStyle.Render(path))
	}
	line := strings.Join(parts, MutedStyle.Render(" · "))
	if width > 0 && lipgloss.Width(line) < width {
		line = lipgloss.NewStyle().Width(width).Render(line)
	}
	return line
}
