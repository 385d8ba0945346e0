package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var (
	boxBorderColor = lipgloss.Color("#273540")

	boxBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(boxBorderColor).
			Padding(1, 2)

	boxHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7f57b4")).
			Bold(true)
)

// boxWidth uses most of the terminal, capped for readable line lengths.
func boxWidth(width int) int {
	if width <= 0 {
		return 0
	}
	w := width * 90 / 100
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func safeBoxWidth(width int) int {
	w := boxWidth(width)
	if width > 0 && w > width {
		return width
	}
	return w
}

// styleWidth is the lipgloss Width for a box whose outer width is the safe
// box width; lipgloss widths include padding but not borders.
func styleWidth(width int) int {
	w := safeBoxWidth(width)
	if w <= 0 {
		return 0
	}
	w -= boxBorder.GetBorderLeftSize() + boxBorder.GetBorderRightSize()
	if w < 1 {
		w = 1
	}
	return w
}

// BoxContentWidth returns the inner content width excluding border and padding.
func BoxContentWidth(width int) int {
	w := safeBoxWidth(width)
	if w <= 0 {
		return 0
	}
	inner := w - boxBorder.GetHorizontalFrameSize()
	if inner < 0 {
		return 0
	}
	return inner
}

// ClampTextWidth truncates a single line to the given visual width.
func ClampTextWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	cleaned := SanitizeOneLine(text)
	if lipgloss.Width(cleaned) <= width {
		return cleaned
	}
	return truncateRunes(cleaned, width)
}

// TitledBox renders content in a rounded box with the title set into the top
// border.
func TitledBox(title, content string, width int) string {
	boxed := boxBorder.Width(styleWidth(width)).Render(content)
	if title == "" {
		return boxed
	}
	lines := strings.Split(boxed, "\n")
	lineWidth := lipgloss.Width(lines[0])
	if lineWidth < 4 {
		return boxed
	}

	border := lipgloss.RoundedBorder()
	middleLen := lineWidth - 2
	titleText := fmt.Sprintf(" [ %s ] ", title)
	if lipgloss.Width(titleText) > middleLen {
		titleText = truncateRunes(titleText, middleLen)
	}
	titleWidth := lipgloss.Width(titleText)
	left := (middleLen - titleWidth) / 2
	right := middleLen - titleWidth - left

	borderStyle := lipgloss.NewStyle().Foreground(boxBorderColor)
	lines[0] = borderStyle.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		boxHeaderStyle.Render(titleText) +
		borderStyle.Render(strings.Repeat(border.Top, right)+border.TopRight)
	return strings.Join(lines, "\n")
}

// Indent prefixes every line of s with spaces.
func Indent(s string, spaces int) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n >= max {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
