package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Rounded border pieces.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// Panel is a bordered box with a label embedded in the top border and an
// optional label in the bottom border:
//
//	╭─ Catalog ─────────╮
//	│ ...               │
//	╰──────── 1-4 of 42 ╯
type Panel struct {
	Title   string
	Footer  string
	Width   int
	Height  int
	Focused bool
}

// Render draws content inside the panel. Content is clipped to fit.
func (p Panel) Render(content string) string {
	borderColor := lipgloss.TerminalColor(BorderDefaultColor)
	if p.Focused {
		borderColor = BorderHighlightFocusColor
	}
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	labelStyle := lipgloss.NewStyle().Foreground(OverlayTitleColor)

	innerWidth := max(p.Width-2, 1)
	contentHeight := max(p.Height-2, 1)

	constrained := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Height(contentHeight).MaxHeight(contentHeight).Render(content)
	lines := strings.Split(constrained, "\n")

	var b strings.Builder
	b.WriteString(labeledBorder(p.Title, innerWidth, borderTopLeft, borderTopRight, false, borderStyle, labelStyle))
	for i := range contentHeight {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if w := ansi.StringWidth(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString("\n")
		b.WriteString(borderStyle.Render(borderVertical) + line + borderStyle.Render(borderVertical))
	}
	b.WriteString("\n")
	b.WriteString(labeledBorder(p.Footer, innerWidth, borderBottomLeft, borderBottomRight, true, borderStyle, labelStyle))
	return b.String()
}

// labeledBorder builds a horizontal border with label embedded. Titles sit
// on the left, footers on the right. Labels that do not fit are truncated
// with an ellipsis, and dropped entirely when even that does not fit.
func labeledBorder(label string, innerWidth int, left, right string, alignRight bool, borderStyle, labelStyle lipgloss.Style) string {
	// "─ " + label + " ─" needs four cells around the label.
	available := innerWidth - 4
	if label == "" || available < 1 {
		return borderStyle.Render(left + strings.Repeat(borderHorizontal, innerWidth) + right)
	}

	label = ansi.Truncate(label, available, "...")
	fill := strings.Repeat(borderHorizontal, max(innerWidth-3-ansi.StringWidth(label), 0))

	if alignRight {
		return borderStyle.Render(left+fill+" ") +
			labelStyle.Render(label) +
			borderStyle.Render(" "+borderHorizontal+right)
	}
	return borderStyle.Render(left+borderHorizontal+" ") +
		labelStyle.Render(label) +
		borderStyle.Render(" "+fill+right)
}
