package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wfgate/gh-wfgate/pkg/styles"
)

// TreeNode is one node of a renderable tree.
type TreeNode struct {
	Value    string
	Children []TreeNode
}

// RenderTree renders a tree with box-drawing connectors.
func RenderTree(node TreeNode) string {
	var b strings.Builder
	b.WriteString(node.Value)
	b.WriteString("\n")
	renderTreeChildren(node.Children, "", &b)
	return b.String()
}

func renderTreeChildren(children []TreeNode, prefix string, b *strings.Builder) {
	for i, child := range children {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		b.WriteString(prefix + connector + child.Value + "\n")
		renderTreeChildren(child.Children, childPrefix, b)
	}
}

// RenderTitleBox renders a centered title inside a rounded box and returns
// the individual lines. The box grows beyond width when the title needs it.
func RenderTitleBox(title string, width int) []string {
	inner := width - 2
	if min := lipgloss.Width(title) + 2; inner < min {
		inner = min
	}

	leftPad := (inner - lipgloss.Width(title)) / 2
	rightPad := inner - lipgloss.Width(title) - leftPad

	return []string{
		"╭" + strings.Repeat("─", inner) + "╮",
		"│" + strings.Repeat(" ", leftPad) + title + strings.Repeat(" ", rightPad) + "│",
		"╰" + strings.Repeat("─", inner) + "╯",
	}
}

// LayoutTitleBox renders a centered title inside a rounded box as a single
// string, for composition with LayoutJoinVertical.
func LayoutTitleBox(title string, width int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ColorInfo).
		Align(lipgloss.Center).
		Width(width - 2)
	return style.Render(title)
}

// LayoutInfoSection renders a labeled value line.
func LayoutInfoSection(label, value string) string {
	return render(styles.Bold, label+":") + " " + value
}

// LayoutEmphasisBox renders content inside a rounded box with a colored
// border.
func LayoutEmphasisBox(content string, color lipgloss.AdaptiveColor) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
	return style.Render(content)
}

// LayoutJoinVertical joins rendered sections top to bottom.
func LayoutJoinVertical(sections ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderInfoSection indents content lines for display under a heading and
// returns the individual lines.
func RenderInfoSection(content string) []string {
	lines := strings.Split(content, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = "  " + line
	}
	return out
}
