package cli

import (
	"fmt"
	"os"

	"github.com/amterp/lanes/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Adaptive colors that work in both light and dark terminals.
var (
	ColorSuccess = lipgloss.AdaptiveColor{Dark: "#22c55e", Light: "#16a34a"} // green
	ColorError   = lipgloss.AdaptiveColor{Dark: "#ef4444", Light: "#dc2626"} // red
	ColorWarning = lipgloss.AdaptiveColor{Dark: "#f59e0b", Light: "#d97706"} // amber
	ColorMuted   = lipgloss.AdaptiveColor{Dark: "#6b7280", Light: "#9ca3af"} // gray
	ColorAccent  = lipgloss.AdaptiveColor{Dark: "#a78bfa", Light: "#7c3aed"} // purple for IDs
	ColorURL     = lipgloss.AdaptiveColor{Dark: "#38bdf8", Light: "#0284c7"} // cyan for URLs
)

// Lane and priority colors match the web board.
var (
	columnColors = map[model.Column]lipgloss.AdaptiveColor{
		model.ColumnTodo:  {Dark: "#94a3b8", Light: "#475569"},
		model.ColumnDoing: {Dark: "#60a5fa", Light: "#2563eb"},
		model.ColumnDone:  {Dark: "#4ade80", Light: "#16a34a"},
	}
	priorityColors = map[model.Priority]lipgloss.AdaptiveColor{
		model.PriorityLow:    {Dark: "#9ca3af", Light: "#6b7280"},
		model.PriorityMedium: {Dark: "#fbbf24", Light: "#b45309"},
		model.PriorityHigh:   {Dark: "#f87171", Light: "#b91c1c"},
	}
)

// Reusable text styles
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleID      = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleURL     = lipgloss.NewStyle().Foreground(ColorURL)
	StyleBold    = lipgloss.NewStyle().Bold(true)
)

// Icons for status messages
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconInfo    = "→"
	IconDone    = "[x]"
	IconOpen    = "[ ]"
)

// PrintSuccess prints a success message with a green checkmark.
func PrintSuccess(format string, args ...any) {
	icon := StyleSuccess.Render(IconSuccess)
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", icon, msg)
}

// PrintWarning prints a warning message with an amber icon to stderr.
func PrintWarning(format string, args ...any) {
	icon := StyleWarning.Render(IconWarning)
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", icon, msg)
}

// PrintInfo prints an info message with a muted arrow.
func PrintInfo(format string, args ...any) {
	icon := StyleMuted.Render(IconInfo)
	msg := fmt.Sprintf(format, args...)
	fmt.Printf("%s %s\n", icon, msg)
}

// RenderID renders an id in accent color.
func RenderID(id string) string {
	return StyleID.Render(id)
}

// RenderURL renders a URL in the URL color.
func RenderURL(url string) string {
	return StyleURL.Render(url)
}

// RenderMuted renders text in muted color.
func RenderMuted(text string) string {
	return StyleMuted.Render(text)
}

// RenderBold renders text in bold.
func RenderBold(text string) string {
	return StyleBold.Render(text)
}

// RenderColumn renders a lane title in its color.
func RenderColumn(col model.Column) string {
	if c, ok := columnColors[col]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true).Render(col.Title())
	}
	return StyleMuted.Render(string(col))
}

// RenderPriority renders a priority name in its color.
func RenderPriority(p model.Priority) string {
	if c, ok := priorityColors[p]; ok {
		return lipgloss.NewStyle().Foreground(c).Render(string(p))
	}
	return StyleMuted.Render(string(p))
}

// RenderTag renders a tag as a colored label. Falls back to muted if the
// color is empty.
func RenderTag(tag model.Tag) string {
	if tag.Color == "" {
		return StyleMuted.Render("#" + tag.Name)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("#" + tag.Name)
}

// ColorSwatch renders a small color swatch block in the given hex color.
func ColorSwatch(hexColor string) string {
	if hexColor == "" {
		return StyleMuted.Render("██")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor)).Render("██")
}

// TitleBox renders a title in a prominent bordered box.
func TitleBox(title string) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 2).
		Bold(true)
	return style.Render(title)
}

// LabelValue formats a label-value pair with right-aligned label.
func LabelValue(label, value string, labelWidth int) string {
	labelStyle := lipgloss.NewStyle().
		Width(labelWidth).
		Align(lipgloss.Right).
		Foreground(ColorMuted)
	return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), value)
}
