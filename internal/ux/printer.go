package ux

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Status messages. The wording is part of the CLI contract.
const (
	MsgNoTasks            = "📌 No tasks found."
	MsgInvalidPosition    = "⚠️ Invalid task number."
	MsgInvalidTitle       = "⚠️ Title must be valid UTF-8 text."
	MsgAddUsage           = "⚠️ Please provide --title and --priority!"
	MsgCompleteUsage      = "⚠️ Please provide --task to mark as complete."
	MsgDeleteUsage        = "⚠️ Please provide --task to delete."
	msgAddedFormat        = "✅ Task '%s' added successfully!"
	msgCompletedFormat    = "✔️ Task %d marked as completed!"
	msgDeletedFormat      = "🗑 Task '%s' deleted!"
	msgInvalidPriorityFmt = "⚠️ Invalid priority %q: must be low, medium, or high."
	msgListLineFormat     = "%d. %s [Priority: %s] - %s"
)

// Styles contains lipgloss styles for console output
type Styles struct {
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Priority map[string]lipgloss.Style
}

// DefaultStyles returns the colored styles bound to renderer r
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Success: r.NewStyle().
			Foreground(lipgloss.Color("46")), // Green
		Warning: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226")), // Yellow
		Info: r.NewStyle().
			Foreground(lipgloss.Color("86")), // Cyan
		Error: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		Muted: r.NewStyle().
			Foreground(lipgloss.Color("241")), // Gray
		Priority: map[string]lipgloss.Style{
			"high":   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			"medium": r.NewStyle().Foreground(lipgloss.Color("214")),
			"low":    r.NewStyle().Foreground(lipgloss.Color("241")),
		},
	}
}

// PlainStyles returns styles that leave text untouched
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Success:  plain,
		Warning:  plain,
		Info:     plain,
		Error:    plain,
		Muted:    plain,
		Priority: map[string]lipgloss.Style{},
	}
}

// Printer writes status messages and task listings.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a Printer writing to w. With colors disabled, or when w
// is not a color-capable terminal, output is plain text.
func NewPrinter(w io.Writer, colors bool) *Printer {
	styles := PlainStyles()
	if colors {
		styles = DefaultStyles(lipgloss.NewRenderer(w))
	}
	return &Printer{w: w, styles: styles}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Added reports a newly added task.
func (p *Printer) Added(title string) {
	p.line(p.styles.Success, fmt.Sprintf(msgAddedFormat, title))
}

// Completed reports a completed task by position.
func (p *Printer) Completed(position int) {
	p.line(p.styles.Success, fmt.Sprintf(msgCompletedFormat, position))
}

// Deleted reports a removed task.
func (p *Printer) Deleted(title string) {
	p.line(p.styles.Success, fmt.Sprintf(msgDeletedFormat, title))
}

// NoTasks reports an empty store.
func (p *Printer) NoTasks() {
	p.line(p.styles.Info, MsgNoTasks)
}

// TaskLine writes one listing row.
func (p *Printer) TaskLine(position int, title, priority, marker string) {
	pri := priority
	if style, ok := p.styles.Priority[priority]; ok {
		pri = style.Render(priority)
	}
	_, _ = fmt.Fprintf(p.w, msgListLineFormat+"\n", position, title, pri, marker)
}

// Warn writes a warning line such as a usage or invalid position message.
func (p *Printer) Warn(msg string) {
	p.line(p.styles.Warning, msg)
}

// InvalidPriority warns about a --priority value outside the enum.
func (p *Printer) InvalidPriority(value string) {
	p.Warn(fmt.Sprintf(msgInvalidPriorityFmt, value))
}

// Fatal writes an unrecoverable error. Only the prefix is styled so
// multi-line messages keep their layout.
func (p *Printer) Fatal(err error) {
	_, _ = fmt.Fprintf(p.w, "%s %v\n", p.styles.Error.Render("Error:"), err)
}

func (p *Printer) line(style lipgloss.Style, msg string) {
	_, _ = fmt.Fprintln(p.w, style.Render(msg))
}
