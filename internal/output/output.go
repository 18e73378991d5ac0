// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Writer handles CLI output formatting.
type Writer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

// New creates a new Writer with default settings.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// Discard returns a Writer that drops everything.
func Discard() *Writer {
	return NewWithWriters(io.Discard, io.Discard, false)
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// SetColor forces colored output on or off.
func (w *Writer) SetColor(color bool) {
	w.color = color
}

// Stdout returns the destination of regular output.
func (w *Writer) Stdout() io.Writer { return w.out }

// Stderr returns the destination of warnings and errors.
func (w *Writer) Stderr() io.Writer { return w.err }

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Detail prints an indented info line (skipped in quiet mode).
func (w *Writer) Detail(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("   "+format, args...)
}

// Success prints a success message.
func (w *Writer) Success(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("%s", w.render(successStyle, fmt.Sprintf(format, args...)))
}

// Warning prints a warning message.
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Errorln("%s", w.render(warningStyle, "warning: "+fmt.Sprintf(format, args...)))
}

// Failure prints a non-fatal failure line to stderr.
func (w *Writer) Failure(format string, args ...interface{}) {
	w.Errorln("%s", w.render(failureStyle, fmt.Sprintf(format, args...)))
}

// TestStart prints the start of a test executable run.
func (w *Writer) TestStart(name string) {
	if w.quiet {
		return
	}
	w.Println("   Running %s...", name)
}

// TestPassed prints a passed test executable with its detail.
func (w *Writer) TestPassed(name, detail string) {
	if w.quiet {
		return
	}
	mark := w.render(successStyle, "✓")
	if !w.color {
		mark = "+"
	}
	w.Println("   %s %s (%s)", mark, name, detail)
}

// TestFailed prints a failed test executable with its detail.
func (w *Writer) TestFailed(name, detail string) {
	mark := w.render(failureStyle, "✗")
	if !w.color {
		mark = "x"
	}
	w.Println("   %s %s (%s)", mark, name, detail)
}

// Section prints a section header.
func (w *Writer) Section(title string) {
	if w.quiet {
		return
	}
	w.Println("")
	w.Println("%s", w.render(sectionStyle, fmt.Sprintf("=== %s ===", title)))
}

// Table prints a simple table.
func (w *Writer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var headerParts []string
	for i, h := range headers {
		headerParts = append(headerParts, fmt.Sprintf("%-*s", widths[i], h))
	}
	w.Println("%s", strings.Join(headerParts, "  "))

	var sepParts []string
	for _, width := range widths {
		sepParts = append(sepParts, strings.Repeat("-", width))
	}
	w.Println("%s", strings.Join(sepParts, "  "))

	for _, row := range rows {
		var rowParts []string
		for i, cell := range row {
			if i < len(widths) {
				rowParts = append(rowParts, fmt.Sprintf("%-*s", widths[i], cell))
			}
		}
		w.Println("%s", strings.Join(rowParts, "  "))
	}
}

// Action prints an action message (what the CLI is doing).
func (w *Writer) Action(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("%s", w.render(actionStyle, fmt.Sprintf(format, args...)))
}

// ErrorPrefix prints an error message with the tool prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w.Errorln("%s %s", w.render(failureStyle, "ai-test-runner:"), msg)
}

// SummaryHeader prints a summary section header.
func (w *Writer) SummaryHeader(title string) {
	w.Println("")
	w.Println("%s", w.render(headerStyle, fmt.Sprintf("=== %s ===", title)))
	w.Println("")
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	w.Println("  %s %s", w.render(dimStyle, label+":"), value)
}

// SummaryPassed prints a passed/success items summary.
func (w *Writer) SummaryPassed(label, value string) {
	w.Println("  %s %s", w.render(dimStyle, label+":"), w.render(successStyle, value))
}

// SummaryFailed prints a failed items summary.
func (w *Writer) SummaryFailed(label, value string) {
	w.Println("  %s %s", w.render(dimStyle, label+":"), w.render(failureStyle, value))
}

// SummarySectionLabel prints a label for a summary section (e.g. "Failed test executables:").
func (w *Writer) SummarySectionLabel(label string) {
	w.Println("  %s", w.render(dimStyle, label))
}

// FinalSuccess prints a final success message.
func (w *Writer) FinalSuccess(format string, args ...interface{}) {
	w.Println("")
	w.Println("%s", w.render(successStyle, fmt.Sprintf(format, args...)))
}

// FinalFailure prints a final failure message.
func (w *Writer) FinalFailure(format string, args ...interface{}) {
	w.Println("")
	w.Println("%s", w.render(failureStyle, fmt.Sprintf(format, args...)))
}

// Hint prints a hint message for the user.
func (w *Writer) Hint(format string, args ...interface{}) {
	w.Println("%s", w.render(dimStyle, fmt.Sprintf(format, args...)))
}

func (w *Writer) render(style lipgloss.Style, text string) string {
	if !w.color {
		return text
	}
	return style.Render(text)
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	actionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)
