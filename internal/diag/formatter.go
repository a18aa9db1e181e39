package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	locStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	gutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	caretStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Formatter renders diagnostics with a source excerpt and caret underline.
type Formatter struct {
	out         io.Writer
	noColor     bool
	sourceCache map[string]string
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithOutput redirects formatted diagnostics to w instead of stderr.
func WithOutput(w io.Writer) FormatterOption {
	return func(f *Formatter) { f.out = w }
}

// WithNoColor disables ANSI styling.
func WithNoColor() FormatterOption {
	return func(f *Formatter) { f.noColor = true }
}

// NewFormatter creates a diagnostic formatter.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		out:         os.Stderr,
		sourceCache: make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AddSource registers source text for a filename so excerpts can be printed
// without touching the filesystem. Useful for stdin and tests.
func (f *Formatter) AddSource(filename, src string) {
	f.sourceCache[filename] = src
}

func (f *Formatter) loadSource(filename string) (string, bool) {
	if filename == "" {
		return "", false
	}
	if src, ok := f.sourceCache[filename]; ok {
		return src, true
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", false
	}
	src := string(data)
	f.sourceCache[filename] = src
	return src, true
}

func (f *Formatter) style(s lipgloss.Style, text string) string {
	if f.noColor {
		return text
	}
	return s.Render(text)
}

// Format renders one diagnostic: a severity header, the source location, and
// when the source is available a one-line excerpt with a caret underline.
func (f *Formatter) Format(d Diagnostic) {
	f.printHeader(d)

	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  %s %s\n", f.style(gutterStyle, "-->"), f.style(locStyle, d.Span.String()))
		f.printExcerpt(d.Span)
	}

	if d.Suggestion != "" {
		fmt.Fprintf(f.out, "  %s %s\n", f.style(noteStyle, "help:"), d.Suggestion)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  %s %s\n", f.style(noteStyle, "note:"), note)
	}
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	style := errorStyle
	switch d.Severity {
	case SeverityWarning:
		style = warningStyle
	case SeverityNote:
		style = noteStyle
	}

	label := severity
	if d.Code != "" {
		label = fmt.Sprintf("%s[%s]", severity, d.Code)
	}
	fmt.Fprintf(f.out, "%s: %s\n", f.style(style, label), d.Message)
}

func (f *Formatter) printExcerpt(span Span) {
	src, ok := f.loadSource(span.Filename)
	if !ok {
		return
	}

	lines := strings.Split(src, "\n")
	if span.Line < 1 || span.Line > len(lines) {
		return
	}
	line := lines[span.Line-1]

	gutterWidth := len(fmt.Sprintf("%d", span.Line))
	pad := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(f.out, "  %s\n", f.style(gutterStyle, pad+" |"))
	fmt.Fprintf(f.out, "  %s %s\n", f.style(gutterStyle, fmt.Sprintf("%d |", span.Line)), line)

	width := span.End - span.Start
	if width < 1 {
		width = 1
	}
	if span.Column-1+width > len([]rune(line)) {
		width = len([]rune(line)) - (span.Column - 1)
		if width < 1 {
			width = 1
		}
	}
	caret := strings.Repeat(" ", span.Column-1) + strings.Repeat("^", width)
	fmt.Fprintf(f.out, "  %s %s\n", f.style(gutterStyle, pad+" |"), f.style(caretStyle, caret))
}
