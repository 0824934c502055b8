// Package status prints the bracketed progress lines used throughout the
// setup output ("  [ OK ] ...", "  [SKIP] ..."). Tags are colored when the
// writer is a terminal and plain otherwise.
package status

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Tag is the bracketed marker at the start of a status line.
type Tag string

const (
	TagOK   Tag = "[ OK ]"
	TagSkip Tag = "[SKIP]"
	TagMiss Tag = "[MISS]"
	TagWarn Tag = "[WARN]"
	TagFail Tag = "[FAIL]"
	TagInfo Tag = "[INFO]"
)

var tagColors = map[Tag]lipgloss.Color{
	TagOK:   lipgloss.Color("2"),
	TagSkip: lipgloss.Color("8"),
	TagMiss: lipgloss.Color("3"),
	TagWarn: lipgloss.Color("3"),
	TagFail: lipgloss.Color("1"),
	TagInfo: lipgloss.Color("6"),
}

// Printer writes status lines to an io.Writer.
type Printer struct {
	w       io.Writer
	styles  map[Tag]lipgloss.Style
	heading lipgloss.Style
}

// New returns a Printer whose color profile follows w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	styles := make(map[Tag]lipgloss.Style, len(tagColors))
	for tag, color := range tagColors {
		styles[tag] = r.NewStyle().Foreground(color).Bold(true)
	}
	return &Printer{
		w:       w,
		styles:  styles,
		heading: r.NewStyle().Bold(true),
	}
}

// Writer returns the underlying writer for free-form output.
func (p *Printer) Writer() io.Writer { return p.w }

// Heading prints an unindented title line.
func (p *Printer) Heading(format string, args ...interface{}) {
	fmt.Fprintln(p.w, p.heading.Render(fmt.Sprintf(format, args...)))
}

// Line prints one tagged, indented status line.
func (p *Printer) Line(tag Tag, format string, args ...interface{}) {
	fmt.Fprintf(p.w, "  %s %s\n", p.styles[tag].Render(string(tag)), fmt.Sprintf(format, args...))
}

func (p *Printer) OK(format string, args ...interface{})   { p.Line(TagOK, format, args...) }
func (p *Printer) Skip(format string, args ...interface{}) { p.Line(TagSkip, format, args...) }
func (p *Printer) Miss(format string, args ...interface{}) { p.Line(TagMiss, format, args...) }
func (p *Printer) Warn(format string, args ...interface{}) { p.Line(TagWarn, format, args...) }
func (p *Printer) Fail(format string, args ...interface{}) { p.Line(TagFail, format, args...) }
func (p *Printer) Info(format string, args ...interface{}) { p.Line(TagInfo, format, args...) }

// Detail prints an indented continuation line aligned under the message.
func (p *Printer) Detail(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "         %s\n", fmt.Sprintf(format, args...))
}
