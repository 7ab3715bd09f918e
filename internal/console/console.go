// Package console prints the human-readable output of the commands.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// Width is the rule width of banners and summary blocks
const Width = 70

// Printer writes styled lines
type Printer struct {
	w     io.Writer
	width int
}

// New creates a Printer on w
func New(w io.Writer) *Printer {
	return &Printer{w: w, width: Width}
}

// WithWidth returns a copy using a different rule width
func (p *Printer) WithWidth(width int) *Printer {
	return &Printer{w: p.w, width: width}
}

// Writer exposes the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Rule prints a full-width separator
func (p *Printer) Rule() {
	fmt.Fprintln(p.w, strings.Repeat("=", p.width))
}

// Banner prints a title between two rules
func (p *Printer) Banner(title string) {
	fmt.Fprintln(p.w)
	p.Rule()
	fmt.Fprintln(p.w, titleStyle.Render(title))
	p.Rule()
}

// Section prints a bold heading line
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.w, titleStyle.Render(title))
}

// Line prints an unstyled line
func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Blank prints an empty line
func (p *Printer) Blank() {
	fmt.Fprintln(p.w)
}

// Success prints a green line
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Warn prints a yellow line
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, warnStyle.Render(fmt.Sprintf(format, args...)))
}

// Fail prints a red line
func (p *Printer) Fail(format string, args ...any) {
	fmt.Fprintln(p.w, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Info prints a cyan line
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.w, infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Muted prints a faint line
func (p *Printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Bullets prints items as an indented list
func (p *Printer) Bullets(indent string, items []string) {
	for _, item := range items {
		fmt.Fprintf(p.w, "%s• %s\n", indent, item)
	}
}
