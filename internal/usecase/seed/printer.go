package seed

import (
	"fmt"
	"io"
	"strings"
)

const bannerWidth = 60

// Printer writes human-readable progress for the operator.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Banner prints title between two rules.
func (p *Printer) Banner(title string) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(p.w, "%s\n%s\n%s\n", rule, title, rule)
}

// Section prints a blank line followed by an icon-prefixed heading.
func (p *Printer) Section(icon, format string, args ...any) {
	fmt.Fprintf(p.w, "\n%s %s\n", icon, fmt.Sprintf(format, args...))
}

// OK prints a success line.
func (p *Printer) OK(format string, args ...any) {
	fmt.Fprintf(p.w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.w, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// Fail prints a failure line.
func (p *Printer) Fail(format string, args ...any) {
	fmt.Fprintf(p.w, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Indented prints every line of text prefixed with three spaces.
func (p *Printer) Indented(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(p.w, "   %s\n", line)
	}
}
