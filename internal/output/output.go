// Package output renders styled terminal messages for the featgen CLI.
//
// Styling is done with lipgloss; when the writer is not a terminal lipgloss
// drops the color codes, so captured output stays plain text.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type Printer struct {
	out io.Writer
	err io.Writer
}

// New returns a Printer writing regular messages to out and errors to errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, err: errOut}
}

// Default writes to stdout and stderr.
func Default() *Printer {
	return New(os.Stdout, os.Stderr)
}

func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, successStyle.Render("✨ "+msg))
}

func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.err, errorStyle.Render("❌ Error: "+msg))
}

func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.out, infoStyle.Render(msg))
}

// Step prints an indented, dimmed line.
func (p *Printer) Step(msg string) {
	fmt.Fprintln(p.out, stepStyle.Render("  "+msg))
}

// Created reports a single written file.
func (p *Printer) Created(path string) {
	fmt.Fprintln(p.out, "✅ Created: "+path)
}

func (p *Printer) Planned(path string, size int) {
	fmt.Fprintln(p.out, stepStyle.Render(fmt.Sprintf("• Would create: %s (%d bytes)", path, size)))
}
