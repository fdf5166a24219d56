// Package console renders user-facing output: status lines, key/value
// blocks, tables and the welcome banner. Diagnostics belong to the logger.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Printer writes styled messages. Errors and warnings go to errOut, the
// rest to out. Colours are dropped when out is not a terminal.
type Printer struct {
	out    io.Writer
	errOut io.Writer

	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	hint    lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	banner  lipgloss.Style
	cell    lipgloss.Style
}

func NewPrinter(out, errOut io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		errOut:  errOut,
		success: r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		err:     r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		hint:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		header:  r.NewStyle().Bold(true).Underline(true),
		label:   r.NewStyle().Bold(true),
		banner: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2),
		cell: r.NewStyle().Padding(0, 1),
	}
}

func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.success.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.warn.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.errOut, p.err.Render("Error: "+fmt.Sprintf(format, args...)))
}

// Hint prints a suggested next command.
func (p *Printer) Hint(format string, args ...any) {
	fmt.Fprintln(p.out, p.hint.Render(fmt.Sprintf(format, args...)))
}

func (p *Printer) Header(title string) {
	fmt.Fprintln(p.out, p.header.Render(title))
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Field prints one "label: value" line.
func (p *Printer) Field(label, value string) {
	fmt.Fprintf(p.out, "%s %s\n", p.label.Render(label+":"), value)
}

// Table prints rows under headers with a normal border.
func (p *Printer) Table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.label.Padding(0, 1)
			}
			return p.cell
		})
	fmt.Fprintln(p.out, t.Render())
}

// Banner greets the user after login.
func (p *Printer) Banner(lines ...string) {
	fmt.Fprintln(p.out, p.banner.Render(strings.Join(lines, "\n")))
}
