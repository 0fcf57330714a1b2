// Package output renders command results for terminals, markdown consumers
// and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/fleetgrid/internal/export"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Mode selects how command output is rendered.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeCSV      Mode = "csv"
	ModeHTML     Mode = "html"
)

// Renderer writes command output in the configured mode.
type Renderer struct {
	out     io.Writer
	errOut  io.Writer
	mode    Mode
	isTTY   bool
	printer *message.Printer
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:     out,
		errOut:  errOut,
		mode:    mode,
		isTTY:   isTTY,
		printer: message.NewPrinter(language.English),
	}
}

// EffectiveMode resolves auto: text on a terminal, markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the diagnostics writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

func (r *Renderer) colored() bool {
	return r.isTTY && r.EffectiveMode() == ModeText
}

// Println writes a line to standard output.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to standard output.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section title.
func (r *Renderer) Header(title string) {
	switch r.EffectiveMode() {
	case ModeMarkdown:
		r.Printf("## %s\n\n", title)
	case ModeText:
		if r.colored() {
			title = text.Colors{text.Bold, text.FgCyan}.Sprint(title)
		}
		r.Println(title)
	}
}

// Success writes a confirmation line to the diagnostics writer.
func (r *Renderer) Success(msg string) {
	if r.colored() {
		msg = text.FgGreen.Sprint(msg)
	}
	_, _ = fmt.Fprintln(r.errOut, msg)
}

// Warning writes a warning line to the diagnostics writer.
func (r *Renderer) Warning(msg string) {
	if r.colored() {
		msg = text.FgYellow.Sprint("Warning: " + msg)
	} else {
		msg = "Warning: " + msg
	}
	_, _ = fmt.Fprintln(r.errOut, msg)
}

// Muted dims s on a terminal.
func (r *Renderer) Muted(s string) string {
	if r.colored() {
		return text.Faint.Sprint(s)
	}
	return s
}

// Number groups the digits of n for display, e.g. 12,345.
func (r *Renderer) Number(n int) string {
	return r.printer.Sprintf("%d", n)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes a table of display cells. footer may be nil. JSON mode is
// not handled here; callers encode their own models.
func (r *Renderer) Table(headers []grid.Header, rows [][]string, footer []string) error {
	labels := make([]string, len(headers))
	aligns := make([]grid.Align, len(headers))
	for i, h := range headers {
		labels[i] = h.Label
		aligns[i] = h.Align
	}
	if r.EffectiveMode() == ModeCSV {
		all := rows
		if footer != nil {
			all = append(rows[:len(rows):len(rows)], footer)
		}
		return export.WriteDelimited(r.out, export.FormatCSV, labels, all)
	}

	t := export.NewTable(labels, aligns)
	for _, cells := range rows {
		t.AppendRow(toRow(cells))
	}
	if footer != nil {
		t.AppendFooter(toRow(footer))
	}

	var (
		out string
		err error
	)
	switch mode := r.EffectiveMode(); mode {
	case ModeText:
		if r.colored() {
			style := table.StyleRounded
			style.Format.Header = text.FormatDefault
			style.Format.Footer = text.FormatDefault
			style.Color.Header = text.Colors{text.Bold}
			t.SetStyle(style)
			out = t.Render()
		} else {
			out, err = export.Render(t, export.FormatText)
		}
	case ModeMarkdown:
		out, err = export.Render(t, export.FormatMarkdown)
	case ModeHTML:
		out, err = export.Render(t, export.FormatHTML)
	default:
		return fmt.Errorf("output mode %s cannot render a table", mode)
	}
	if err != nil {
		return err
	}
	r.Println(out)
	return nil
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
