// Package export writes projected table exports in file formats.
//
// Tabular formats are rendered with go-pretty so that the CLI, the export
// command and the HTTP server produce identical tables. Delimited formats
// (csv, tsv) go through encoding/csv, which quotes per RFC 4180.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// Format is an export file format.
type Format string

// Export formats.
const (
	FormatCSV      Format = "csv"
	FormatTSV      Format = "tsv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
)

// Formats lists the accepted formats.
var Formats = []Format{FormatCSV, FormatTSV, FormatMarkdown, FormatHTML, FormatJSON, FormatText}

// ParseFormat parses a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatTSV, FormatMarkdown, FormatHTML, FormatJSON, FormatText:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (want one of %v)", s, Formats)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain; charset=utf-8"
}

// Extension returns the file extension of the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	}
	return string(f)
}

// Write renders exp in format f. cols supplies column alignment and may be nil.
func Write(w io.Writer, exp grid.Export, f Format, cols []grid.Info) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(exp.All())
	case FormatCSV, FormatTSV:
		rows := make([][]string, 0, len(exp.Records)+1)
		for _, rec := range exp.All() {
			rows = append(rows, Texts(rec))
		}
		return WriteDelimited(w, f, exp.Labels, rows)
	}

	t := NewTable(exp.Labels, aligns(exp, cols))
	for _, rec := range exp.Records {
		t.AppendRow(row(rec))
	}
	t.AppendFooter(row(exp.Totals.Record))

	out, err := Render(t, f)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}

// NewTable creates a go-pretty table with a header row and per-column
// alignment. aligns may be shorter than header.
func NewTable(header []string, aligns []grid.Align) table.Writer {
	t := table.NewWriter()
	hdr := make(table.Row, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	t.AppendHeader(hdr)

	configs := make([]table.ColumnConfig, 0, len(aligns))
	for i, a := range aligns {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       textAlign(a),
			AlignFooter: textAlign(a),
		})
	}
	t.SetColumnConfigs(configs)
	return t
}

// Render renders t in format f. JSON and the delimited formats are not
// table renderings.
func Render(t table.Writer, f Format) (string, error) {
	switch f {
	case FormatMarkdown:
		return t.RenderMarkdown(), nil
	case FormatHTML:
		return t.RenderHTML(), nil
	case FormatText:
		style := table.StyleLight
		style.Format.Header = text.FormatDefault
		style.Format.Footer = text.FormatDefault
		t.SetStyle(style)
		return t.Render(), nil
	}
	return "", fmt.Errorf("format %s is not a table rendering", f)
}

// WriteDelimited writes a header and rows as csv, or tsv when f is
// FormatTSV.
func WriteDelimited(w io.Writer, f Format, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	switch f {
	case FormatCSV:
	case FormatTSV:
		cw.Comma = '\t'
	default:
		return fmt.Errorf("format %s is not delimited", f)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", f, err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", f, err)
	}
	return nil
}

// Texts formats every value of rec. Missing values become empty strings.
func Texts(rec grid.Record) []string {
	out := make([]string, len(rec))
	for i, c := range rec {
		out[i] = Text(c.Value)
	}
	return out
}

// Text formats an exported value. Unlike grid.FormatValue it leaves missing
// values empty, so totals rows stay readable.
func Text(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if grid.IsUnset(v) {
		return ""
	}
	return grid.FormatValue(v)
}

func row(rec grid.Record) table.Row {
	r := make(table.Row, len(rec))
	for i, s := range Texts(rec) {
		r[i] = s
	}
	return r
}

func aligns(exp grid.Export, cols []grid.Info) []grid.Align {
	if len(cols) == 0 {
		return nil
	}
	byID := make(map[string]grid.Align, len(cols))
	for _, c := range cols {
		byID[c.ID] = c.Align
	}
	out := make([]grid.Align, len(exp.IDs))
	for i, id := range exp.IDs {
		out[i] = byID[id]
	}
	return out
}

func textAlign(a grid.Align) text.Align {
	switch a {
	case grid.AlignRight:
		return text.AlignRight
	case grid.AlignCenter:
		return text.AlignCenter
	}
	return text.AlignLeft
}
