package tables

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/leapstack-labs/fleetgrid/internal/export"
	"github.com/leapstack-labs/fleetgrid/internal/fleet"
	"github.com/leapstack-labs/fleetgrid/pkg/grid"
)

// datastarScript is the client bundle matching datastar-go v1.
const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// tableViewID is the element id patched by SSE updates.
const tableViewID = "table-view"

var pages = template.Must(template.New("layout").Parse(`{{define "layout"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - fleetgrid</title>
<link rel="stylesheet" href="/static/app.css">
<script type="module" src="` + datastarScript + `"></script>
</head>
<body{{if .Updates}} data-init="@get('{{.Updates}}')"{{end}}>
<nav>{{range .Tables}}<a href="/tables/{{.ID}}"{{if eq .ID $.Current}} aria-current="page"{{end}}>{{.Title}}</a> {{end}}</nav>
<main>
<h1>{{.Title}}</h1>
{{if .Fragment}}{{.Fragment}}{{else}}<ul>{{range .Tables}}<li><a href="/tables/{{.ID}}">{{.Title}}</a></li>{{end}}</ul>{{end}}
</main>
</body>
</html>
{{end}}

{{define "fragment"}}<div id="` + tableViewID + `" data-table="{{.Page.Table}}">
{{.Table}}
<p class="summary">{{.Summary}}</p>
</div>{{end}}`))

type layoutData struct {
	Title    string
	Current  string
	Updates  string
	Tables   []TableInfo
	Fragment template.HTML
}

type fragmentData struct {
	Page    fleet.Page
	Table   template.HTML
	Summary string
}

// renderFragment renders the patchable table element of a loaded page.
func renderFragment(page fleet.Page) (string, error) {
	aligns := make([]grid.Align, len(page.Headers))
	labels := make([]string, len(page.Headers))
	for i, h := range page.Headers {
		labels[i] = h.Label
		aligns[i] = h.Align
	}
	t := export.NewTable(labels, aligns)
	for _, r := range page.Rows {
		t.AppendRow(toRow(r.Cells))
	}
	// go-pretty escapes cell text in HTML mode.
	html, err := export.Render(t, export.FormatHTML)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = pages.ExecuteTemplate(&buf, "fragment", fragmentData{
		Page:    page,
		Table:   template.HTML(html), //nolint:gosec // rendered and escaped by go-pretty
		Summary: pageSummary(page),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render table %s: %w", page.Table, err)
	}
	return buf.String(), nil
}

func renderLayout(w io.Writer, data layoutData) error {
	return pages.ExecuteTemplate(w, "layout", data)
}

func pageSummary(p fleet.Page) string {
	if p.Total == 0 {
		return "No rows match the filters."
	}
	start := p.Page*p.RowsPerPage + 1
	end := start + len(p.Rows) - 1
	if p.RowsPerPage <= 0 {
		start, end = 1, len(p.Rows)
	}
	s := fmt.Sprintf("Page %d of %d, rows %d-%d of %d", p.Page+1, p.PageCount(), start, end, p.Total)
	if p.Selected > 0 {
		s += fmt.Sprintf(", %d selected", p.Selected)
	}
	return s
}

func toRow(cells []string) []any {
	row := make([]any, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
