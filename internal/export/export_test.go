package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/fleetgrid/pkg/grid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type charge struct {
	ID     string
	Vendor string
	Amount decimal.Decimal
	Date   time.Time
}

func sampleExport(t *testing.T) (grid.Export, []grid.Info) {
	t.Helper()
	reg, err := grid.NewRegistry("charges",
		grid.Column[charge]{ID: "vendor", Label: "Vendor", DefaultVisible: true, Type: grid.TypeString,
			Value: func(c charge) any { return c.Vendor }},
		grid.Column[charge]{ID: "date", Label: "Date", DefaultVisible: true, Type: grid.TypeDate,
			Value: func(c charge) any { return c.Date }},
		grid.Column[charge]{ID: "amount", Label: "Amount", DefaultVisible: true, Type: grid.TypeNumber,
			Align: grid.AlignRight, ShowTotal: true, Value: func(c charge) any { return c.Amount }},
	)
	require.NoError(t, err)

	rows := []charge{
		{ID: "c1", Vendor: "Shell, Ltd", Amount: decimal.RequireFromString("120.50"), Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c2", Vendor: "Tyre Co", Amount: decimal.RequireFromString("79.50"), Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	return grid.Project(rows, reg, []string{"vendor", "date", "amount"}, nil), reg.Infos()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"TSV", FormatTSV, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"json", FormatJSON, false},
		{"", FormatCSV, false},
		{"xlsx", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown export format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_Formats(t *testing.T) {
	exp, cols := sampleExport(t)

	tests := []struct {
		format   Format
		contains []string
	}{
		{FormatCSV, []string{"Vendor,Date,Amount", `"Shell, Ltd",2024-03-01,120.50`, "TOTAL,,200.00"}},
		{FormatTSV, []string{"Vendor\tDate\tAmount", "Shell, Ltd\t2024-03-01\t120.50", "TOTAL\t\t200.00"}},
		{FormatMarkdown, []string{"| Vendor | Date | Amount |", "Tyre Co", "200.00"}},
		{FormatHTML, []string{"<table", "Vendor</th>", "200.00", "</table>"}},
		{FormatText, []string{"Vendor", "Shell, Ltd", "TOTAL", "200.00"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, exp, tt.format, cols))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestWrite_JSON(t *testing.T) {
	exp, _ := sampleExport(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exp, FormatJSON, nil))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3, "two records and totals")
	assert.Equal(t, map[string]any{"Vendor": "Shell, Ltd", "Date": "2024-03-01T00:00:00Z", "Amount": "120.5"}, got[0])
	assert.Equal(t, map[string]any{"Vendor": "TOTAL", "Date": nil, "Amount": "200"}, got[2])

	// Keys keep the column order.
	assert.Less(t, strings.Index(buf.String(), `"Vendor"`), strings.Index(buf.String(), `"Amount"`))
}

func TestWrite_DelimitedQuoting(t *testing.T) {
	exp, _ := sampleExport(t)
	exp.Records[1][0].Value = `Say "hi"`

	tests := []struct {
		format Format
		want   string
	}{
		{FormatCSV, "Vendor,Date,Amount\n" +
			"\"Shell, Ltd\",2024-03-01,120.50\n" +
			"\"Say \"\"hi\"\"\",2024-03-02,79.50\n" +
			"TOTAL,,200.00\n"},
		{FormatTSV, "Vendor\tDate\tAmount\n" +
			"Shell, Ltd\t2024-03-01\t120.50\n" +
			"\"Say \"\"hi\"\"\"\t2024-03-02\t79.50\n" +
			"TOTAL\t\t200.00\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, exp, tt.format, nil))
			assert.Equal(t, tt.want, buf.String())
			assert.NotContains(t, buf.String(), `\,`)
		})
	}
}

func TestWriteDelimited_RejectsTableFormats(t *testing.T) {
	var buf bytes.Buffer
	require.Error(t, WriteDelimited(&buf, FormatMarkdown, []string{"A"}, nil))
	assert.Empty(t, buf.String())
}

func TestWrite_RowOrderFollowsExport(t *testing.T) {
	exp, _ := sampleExport(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exp, FormatTSV, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4, "header, two rows and totals")
	assert.True(t, strings.HasPrefix(lines[1], "Shell, Ltd"))
	assert.True(t, strings.HasPrefix(lines[3], "TOTAL"))
}

func TestRender_RejectsNonTableFormats(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatCSV, FormatTSV} {
		_, err := Render(NewTable([]string{"A"}, nil), f)
		require.Error(t, err, f)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "x", "x"},
		{"empty string", "", ""},
		{"decimal", decimal.RequireFromString("3.5"), "3.50"},
		{"zero time", time.Time{}, ""},
		{"int", 4, "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestFormat_ContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, "md", FormatMarkdown.Extension())
	assert.Equal(t, "csv", FormatCSV.Extension())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
	assert.Contains(t, FormatHTML.ContentType(), "text/html")
}
