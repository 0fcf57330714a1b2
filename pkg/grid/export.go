package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// TotalLabel is the literal written in the first cell of the totals record.
const TotalLabel = "TOTAL"

// Cell is one labelled value of an exported record.
type Cell struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Record is an exported row. Cells follow the exported column order.
type Record []Cell

// MarshalJSON encodes the record as one flat object keyed by label, keeping
// the exported column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(c.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %q: %w", c.Label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value stored under label.
func (r Record) Get(label string) (any, bool) {
	for _, c := range r {
		if c.Label == label {
			return c.Value, true
		}
	}
	return nil, false
}

// Labels returns the cell labels in order.
func (r Record) Labels() []string {
	labels := make([]string, len(r))
	for i, c := range r {
		labels[i] = c.Label
	}
	return labels
}

// Totals is the trailing summary of an export.
type Totals struct {
	// Record holds one cell per exported column: the sum for ShowTotal
	// columns whose values are all numeric, nil otherwise, and TotalLabel in
	// the first cell.
	Record Record `json:"record"`
	// Sums holds every computed sum by label, the first column included.
	Sums map[string]decimal.Decimal `json:"sums"`
}

// Export is a flat, presentation-free projection of table rows.
type Export struct {
	Table   string   `json:"table"`
	IDs     []string `json:"ids"`
	Labels  []string `json:"labels"`
	Records []Record `json:"records"`
	Totals  Totals   `json:"totals"`
}

// Project resolves the visible columns in order and builds one record per row
// from raw column values, followed by a totals record. order defaults to the
// registry order. Rows keep their input order.
func Project[R any](rows []R, reg *Registry[R], visibleIDs []string, order []string) Export {
	order = slices.Clone(order)
	for _, id := range reg.Order() {
		if !slices.Contains(order, id) {
			order = append(order, id)
		}
	}
	cols := make([]Column[R], 0, len(visibleIDs))
	for _, c := range reg.Resolve(order) {
		if slices.Contains(visibleIDs, c.ID) && !slices.ContainsFunc(cols, func(x Column[R]) bool { return x.ID == c.ID }) {
			cols = append(cols, c)
		}
	}

	exp := Export{
		Table:   reg.Table(),
		IDs:     make([]string, len(cols)),
		Labels:  make([]string, len(cols)),
		Records: make([]Record, 0, len(rows)),
	}
	for i, c := range cols {
		exp.IDs[i] = c.ID
		exp.Labels[i] = c.Label
	}

	for _, row := range rows {
		rec := make(Record, len(cols))
		for i, c := range cols {
			rec[i] = Cell{Label: c.Label, Value: c.Value(row)}
		}
		exp.Records = append(exp.Records, rec)
	}

	exp.Totals = totals(cols, exp.Records)
	return exp
}

func totals[R any](cols []Column[R], records []Record) Totals {
	t := Totals{Sums: make(map[string]decimal.Decimal)}
	if len(cols) == 0 {
		t.Record = Record{{Label: "", Value: TotalLabel}}
		return t
	}

	t.Record = make(Record, len(cols))
	for i, c := range cols {
		t.Record[i] = Cell{Label: c.Label}
		if !c.ShowTotal || len(records) == 0 {
			continue
		}
		sum, numeric := decimal.Zero, true
		for _, rec := range records {
			d, ok := AsDecimal(rec[i].Value)
			if !ok {
				numeric = false
				break
			}
			sum = sum.Add(d)
		}
		if numeric {
			t.Sums[c.Label] = sum
			t.Record[i].Value = sum
		}
	}
	t.Record[0].Value = TotalLabel
	return t
}

// Flatten returns the export as a header and value rows, the totals row last.
func (e Export) Flatten() (header []string, rows [][]any) {
	header = slices.Clone(e.Labels)
	rows = make([][]any, 0, len(e.Records)+1)
	for _, rec := range e.Records {
		rows = append(rows, recordValues(rec))
	}
	rows = append(rows, recordValues(e.Totals.Record))
	return header, rows
}

// All returns the row records followed by the totals record.
func (e Export) All() []Record {
	return append(slices.Clone(e.Records), e.Totals.Record)
}

func recordValues(rec Record) []any {
	values := make([]any, len(rec))
	for i, c := range rec {
		values[i] = c.Value
	}
	return values
}
