package flatten

import (
	"fmt"
	"strings"
)

// Kind discriminates the contents of a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindScalar
	KindList
	KindBool
)

// Value is one cell of the flattened table. The zero Value is absent, so
// a freshly allocated []Value is already padded.
type Value struct {
	Kind Kind
	Str  string
	List []string
	Bool bool
}

func Absent() Value { return Value{} }
func Scalar(s string) Value { return Value{Kind: KindScalar, Str: s} }
func List(items []string) Value { return Value{Kind: KindList, List: items} }
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// FromField converts a raw export cell: nil becomes absent.
func FromField(f *string) Value {
	if f == nil {
		return Absent()
	}
	return Scalar(*f)
}

func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// Render returns the cell text and whether the cell is present. Lists are
// joined with sep, the delimiter they were split on.
func (v Value) Render(sep string) (string, bool) {
	switch v.Kind {
	case KindScalar:
		return v.Str, true
	case KindList:
		return strings.Join(v.List, sep), true
	case KindBool:
		if v.Bool {
			return "True", true
		}
		return "False", true
	}
	return "", false
}

// ColumnType is the storage type of a column in typed sinks (Parquet,
// Postgres). Text columns are nullable; bool columns never are.
type ColumnType uint8

const (
	TextColumn ColumnType = iota
	BoolColumn
)

// Column is one named, row-aligned column of the final table.
type Column struct {
	Name    string
	Type    ColumnType
	ListSep string // delimiter used to render list cells
	Values  []Value
}

func newTextColumn(name string, rows int) Column {
	return Column{Name: name, Type: TextColumn, Values: make([]Value, rows)}
}

// Text returns the rendered text of row i and whether it is present.
func (c *Column) Text(i int) (string, bool) {
	return c.Values[i].Render(c.ListSep)
}

// Table is the wide output: ordered columns sharing one row-index space.
type Table struct {
	rows  int
	cols  []Column
	index map[string]int
}

// NewTable returns an empty table that accepts columns of exactly rows
// entries.
func NewTable(rows int) *Table {
	return &Table{rows: rows, index: make(map[string]int)}
}

// Append adds a column group. Every column must have exactly Rows()
// entries and a name not already in the table; otherwise nothing from
// the group is added.
func (t *Table) Append(group string, cols ...Column) error {
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if len(c.Values) != t.rows {
			return fmt.Errorf("%s: column %q has %d rows, want %d: %w",
				group, c.Name, len(c.Values), t.rows, ErrMisaligned)
		}
		if _, ok := t.index[c.Name]; ok {
			return fmt.Errorf("%s: column %q: %w", group, c.Name, ErrDuplicateColumn)
		}
		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("%s: column %q: %w", group, c.Name, ErrDuplicateColumn)
		}
		seen[c.Name] = struct{}{}
	}
	for _, c := range cols {
		t.index[c.Name] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return nil
}

// NormalizeNulls replaces every cell whose rendered text equals marker
// with absent, and returns how many cells were replaced.
func (t *Table) NormalizeNulls(marker string) int {
	var n int
	for j := range t.cols {
		c := &t.cols[j]
		if c.Type == BoolColumn {
			continue
		}
		for i := range c.Values {
			if s, ok := c.Text(i); ok && s == marker {
				c.Values[i] = Absent()
				n++
			}
		}
	}
	return n
}

func (t *Table) Rows() int { return t.rows }
func (t *Table) NumColumns() int { return len(t.cols) }

// Columns returns the columns in output order. The slice is shared.
func (t *Table) Columns() []Column { return t.cols }

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	j, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.cols[j], true
}

// Names returns the column names in output order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for j := range t.cols {
		names[j] = t.cols[j].Name
	}
	return names
}
