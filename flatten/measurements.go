package flatten

import (
	"fmt"
	"strings"
)

// MeasurementAccumulator builds one column per measurement name from
// records whose measurement sets differ and are only known as they are
// read. After every record, every column has exactly one entry per record
// seen so far.
type MeasurementAccumulator struct {
	names   []string // discovery order
	columns map[string][]Value
	rows    int
}

func NewMeasurementAccumulator() *MeasurementAccumulator {
	return &MeasurementAccumulator{columns: make(map[string][]Value)}
}

type measurement struct {
	name   string
	values []string
}

func parseMeasurements(text *string) ([]measurement, error) {
	var out []measurement
	seen := make(map[string]struct{})
	if text != nil && *text == NullMarker {
		return nil, nil
	}
	for _, entry := range Split(text, FieldSep) {
		if entry == "" || entry == NullMarker {
			continue
		}
		fields := strings.Split(entry, AttrSep)
		name := fields[0]
		if name == "" {
			return nil, fmt.Errorf("%w: measurement %q has no name", ErrMalformedField, entry)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: measurement %q reported twice", ErrMalformedField, name)
		}
		seen[name] = struct{}{}
		out = append(out, measurement{name: name, values: fields[1:]})
	}
	return out, nil
}

// Add appends the next record's measurements. A new name is back-filled
// with one absent entry per earlier record before its value is appended;
// names the record does not mention are padded afterwards. The
// accumulator is unchanged if text is malformed.
func (a *MeasurementAccumulator) Add(text *string) error {
	ms, err := parseMeasurements(text)
	if err != nil {
		return err
	}
	for _, m := range ms {
		col, ok := a.columns[m.name]
		if !ok {
			col = make([]Value, a.rows, a.rows+1)
			a.names = append(a.names, m.name)
		}
		a.columns[m.name] = append(col, List(m.values))
	}
	a.rows++
	a.Pad()
	return nil
}

// Pad brings every known column up to Rows() entries with absent values.
func (a *MeasurementAccumulator) Pad() {
	for _, name := range a.names {
		for len(a.columns[name]) < a.rows {
			a.columns[name] = append(a.columns[name], Absent())
		}
	}
}

// Rows returns the number of records added.
func (a *MeasurementAccumulator) Rows() int { return a.rows }

// Names returns the measurement names in discovery order.
func (a *MeasurementAccumulator) Names() []string { return a.names }

// Values returns the accumulated entries for name.
func (a *MeasurementAccumulator) Values(name string) ([]Value, bool) {
	v, ok := a.columns[name]
	return v, ok
}

// Columns returns one column per measurement, in discovery order. Value
// tuples render joined with AttrSep.
func (a *MeasurementAccumulator) Columns() []Column {
	cols := make([]Column, len(a.names))
	for j, name := range a.names {
		cols[j] = Column{Name: name, Type: TextColumn, ListSep: AttrSep, Values: a.columns[name]}
	}
	return cols
}

// AccumulateMeasurements runs the accumulator over the measurement column
// of every record, in order.
func AccumulateMeasurements(records []Record, progress Progress) ([]Column, error) {
	acc := NewMeasurementAccumulator()
	progress.StageStarted(StageMeasurements, len(records))
	for i := range records {
		if err := acc.Add(records[i].Fields[ColMeasurements]); err != nil {
			return nil, recordError(&records[i], ComponentMeasurements, ColumnNames[ColMeasurements], err)
		}
		progress.RecordDone(StageMeasurements, i+1)
	}
	progress.StageFinished(StageMeasurements)
	return acc.Columns(), nil
}
