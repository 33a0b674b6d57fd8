// Package flatten turns cardiac MR export records, whose compound columns
// carry "||", "^^" and "$$" delimited sub-records, into one wide table with
// a column per atomic field.
//
// Every column group is built as a slice indexed by record position and is
// checked against the record count when it is appended to the table, so a
// group that drops or duplicates a row fails instead of shifting the rows
// that follow it.
package flatten

import (
	"context"
	"fmt"
)

// Flattener composes the splitter, mapper, fibrosis expander, measurement
// accumulator and indicator encoder into the final table.
type Flattener struct {
	progress Progress
}

type Option func(*Flattener)

// WithProgress reports per-record progress to p.
func WithProgress(p Progress) Option {
	return func(f *Flattener) { f.progress = p }
}

func New(opts ...Option) *Flattener {
	f := &Flattener{progress: NopProgress{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// compound fields split before the measurement and findings groups, and
// after them, in output order.
var (
	leadingFields  = []CompoundField{ProcedureField, PatientField, DiagnosticReportField}
	trailingFields = []CompoundField{
		SegmentalFunctionLV,
		SegmentalFunctionRV,
		SegmentalFibrosisLV,
		SegmentalFibrosisRV,
		RVInsertionFibrosis,
		SegmentalStressLV,
		SegmentalEdemaPresenceLV,
		SegmentalEdemaPresenceRV,
	}
)

// CheckShape fails on the first record without exactly NumColumns fields.
func CheckShape(records []Record) error {
	for i := range records {
		if n := len(records[i].Fields); n != NumColumns {
			return recordError(&records[i], ComponentShape, "record",
				fmt.Errorf("%w: %d columns, want %d", ErrSchemaDrift, n, NumColumns))
		}
	}
	return nil
}

// Flatten builds the final table. The output has one row per record, in
// input order. Any malformed or drifting record aborts the whole run.
func (f *Flattener) Flatten(ctx context.Context, records []Record) (*Table, error) {
	if err := CheckShape(records); err != nil {
		return nil, err
	}

	// Split every compound column up front so schema drift anywhere fails
	// before the expensive stages run.
	f.progress.StageStarted(StageMap, len(leadingFields)+len(trailingFields))
	mapped := make(map[int][]Column)
	for n, cf := range append(append([]CompoundField{}, leadingFields...), trailingFields...) {
		cols, err := cf.Map(records)
		if err != nil {
			return nil, err
		}
		mapped[cf.Source] = cols
		f.progress.RecordDone(StageMap, n+1)
	}
	f.progress.StageFinished(StageMap)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fibrosis, err := ExpandFibrosis(FibrosisBase, mapped[ColSegmentalFibrosisLV], records, f.progress)
	if err != nil {
		return nil, err
	}
	// The raw segments are superseded by their expansion.
	mapped[ColSegmentalFibrosisLV] = fibrosis

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	measurements, err := AccumulateMeasurements(records, f.progress)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	findings := EncodeIndicators(SplitLabels(records, ColFindings), f.progress)

	// Measurement names and finding labels come from the data and may
	// repeat a fixed column name or each other.
	taken := fixedNames(mapped)
	qualifyTaken(ColumnNames[ColMeasurements], measurements, taken)
	qualifyTaken(ColumnNames[ColFindings], findings, taken)

	t := NewTable(len(records))
	if err := t.Append("input", originalColumns(records)...); err != nil {
		return nil, err
	}
	for _, cf := range leadingFields {
		if err := t.Append(ColumnNames[cf.Source], mapped[cf.Source]...); err != nil {
			return nil, err
		}
	}
	if err := t.Append(ColumnNames[ColMeasurements], measurements...); err != nil {
		return nil, err
	}
	if err := t.Append(ColumnNames[ColFindings], findings...); err != nil {
		return nil, err
	}
	for _, cf := range trailingFields {
		if err := t.Append(ColumnNames[cf.Source], mapped[cf.Source]...); err != nil {
			return nil, err
		}
	}

	t.NormalizeNulls(NullMarker)
	return t, nil
}

func originalColumns(records []Record) []Column {
	cols := make([]Column, NumColumns)
	for j := range cols {
		cols[j] = newTextColumn(ColumnNames[j], len(records))
		for i := range records {
			cols[j].Values[i] = FromField(records[i].Fields[j])
		}
	}
	return cols
}

// fixedNames returns every column name that does not depend on the data.
func fixedNames(mapped map[int][]Column) map[string]struct{} {
	taken := make(map[string]struct{})
	for _, name := range ColumnNames {
		taken[name] = struct{}{}
	}
	for _, cols := range mapped {
		for _, c := range cols {
			taken[c.Name] = struct{}{}
		}
	}
	return taken
}

// qualifyTaken renames every column whose name is already taken to
// "<group>.<name>", adding ".2", ".3", ... while that is taken too, and
// marks the final names as taken. Names are claimed in column order.
func qualifyTaken(group string, cols []Column, taken map[string]struct{}) {
	for j := range cols {
		name := cols[j].Name
		if _, ok := taken[name]; ok {
			qualified := group + "." + name
			name = qualified
			for n := 2; ; n++ {
				if _, ok := taken[name]; !ok {
					break
				}
				name = fmt.Sprintf("%s.%d", qualified, n)
			}
			cols[j].Name = name
		}
		taken[name] = struct{}{}
	}
}
