package flatten

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		text  *string
		delim string
		want  []string
	}{
		{"absent", nil, FieldSep, nil},
		{"empty", Str(""), FieldSep, []string{""}},
		{"single", Str("a"), FieldSep, []string{"a"}},
		{"several", Str("a||b||c"), FieldSep, []string{"a", "b", "c"}},
		{"keeps empty parts", Str("a||||c"), FieldSep, []string{"a", "", "c"}},
		{"no trimming", Str(" a ^^ b"), AttrSep, []string{" a ", " b"}},
		{"single pipe is data", Str("a|b||c"), FieldSep, []string{"a|b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.text, tt.delim))
		})
	}
}

func TestSegmentNames(t *testing.T) {
	names := SegmentNames("SegmentalFunction.LV", LVSegments)
	require.Len(t, names, 17)
	assert.Equal(t, "SegmentalFunction.LV.1", names[0])
	assert.Equal(t, "SegmentalFunction.LV.17", names[16])
}

func TestMapColumn(t *testing.T) {
	records := []Record{
		{Row: 1, Fields: []*string{Str("100"), Str("a||b||c")}},
		{Row: 2, Fields: []*string{Str("101"), nil}},
		{Row: 3, Fields: []*string{Str("102"), Str("x")}},
	}

	cols, err := MapColumn(records, 1, FieldSep, []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, "A", cols[0].Name)
	assert.Equal(t, []string{"a", "<nil>", "x"}, texts(&cols[0]))
	assert.Equal(t, []string{"b", "<nil>", "<nil>"}, texts(&cols[1]))
	assert.Equal(t, []string{"c", "<nil>", "<nil>"}, texts(&cols[2]))
}

func TestMapColumnExtraPartsIsSchemaDrift(t *testing.T) {
	records := []Record{
		{Row: 1, Fields: []*string{Str("100"), Str("a||b")}},
		{Row: 2, Fields: []*string{Str("101"), Str("a||b||c")}},
	}

	_, err := MapColumn(records, ColProcedure, FieldSep, []string{"A", "B"})
	require.ErrorIs(t, err, ErrSchemaDrift)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 2, recErr.Row)
	assert.Equal(t, "101", recErr.ProcedureNumber)
	assert.Equal(t, ComponentMapper, recErr.Component)
	assert.Equal(t, "DataExport.Procedure", recErr.Field)
	assert.Contains(t, err.Error(), "Procedure.Number 101")
}

func TestMapColumnRoundTrip(t *testing.T) {
	raw := "F||CMR||2021-03-04 09:00||OP||2021-03-01 12:00||Good||Sinus"
	records := []Record{{Row: 1, Fields: []*string{Str("1"), Str(raw)}}}

	cols, err := ProcedureField.Map(records)
	require.NoError(t, err)
	require.Len(t, cols, len(ProcedureNames))

	parts := make([]string, len(cols))
	for j := range cols {
		s, ok := cols[j].Text(0)
		require.True(t, ok)
		parts[j] = s
	}
	assert.Equal(t, raw, strings.Join(parts, FieldSep))
}
