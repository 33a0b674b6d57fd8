package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueRender(t *testing.T) {
	tests := []struct {
		name    string
		value   Value
		sep     string
		want    string
		present bool
	}{
		{"absent", Absent(), "", "", false},
		{"scalar", Scalar("61"), "", "61", true},
		{"empty scalar", Scalar(""), "", "", true},
		{"list", List([]string{"1", "2"}), ListSep, "1$$2", true},
		{"true", Bool(true), "", "True", true},
		{"false", Bool(false), "", "False", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Render(tt.sep)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.present, ok)
		})
	}
}

func TestTableAppendChecksAlignment(t *testing.T) {
	tbl := NewTable(2)
	require.NoError(t, tbl.Append("a", newTextColumn("x", 2)))

	err := tbl.Append("b", newTextColumn("y", 2), newTextColumn("z", 3))
	require.ErrorIs(t, err, ErrMisaligned)
	assert.Contains(t, err.Error(), `column "z" has 3 rows, want 2`)
	assert.Equal(t, 1, tbl.NumColumns(), "a rejected group adds nothing")
}

func TestTableAppendRejectsDuplicates(t *testing.T) {
	tbl := NewTable(1)
	require.NoError(t, tbl.Append("a", newTextColumn("x", 1)))

	assert.ErrorIs(t, tbl.Append("b", newTextColumn("x", 1)), ErrDuplicateColumn)
	assert.ErrorIs(t, tbl.Append("c", newTextColumn("y", 1), newTextColumn("y", 1)), ErrDuplicateColumn)
	assert.Equal(t, []string{"x"}, tbl.Names())
}

func TestTableNormalizeNulls(t *testing.T) {
	scalar := Column{Name: "s", Values: []Value{Scalar("null"), Scalar("nullable"), Absent()}}
	list := Column{Name: "l", ListSep: AttrSep, Values: []Value{List([]string{"null"}), List([]string{"null", "mm"}), Scalar("1")}}
	flags := Column{Name: "null", Type: BoolColumn, Values: []Value{Bool(true), Bool(false), Bool(false)}}

	tbl := NewTable(3)
	require.NoError(t, tbl.Append("g", scalar, list, flags))

	assert.Equal(t, 2, tbl.NormalizeNulls(NullMarker))

	s, _ := tbl.Column("s")
	assert.Equal(t, []string{"<nil>", "nullable", "<nil>"}, texts(s))
	l, _ := tbl.Column("l")
	assert.Equal(t, []string{"<nil>", "null^^mm", "1"}, texts(l))
	f, _ := tbl.Column("null")
	assert.Equal(t, []string{"True", "False", "False"}, texts(f))
}
