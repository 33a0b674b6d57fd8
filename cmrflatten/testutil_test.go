package main

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cmrexport/flatten"
)

// testContext stands in for testing.T.Context (Go 1.24+): the context is
// cancelled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func repeatField(v string, k int) string {
	parts := make([]string, k)
	for i := range parts {
		parts[i] = v
	}
	return strings.Join(parts, flatten.FieldSep)
}

// exportRow returns a well-formed 18-cell export row. Overrides replace
// individual cells; an empty override makes the cell absent.
func exportRow(id string, overrides map[int]string) []string {
	row := []string{
		id,
		"F||CMR||2021-03-04 09:00||OP||2021-03-01 12:00||Good||Sinus",
		"P1||R1||MRN1||F||1960-01-01",
		"EXAM-1",
		"Final||Dr A||Dr B||Normal study",
		"Chest pain",
		"Stress perfusion",
		"SSFP||LGE",
		"LVEF^^61^^%||LVEDV^^140^^mL",
		"LGE||Normal LV size",
		repeatField("N", flatten.LVSegments),
		repeatField("N", flatten.RVSegments),
		repeatField("0^^1$$2^^^^^^^^", flatten.LVSegments),
		repeatField("0", flatten.RVSegments),
		repeatField("0", flatten.RVInsertionSegments),
		repeatField("0", flatten.LVSegments),
		repeatField("0", flatten.LVSegments),
		repeatField("0", flatten.RVSegments),
	}
	for col, v := range overrides {
		row[col] = v
	}
	return row
}

// writeExportCSV writes rows as a headerless CSV in a temp dir.
func writeExportCSV(t *testing.T, rows ...[]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")

	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
	require.NoError(t, f.Close())
	return path
}

// flattenRows builds the final table for rows without touching disk.
func flattenRows(t *testing.T, rows ...[]string) *flatten.Table {
	t.Helper()
	reader, err := NewExportReader(writeExportCSV(t, rows...))
	require.NoError(t, err)
	defer reader.Close()

	records, err := reader.ReadAll()
	require.NoError(t, err)
	tbl, err := flatten.New().Flatten(testContext(t), records)
	require.NoError(t, err)
	return tbl
}
