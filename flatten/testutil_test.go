package flatten

import (
	"strings"
	"testing"
)

// segment builds a well-formed fibrosis segment entry.
func segment(noReflow string, lists ...string) string {
	return strings.Join(append([]string{noReflow}, lists...), AttrSep)
}

// segmentArray joins k copies of seg with FieldSep.
func segmentArray(seg string, k int) string {
	parts := make([]string, k)
	for i := range parts {
		parts[i] = seg
	}
	return strings.Join(parts, FieldSep)
}

// exportRecord returns a fully populated, well-formed record. Overrides
// replace individual columns; a nil override makes the cell absent.
func exportRecord(t *testing.T, row int, id string, overrides map[int]*string) Record {
	t.Helper()

	fields := []*string{
		Str(id),
		Str("F||CMR||2021-03-04 09:00||OP||2021-03-01 12:00||Good||Sinus"),
		Str("P1||R1||MRN1||F||1960-01-01"),
		Str("EXAM-1"),
		Str("Final||Dr A||Dr B||Normal study"),
		Str("Chest pain"),
		Str("Stress perfusion"),
		Str("SSFP||LGE"),
		Str("LVEF^^61^^%||LVEDV^^140^^mL"),
		Str("LGE||Normal LV size"),
		Str(segmentArray("N", LVSegments)),
		Str(segmentArray("N", RVSegments)),
		Str(segmentArray(segment("0", "", "", "", "", ""), LVSegments)),
		Str(segmentArray("0", RVSegments)),
		Str(segmentArray("0", RVInsertionSegments)),
		Str(segmentArray("0", LVSegments)),
		Str(segmentArray("0", LVSegments)),
		Str(segmentArray("0", RVSegments)),
	}
	for col, v := range overrides {
		fields[col] = v
	}
	return Record{Row: row, Fields: fields}
}

// measurementRecords wraps raw measurement texts into records.
func measurementRecords(texts ...*string) []Record {
	records := make([]Record, len(texts))
	for i, text := range texts {
		fields := make([]*string, NumColumns)
		fields[ColProcedureNumber] = Str(strings.Repeat("9", i+1))
		fields[ColMeasurements] = text
		records[i] = Record{Row: i + 1, Fields: fields}
	}
	return records
}

// texts renders a column for comparison; absent cells render as "<nil>".
func texts(c *Column) []string {
	out := make([]string, len(c.Values))
	for i := range c.Values {
		if s, ok := c.Text(i); ok {
			out[i] = s
		} else {
			out[i] = "<nil>"
		}
	}
	return out
}
