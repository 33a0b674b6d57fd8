package flatten

import (
	"fmt"
	"strings"
)

// FibrosisBase prefixes the LV fibrosis segment columns.
const FibrosisBase = "SegmentalFibrosis.LV"

// FibrosisAttributes are the six positional attributes of one segment.
// NoReflow is a scalar, the rest are ListSep-delimited lists.
var FibrosisAttributes = [...]string{"NoReflow", "Subendo", "Subepi", "Diffuse", "Patchy", "Striae"}

// FibrosisSegment is one decoded segment entry.
type FibrosisSegment struct {
	NoReflow string
	Subendo  []string
	Subepi   []string
	Diffuse  []string
	Patchy   []string
	Striae   []string
}

// ParseFibrosisSegment decodes "noreflow^^a$$b^^c^^d^^e^^f". Anything other
// than exactly six attributes is malformed.
func ParseFibrosisSegment(text string) (FibrosisSegment, error) {
	parts := strings.Split(text, AttrSep)
	if len(parts) != len(FibrosisAttributes) {
		return FibrosisSegment{}, fmt.Errorf("%w: %d attributes in %q, want %d",
			ErrMalformedField, len(parts), text, len(FibrosisAttributes))
	}
	return FibrosisSegment{
		NoReflow: parts[0],
		Subendo:  strings.Split(parts[1], ListSep),
		Subepi:   strings.Split(parts[2], ListSep),
		Diffuse:  strings.Split(parts[3], ListSep),
		Patchy:   strings.Split(parts[4], ListSep),
		Striae:   strings.Split(parts[5], ListSep),
	}, nil
}

// Values returns the six attribute cells in FibrosisAttributes order.
func (s FibrosisSegment) Values() [6]Value {
	return [6]Value{
		Scalar(s.NoReflow),
		List(s.Subendo),
		List(s.Subepi),
		List(s.Diffuse),
		List(s.Patchy),
		List(s.Striae),
	}
}

// String re-encodes the segment in the export's grammar.
func (s FibrosisSegment) String() string {
	lists := [][]string{s.Subendo, s.Subepi, s.Diffuse, s.Patchy, s.Striae}
	parts := make([]string, 0, len(FibrosisAttributes))
	parts = append(parts, s.NoReflow)
	for _, l := range lists {
		parts = append(parts, strings.Join(l, ListSep))
	}
	return strings.Join(parts, AttrSep)
}

// FibrosisColumnNames returns "<base>.<s>.<attribute>" for every segment,
// segment-major.
func FibrosisColumnNames(base string, segments int) []string {
	names := make([]string, 0, segments*len(FibrosisAttributes))
	for s := 1; s <= segments; s++ {
		for _, attr := range FibrosisAttributes {
			names = append(names, fmt.Sprintf("%s.%d.%s", base, s, attr))
		}
	}
	return names
}

// ExpandFibrosis replaces the raw per-segment columns produced by the
// mapper with six attribute columns per segment. An absent or null
// segment leaves all six attributes absent; a malformed one fails the whole expansion
// with the offending record identified.
func ExpandFibrosis(base string, segments []Column, records []Record, progress Progress) ([]Column, error) {
	names := FibrosisColumnNames(base, len(segments))
	out := make([]Column, len(names))
	for j, name := range names {
		out[j] = newTextColumn(name, len(records))
		if j%len(FibrosisAttributes) != 0 {
			out[j].ListSep = ListSep
		}
	}

	progress.StageStarted(StageFibrosis, len(records))
	for i := range records {
		for s := range segments {
			raw := segments[s].Values[i]
			if raw.IsAbsent() || raw.Str == NullMarker {
				continue
			}
			seg, err := ParseFibrosisSegment(raw.Str)
			if err != nil {
				return nil, recordError(&records[i], ComponentFibrosis, segments[s].Name, err)
			}
			for k, v := range seg.Values() {
				out[s*len(FibrosisAttributes)+k].Values[i] = v
			}
		}
		progress.RecordDone(StageFibrosis, i+1)
	}
	progress.StageFinished(StageFibrosis)
	return out, nil
}
