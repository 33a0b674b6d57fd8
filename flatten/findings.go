package flatten

import "sort"

// SplitLabels splits column col of every record into its label list. An
// absent field yields a nil list.
func SplitLabels(records []Record, col int) [][]string {
	lists := make([][]string, len(records))
	for i := range records {
		lists[i] = Split(records[i].Fields[col], FieldSep)
	}
	return lists
}

func isLabel(s string) bool { return s != "" && s != NullMarker }

// EncodeIndicators returns one boolean column per distinct label across
// all lists, sorted by label. A cell is true iff that record's list holds
// the label. The label set has to be complete before any row is filled,
// so this takes two passes over the input.
func EncodeIndicators(lists [][]string, progress Progress) []Column {
	set := make(map[string]struct{})
	for _, l := range lists {
		for _, label := range l {
			if isLabel(label) {
				set[label] = struct{}{}
			}
		}
	}
	labels := make([]string, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	pos := make(map[string]int, len(labels))
	cols := make([]Column, len(labels))
	for j, label := range labels {
		pos[label] = j
		cols[j] = Column{Name: label, Type: BoolColumn, Values: make([]Value, len(lists))}
		for i := range cols[j].Values {
			cols[j].Values[i] = Bool(false)
		}
	}

	progress.StageStarted(StageFindings, len(lists))
	for i, l := range lists {
		for _, label := range l {
			if j, ok := pos[label]; ok {
				cols[j].Values[i] = Bool(true)
			}
		}
		progress.RecordDone(StageFindings, i+1)
	}
	progress.StageFinished(StageFindings)
	return cols
}
