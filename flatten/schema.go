package flatten

import "fmt"

// Input column positions. The export has no header, so position is the
// only key.
const (
	ColProcedureNumber = iota
	ColProcedure
	ColPatient
	ColExams
	ColDiagnosticReport
	ColIndications
	ColProtocols
	ColSequences
	ColMeasurements
	ColFindings
	ColSegmentalFunctionLV
	ColSegmentalFunctionRV
	ColSegmentalFibrosisLV
	ColSegmentalFibrosisRV
	ColRVInsertionFibrosis
	ColSegmentalStressLV
	ColSegmentalEdemaLV
	ColSegmentalEdemaRV

	NumColumns
)

// ColumnNames are the names of the 18 input columns, kept verbatim in the
// output.
var ColumnNames = [NumColumns]string{
	"Procedure.Number",
	"DataExport.Procedure",
	"DataExport.Patient",
	"DataExport.Exams",
	"DataExport.DiagnosticReport",
	"Indications",
	"Protocols",
	"Sequences",
	"DataExport.Measurements",
	"Findings",
	"SegmentalFunctionCode.LV",
	"SegmentalFunctionCode.RV",
	"DataExport.SegmentalFibrosis.LV",
	"SegmentalFibrosisPresence.RV",
	"DataExport.RVInsertionFibrosis",
	"DataExport.SegmentalStress.LV",
	"SegmentalEdemaPresence.LV",
	"SegmentalEdemaPresence.RV",
}

// Segment counts per anatomical structure.
const (
	LVSegments          = 17
	RVSegments          = 12
	RVInsertionSegments = 4
)

var (
	ProcedureNames = []string{
		"Procedure.StatusCode",
		"Procedure.StudyTypeCode",
		"Procedure.ScheduledDateTime",
		"Encounter.PatientTypeCode",
		"Procedure.CreatedDateTime",
		"Procedure.ImageQuality",
		"Procedure.HeartRhythm",
	}
	PatientNames = []string{
		"PatientFile.ID",
		"PatientFile.ReferenceID",
		"PatientFile.Identifier",
		"PatientRecord.BirthSex",
		"PatientRecord.DOB",
	}
	DiagnosticReportNames = []string{
		"DiagnosticReport.StatusCode",
		"DiagnosticReport.PrimaryReader",
		"DiagnosticReport.AssistingReaders",
		"DiagnosticReport.OverallImpressions",
	}
)

// Record is one row of the export.
type Record struct {
	Row    int       // 1-based position in the input
	Fields []*string // nil entries are absent cells
}

// ID returns the record's Procedure.Number, or "" if it is absent.
func (r *Record) ID() string {
	if len(r.Fields) > ColProcedureNumber && r.Fields[ColProcedureNumber] != nil {
		return *r.Fields[ColProcedureNumber]
	}
	return ""
}

// CompoundField describes how one input column splits into named
// sub-columns.
type CompoundField struct {
	Source int
	Names  []string
}

// SegmentNames generates "<prefix>.1" .. "<prefix>.<k>".
func SegmentNames(prefix string, k int) []string {
	names := make([]string, k)
	for s := 1; s <= k; s++ {
		names[s-1] = fmt.Sprintf("%s.%d", prefix, s)
	}
	return names
}

// Compound fields in output order. The LV fibrosis array is mapped like the
// others but is replaced by its expansion.
var (
	ProcedureField           = CompoundField{ColProcedure, ProcedureNames}
	PatientField             = CompoundField{ColPatient, PatientNames}
	DiagnosticReportField    = CompoundField{ColDiagnosticReport, DiagnosticReportNames}
	SegmentalFunctionLV      = CompoundField{ColSegmentalFunctionLV, SegmentNames("SegmentalFunction.LV", LVSegments)}
	SegmentalFunctionRV      = CompoundField{ColSegmentalFunctionRV, SegmentNames("SegmentalFunction.RV", RVSegments)}
	SegmentalFibrosisLV      = CompoundField{ColSegmentalFibrosisLV, SegmentNames(FibrosisBase, LVSegments)}
	SegmentalFibrosisRV      = CompoundField{ColSegmentalFibrosisRV, SegmentNames("SegmentalFibrosis.RV", RVSegments)}
	RVInsertionFibrosis      = CompoundField{ColRVInsertionFibrosis, SegmentNames("RVInsertionFibrosis", RVInsertionSegments)}
	SegmentalStressLV        = CompoundField{ColSegmentalStressLV, SegmentNames("SegmentalStress.LV", LVSegments)}
	SegmentalEdemaPresenceLV = CompoundField{ColSegmentalEdemaLV, SegmentNames("SegmentalEdemaPresence.LV", LVSegments)}
	SegmentalEdemaPresenceRV = CompoundField{ColSegmentalEdemaRV, SegmentNames("SegmentalEdemaPresence.RV", RVSegments)}
)

// MapColumn splits column col of every record on delim and names the parts
// positionally. An absent field leaves every sub-column absent; a field
// with fewer parts than names is padded with absent; a field with more
// parts is schema drift.
func MapColumn(records []Record, col int, delim string, names []string) ([]Column, error) {
	cols := make([]Column, len(names))
	for j, name := range names {
		cols[j] = newTextColumn(name, len(records))
	}
	for i := range records {
		rec := &records[i]
		parts := Split(rec.Fields[col], delim)
		if len(parts) > len(names) {
			return nil, recordError(rec, ComponentMapper, ColumnNames[col],
				fmt.Errorf("%w: %d parts, want %d", ErrSchemaDrift, len(parts), len(names)))
		}
		for j, p := range parts {
			cols[j].Values[i] = Scalar(p)
		}
	}
	return cols, nil
}

// Map applies MapColumn with the top-level delimiter.
func (cf CompoundField) Map(records []Record) ([]Column, error) {
	return MapColumn(records, cf.Source, FieldSep, cf.Names)
}
