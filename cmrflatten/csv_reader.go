package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"cmrexport/flatten"
)

// ExportReader reads the headerless, 18-column export file one record at
// a time. Empty cells become absent fields.
type ExportReader struct {
	file   *os.File
	csv    *csv.Reader
	rowNum int
}

func NewExportReader(filepath string) (*ExportReader, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath, err)
	}

	bufReader := bufio.NewReaderSize(file, 256*1024)

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	// Width is checked per row so the error can name the record.
	reader.FieldsPerRecord = -1

	return &ExportReader{file: file, csv: reader}, nil
}

// Next returns the next record, or io.EOF when done. A row without exactly
// 18 columns is schema drift.
func (r *ExportReader) Next() (flatten.Record, error) {
	for {
		row, err := r.csv.Read()
		if err != nil {
			return flatten.Record{}, err
		}
		r.rowNum++

		// Skip empty rows
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}

		rec := flatten.Record{Row: r.rowNum, Fields: make([]*string, len(row))}
		for i, cell := range row {
			if cell != "" {
				s := strings.ToValidUTF8(cell, "\uFFFD")
				rec.Fields[i] = &s
			}
		}
		if len(row) != flatten.NumColumns {
			return flatten.Record{}, &flatten.RecordError{
				Row:             rec.Row,
				ProcedureNumber: rec.ID(),
				Component:       "export reader",
				Field:           "record",
				Err: fmt.Errorf("%w: %d columns, want %d",
					flatten.ErrSchemaDrift, len(row), flatten.NumColumns),
			}
		}
		return rec, nil
	}
}

// ReadAll reads every remaining record. The whole export is materialized
// before flattening starts.
func (r *ExportReader) ReadAll() ([]flatten.Record, error) {
	var records []flatten.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", r.rowNum, err)
		}
		records = append(records, rec)
	}
}

// RowNum returns the current CSV row number (1-based).
func (r *ExportReader) RowNum() int {
	return r.rowNum
}

func (r *ExportReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
