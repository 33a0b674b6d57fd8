package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cmrexport/flatten"
)

// tableWriter is the common interface for the CSV and Parquet sinks.
type tableWriter interface {
	Write(t *flatten.Table) error
	Format() string
	Close() error
}

// newTableWriter picks the sink from the output extension: .parquet writes
// Parquet, anything else CSV.
func newTableWriter(path string) (tableWriter, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return NewParquetTableWriter(path)
	}
	return NewCSVTableWriter(path)
}

// CSVTableWriter writes the final table as CSV with a header row. Absent
// cells are written empty.
type CSVTableWriter struct {
	file  *os.File
	buf   *bufio.Writer
	csv   *csv.Writer
	count int
}

func NewCSVTableWriter(path string) (*CSVTableWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}
	buf := bufio.NewWriterSize(file, 256*1024)
	return &CSVTableWriter{file: file, buf: buf, csv: csv.NewWriter(buf)}, nil
}

func (w *CSVTableWriter) Write(t *flatten.Table) error {
	if err := w.csv.Write(t.Names()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	cols := t.Columns()
	record := make([]string, len(cols))
	for i := 0; i < t.Rows(); i++ {
		for j := range cols {
			record[j], _ = cols[j].Text(i)
		}
		if err := w.csv.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
		w.count++
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func (w *CSVTableWriter) Format() string { return "csv" }

// Count returns the number of data rows written.
func (w *CSVTableWriter) Count() int { return w.count }

func (w *CSVTableWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("flush csv file: %w", err)
	}
	return w.file.Close()
}
