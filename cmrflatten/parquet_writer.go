package main

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"cmrexport/flatten"
)

const parquetBatchSize = 10_000

// ParquetTableWriter writes the final table to a Parquet file. The schema
// is only known once the measurement and finding columns have been
// discovered, so it is built from the table rather than a struct.
//
// Text columns are optional byte arrays (absent → null); indicator columns
// are required booleans. Parquet groups order their fields by name, so the
// file's physical column order is alphabetical; the CSV keeps output order.
type ParquetTableWriter struct {
	file  *os.File
	count int
}

func NewParquetTableWriter(path string) (*ParquetTableWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}
	return &ParquetTableWriter{file: file}, nil
}

// tableSchema builds the Parquet schema for t.
func tableSchema(t *flatten.Table) *parquet.Schema {
	group := make(parquet.Group, t.NumColumns())
	for _, c := range t.Columns() {
		if c.Type == flatten.BoolColumn {
			group[c.Name] = parquet.Leaf(parquet.BooleanType)
		} else {
			group[c.Name] = parquet.Optional(parquet.String())
		}
	}
	return parquet.NewSchema("cmr_export", group)
}

func (w *ParquetTableWriter) Write(t *flatten.Table) error {
	schema := tableSchema(t)
	cols := t.Columns()

	leaf := make([]int, len(cols))
	for j := range cols {
		lc, ok := schema.Lookup(cols[j].Name)
		if !ok {
			return fmt.Errorf("column %q missing from parquet schema", cols[j].Name)
		}
		leaf[j] = lc.ColumnIndex
	}

	writer := parquet.NewWriter(w.file, schema,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.PageBufferSize(8*1024),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("cmrexport", "1.0", ""),
	)

	batch := make([]parquet.Row, 0, parquetBatchSize)
	for i := 0; i < t.Rows(); i++ {
		row := make(parquet.Row, len(cols))
		for j := range cols {
			row[leaf[j]] = parquetValue(&cols[j], i, leaf[j])
		}
		batch = append(batch, row)

		if len(batch) == parquetBatchSize {
			if _, err := writer.WriteRows(batch); err != nil {
				return fmt.Errorf("write parquet rows: %w", err)
			}
			w.count += len(batch)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := writer.WriteRows(batch); err != nil {
			return fmt.Errorf("write final parquet rows: %w", err)
		}
		w.count += len(batch)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

func parquetValue(c *flatten.Column, i, columnIndex int) parquet.Value {
	if c.Type == flatten.BoolColumn {
		return parquet.BooleanValue(c.Values[i].Bool).Level(0, 0, columnIndex)
	}
	if s, ok := c.Text(i); ok {
		return parquet.ByteArrayValue([]byte(s)).Level(0, 1, columnIndex)
	}
	return parquet.Value{}.Level(0, 0, columnIndex)
}

func (w *ParquetTableWriter) Format() string { return "parquet" }

// Count returns the total number of rows written.
func (w *ParquetTableWriter) Count() int { return w.count }

func (w *ParquetTableWriter) Close() error {
	return w.file.Close()
}
