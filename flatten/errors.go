package flatten

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedField is returned when a present compound field does not
	// follow its delimiter grammar.
	ErrMalformedField = errors.New("malformed compound field")
	// ErrSchemaDrift is returned when a record or compound field has more
	// parts than the declared schema.
	ErrSchemaDrift = errors.New("schema drift")
	// ErrMisaligned is returned when a column group does not have one entry
	// per record.
	ErrMisaligned = errors.New("column misaligned with record index")
	// ErrDuplicateColumn is returned when two column groups produce the
	// same output name.
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Component names used in RecordError.
const (
	ComponentShape        = "shape check"
	ComponentMapper       = "schema mapper"
	ComponentFibrosis     = "fibrosis expander"
	ComponentMeasurements = "measurement accumulator"
)

// RecordError ties a failure to the record and component that detected it.
type RecordError struct {
	Row             int    // 1-based input row
	ProcedureNumber string // empty if the identifier itself is absent
	Component       string
	Field           string
	Err             error
}

func (e *RecordError) Error() string {
	id := e.ProcedureNumber
	if id == "" {
		id = "<absent>"
	}
	return fmt.Sprintf("%s: row %d (Procedure.Number %s), %s: %v",
		e.Component, e.Row, id, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

func recordError(rec *Record, component, field string, err error) error {
	return &RecordError{
		Row:             rec.Row,
		ProcedureNumber: rec.ID(),
		Component:       component,
		Field:           field,
		Err:             err,
	}
}
