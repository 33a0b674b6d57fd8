package flatten

import "strings"

// Delimiters of the export's private sub-record grammar.
const (
	// FieldSep separates sub-fields of a compound field, segments of a
	// per-segment array, measurement entries and finding labels.
	FieldSep = "||"
	// AttrSep separates the attributes of one fibrosis segment and the
	// name/value tuple of one measurement.
	AttrSep = "^^"
	// ListSep separates list values inside one fibrosis attribute.
	ListSep = "$$"

	// NullMarker is the literal the export writes for a missing value.
	NullMarker = "null"
)

// Split splits text on delim. An absent field yields an empty sequence;
// a present empty string yields one empty part. No trimming is done.
func Split(text *string, delim string) []string {
	if text == nil {
		return nil
	}
	return strings.Split(*text, delim)
}

// Str returns a pointer to s, for building fields in code and tests.
func Str(s string) *string { return &s }
