package prepare

import "fmt"

// SchemaError indicates the request referenced a column or frequency label
// the dataset does not provide. It aborts the whole request.
type SchemaError struct {
	Msg string
}

func (e *SchemaError) Error() string {
	return e.Msg
}

func newMissingColumnError(name string) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf("column %q not found in dataset", name)}
}

func newUnknownFrequencyError(label string) *SchemaError {
	return &SchemaError{Msg: fmt.Sprintf("unknown frequency label %q", label)}
}

// FormatError indicates the date column could not be parsed into timestamps.
// It aborts the whole request.
type FormatError struct {
	Column string
	Value  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unable to parse date column %q value %q", e.Column, e.Value)
}

// DataError indicates the prepared series cannot support the requested
// forecast, either because the history is too short or the horizon exceeds
// the available length. It aborts the whole request.
type DataError struct {
	Msg string
}

func (e *DataError) Error() string {
	return e.Msg
}
