package prepare

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmptyTable = errors.New("dataset has no header row")

// RawTable is the decoded tabular dataset for one request. Cell values stay
// as strings until the preparer coerces the referenced columns.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ReadCSV decodes CSV content into a RawTable. The first record is treated
// as the header row. Rows may have ragged widths; the preparer drops cells
// it cannot reach.
func ReadCSV(r io.Reader) (*RawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to decode csv content, %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	columns := make([]string, len(records[0]))
	for i, c := range records[0] {
		columns[i] = strings.TrimSpace(c)
	}
	return &RawTable{
		Columns: columns,
		Rows:    records[1:],
	}, nil
}

// ColumnIndex returns the positional index of the named column or -1 when
// the column is absent.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
