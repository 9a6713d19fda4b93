// Package results turns parallel per probeset vectors read from the
// interpreter into rows, and filters, sorts and summarizes them. Nothing is
// cached; every call recomputes from its input.
package results

import (
	"math"

	"github.com/pkg/errors"
)

// ErrLengthMismatch is returned when parallel vectors differ in length.
var ErrLengthMismatch = errors.New("vector lengths differ")

// ProbesetRow is one probeset with one value per extracted column.
type ProbesetRow struct {
	id     string
	values []float64
	index  int
}

// NewProbesetRow returns a row. values is copied.
func NewProbesetRow(id string, index int, values ...float64) ProbesetRow {
	return ProbesetRow{id: id, index: index, values: append([]float64{}, values...)}
}

// ID returns the probeset identifier.
func (r ProbesetRow) ID() string {
	return r.id
}

// Index returns the position of the probeset in the experiment.
func (r ProbesetRow) Index() int {
	return r.index
}

// Values returns a copy of the row's values.
func (r ProbesetRow) Values() []float64 {
	return append([]float64{}, r.values...)
}

// Value returns column i, or NaN when the row has no such column.
func (r ProbesetRow) Value(i int) float64 {
	if i < 0 || i >= len(r.values) {
		return math.NaN()
	}
	return r.values[i]
}

// Len returns the number of values.
func (r ProbesetRow) Len() int {
	return len(r.values)
}

// Extract transposes columns into rows: row i holds ids[i] and the i-th
// element of every column. All columns must be as long as ids.
func Extract(ids []string, columns ...[]float64) ([]ProbesetRow, error) {
	for c, column := range columns {
		if len(column) != len(ids) {
			return nil, errors.Wrapf(ErrLengthMismatch, "column %d has %d values for %d probesets", c, len(column), len(ids))
		}
	}

	rows := make([]ProbesetRow, len(ids))
	for i, id := range ids {
		values := make([]float64, len(columns))
		for c, column := range columns {
			values[c] = column[i]
		}
		rows[i] = ProbesetRow{id: id, values: values, index: i}
	}
	return rows, nil
}
